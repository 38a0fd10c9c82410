package mq

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shaiso/Cloudlet/internal/invoke"
	"github.com/shaiso/Cloudlet/internal/telemetry"
)

// RPCRequest — запрос операции, переданный через брокер.
type RPCRequest struct {
	Service   string          `json:"service"`
	Action    string          `json:"action"`
	Region    string          `json:"region,omitempty"`
	RequestID string          `json:"request_id"`
	Body      json.RawMessage `json:"body"`
}

// RPCReply — ответ на RPCRequest. Заполнено ровно одно из полей.
type RPCReply struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error *RPCError       `json:"error,omitempty"`
}

// RPCError — отказ сервиса в ответе.
type RPCError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// NewRequest кодирует запрос операции.
func NewRequest(call invoke.Call, req any, region string) (RPCRequest, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return RPCRequest{}, fmt.Errorf("marshal request: %w", err)
	}
	return RPCRequest{
		Service:   call.Service,
		Action:    call.Action,
		Region:    region,
		RequestID: uuid.NewString(),
		Body:      body,
	}, nil
}

// DataReply упаковывает успешный результат.
func DataReply(result any) (RPCReply, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return RPCReply{}, fmt.Errorf("marshal reply: %w", err)
	}
	return RPCReply{Data: data}, nil
}

// ErrorReply упаковывает отказ.
func ErrorReply(status int, code, message, requestID string) RPCReply {
	return RPCReply{Error: &RPCError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: requestID,
	}}
}

// Decode раскладывает ответ в resp. Отказ сервиса возвращается как
// *invoke.ServiceError.
func (r RPCReply) Decode(resp any) error {
	if r.Error != nil {
		return &invoke.ServiceError{
			Code:       r.Error.Code,
			Message:    r.Error.Message,
			StatusCode: r.Error.Status,
			RequestID:  r.Error.RequestID,
		}
	}
	if resp == nil || len(r.Data) == 0 || string(r.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Data, resp); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	return nil
}

// outcome — исход ответа для метрик.
func (r RPCReply) outcome() string {
	switch {
	case r.Error == nil:
		return telemetry.OutcomeSuccess
	case r.Error.Status >= http.StatusInternalServerError:
		return telemetry.OutcomeError
	default:
		return telemetry.OutcomeRejected
	}
}
