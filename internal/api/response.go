package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shaiso/Cloudlet/internal/repo"
)

// ErrorCode — код ошибки API.
type ErrorCode string

const (
	ErrCodeBadRequest     ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeConflict       ErrorCode = "CONFLICT"
	ErrCodeInvalidState   ErrorCode = "INVALID_STATE"
	ErrCodeInternalError  ErrorCode = "INTERNAL_ERROR"
	ErrCodeMethodNotAllow ErrorCode = "METHOD_NOT_ALLOWED"

	ErrCodeUnknownOperation ErrorCode = "UNKNOWN_OPERATION"
	ErrCodeValidation       ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidToken     ErrorCode = "INVALID_TOKEN"
)

// Заголовки запроса.
const (
	// HeaderRequestID — идентификатор запроса, возвращается в ответе.
	HeaderRequestID = "X-Request-Id"

	// HeaderRegion — регион клиента, попадает в ARN ресурсов.
	HeaderRegion = "X-Cloudlet-Region"
)

// ErrorResponse — структура ответа с ошибкой.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail — детали ошибки.
type ErrorDetail struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
}

// DataResponse — структура успешного ответа.
type DataResponse struct {
	Data any `json:"data"`
}

// ListResponse — структура ответа со списком.
type ListResponse struct {
	Data  any `json:"data"`
	Total int `json:"total,omitempty"`
}

// JSON отправляет JSON ответ.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Success отправляет успешный ответ с данными.
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, DataResponse{Data: data})
}

// List отправляет ответ со списком.
func List(w http.ResponseWriter, data any, total int) {
	JSON(w, http.StatusOK, ListResponse{Data: data, Total: total})
}

// Error отправляет ответ с ошибкой.
// request_id берётся из заголовка ответа, выставленного RequestID middleware.
func Error(w http.ResponseWriter, status int, code ErrorCode, message string) {
	JSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			RequestID: w.Header().Get(HeaderRequestID),
		},
	})
}

// BadRequest отправляет ошибку 400.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// InternalError отправляет ошибку 500.
func InternalError(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Error("internal error", "error", err)
	Error(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}

// MethodNotAllowed отправляет ошибку 405.
func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow, "method not allowed")
}

// DescribeError превращает ошибку Dispatcher'а в код, сообщение и статус.
// Внутренние ошибки не раскрываются клиенту.
func DescribeError(err error) (int, ErrorDetail) {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Status, ErrorDetail{Code: opErr.Code, Message: opErr.Message}
	}
	if errors.Is(err, repo.ErrNotFound) {
		return http.StatusNotFound, ErrorDetail{Code: ErrCodeNotFound, Message: "resource not found"}
	}
	return http.StatusInternalServerError, ErrorDetail{Code: ErrCodeInternalError, Message: "internal server error"}
}

// HandleOpError преобразует ошибку операции в HTTP ответ.
func HandleOpError(w http.ResponseWriter, logger *slog.Logger, err error) bool {
	if err == nil {
		return false
	}

	status, detail := DescribeError(err)
	if status >= http.StatusInternalServerError {
		InternalError(w, logger, err)
		return true
	}
	Error(w, status, detail.Code, detail.Message)
	return true
}
