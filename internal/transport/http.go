package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Cloudlet/internal/invoke"
)

// Заголовки запроса.
const (
	HeaderRequestID = "X-Request-Id"
	HeaderRegion    = "X-Cloudlet-Region"
)

// DefaultTimeout — таймаут одного HTTP-вызова.
const DefaultTimeout = 30 * time.Second

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

// HTTPConfig — параметры HTTPClient.
type HTTPConfig struct {
	// Endpoint — базовый URL backend'а ("http://localhost:8080").
	Endpoint string

	// Region — регион, передаётся в заголовке и в диагностике.
	Region string

	// Timeout — таймаут вызова. 0 — DefaultTimeout.
	Timeout time.Duration

	// Logger — логгер отладочных сообщений.
	Logger *slog.Logger
}

// HTTPClient — HTTP-клиент backend'а облачных сервисов.
type HTTPClient struct {
	endpoint   string
	region     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient создаёт клиент.
func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		region:   cfg.Region,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Endpoint возвращает базовый URL.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

// Invoke отправляет запрос операции и декодирует ответ в resp.
func (c *HTTPClient) Invoke(ctx context.Context, call invoke.Call, req, resp any) error {
	target := invoke.Target{
		Endpoint: c.endpoint,
		Region:   c.region,
		Service:  call.Service,
		Action:   call.Action,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.endpoint + "/api/v1/" + call.Service + "/" + call.Action
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(HeaderRequestID, requestID)
	if c.region != "" {
		httpReq.Header.Set(HeaderRegion, c.region)
	}

	c.logger.Debug("dispatching request",
		"endpoint", c.endpoint,
		"region", c.region,
		"service", call.Service,
		"action", call.Action,
		"request_id", requestID,
	)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return invoke.DiagnoseTransport(err, target)
	}
	defer httpResp.Body.Close()

	if err := checkError(httpResp); err != nil {
		return err
	}
	if httpResp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if resp == nil || len(dr.Data) == 0 || string(dr.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(dr.Data, resp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", call.Action, err)
	}
	return nil
}

// checkError превращает ответ 4xx/5xx в *invoke.ServiceError.
func checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	serviceErr := &invoke.ServiceError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get(HeaderRequestID),
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var er errorResponse
	if err := json.Unmarshal(data, &er); err != nil || er.Error.Code == "" {
		serviceErr.Code = fmt.Sprintf("HTTP_%d", resp.StatusCode)
		serviceErr.Message = http.StatusText(resp.StatusCode)
		return serviceErr
	}

	serviceErr.Code = er.Error.Code
	serviceErr.Message = er.Error.Message
	if er.Error.RequestID != "" {
		serviceErr.RequestID = er.Error.RequestID
	}
	return serviceErr
}
