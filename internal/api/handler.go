package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/shaiso/Cloudlet/internal/catalog"
	"github.com/shaiso/Cloudlet/internal/telemetry"
)

// maxBodyBytes — предел размера тела запроса операции.
const maxBodyBytes = 1 << 20

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	dispatcher *Dispatcher
	registry   *catalog.Registry
	logger     *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Dispatcher *Dispatcher
	Logger     *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		dispatcher: cfg.Dispatcher,
		registry:   cfg.Dispatcher.registry,
		logger:     logger,
	}
}

// InvokeOperation выполняет action сервиса.
// POST /api/v1/{service}/{action}
func (h *Handler) InvokeOperation(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		BadRequest(w, "failed to read request body")
		return
	}

	ctx := ContextWithRegion(r.Context(), r.Header.Get(HeaderRegion))
	result, err := h.dispatcher.Dispatch(ctx, r.PathValue("service"), r.PathValue("action"), body)
	if HandleOpError(w, telemetry.FromContextOr(ctx, h.logger), err) {
		return
	}

	Success(w, result)
}

// ServiceResponse — описание сервиса каталога.
type ServiceResponse struct {
	Name    string   `json:"name"`
	Title   string   `json:"title"`
	Actions []string `json:"actions"`
}

// ListServices возвращает сервисы и их action'ы.
// GET /api/v1/services
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services := h.registry.Services()
	result := make([]ServiceResponse, 0, len(services))
	for _, svc := range services {
		result = append(result, ServiceResponse{Name: svc.Name, Title: svc.Title, Actions: svc.Actions()})
	}

	List(w, result, len(result))
}

// methodNotAllowed отвечает на не-POST запросы к операциям.
func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodPost)
	MethodNotAllowed(w)
}
