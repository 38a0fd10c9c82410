package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		RequestID(h.logger),
		Recovery(h.logger),
		Logging(h.logger),
	)

	mux.Handle("GET /api/v1/services", chain(http.HandlerFunc(h.ListServices)))

	// Операции сервисов: RPC-стиль, всегда POST с JSON-телом
	mux.Handle("POST /api/v1/{service}/{action}", chain(http.HandlerFunc(h.InvokeOperation)))
	mux.Handle("/api/v1/{service}/{action}", chain(http.HandlerFunc(h.methodNotAllowed)))
}
