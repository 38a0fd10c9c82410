// Package telemetry обеспечивает наблюдаемость системы.
//
// Включает:
//   - logging.go — structured logging через slog (сервисы и CLI)
//   - metrics.go — Prometheus метрики операций
//
// Сервисы используют единый формат логирования и экспортируют метрики
// на /metrics endpoint. CLI пишет логи в stderr, чтобы stdout оставался
// для данных.
package telemetry
