// Package api содержит reference backend облачных сервисов.
//
// Структура:
//   - dispatcher.go — Dispatcher: action'ы каталога над ResourceStore
//   - rpc.go        — адаптер Dispatcher'а для AMQP RPC
//   - handler.go    — Handler с DI (dispatcher, logger)
//   - routes.go     — регистрация маршрутов
//   - middleware.go — middleware (request id, logging, recovery)
//   - response.go   — унифицированные JSON-ответы и обработка ошибок
//
// Все операции вызываются как POST /api/v1/{service}/{action} с JSON-телом
// в lowerCamel. Успешный ответ — {"data": ...}, ошибка —
// {"error": {"code", "message", "request_id"}}.
package api
