// Package transport содержит HTTP-транспорт CLI до backend'а облачных сервисов.
//
// HTTPClient реализует invoke.Backend: каждый вызов — один POST
// /api/v1/{service}/{action}. Сетевые ошибки классифицируются через
// invoke.DiagnoseTransport, отказы сервиса возвращаются как
// *invoke.ServiceError. AMQP-транспорт живёт в internal/mq.
package transport
