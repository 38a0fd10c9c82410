// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений (request и reply)
//   - consumer.go   — потребление сообщений из очередей
//   - rpc.go        — формат RPC-запросов и ответов
//   - rpc_client.go — invoke.Backend поверх request/reply
//   - rpc_server.go — обработчик очереди запросов
//
// Типы сообщений:
//   - rpc.request — запрос операции сервиса
//   - rpc.reply   — ответ в reply-очередь клиента
//
// Exchanges:
//   - cloudlet.rpc — запросы операций
//   - cloudlet.dlq — dead letter queue
package mq
