// Package invoke реализует общий конверт вызова операции облачного API.
//
// # Обзор
//
// Каждая команда CLI — это тонкая обёртка над одной RPC-операцией.
// Пакет invoke содержит всю повторно используемую логику такой обёртки:
//
//   - Operation — конфигурация операции (сервис, action, мутирующая ли,
//     проекция по умолчанию, параметры подтверждения, пагинация)
//   - Params и Assemble — сборка запроса только из явно переданных параметров
//   - Projection и Projector — выбор того, что из ответа (или входа) станет результатом
//   - Invoke — подтверждение, сборка, один вызов backend'а, проекция
//   - Paginate — цикл по continuation token поверх одного вызова
//
// # Поток управления
//
//	параметры → проекция (fail fast) → подтверждение (только мутирующие)
//	→ сборка запроса → Backend.Invoke → (следующая страница?) → Envelope
//
// # Ошибки
//
// Ошибки транспорта классифицируются на границе клиента (TransportError,
// ServiceError). Invoker ничего не ретраит и не глотает: ошибка вызова
// попадает в Envelope.Err, ошибка проекции возвращается сразу, до вызова.
package invoke
