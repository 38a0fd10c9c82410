// Package cli реализует инструмент командной строки Cloudlet.
//
// # Обзор
//
// Команды строятся из записей invoke.Operation: каждая операция сервиса
// становится листом дерева "сервис → тип ресурса → действие":
//
//	cloudlet auditmanager control list --max-results 10
//	cloudlet kms key delete 3f0c... --force
//	cloudlet wisdom knowledge-base get kb-id --select '*'
//
// # Ключевые компоненты
//
// ## Параметры
//
// Поля запроса с тегом param становятся флагами (ControlId → --control-id).
// В запрос попадают только явно переданные флаги. Первый обязательный
// параметр можно передать позиционным аргументом.
//
// ## Общие флаги операций
//
//   - --select: проекция вывода ('*', путь поля, '^Param')
//   - --force: пропустить подтверждение мутирующей операции
//   - --no-auto-iteration: одна страница list-операции и token следующей
//   - --pass-thru: устаревший, эквивалент --select '^Param'
//
// ## Транспорт
//
// Backend выбирается настройкой transport: HTTP (transport.HTTPClient)
// или AMQP request/reply (mq.RPCClient). Настройки читаются пакетом
// config из флагов, окружения и профиля.
//
// ## Output
//
// Таблицы (text/tabwriter) по умолчанию, JSON с флагом --json или
// output: json в профиле. Данные выводятся в stdout, предупреждения
// и подтверждения — в stderr:
//
//	cloudlet kms key list --json | jq .
//
// Env передаёт командам замыкания для ленивого создания backend'а,
// Output и логгера после парсинга PersistentFlags.
package cli
