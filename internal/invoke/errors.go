package invoke

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Ошибки конфигурации вызова.
var (
	// ErrInvalidProjection — выражение --select не удалось разрешить.
	ErrInvalidProjection = errors.New("invalid projection")

	// ErrSelectWithPassThru — одновременно указаны --select и --pass-thru.
	ErrSelectWithPassThru = errors.New("pass-thru cannot be used when select is specified")

	// ErrUnknownParam — параметр не объявлен в запросе операции.
	ErrUnknownParam = errors.New("unknown parameter")

	// ErrParamType — значение параметра не подходит по типу.
	ErrParamType = errors.New("parameter type mismatch")

	// ErrNotPaginated — операция не описывает continuation token.
	ErrNotPaginated = errors.New("operation is not paginated")

	// ErrTokenRepeated — backend вернул уже использованный token.
	ErrTokenRepeated = errors.New("continuation token repeated")
)

// ProjectionError — ошибка разрешения проекции с контекстом.
type ProjectionError struct {
	Expr    string // исходное выражение
	Message string // что именно не так
}

// Error реализует интерфейс error.
func (e *ProjectionError) Error() string {
	return fmt.Sprintf("invalid value for select %q: %s", e.Expr, e.Message)
}

// Unwrap возвращает ErrInvalidProjection.
func (e *ProjectionError) Unwrap() error {
	return ErrInvalidProjection
}

// TransportKind — класс ошибки транспорта.
type TransportKind string

const (
	// TransportNameResolution — не удалось разрешить имя хоста endpoint'а.
	TransportNameResolution TransportKind = "name_resolution"

	// TransportConnectivity — соединение не установлено или оборвалось.
	TransportConnectivity TransportKind = "connectivity"
)

// Target — куда шёл вызов. Используется для диагностики.
type Target struct {
	Endpoint string
	Region   string
	Service  string
	Action   string
}

// TransportError — ошибка доставки запроса до backend'а.
//
// Сообщение всегда содержит диагностику endpoint'а: куда обращались
// и в каком регионе.
type TransportError struct {
	Kind   TransportKind
	Target Target
	Err    error
}

// Error реализует интерфейс error.
func (e *TransportError) Error() string {
	region := e.Target.Region
	if region == "" {
		region = "(none)"
	}

	var b strings.Builder
	switch e.Kind {
	case TransportNameResolution:
		fmt.Fprintf(&b, "Name resolution failure attempting to reach service in region %s "+
			"(as supplied to --region or from the active profile).\n", region)
	default:
		fmt.Fprintf(&b, "Unable to reach service in region %s.\n", region)
	}
	fmt.Fprintf(&b, "Endpoint: %s\n", e.Target.Endpoint)
	if e.Target.Action != "" {
		fmt.Fprintf(&b, "Operation: %s/%s\n", e.Target.Service, e.Target.Action)
	}
	fmt.Fprintf(&b, "Error: %v", e.Err)
	return b.String()
}

// Unwrap возвращает исходную ошибку транспорта.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// DiagnoseTransport классифицирует ошибку сетевого уровня.
// Вызывается транспортом на своей границе, invoker получает уже типизированную ошибку.
func DiagnoseTransport(err error, target Target) *TransportError {
	kind := TransportConnectivity
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		kind = TransportNameResolution
	}
	return &TransportError{Kind: kind, Target: target, Err: err}
}

// ServiceError — структурированный отказ backend'а (not found, invalid argument и т.д.).
// Передаётся вызывающему без изменений.
type ServiceError struct {
	Code       string
	Message    string
	StatusCode int
	RequestID  string
}

// Error реализует интерфейс error.
func (e *ServiceError) Error() string {
	return e.Code + ": " + e.Message
}
