package invoke

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
)

// Call — адрес операции для транспорта.
type Call struct {
	Service string
	Action  string
}

// Backend — клиент сервиса. Один блокирующий вызов на операцию.
//
// Ошибки должны быть уже классифицированы: *TransportError для проблем
// доставки, *ServiceError для отказов сервиса.
type Backend interface {
	Invoke(ctx context.Context, call Call, req, resp any) error
}

// Confirmer запрашивает подтверждение мутирующей операции.
// При forced=true обязан вернуть true без вопроса.
type Confirmer interface {
	Confirm(forced bool, resource, action string) bool
}

// ConfirmFunc — адаптер функции к Confirmer.
type ConfirmFunc func(forced bool, resource, action string) bool

// Confirm реализует Confirmer.
func (f ConfirmFunc) Confirm(forced bool, resource, action string) bool {
	return f(forced, resource, action)
}

// Operation — конфигурация одной операции API.
//
// Запись создаётся один раз при регистрации команды и дальше не меняется.
type Operation[Req, Resp any] struct {
	// Command — имя команды CLI (например, "auditmanager control delete").
	Command string

	// Service и Action адресуют RPC на backend'е.
	Service string
	Action  string

	// Mutating — операция меняет состояние, перед вызовом нужно подтверждение.
	Mutating bool

	// ConfirmParams — параметры, значения которых описывают цель в запросе подтверждения.
	ConfirmParams []string

	// Default — проекция, если --select не указан.
	Default Projection

	// PassThru — параметр, который возвращает устаревший --pass-thru.
	PassThru string

	// TokenParam — параметр запроса с continuation token (только list-операции).
	TokenParam string

	// NextToken достаёт token следующей страницы из ответа.
	NextToken func(*Resp) string
}

// Call возвращает адрес операции.
func (op *Operation[Req, Resp]) Call() Call {
	return Call{Service: op.Service, Action: op.Action}
}

// Paginated сообщает, описывает ли операция continuation token.
func (op *Operation[Req, Resp]) Paginated() bool {
	return op.TokenParam != "" && op.NextToken != nil
}

// ActionLabel — подпись действия для запроса подтверждения.
func (op *Operation[Req, Resp]) ActionLabel() string {
	return fmt.Sprintf("%s (%s)", op.Command, op.Action)
}

// Params возвращает описание параметров запроса.
func (op *Operation[Req, Resp]) Params() ([]ParamInfo, error) {
	return Describe(reflect.TypeFor[Req]())
}

// Validate проверяет согласованность записи: параметры описаны,
// проекция по умолчанию разрешается, PassThru, ConfirmParams и TokenParam
// ссылаются на существующие параметры.
func (op *Operation[Req, Resp]) Validate() error {
	infos, err := op.Params()
	if err != nil {
		return fmt.Errorf("%s: %w", op.Action, err)
	}
	names := make(map[string]bool, len(infos))
	for _, info := range infos {
		names[info.Name] = true
	}

	if _, err := Compile(op.Default, reflect.TypeFor[Req](), reflect.TypeFor[Resp]()); err != nil {
		return fmt.Errorf("%s: default projection: %w", op.Action, err)
	}

	refs := append([]string{}, op.ConfirmParams...)
	if op.PassThru != "" {
		refs = append(refs, op.PassThru)
	}
	if op.TokenParam != "" {
		refs = append(refs, op.TokenParam)
	}
	for _, name := range refs {
		if !names[name] {
			return fmt.Errorf("%s: %w: %s", op.Action, ErrUnknownParam, name)
		}
	}

	if (op.TokenParam == "") != (op.NextToken == nil) {
		return fmt.Errorf("%s: TokenParam and NextToken must be set together", op.Action)
	}
	return nil
}

// compile разрешает проекцию вызова для этой операции.
func (op *Operation[Req, Resp]) compile(inv *Invocation) (*Projector, error) {
	projection, err := SelectProjection(inv, op.Default, op.PassThru)
	if err != nil {
		return nil, err
	}
	return Compile(projection, reflect.TypeFor[Req](), reflect.TypeFor[Resp]())
}

// resourceDescription форматирует значения ConfirmParams: "ControlId=abc, Name=x".
func (op *Operation[Req, Resp]) resourceDescription(params Params) string {
	var parts []string
	for _, name := range op.ConfirmParams {
		if !params.Has(name) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", name, display(params[name])))
	}
	return strings.Join(parts, ", ")
}

// display разыменовывает указатели для человекочитаемого вывода.
func display(v any) any {
	value := deref(reflect.ValueOf(v))
	if !value.IsValid() {
		return "<null>"
	}
	return value.Interface()
}

// Invocation — состояние одного вызова. Создаётся на вызов и не переиспользуется.
type Invocation struct {
	// Params — явно переданные параметры.
	Params Params

	// Select — выражение проекции; SelectSet — было ли оно передано.
	Select    string
	SelectSet bool

	// PassThru — устаревший флаг эха входного параметра.
	PassThru bool

	// Force — подтверждение уже получено (--force).
	Force bool

	// NoAutoIteration — ручной режим пагинации.
	NoAutoIteration bool
}

// Envelope — единый результат вызова.
//
// Осмысленно ровно одно из Payload/Err. Нулевой Envelope означает,
// что вызова не было (подтверждение не получено).
type Envelope struct {
	Payload  any
	Response any
	Err      error
	Warnings []string
}

// Empty сообщает, что вызов не выполнялся.
func (e *Envelope) Empty() bool {
	return e.Payload == nil && e.Response == nil && e.Err == nil
}

// Runtime — зависимости вызова: backend, подтверждение, логгер.
type Runtime struct {
	Backend   Backend
	Confirmer Confirmer
	Logger    *slog.Logger
}

func (rt Runtime) logger() *slog.Logger {
	if rt.Logger != nil {
		return rt.Logger
	}
	return slog.Default()
}
