package invoke

import (
	"reflect"
	"strings"
)

// ProjectionKind — вариант проекции.
type ProjectionKind int

const (
	// ProjectNothing — результатом ничего не становится (delete-операции по умолчанию).
	ProjectNothing ProjectionKind = iota

	// ProjectWhole — весь ответ ("*").
	ProjectWhole

	// ProjectField — поле ответа по пути через точку ("Controls", "Control.Name").
	ProjectField

	// ProjectInput — эхо входного параметра ("^ControlId").
	ProjectInput
)

// Projection — правило выбора результата вызова.
type Projection struct {
	Kind  ProjectionKind
	Path  string // для ProjectField
	Input string // для ProjectInput
}

// NoOutput — проекция без результата.
func NoOutput() Projection { return Projection{Kind: ProjectNothing} }

// WholeResponse — проекция на весь ответ.
func WholeResponse() Projection { return Projection{Kind: ProjectWhole} }

// Field — проекция на поле ответа.
func Field(path string) Projection { return Projection{Kind: ProjectField, Path: path} }

// EchoInput — проекция на входной параметр.
func EchoInput(name string) Projection { return Projection{Kind: ProjectInput, Input: name} }

// String возвращает проекцию в синтаксисе --select.
func (p Projection) String() string {
	switch p.Kind {
	case ProjectWhole:
		return "*"
	case ProjectField:
		return p.Path
	case ProjectInput:
		return "^" + p.Input
	default:
		return ""
	}
}

// ParseProjection разбирает выражение --select.
//
//	"*"        → WholeResponse
//	"^Name"    → EchoInput("Name")
//	"A.B"      → Field("A.B")
func ParseProjection(expr string) (Projection, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "":
		return Projection{}, &ProjectionError{Expr: expr, Message: "empty expression"}
	case expr == "*":
		return WholeResponse(), nil
	case strings.HasPrefix(expr, "^"):
		name := expr[1:]
		if name == "" {
			return Projection{}, &ProjectionError{Expr: expr, Message: "missing parameter name after ^"}
		}
		return EchoInput(name), nil
	}

	for _, segment := range strings.Split(expr, ".") {
		if segment == "" {
			return Projection{}, &ProjectionError{Expr: expr, Message: "empty path segment"}
		}
	}
	return Field(expr), nil
}

// SelectProjection выбирает проекцию для вызова.
//
// --select имеет приоритет над проекцией по умолчанию. Устаревший
// --pass-thru превращается в EchoInput(passThruParam) и несовместим с --select.
func SelectProjection(inv *Invocation, def Projection, passThruParam string) (Projection, error) {
	if inv.SelectSet {
		if inv.PassThru {
			return Projection{}, ErrSelectWithPassThru
		}
		return ParseProjection(inv.Select)
	}
	if inv.PassThru {
		if passThruParam == "" {
			return Projection{}, &ProjectionError{Expr: "pass-thru", Message: "operation has no pass-through parameter"}
		}
		return EchoInput(passThruParam), nil
	}
	return def, nil
}

// Projector — разрешённая проекция. Чистая функция от (ответ, параметры).
type Projector struct {
	kind  ProjectionKind
	index [][]int // путь по полям ответа
	input string  // каноническое имя параметра
}

// Compile разрешает проекцию относительно типов запроса и ответа.
// Неизвестное поле или параметр — ошибка до любого сетевого вызова.
func Compile(p Projection, reqType, respType reflect.Type) (*Projector, error) {
	switch p.Kind {
	case ProjectNothing, ProjectWhole:
		return &Projector{kind: p.Kind}, nil

	case ProjectInput:
		infos, err := Describe(reqType)
		if err != nil {
			return nil, err
		}
		for _, info := range infos {
			if strings.EqualFold(info.Name, p.Input) {
				return &Projector{kind: ProjectInput, input: info.Name}, nil
			}
		}
		return nil, &ProjectionError{Expr: p.String(), Message: "no such parameter"}

	case ProjectField:
		var index [][]int
		current := respType
		for _, segment := range strings.Split(p.Path, ".") {
			for current.Kind() == reflect.Pointer {
				current = current.Elem()
			}
			if current.Kind() != reflect.Struct {
				return nil, &ProjectionError{Expr: p.Path, Message: "cannot select " + segment + " from " + current.String()}
			}
			field, ok := lookupField(current, segment)
			if !ok {
				return nil, &ProjectionError{Expr: p.Path, Message: "no field " + segment + " in " + current.Name()}
			}
			index = append(index, field.Index)
			current = field.Type
		}
		return &Projector{kind: ProjectField, index: index}, nil
	}

	return nil, &ProjectionError{Expr: p.String(), Message: "unknown projection kind"}
}

// Kind возвращает вариант проекции.
func (pr *Projector) Kind() ProjectionKind {
	return pr.kind
}

// Apply вычисляет результат. Ответ не изменяется.
// Для EchoInput ответ не читается вовсе.
func (pr *Projector) Apply(resp any, params Params) any {
	switch pr.kind {
	case ProjectWhole:
		return resp
	case ProjectInput:
		return params[pr.input]
	case ProjectField:
		value := reflect.ValueOf(resp)
		for _, idx := range pr.index {
			value = deref(value)
			if !value.IsValid() {
				return nil
			}
			value = value.FieldByIndex(idx)
		}
		value = deref(value)
		if !value.IsValid() {
			return nil
		}
		return value.Interface()
	}
	return nil
}

// deref снимает указатели; nil-указатель даёт невалидное значение.
func deref(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// lookupField ищет поле по имени Go или JSON, без учёта регистра.
func lookupField(t reflect.Type, name string) (reflect.StructField, bool) {
	if field, ok := t.FieldByNameFunc(func(s string) bool { return strings.EqualFold(s, name) }); ok && field.IsExported() {
		return field, true
	}
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		jsonName, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if jsonName != "" && strings.EqualFold(jsonName, name) {
			return field, true
		}
	}
	return reflect.StructField{}, false
}
