package invoke

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Params — явно переданные параметры вызова: имя параметра → значение.
//
// Отсутствие ключа означает "не передан", и такое поле запроса остаётся
// пустым. Ключ со значением nil означает "передан явно как null".
type Params map[string]any

// Has проверяет, был ли параметр передан явно.
func (p Params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// String возвращает значение строкового параметра.
// Для *string разыменовывает указатель, nil и отсутствие дают "".
func (p Params) String(name string) string {
	switch v := p[name].(type) {
	case string:
		return v
	case *string:
		if v != nil {
			return *v
		}
	}
	return ""
}

// Names возвращает имена переданных параметров в алфавитном порядке.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParamInfo — описание параметра операции, извлечённое из тегов запроса.
//
// Тег param:"Name" или param:"Name,required" объявляет параметр,
// тег desc:"..." — текст справки.
type ParamInfo struct {
	Name        string
	Required    bool
	Description string
	Type        reflect.Type // тип поля запроса
	index       []int
}

// Describe возвращает параметры запроса в порядке объявления полей.
// reqType — тип структуры запроса (или указатель на неё).
func Describe(reqType reflect.Type) ([]ParamInfo, error) {
	for reqType.Kind() == reflect.Pointer {
		reqType = reqType.Elem()
	}
	if reqType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("request must be a struct, got %s", reqType)
	}

	var params []ParamInfo
	seen := make(map[string]bool)
	for i := range reqType.NumField() {
		field := reqType.Field(i)
		tag := field.Tag.Get("param")
		if tag == "" || !field.IsExported() {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			return nil, fmt.Errorf("field %s: empty param name", field.Name)
		}
		if seen[name] {
			return nil, fmt.Errorf("field %s: duplicate param %q", field.Name, name)
		}
		seen[name] = true

		params = append(params, ParamInfo{
			Name:        name,
			Required:    opts == "required",
			Description: field.Tag.Get("desc"),
			Type:        field.Type,
			index:       field.Index,
		})
	}
	return params, nil
}

// Assemble заполняет req (указатель на структуру) значениями из params.
//
// Заполняются только поля переданных параметров, остальные остаются
// нулевыми и не уходят на backend. Возвращает имена обязательных
// параметров, которые не переданы или переданы как nil: это не ошибка,
// backend сам решает, что делать с таким запросом.
func Assemble(req any, params Params) (missing []string, err error) {
	value := reflect.ValueOf(req)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("request must be a pointer to a struct, got %T", req)
	}

	infos, err := Describe(value.Type())
	if err != nil {
		return nil, err
	}

	known := make(map[string]ParamInfo, len(infos))
	for _, info := range infos {
		known[info.Name] = info
	}
	for _, name := range params.Names() {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
	}

	for _, info := range infos {
		v, ok := params[info.Name]
		if !ok {
			if info.Required {
				missing = append(missing, info.Name)
			}
			continue
		}
		if v == nil && info.Required {
			missing = append(missing, info.Name)
		}
		if err := assign(value.Elem().FieldByIndex(info.index), v); err != nil {
			return nil, fmt.Errorf("param %s: %w", info.Name, err)
		}
	}
	return missing, nil
}

// setParam выставляет одно поле запроса. Пустая строка и nil очищают поле.
func setParam(req any, name string, v any) error {
	value := reflect.ValueOf(req)
	infos, err := Describe(value.Type())
	if err != nil {
		return err
	}
	for _, info := range infos {
		if info.Name != name {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			v = nil
		}
		return assign(value.Elem().FieldByIndex(info.index), v)
	}
	return fmt.Errorf("%w: %s", ErrUnknownParam, name)
}

// assign кладёт значение в поле запроса.
//
// Поддерживаются: точное совпадение типа, значение для поля-указателя
// (T → *T), и конверсия внутри одного reflect.Kind (string → именованный
// enum-тип, []string → именованный срез).
func assign(field reflect.Value, v any) error {
	fieldType := field.Type()
	if v == nil {
		field.Set(reflect.Zero(fieldType))
		return nil
	}

	value := reflect.ValueOf(v)
	if value.Kind() == reflect.Pointer && value.IsNil() {
		field.Set(reflect.Zero(fieldType))
		return nil
	}

	switch {
	case value.Type().AssignableTo(fieldType):
		field.Set(value)
		return nil

	case sameKindConvertible(value.Type(), fieldType):
		field.Set(value.Convert(fieldType))
		return nil

	case fieldType.Kind() == reflect.Pointer:
		elem := fieldType.Elem()
		ptr := reflect.New(elem)
		switch {
		case value.Type().AssignableTo(elem):
			ptr.Elem().Set(value)
		case sameKindConvertible(value.Type(), elem):
			ptr.Elem().Set(value.Convert(elem))
		case value.Kind() == reflect.Pointer && sameKindConvertible(value.Type().Elem(), elem):
			ptr.Elem().Set(value.Elem().Convert(elem))
		default:
			return fmt.Errorf("%w: cannot use %s as %s", ErrParamType, value.Type(), fieldType)
		}
		field.Set(ptr)
		return nil
	}

	return fmt.Errorf("%w: cannot use %s as %s", ErrParamType, value.Type(), fieldType)
}

// sameKindConvertible разрешает только конверсии без смены вида значения:
// int → string тоже "convertible" в reflect, но это не то, что нужно.
func sameKindConvertible(from, to reflect.Type) bool {
	return from.Kind() == to.Kind() && from.ConvertibleTo(to)
}
