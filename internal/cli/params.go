package cli

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/iancoleman/strcase"
	"github.com/spf13/pflag"

	"github.com/shaiso/Cloudlet/internal/invoke"
)

// paramFlag — флаг, привязанный к параметру операции.
type paramFlag struct {
	info   invoke.ParamInfo
	flag   string        // имя флага: kebab-case от имени параметра
	holder reflect.Value // указатель на значение, куда пишет pflag
	base   reflect.Type  // тип поля запроса без указателей
	json   bool          // значение передаётся строкой JSON
}

// paramFlags — набор флагов параметров одной команды.
type paramFlags []*paramFlag

// FlagName возвращает имя флага для параметра: "ControlId" → "control-id".
func FlagName(param string) string {
	return strcase.ToKebab(param)
}

// bindParams регистрирует по флагу на каждый параметр запроса.
func bindParams(flagSet *pflag.FlagSet, infos []invoke.ParamInfo) (paramFlags, error) {
	flags := make(paramFlags, 0, len(infos))
	for _, info := range infos {
		pf, err := bindParam(flagSet, info)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", info.Name, err)
		}
		flags = append(flags, pf)
	}
	return flags, nil
}

func bindParam(flagSet *pflag.FlagSet, info invoke.ParamInfo) (*paramFlag, error) {
	name := FlagName(info.Name)
	if flagSet.Lookup(name) != nil {
		return nil, fmt.Errorf("flag --%s already defined", name)
	}

	usage := info.Description
	if info.Required {
		usage += " (required)"
	}

	base := info.Type
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	pf := &paramFlag{info: info, flag: name, base: base}

	// Флаг выбирается по виду значения: именованные enum-типы
	// (type KeySpec string) получают обычный строковый флаг.
	switch {
	case base.Kind() == reflect.String:
		pf.holder = bindValue[string](func(p *string) { flagSet.StringVar(p, name, "", usage) })
	case base.Kind() == reflect.Bool:
		pf.holder = bindValue[bool](func(p *bool) { flagSet.BoolVar(p, name, false, usage) })
	case base.Kind() == reflect.Int:
		pf.holder = bindValue[int](func(p *int) { flagSet.IntVar(p, name, 0, usage) })
	case base.Kind() == reflect.Int32:
		pf.holder = bindValue[int32](func(p *int32) { flagSet.Int32Var(p, name, 0, usage) })
	case base.Kind() == reflect.Int64:
		pf.holder = bindValue[int64](func(p *int64) { flagSet.Int64Var(p, name, 0, usage) })
	case base.Kind() == reflect.Float64:
		pf.holder = bindValue[float64](func(p *float64) { flagSet.Float64Var(p, name, 0, usage) })
	case base.Kind() == reflect.Slice && base.Elem().Kind() == reflect.Uint8:
		pf.holder = bindValue[[]byte](func(p *[]byte) { flagSet.BytesBase64Var(p, name, nil, usage+" (base64)") })
	case base.Kind() == reflect.Slice && base.Elem().Kind() == reflect.String:
		pf.holder = bindValue[[]string](func(p *[]string) { flagSet.StringSliceVar(p, name, nil, usage) })
	case base.Kind() == reflect.Map && base.Key().Kind() == reflect.String && base.Elem().Kind() == reflect.String:
		pf.holder = bindValue[map[string]string](func(p *map[string]string) {
			flagSet.StringToStringVar(p, name, nil, usage+" (key=value,...)")
		})
	default:
		// Вложенные структуры и прочие типы передаются как JSON.
		pf.json = true
		pf.holder = bindValue[string](func(p *string) { flagSet.StringVar(p, name, "", usage+" (JSON)") })
	}
	return pf, nil
}

// bindValue создаёт значение типа T и отдаёт указатель на него в bind.
func bindValue[T any](bind func(*T)) reflect.Value {
	holder := reflect.New(reflect.TypeFor[T]())
	bind(holder.Interface().(*T))
	return holder
}

// collect возвращает только явно переданные параметры.
func (flags paramFlags) collect(flagSet *pflag.FlagSet) (invoke.Params, error) {
	params := invoke.Params{}
	for _, pf := range flags {
		if !flagSet.Changed(pf.flag) {
			continue
		}
		if !pf.json {
			params[pf.info.Name] = convertTo(pf.holder.Elem(), pf.base).Interface()
			continue
		}

		raw := pf.holder.Elem().String()
		target := reflect.New(pf.info.Type)
		if err := json.Unmarshal([]byte(raw), target.Interface()); err != nil {
			return nil, fmt.Errorf("--%s: invalid JSON: %w", pf.flag, err)
		}
		params[pf.info.Name] = target.Elem().Interface()
	}
	return params, nil
}

// positional — параметр, который можно передать позиционным аргументом:
// первый обязательный.
func (flags paramFlags) positional() *paramFlag {
	for _, pf := range flags {
		if pf.info.Required {
			return pf
		}
	}
	return nil
}

// setPositional кладёт позиционный аргумент в параметр, если флаг не передан.
func (flags paramFlags) setPositional(flagSet *pflag.FlagSet, arg string) error {
	pf := flags.positional()
	if pf == nil {
		return fmt.Errorf("unexpected argument %q", arg)
	}
	if flagSet.Changed(pf.flag) {
		return fmt.Errorf("%s given both as argument and as --%s", pf.info.Name, pf.flag)
	}
	return flagSet.Set(pf.flag, arg)
}

// convertTo приводит значение флага к типу поля: string → KeySpec,
// []string → []KeyUsage. Неприводимое значение возвращается как есть.
func convertTo(v reflect.Value, t reflect.Type) reflect.Value {
	switch {
	case v.Type() == t:
		return v
	case v.Kind() == t.Kind() && v.Type().ConvertibleTo(t):
		return v.Convert(t)
	case v.Kind() == reflect.Slice && t.Kind() == reflect.Slice && v.Type().Elem().ConvertibleTo(t.Elem()):
		out := reflect.MakeSlice(t, v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(v.Index(i).Convert(t.Elem()))
		}
		return out
	}
	return v
}
