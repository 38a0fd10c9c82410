package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/iancoleman/strcase"
)

// Output управляет форматированием вывода CLI.
type Output struct {
	jsonMode bool
	w        io.Writer // stdout для данных
	errW     io.Writer // stderr для сообщений
}

// NewOutput создаёт Output. Если jsonMode=true, данные выводятся в JSON.
func NewOutput(jsonMode bool) *Output {
	return NewOutputTo(jsonMode, os.Stdout, os.Stderr)
}

// NewOutputTo создаёт Output с заданными потоками.
func NewOutputTo(jsonMode bool, w, errW io.Writer) *Output {
	return &Output{jsonMode: jsonMode, w: w, errW: errW}
}

// Print выводит данные: таблицу или JSON в зависимости от режима.
func (o *Output) Print(headers []string, rows [][]string, jsonData any) {
	if o.jsonMode {
		o.JSON(jsonData)
		return
	}
	o.Table(headers, rows)
}

// Table выводит данные в виде таблицы через tabwriter.
func (o *Output) Table(headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)

	// Заголовки
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	dashes := make([]string, len(headers))
	for i, h := range headers {
		dashes[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))

	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	tw.Flush()
}

// JSON выводит данные в формате JSON с отступами.
func (o *Output) JSON(v any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// Value выводит результат операции.
//
// В табличном режиме срез структур — таблица по полям, одна структура
// или map — пары ключ/значение, скаляр — одной строкой.
func (o *Output) Value(v any) {
	if o.jsonMode {
		o.JSON(v)
		return
	}

	value := indirect(reflect.ValueOf(v))
	if !value.IsValid() {
		return
	}

	switch value.Kind() {
	case reflect.Slice, reflect.Array:
		if value.Type().Elem().Kind() == reflect.Uint8 {
			fmt.Fprintln(o.w, cell(value))
			return
		}
		o.rows(value)
	case reflect.Struct:
		if _, isTime := value.Interface().(time.Time); isTime {
			fmt.Fprintln(o.w, cell(value))
			return
		}
		o.Table([]string{"FIELD", "VALUE"}, structPairs(value))
	case reflect.Map:
		o.Table([]string{"KEY", "VALUE"}, mapPairs(value))
	default:
		fmt.Fprintln(o.w, cell(value))
	}
}

// rows выводит срез: структуры и map — таблицей, остальное — по строке.
func (o *Output) rows(list reflect.Value) {
	elem := list.Type().Elem()
	for elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	switch elem.Kind() {
	case reflect.Struct:
		fields := visibleFields(elem)
		headers := make([]string, len(fields))
		for i, f := range fields {
			headers[i] = strcase.ToScreamingSnake(f.Name)
		}
		rows := make([][]string, 0, list.Len())
		for i := 0; i < list.Len(); i++ {
			item := indirect(list.Index(i))
			row := make([]string, len(fields))
			for j, f := range fields {
				if item.IsValid() {
					row[j] = cell(item.FieldByIndex(f.Index))
				}
			}
			rows = append(rows, row)
		}
		o.Table(headers, rows)
	case reflect.Map:
		keys := map[string]bool{}
		for i := 0; i < list.Len(); i++ {
			item := indirect(list.Index(i))
			if !item.IsValid() {
				continue
			}
			for _, k := range item.MapKeys() {
				keys[fmt.Sprint(k.Interface())] = true
			}
		}
		columns := make([]string, 0, len(keys))
		for k := range keys {
			columns = append(columns, k)
		}
		slices.Sort(columns)

		headers := make([]string, len(columns))
		for i, c := range columns {
			headers[i] = strcase.ToScreamingSnake(c)
		}
		rows := make([][]string, 0, list.Len())
		for i := 0; i < list.Len(); i++ {
			item := indirect(list.Index(i))
			row := make([]string, len(columns))
			for j, c := range columns {
				if item.IsValid() {
					row[j] = cell(item.MapIndex(reflect.ValueOf(c)))
				}
			}
			rows = append(rows, row)
		}
		o.Table(headers, rows)
	default:
		for i := 0; i < list.Len(); i++ {
			fmt.Fprintln(o.w, cell(list.Index(i)))
		}
	}
}

// Success выводит сообщение об успехе в stderr.
func (o *Output) Success(msg string) {
	fmt.Fprintln(o.errW, msg)
}

// Warn выводит предупреждение в stderr.
func (o *Output) Warn(msg string) {
	fmt.Fprintln(o.errW, "WARNING: "+msg)
}

// Error выводит сообщение об ошибке в stderr.
func (o *Output) Error(msg string) {
	fmt.Fprintln(o.errW, "Error: "+msg)
}

// visibleFields — экспортируемые поля структуры, кроме скрытых через json:"-".
func visibleFields(t reflect.Type) []reflect.StructField {
	var fields []reflect.StructField
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous || f.Tag.Get("json") == "-" {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

func structPairs(value reflect.Value) [][]string {
	fields := visibleFields(value.Type())
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{f.Name, cell(value.FieldByIndex(f.Index))})
	}
	return rows
}

func mapPairs(value reflect.Value) [][]string {
	rows := make([][]string, 0, value.Len())
	for _, k := range value.MapKeys() {
		rows = append(rows, []string{fmt.Sprint(k.Interface()), cell(value.MapIndex(k))})
	}
	slices.SortFunc(rows, func(a, b []string) int { return strings.Compare(a[0], b[0]) })
	return rows
}

// cell форматирует значение для ячейки таблицы. nil — "-".
func cell(v reflect.Value) string {
	v = indirect(v)
	if !v.IsValid() {
		return "-"
	}

	switch x := v.Interface().(type) {
	case time.Time:
		return x.Format(time.RFC3339)
	case []byte:
		return string(x)
	case string:
		return x
	}

	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Struct, reflect.Array:
		if (v.Kind() == reflect.Map || v.Kind() == reflect.Slice) && v.IsNil() {
			return "-"
		}
		data, err := json.Marshal(v.Interface())
		if err != nil {
			return fmt.Sprint(v.Interface())
		}
		return string(data)
	default:
		return fmt.Sprint(v.Interface())
	}
}

// indirect снимает указатели и интерфейсы. Для nil возвращает невалидное значение.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
