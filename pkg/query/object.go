package query

import (
	"reflect"

	"github.com/bytedance/sonic"
)

// Obj escapes a literal object so that none of its keys, at any depth, is read
// as a query form. Values that already are expressions are kept as is.
func Obj(fields map[string]interface{}) Expr {
	escaped := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		escaped[key] = escape(value)
	}
	return Expr{"object": escaped}
}

func escape(value interface{}) interface{} {
	switch v := value.(type) {
	case nil, string, bool, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, []string:
		return v
	case Expr:
		return v
	case map[string]interface{}:
		return Obj(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, elem := range v {
			out[i] = escape(elem)
		}
		return out
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return escape(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return value
		}
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = escape(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return value
		}
		fields := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			fields[iter.Key().String()] = iter.Value().Interface()
		}
		return Obj(fields)
	case reflect.Struct:
		// Structs travel as their JSON object form.
		raw, err := sonic.Marshal(value)
		if err != nil {
			return value
		}
		var generic interface{}
		if err := sonic.Unmarshal(raw, &generic); err != nil {
			return value
		}
		return escape(generic)
	}
	return value
}
