package internal

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// maxUint64Float is 2^64, the first float64 above math.MaxUint64
const maxUint64Float = float64(1 << 63) * 2

// IsNil reports whether v is nil or a typed nil (pointer, map, slice, func,
// channel or interface).
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// IsNumber reports whether v has an integer or floating point kind.
func IsNumber(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// ToFloat converts any numeric kind to float64.
func ToFloat(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// ToInteger splits an integer value into its sign and magnitude without
// going through float64. Floats qualify when they are whole and fit into
// uint64.
func ToInteger(v any) (negative bool, magnitude uint64, ok bool) {
	if v == nil {
		return false, 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i < 0 {
			// -(i+1) cannot overflow for math.MinInt64
			return true, uint64(-(i + 1)) + 1, true
		}
		return false, uint64(i), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return false, rv.Uint(), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		abs := math.Abs(f)
		if f != math.Trunc(f) || abs >= maxUint64Float {
			return false, 0, false
		}
		return f < 0, uint64(abs), true
	default:
		return false, 0, false
	}
}

// IsList reports whether v is a slice or array that should be iterated.
// Strings and byte slices are not lists.
func IsList(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	default:
		return false
	}
}

// ListItems returns the elements of a slice or array. ok is false for other
// kinds.
func ListItems(v any) ([]any, bool) {
	if !IsList(v) {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// ToString renders v without any format: nil is empty, Stringers and errors
// use their own text, everything else goes through fmt.
func ToString(v any) string {
	if IsNil(v) {
		return StringEmpty
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	case error:
		return t.Error()
	}
	return fmt.Sprint(v)
}

// ParseIndex parses a non-negative decimal index.
func ParseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
