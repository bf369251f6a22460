package extensions

import (
	"reflect"
	"strconv"
	"strings"

	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/internal"
)

// DictionarySource resolves selectors to map entries. String keys are
// matched by name, integer keys by their decimal text.
type DictionarySource struct{}

// NewDictionarySource creates the map source
func NewDictionarySource() *DictionarySource { return &DictionarySource{} }

// TryEvaluateSelector implements smartfmt.Source
func (s *DictionarySource) TryEvaluateSelector(info *smartfmt.SelectorInfo) bool {
	if info.ResolveNullable() {
		return true
	}
	current := info.CurrentValue()
	if internal.IsNil(current) {
		return false
	}
	m := reflect.ValueOf(current)
	for m.Kind() == reflect.Ptr || m.Kind() == reflect.Interface {
		if m.IsNil() {
			return false
		}
		m = m.Elem()
	}
	if m.Kind() != reflect.Map {
		return false
	}

	value, ok := lookupKey(m, info.SelectorText(), info.IgnoreCase())
	if !ok {
		return false
	}
	info.SetResult(value)
	return true
}

func lookupKey(m reflect.Value, name string, ignoreCase bool) (any, bool) {
	keyType := m.Type().Key()

	if key, ok := convertKey(name, keyType); ok {
		if v := m.MapIndex(key); v.IsValid() {
			return v.Interface(), true
		}
	}
	if !ignoreCase || keyType.Kind() != reflect.String && keyType.Kind() != reflect.Interface {
		return nil, false
	}

	iter := m.MapRange()
	for iter.Next() {
		k := iter.Key()
		if k.Kind() == reflect.Interface {
			k = k.Elem()
		}
		if k.Kind() == reflect.String && strings.EqualFold(k.String(), name) {
			return iter.Value().Interface(), true
		}
	}
	return nil, false
}

func convertKey(name string, keyType reflect.Type) (reflect.Value, bool) {
	switch keyType.Kind() {
	case reflect.String:
		return reflect.ValueOf(name).Convert(keyType), true
	case reflect.Interface:
		if reflect.TypeOf(name).Implements(keyType) {
			return reflect.ValueOf(&name).Elem().Convert(keyType), true
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(name, 10, keyType.Bits())
		if err == nil {
			return reflect.ValueOf(n).Convert(keyType), true
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(name, 10, keyType.Bits())
		if err == nil {
			return reflect.ValueOf(n).Convert(keyType), true
		}
	}
	return reflect.Value{}, false
}
