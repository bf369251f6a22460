package extensions

import (
	"strings"

	smartfmt "github.com/itsatony/go-smartfmt"
)

// KeyValue is a single named value. A KeyValue argument answers only the
// selector equal to its key.
type KeyValue struct {
	Key   string
	Value any
}

// KeyValuePairSource resolves selectors against KeyValue arguments.
type KeyValuePairSource struct{}

// NewKeyValuePairSource creates the key/value source
func NewKeyValuePairSource() *KeyValuePairSource { return &KeyValuePairSource{} }

// TryEvaluateSelector implements smartfmt.Source
func (s *KeyValuePairSource) TryEvaluateSelector(info *smartfmt.SelectorInfo) bool {
	if info.ResolveNullable() {
		return true
	}

	var kv KeyValue
	switch v := info.CurrentValue().(type) {
	case KeyValue:
		kv = v
	case *KeyValue:
		if v == nil {
			return false
		}
		kv = *v
	default:
		return false
	}

	name := info.SelectorText()
	if kv.Key != name && !(info.IgnoreCase() && strings.EqualFold(kv.Key, name)) {
		return false
	}
	info.SetResult(kv.Value)
	return true
}
