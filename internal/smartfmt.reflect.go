package internal

import (
	"reflect"
	"strings"
	"sync"
)

// memberKind distinguishes cached struct fields from methods
type memberKind int

const (
	memberNone memberKind = iota
	memberField
	memberMethod
)

// member is a cached lookup result. memberNone entries cache misses.
type member struct {
	kind   memberKind
	index  []int // field index path
	method int   // method index in the method set
}

type memberKey struct {
	typ        reflect.Type
	name       string
	ignoreCase bool
}

// MemberCache resolves exported struct fields and niladic methods by name and
// memoizes the lookups per type. It is safe for concurrent use.
type MemberCache struct {
	members sync.Map // memberKey -> member
}

// NewMemberCache creates an empty cache.
func NewMemberCache() *MemberCache {
	return &MemberCache{}
}

// Resolve looks up name on value. Methods are searched on the value's own
// method set first, then exported fields after dereferencing pointers.
func (c *MemberCache) Resolve(value any, name string, ignoreCase bool) (any, bool) {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return nil, false
	}

	if m := c.lookupMethod(v.Type(), name, ignoreCase); m.kind == memberMethod {
		return callNiladic(v.Method(m.method))
	}

	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
		if m := c.lookupMethod(v.Type(), name, ignoreCase); m.kind == memberMethod {
			return callNiladic(v.Method(m.method))
		}
	}

	if v.Kind() != reflect.Struct {
		return nil, false
	}

	m := c.lookupField(v.Type(), name, ignoreCase)
	if m.kind != memberField {
		return nil, false
	}
	field, err := v.FieldByIndexErr(m.index)
	if err != nil {
		return nil, false
	}
	return field.Interface(), true
}

func (c *MemberCache) lookupMethod(t reflect.Type, name string, ignoreCase bool) member {
	key := memberKey{typ: t, name: "()" + name, ignoreCase: ignoreCase}
	if cached, ok := c.members.Load(key); ok {
		return cached.(member)
	}

	found := member{}
	for i := 0; i < t.NumMethod(); i++ {
		method := t.Method(i)
		if !method.IsExported() || !nameMatches(method.Name, name, ignoreCase) {
			continue
		}
		// Method.Type includes the receiver for concrete types, not for interfaces.
		in := method.Type.NumIn()
		if t.Kind() != reflect.Interface {
			in--
		}
		if in != 0 || !validResults(method.Type) {
			continue
		}
		found = member{kind: memberMethod, method: i}
		break
	}

	c.members.Store(key, found)
	return found
}

func (c *MemberCache) lookupField(t reflect.Type, name string, ignoreCase bool) member {
	key := memberKey{typ: t, name: name, ignoreCase: ignoreCase}
	if cached, ok := c.members.Load(key); ok {
		return cached.(member)
	}

	var (
		field reflect.StructField
		ok    bool
	)
	if ignoreCase {
		field, ok = t.FieldByNameFunc(func(n string) bool { return strings.EqualFold(n, name) })
	} else {
		field, ok = t.FieldByName(name)
	}

	found := member{}
	if ok && field.IsExported() {
		found = member{kind: memberField, index: field.Index}
	}

	c.members.Store(key, found)
	return found
}

// validResults accepts methods returning (T) or (T, error).
func validResults(t reflect.Type) bool {
	switch t.NumOut() {
	case 1:
		return true
	case 2:
		return t.Out(1) == errorType
	default:
		return false
	}
}

func callNiladic(fn reflect.Value) (any, bool) {
	out := fn.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, false
	}
	return out[0].Interface(), true
}

func nameMatches(candidate, name string, ignoreCase bool) bool {
	if ignoreCase {
		return strings.EqualFold(candidate, name)
	}
	return candidate == name
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()
