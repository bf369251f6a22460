package smartfmt

import (
	"reflect"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Well-known extension priorities. Lower values are tried earlier. Entries
// are keyed by the fully qualified type name of the extension.
var (
	sourcePriorities = map[string]int{
		ExtensionsPkgPath + ".GlobalVariablesSource":     1000,
		ExtensionsPkgPath + ".PersistentVariablesSource": 2000,
		ExtensionsPkgPath + ".DefaultSource":             2500,
		ExtensionsPkgPath + ".StringSource":              3000,
		ExtensionsPkgPath + ".ListFormatter":             4000,
		ExtensionsPkgPath + ".DictionarySource":          5000,
		ExtensionsPkgPath + ".KeyValuePairSource":        5500,
		ExtensionsPkgPath + ".JSONSource":                6000,
		ExtensionsPkgPath + ".YAMLSource":                6500,
		ExtensionsPkgPath + ".XMLSource":                 7000,
		ExtensionsPkgPath + ".ReflectionSource":          8000,
	}

	formatterPriorities = map[string]int{
		ExtensionsPkgPath + ".ListFormatter":         1000,
		ExtensionsPkgPath + ".PluralFormatter":       2000,
		ExtensionsPkgPath + ".ConditionalFormatter":  3000,
		ExtensionsPkgPath + ".TimeFormatter":         4000,
		ExtensionsPkgPath + ".IsMatchFormatter":      5000,
		ExtensionsPkgPath + ".NullFormatter":         6000,
		ExtensionsPkgPath + ".LocalizationFormatter": 7000,
		ExtensionsPkgPath + ".TemplateFormatter":     8000,
		ExtensionsPkgPath + ".ChooseFormatter":       9000,
		ExtensionsPkgPath + ".SubStringFormatter":    10000,
		ExtensionsPkgPath + ".DefaultFormatter":      11000,
	}
)

// TypeName returns the fully qualified type name identifying an extension,
// with pointers dereferenced, e.g. "github.com/x/pkg.MySource".
func TypeName(extension any) string {
	t := reflect.TypeOf(extension)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// registry holds the ordered source and formatter chains. Slices are
// replaced on every change and never modified in place, so readers can use
// a snapshot without holding the lock.
type registry struct {
	mu              sync.RWMutex
	sources         []Source
	formatters      []Formatter
	caseSensitivity CaseSensitivity
	logger          *zap.Logger
}

func newRegistry(cs CaseSensitivity, logger *zap.Logger) *registry {
	return &registry{caseSensitivity: cs, logger: logger}
}

func (r *registry) sourceList() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sources
}

func (r *registry) formatterList() []Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.formatters
}

// insertSource adds s at index, or at its priority position when index < 0.
func (r *registry) insertSource(index int, s Source) error {
	if isNilExtension(s) {
		return NewRegistryError(ErrMsgNilExtension, ChainSources)
	}
	name := TypeName(s)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.sources {
		if TypeName(existing) == name {
			r.logger.Warn(LogMsgExtensionCollision,
				zap.String(LogFieldExtension, name),
				zap.String(LogFieldChain, ChainSources),
			)
			return NewRegistryError(ErrMsgExtensionExists, name)
		}
	}

	if index < 0 {
		index = priorityIndex(name, sourcePriorities, len(r.sources), func(i int) string { return TypeName(r.sources[i]) })
	}
	r.sources = insertAt(r.sources, index, s)
	r.logger.Debug(LogMsgExtensionRegistered,
		zap.String(LogFieldExtension, name),
		zap.String(LogFieldChain, ChainSources),
		zap.Int(LogFieldPosition, index),
	)
	return nil
}

// insertFormatter adds f at index, or at its priority position when index < 0.
func (r *registry) insertFormatter(index int, f Formatter) error {
	if isNilExtension(f) {
		return NewRegistryError(ErrMsgNilExtension, ChainFormatters)
	}
	name := TypeName(f)
	if f.Name() == "" && !f.CanAutoDetect() {
		return NewRegistryError(ErrMsgFormatterNameEmpty, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.formatters {
		collision := ""
		switch {
		case TypeName(existing) == name:
			collision = ErrMsgExtensionExists
		case f.Name() != "" && r.namesEqual(existing.Name(), f.Name()):
			collision = ErrMsgFormatterNameExists
		}
		if collision != "" {
			r.logger.Warn(LogMsgExtensionCollision,
				zap.String(LogFieldExtension, name),
				zap.String(LogFieldChain, ChainFormatters),
			)
			return NewRegistryError(collision, name)
		}
	}

	if index < 0 {
		index = priorityIndex(name, formatterPriorities, len(r.formatters), func(i int) string { return TypeName(r.formatters[i]) })
	}
	r.formatters = insertAt(r.formatters, index, f)
	r.logger.Debug(LogMsgExtensionRegistered,
		zap.String(LogFieldExtension, name),
		zap.String(LogFieldChain, ChainFormatters),
		zap.Int(LogFieldPosition, index),
	)
	return nil
}

func (r *registry) removeSource(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.sources {
		if TypeName(s) == name {
			r.sources = removeAt(r.sources, i)
			r.logger.Debug(LogMsgExtensionRemoved, zap.String(LogFieldExtension, name), zap.String(LogFieldChain, ChainSources))
			return true
		}
	}
	return false
}

func (r *registry) removeFormatter(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range r.formatters {
		if TypeName(f) == name {
			r.formatters = removeAt(r.formatters, i)
			r.logger.Debug(LogMsgExtensionRemoved, zap.String(LogFieldExtension, name), zap.String(LogFieldChain, ChainFormatters))
			return true
		}
	}
	return false
}

func (r *registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = nil
	r.formatters = nil
}

func (r *registry) formatterByName(name string) (Formatter, bool) {
	for _, f := range r.formatterList() {
		if f.Name() != "" && r.namesEqual(f.Name(), name) {
			return f, true
		}
	}
	return nil, false
}

func (r *registry) formatterNames() []string {
	formatters := r.formatterList()
	names := make([]string, 0, len(formatters))
	for _, f := range formatters {
		if f.Name() != "" {
			names = append(names, f.Name())
		}
	}
	return names
}

func (r *registry) namesEqual(a, b string) bool {
	if r.caseSensitivity == CaseInsensitive {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// priorityIndex places a well-known extension before the first registered
// well-known extension with a higher priority value. Unknown extensions and
// those without such a successor are appended.
func priorityIndex(name string, priorities map[string]int, count int, nameAt func(int) string) int {
	priority, known := priorities[name]
	if !known {
		return count
	}
	for i := 0; i < count; i++ {
		if other, ok := priorities[nameAt(i)]; ok && other > priority {
			return i
		}
	}
	return count
}

func insertAt[T any](list []T, index int, item T) []T {
	if index > len(list) {
		index = len(list)
	}
	out := make([]T, 0, len(list)+1)
	out = append(out, list[:index]...)
	out = append(out, item)
	return append(out, list[index:]...)
}

func removeAt[T any](list []T, index int) []T {
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:index]...)
	return append(out, list[index+1:]...)
}

func isNilExtension(extension any) bool {
	if extension == nil {
		return true
	}
	v := reflect.ValueOf(extension)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
