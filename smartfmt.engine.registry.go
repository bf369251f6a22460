package smartfmt

// AddSources registers sources. Well-known source types are placed by their
// priority; other types are appended. Registration stops at the first error.
func (e *Engine) AddSources(sources ...Source) error {
	for _, source := range sources {
		if err := e.addSource(-1, source); err != nil {
			return err
		}
	}
	return nil
}

// AddFormatters registers formatters. Well-known formatter types are placed
// by their priority; other types are appended. Registration stops at the
// first error.
func (e *Engine) AddFormatters(formatters ...Formatter) error {
	for _, formatter := range formatters {
		if err := e.addFormatter(-1, formatter); err != nil {
			return err
		}
	}
	return nil
}

// InsertSource registers source at index in the source chain, ignoring the
// priority table. Out of range indexes are clamped.
func (e *Engine) InsertSource(index int, source Source) error {
	if index < 0 {
		index = 0
	}
	return e.addSource(index, source)
}

// InsertFormatter registers formatter at index in the formatter chain,
// ignoring the priority table. Out of range indexes are clamped.
func (e *Engine) InsertFormatter(index int, formatter Formatter) error {
	if index < 0 {
		index = 0
	}
	return e.addFormatter(index, formatter)
}

// RemoveSource removes the registered source of the same type.
func (e *Engine) RemoveSource(source Source) bool {
	removed := e.registry.removeSource(TypeName(source))
	if removed {
		e.cache.clear()
	}
	return removed
}

// RemoveFormatter removes the registered formatter of the same type.
func (e *Engine) RemoveFormatter(formatter Formatter) bool {
	removed := e.registry.removeFormatter(TypeName(formatter))
	if removed {
		e.cache.clear()
	}
	return removed
}

// ClearExtensions removes every source and formatter.
func (e *Engine) ClearExtensions() {
	e.registry.clear()
	e.cache.clear()
}

// Sources returns the source chain in evaluation order
func (e *Engine) Sources() []Source {
	list := e.registry.sourceList()
	out := make([]Source, len(list))
	copy(out, list)
	return out
}

// Formatters returns the formatter chain in evaluation order
func (e *Engine) Formatters() []Formatter {
	list := e.registry.formatterList()
	out := make([]Formatter, len(list))
	copy(out, list)
	return out
}

// FormatterByName finds a formatter by its name, honouring the case
// sensitivity setting.
func (e *Engine) FormatterByName(name string) (Formatter, bool) {
	return e.registry.formatterByName(name)
}

// FormatterNames returns the names of all named formatters in chain order
func (e *Engine) FormatterNames() []string {
	return e.registry.formatterNames()
}

// SourceOf returns the registered source of type T.
func SourceOf[T Source](e *Engine) (T, bool) {
	for _, source := range e.registry.sourceList() {
		if typed, ok := source.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

// FormatterOf returns the registered formatter of type T.
func FormatterOf[T Formatter](e *Engine) (T, bool) {
	for _, formatter := range e.registry.formatterList() {
		if typed, ok := formatter.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

// addSource and addFormatter clear the parse cache once the extension is
// initialized, so no format parsed before its characters were added survives.
func (e *Engine) addSource(index int, source Source) error {
	if err := e.registry.insertSource(index, source); err != nil {
		return err
	}
	defer e.cache.clear()
	return e.initialize(source, func() { e.registry.removeSource(TypeName(source)) })
}

func (e *Engine) addFormatter(index int, formatter Formatter) error {
	if err := e.registry.insertFormatter(index, formatter); err != nil {
		return err
	}
	defer e.cache.clear()
	return e.initialize(formatter, func() { e.registry.removeFormatter(TypeName(formatter)) })
}

// initialize runs the extension's Initializer hook and rolls the
// registration back when it fails.
func (e *Engine) initialize(extension any, rollback func()) error {
	initializer, ok := extension.(Initializer)
	if !ok {
		return nil
	}
	if err := initializer.Initialize(e); err != nil {
		rollback()
		return NewInitializeError(TypeName(extension), err)
	}
	return nil
}
