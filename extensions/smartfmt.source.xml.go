package extensions

import (
	"strings"

	"github.com/beevik/etree"
	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/internal"
)

// XMLSource walks etree documents. {Person.Name} selects child elements by
// tag, {Person.@id} reads an attribute and a numeric selector picks the
// n-th child element. A single leaf element resolves to its text, several
// matching elements to a []any of elements.
type XMLSource struct{}

// NewXMLSource creates the XML source
func NewXMLSource() *XMLSource { return &XMLSource{} }

// Initialize registers the attribute marker as a selector character
func (s *XMLSource) Initialize(e *smartfmt.Engine) error {
	e.Parser().AddSelectorChars(AttributeMark)
	return nil
}

// TryEvaluateSelector implements smartfmt.Source
func (s *XMLSource) TryEvaluateSelector(info *smartfmt.SelectorInfo) bool {
	if info.ResolveNullable() {
		return true
	}

	var element *etree.Element
	switch v := info.CurrentValue().(type) {
	case *etree.Document:
		if v == nil {
			return false
		}
		element = &v.Element
	case *etree.Element:
		element = v
	}
	if element == nil {
		return false
	}

	name := info.SelectorText()
	if attr, ok := strings.CutPrefix(name, AttributeMark); ok {
		for _, a := range element.Attr {
			if a.Key == attr || info.IgnoreCase() && strings.EqualFold(a.Key, attr) {
				info.SetResult(a.Value)
				return true
			}
		}
		return false
	}

	if index, ok := internal.ParseIndex(name); ok {
		children := element.ChildElements()
		if index >= len(children) {
			return false
		}
		info.SetResult(xmlValue(children[index]))
		return true
	}

	var matches []*etree.Element
	for _, child := range element.ChildElements() {
		if child.Tag == name || info.IgnoreCase() && strings.EqualFold(child.Tag, name) {
			matches = append(matches, child)
		}
	}
	switch len(matches) {
	case 0:
		return false
	case 1:
		info.SetResult(xmlValue(matches[0]))
	default:
		items := make([]any, len(matches))
		for i, m := range matches {
			items[i] = m
		}
		info.SetResult(items)
	}
	return true
}

// xmlValue returns the text of leaf elements and the element otherwise
func xmlValue(element *etree.Element) any {
	if len(element.ChildElements()) == 0 && len(element.Attr) == 0 {
		return element.Text()
	}
	return element
}
