package extensions

import (
	"strings"

	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/internal"
	"gopkg.in/yaml.v3"
)

// YAMLSource walks *yaml.Node trees. Mappings stay nodes, sequences become
// []any and scalars are decoded to their Go values.
type YAMLSource struct{}

// NewYAMLSource creates the YAML source
func NewYAMLSource() *YAMLSource { return &YAMLSource{} }

// TryEvaluateSelector implements smartfmt.Source
func (s *YAMLSource) TryEvaluateSelector(info *smartfmt.SelectorInfo) bool {
	if info.ResolveNullable() {
		return true
	}
	node, ok := info.CurrentValue().(*yaml.Node)
	if !ok || node == nil {
		return false
	}
	node = resolveYAMLNode(node)

	switch node.Kind {
	case yaml.MappingNode:
		name := info.SelectorText()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if key == name || info.IgnoreCase() && strings.EqualFold(key, name) {
				info.SetResult(yamlValue(node.Content[i+1]))
				return true
			}
		}
	case yaml.SequenceNode:
		index, ok := internal.ParseIndex(info.SelectorText())
		if ok && index < len(node.Content) {
			info.SetResult(yamlValue(node.Content[index]))
			return true
		}
	}
	return false
}

// resolveYAMLNode unwraps documents and aliases
func resolveYAMLNode(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch {
		case node.Kind == yaml.DocumentNode && len(node.Content) > 0:
			node = node.Content[0]
		case node.Kind == yaml.AliasNode && node.Alias != nil:
			node = node.Alias
		default:
			return node
		}
	}
	return node
}

func yamlValue(node *yaml.Node) any {
	node = resolveYAMLNode(node)
	switch node.Kind {
	case yaml.MappingNode:
		return node
	case yaml.SequenceNode:
		items := make([]any, len(node.Content))
		for i, item := range node.Content {
			items[i] = yamlValue(item)
		}
		return items
	case yaml.ScalarNode:
		var value any
		if err := node.Decode(&value); err != nil {
			return node.Value
		}
		return value
	}
	return nil
}
