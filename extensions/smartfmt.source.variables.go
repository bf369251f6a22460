package extensions

import (
	"sort"
	"strings"
	"sync"

	smartfmt "github.com/itsatony/go-smartfmt"
)

// VariablesGroup is a named set of variables, addressed in templates as
// {group.variable}. It is safe for concurrent use.
type VariablesGroup struct {
	mu   sync.RWMutex
	vars map[string]any
}

// NewVariablesGroup creates an empty group
func NewVariablesGroup() *VariablesGroup {
	return &VariablesGroup{vars: make(map[string]any)}
}

// Set stores a variable. A *VariablesGroup value nests groups.
func (g *VariablesGroup) Set(name string, value any) *VariablesGroup {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.vars[name] = value
	return g
}

// Get returns a variable by its exact name
func (g *VariablesGroup) Get(name string) (any, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	value, ok := g.vars[name]
	return value, ok
}

// Remove deletes a variable
func (g *VariablesGroup) Remove(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.vars, name)
}

// Names returns the sorted variable names
func (g *VariablesGroup) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.vars)
}

func (g *VariablesGroup) lookup(name string, ignoreCase bool) (any, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return lookupName(g.vars, name, ignoreCase)
}

// VariablesContainer maps group names to groups. It is safe for concurrent
// use.
type VariablesContainer struct {
	mu     sync.RWMutex
	groups map[string]*VariablesGroup
}

// NewVariablesContainer creates an empty container
func NewVariablesContainer() *VariablesContainer {
	return &VariablesContainer{groups: make(map[string]*VariablesGroup)}
}

// Add stores group under name, replacing an existing group of that name
func (c *VariablesContainer) Add(name string, group *VariablesGroup) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups[name] = group
}

// Get returns the group with the exact name
func (c *VariablesContainer) Get(name string) (*VariablesGroup, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	group, ok := c.groups[name]
	return group, ok
}

// Remove deletes a group
func (c *VariablesContainer) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.groups, name)
}

// Clear removes all groups
func (c *VariablesContainer) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups = make(map[string]*VariablesGroup)
}

// Names returns the sorted group names
func (c *VariablesContainer) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.groups)
}

func (c *VariablesContainer) lookup(name string, ignoreCase bool) (*VariablesGroup, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lookupName(c.groups, name, ignoreCase)
}

var globalVariables = NewVariablesContainer()

// GlobalVariables returns the process-wide container read by every
// GlobalVariablesSource.
func GlobalVariables() *VariablesContainer { return globalVariables }

// GlobalVariablesSource resolves {group.variable} against the process-wide
// variables container.
type GlobalVariablesSource struct{}

// NewGlobalVariablesSource creates a source reading GlobalVariables()
func NewGlobalVariablesSource() *GlobalVariablesSource { return &GlobalVariablesSource{} }

// TryEvaluateSelector implements smartfmt.Source
func (s *GlobalVariablesSource) TryEvaluateSelector(info *smartfmt.SelectorInfo) bool {
	return evaluateVariables(globalVariables, info)
}

// PersistentVariablesSource resolves {group.variable} against a container
// owned by the source instance, so variables live as long as the engine
// holding the source.
type PersistentVariablesSource struct {
	container *VariablesContainer
}

// NewPersistentVariablesSource creates a source with an empty container
func NewPersistentVariablesSource() *PersistentVariablesSource {
	return &PersistentVariablesSource{container: NewVariablesContainer()}
}

// Container returns the variables of this source
func (s *PersistentVariablesSource) Container() *VariablesContainer { return s.container }

// TryEvaluateSelector implements smartfmt.Source
func (s *PersistentVariablesSource) TryEvaluateSelector(info *smartfmt.SelectorInfo) bool {
	return evaluateVariables(s.container, info)
}

// evaluateVariables resolves a group name as the first selector and variable
// names on groups selected before.
func evaluateVariables(container *VariablesContainer, info *smartfmt.SelectorInfo) bool {
	if group, ok := info.CurrentValue().(*VariablesGroup); ok {
		value, found := group.lookup(info.SelectorText(), info.IgnoreCase())
		if found {
			info.SetResult(value)
		}
		return found
	}
	if info.SelectorIndex() != 0 {
		return false
	}
	group, ok := container.lookup(info.SelectorText(), info.IgnoreCase())
	if !ok {
		return false
	}
	info.SetResult(group)
	return true
}

func lookupName[V any](m map[string]V, name string, ignoreCase bool) (V, bool) {
	if value, ok := m[name]; ok {
		return value, true
	}
	if ignoreCase {
		for key, value := range m {
			if strings.EqualFold(key, name) {
				return value, true
			}
		}
	}
	var zero V
	return zero, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
