package internal

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type address struct {
	City string
}

type person struct {
	Name    string
	Address *address
	secret  string
}

func (p person) Greeting() string { return "Hi " + p.Name }

func (p *person) Initials() (string, error) {
	if p.Name == "" {
		return "", errors.New("no name")
	}
	return p.Name[:1], nil
}

func (p person) WithArg(string) string { return "" }

func TestMemberCache_Resolve(t *testing.T) {
	cache := NewMemberCache()
	p := &person{Name: "Ann", Address: &address{City: "Oslo"}, secret: "x"}

	tests := []struct {
		name       string
		value      any
		member     string
		ignoreCase bool
		expected   any
		ok         bool
	}{
		{"field through pointer", p, "Name", false, "Ann", true},
		{"field on value", *p, "Name", false, "Ann", true},
		{"nested pointer field", p, "Address", false, p.Address, true},
		{"value method", *p, "Greeting", false, "Hi Ann", true},
		{"pointer method", p, "Initials", false, "A", true},
		{"case mismatch", p, "name", false, nil, false},
		{"ignore case", p, "name", true, "Ann", true},
		{"unexported field", p, "secret", false, nil, false},
		{"method with argument", p, "WithArg", false, nil, false},
		{"missing", p, "Age", false, nil, false},
		{"not a struct", 42, "Name", false, nil, false},
		{"nil", nil, "Name", false, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cache.Resolve(tt.value, tt.member, tt.ignoreCase)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestMemberCache_MethodError(t *testing.T) {
	cache := NewMemberCache()

	_, ok := cache.Resolve(&person{}, "Initials", false)
	assert.False(t, ok)
}

func TestMemberCache_NilPointer(t *testing.T) {
	cache := NewMemberCache()
	var p *person

	_, ok := cache.Resolve(p, "Name", false)
	assert.False(t, ok)
}

func TestMemberCache_Concurrent(t *testing.T) {
	cache := NewMemberCache()
	p := person{Name: "Bo"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, ok := cache.Resolve(p, "Name", i%2 == 0)
			assert.True(t, ok)
			assert.Equal(t, "Bo", got)
		}()
	}
	wg.Wait()
}
