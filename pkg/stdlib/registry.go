// Package stdlib holds the closed registries of functions and constants the
// calculator understands. Both registries are built once at package init and
// are never mutated afterwards, so lookups are safe from any goroutine.
package stdlib

import "sort"

// Func is a unary real-valued function.
type Func func(float64) float64

type builtin struct {
	fn   Func
	help string
}

type constant struct {
	value float64
	help  string
}

// Function returns the registered function called name.
// Names are matched exactly; callers lower-case identifiers first.
func Function(name string) (Func, bool) {
	b, ok := functions[name]
	if !ok {
		return nil, false
	}
	return b.fn, true
}

// Constant returns the value of the registered constant called name.
func Constant(name string) (float64, bool) {
	c, ok := constants[name]
	return c.value, ok
}

// FunctionNames returns the registered function names in sorted order.
func FunctionNames() []string {
	return sortedKeys(functions)
}

// ConstantNames returns the registered constant names in sorted order.
func ConstantNames() []string {
	return sortedKeys(constants)
}

// Describe returns a one-line description of a function or constant,
// or "" if name is in neither registry.
func Describe(name string) string {
	if b, ok := functions[name]; ok {
		return b.help
	}
	if c, ok := constants[name]; ok {
		return c.help
	}
	return ""
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
