package runtime

// Scope maps variable names to values.
type Scope map[string]Value

// Environment is the scope stack. Index 0 is the global scope, which is
// never popped; the last entry is the current scope.
//
// Lookups consult the current scope and then the global scope only. Scopes
// between the two are never visible, so a variable declared by an outer
// for-loop cannot be seen from a function it calls.
type Environment struct {
	scopes []Scope
}

// NewEnvironment creates a stack holding only an empty global scope.
func NewEnvironment() *Environment {
	return &Environment{scopes: []Scope{make(Scope)}}
}

// Global returns the global scope.
func (e *Environment) Global() Scope {
	return e.scopes[0]
}

// Current returns the top of the stack.
func (e *Environment) Current() Scope {
	return e.scopes[len(e.scopes)-1]
}

// Depth returns the number of scopes on the stack, including the global one.
func (e *Environment) Depth() int {
	return len(e.scopes)
}

// Push makes s the current scope. A nil s pushes an empty scope.
func (e *Environment) Push(s Scope) {
	if s == nil {
		s = make(Scope)
	}
	e.scopes = append(e.scopes, s)
}

// Pop discards the current scope. The global scope is never removed.
func (e *Environment) Pop() {
	if len(e.scopes) > 1 {
		e.scopes[len(e.scopes)-1] = nil
		e.scopes = e.scopes[:len(e.scopes)-1]
	}
}

// Define binds name in the current scope, replacing any existing binding.
func (e *Environment) Define(name string, value Value) {
	e.Current()[name] = value
}

// Get looks name up in the current scope, then the global scope.
func (e *Environment) Get(name string) (Value, bool) {
	if val, ok := e.Current()[name]; ok {
		return val, true
	}
	val, ok := e.Global()[name]
	return val, ok
}

// Set updates name in the current scope if bound there, else in the global
// scope if bound there, else declares it in the current scope.
func (e *Environment) Set(name string, value Value) {
	if cur := e.Current(); hasName(cur, name) {
		cur[name] = value
		return
	}
	if g := e.Global(); hasName(g, name) {
		g[name] = value
		return
	}
	e.Define(name, value)
}

func hasName(s Scope, name string) bool {
	_, ok := s[name]
	return ok
}
