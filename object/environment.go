package object

// Environment stores the name bindings of the tree-walking evaluator. Each
// function call gets an environment enclosed by the one the function was
// defined in.
type Environment struct {
	store map[string]Object
	outer *Environment
}

// NewEnvironment returns an empty top-level environment.
func NewEnvironment() *Environment {
	return &Environment{store: map[string]Object{}}
}

// NewEnclosedEnvironment returns an empty environment whose lookups fall
// back to outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Get returns the value bound to name in this environment or the nearest
// enclosing one.
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.outer {
		if obj, ok := env.store[name]; ok {
			return obj, true
		}
	}
	return nil, false
}

// Set binds name in this environment, shadowing any outer binding.
func (e *Environment) Set(name string, value Object) Object {
	e.store[name] = value
	return value
}

// Outer returns the enclosing environment, which is nil at the top level.
func (e *Environment) Outer() *Environment {
	return e.outer
}
