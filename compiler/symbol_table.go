package compiler

import (
	"fmt"
	"math"
	"sort"
)

// SymbolScope classifies where the value of a symbol is stored at runtime.
type SymbolScope string

const (
	GlobalScope   SymbolScope = "GLOBAL"
	LocalScope    SymbolScope = "LOCAL"
	BuiltinScope  SymbolScope = "BUILTIN"
	FreeScope     SymbolScope = "FREE"
	FunctionScope SymbolScope = "FUNCTION"
)

// Symbol is a name bound to a storage slot.
type Symbol struct {
	Name  string
	Scope SymbolScope
	Index uint16
}

// table holds the bindings of one function scope. Depth 0 is the global
// scope.
type table struct {
	store          map[string]Symbol
	numDefinitions int
	// free holds, in capture order, the enclosing-scope symbols that this
	// scope refers to. The compiler loads them before building the closure.
	free []Symbol
}

func newTable() *table {
	return &table{store: map[string]Symbol{}}
}

// SymbolTable tracks the symbols defined in the global scope and in each
// function scope currently being compiled. The tables form a stack indexed
// by depth rather than a linked chain: Push enters a function literal and
// Pop leaves it.
type SymbolTable struct {
	tables []*table
}

// NewSymbolTable returns a SymbolTable containing only the global scope.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{tables: []*table{newTable()}}
}

// Clone returns a deep copy of the table.
func (s *SymbolTable) Clone() *SymbolTable {
	clone := &SymbolTable{tables: make([]*table, len(s.tables))}
	for i, t := range s.tables {
		c := &table{
			store:          make(map[string]Symbol, len(t.store)),
			numDefinitions: t.numDefinitions,
			free:           append([]Symbol(nil), t.free...),
		}
		for name, symbol := range t.store {
			c.store[name] = symbol
		}
		clone.tables[i] = c
	}
	return clone
}

// Depth returns the number of function scopes entered. Zero means the
// global scope is innermost.
func (s *SymbolTable) Depth() int {
	return len(s.tables) - 1
}

func (s *SymbolTable) innermost() *table {
	return s.tables[len(s.tables)-1]
}

// Push enters a new function scope.
func (s *SymbolTable) Push() {
	s.tables = append(s.tables, newTable())
}

// Pop leaves the innermost function scope. It returns the enclosing-scope
// symbols the function captured, in capture order, and the number of local
// definitions it made. Popping the global scope is a programming error.
func (s *SymbolTable) Pop() (free []Symbol, numDefinitions int) {
	if s.Depth() == 0 {
		panic("compiler: cannot pop the global symbol table")
	}
	t := s.innermost()
	s.tables = s.tables[:len(s.tables)-1]
	return t.free, t.numDefinitions
}

// Define binds name in the innermost scope using the next free index. The
// symbol is global at depth zero and local otherwise.
func (s *SymbolTable) Define(name string) (Symbol, error) {
	t := s.innermost()
	if t.numDefinitions > math.MaxUint16 {
		return Symbol{}, fmt.Errorf("too many definitions in scope (max %d)", math.MaxUint16+1)
	}
	scope := LocalScope
	if s.Depth() == 0 {
		scope = GlobalScope
	}
	symbol := Symbol{Name: name, Scope: scope, Index: uint16(t.numDefinitions)}
	t.store[name] = symbol
	t.numDefinitions++
	return symbol, nil
}

// DefineBuiltin binds name to the builtin at the given index. Builtins are
// always stored in the global scope.
func (s *SymbolTable) DefineBuiltin(index int, name string) Symbol {
	symbol := Symbol{Name: name, Scope: BuiltinScope, Index: uint16(index)}
	s.tables[0].store[name] = symbol
	return symbol
}

// DefineFunctionName binds the name of the function being compiled in its
// own scope, so the body can refer to the closure currently executing.
func (s *SymbolTable) DefineFunctionName(name string) Symbol {
	symbol := Symbol{Name: name, Scope: FunctionScope, Index: 0}
	s.innermost().store[name] = symbol
	return symbol
}

// Capture records that the function scope at Depth must capture a symbol
// from its enclosing scope as a free variable.
type Capture struct {
	Depth int
	Name  string
}

// Resolution is the result of looking up a name. Symbol is the binding as
// found in the scope that defines it. Captures lists, outermost first, the
// free variable definitions needed to make that binding reachable from the
// innermost scope. Captures is empty for globals, builtins and names found
// in the innermost scope.
type Resolution struct {
	Symbol   Symbol
	Depth    int
	Captures []Capture
}

// Lookup finds name, searching from the innermost scope outward. It does
// not modify the table; apply the returned Resolution to obtain the symbol
// usable from the innermost scope.
func (s *SymbolTable) Lookup(name string) (Resolution, bool) {
	for depth := s.Depth(); depth >= 0; depth-- {
		symbol, ok := s.tables[depth].store[name]
		if !ok {
			continue
		}
		res := Resolution{Symbol: symbol, Depth: depth}
		if symbol.Scope == GlobalScope || symbol.Scope == BuiltinScope {
			return res, true
		}
		for d := depth + 1; d <= s.Depth(); d++ {
			res.Captures = append(res.Captures, Capture{Depth: d, Name: name})
		}
		return res, true
	}
	return Resolution{}, false
}

// Apply performs the captures of a Resolution and returns the symbol as
// seen from the innermost scope. Each capture appends the symbol visible in
// the enclosing scope to the capturing scope's free list and binds the name
// there as a free symbol.
func (s *SymbolTable) Apply(res Resolution) Symbol {
	symbol := res.Symbol
	for _, capture := range res.Captures {
		t := s.tables[capture.Depth]
		t.free = append(t.free, symbol)
		symbol = Symbol{
			Name:  capture.Name,
			Scope: FreeScope,
			Index: uint16(len(t.free) - 1),
		}
		t.store[capture.Name] = symbol
	}
	return symbol
}

// Resolve looks up name and applies any captures needed to reach it.
func (s *SymbolTable) Resolve(name string) (Symbol, bool) {
	res, ok := s.Lookup(name)
	if !ok {
		return Symbol{}, false
	}
	return s.Apply(res), true
}

// NumFree returns the number of symbols captured by the function scope at
// depth.
func (s *SymbolTable) NumFree(depth int) int {
	return len(s.tables[depth].free)
}

// FreeSymbols returns the symbols captured so far by the innermost scope.
func (s *SymbolTable) FreeSymbols() []Symbol {
	return s.innermost().free
}

// Names returns every name visible from the innermost scope, sorted.
func (s *SymbolTable) Names() []string {
	seen := map[string]bool{}
	var names []string
	for _, t := range s.tables {
		for name := range t.store {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
