// Package vars implements discdiag's variable stack: an ordered list of
// (name, value) bindings with scope marks for procedure-call locals, plus
// the read-only pseudo-variables resolved ahead of user variables.
//
// Adapted from the teacher's symbols.go string interning, generalized from
// a single flat symbol table into a LIFO stack of bindings so that
// TruncateTo can drop a call's locals in one step (spec §4.3/§4.5).
package vars

import (
	"github.com/samiam95124/diskdiagnostic/internal/lexer"
	"github.com/samiam95124/diskdiagnostic/internal/symtab"
)

type binding struct {
	id  uint32
	val int64
}

// PseudoVar is a read-only variable computed on reference rather than
// stored; cursor is passed through for a future pseudo-variable that
// consumes trailing arguments (spec §9).
type PseudoVar func(cursor *lexer.Cursor) (int64, error)

// Store is the live variable stack plus the pseudo-variable table.
type Store struct {
	syms     symtab.Table
	bindings []binding
	pseudo   map[string]PseudoVar

	// Logf receives a line whenever `set` shadows a pseudo-variable name,
	// ambient TRACE-level diagnostics with no effect on behavior. Nil
	// disables logging.
	Logf func(format string, args ...interface{})
}

// NewStore returns an empty Store with the given pseudo-variable table.
func NewStore(pseudo map[string]PseudoVar) *Store {
	return &Store{pseudo: pseudo}
}

// Resolve implements eval.Resolver: pseudo-variables take priority over
// user variables of the same name (spec §9).
func (s *Store) Resolve(cursor *lexer.Cursor, name string) (int64, bool, error) {
	if fn, ok := s.pseudo[name]; ok {
		v, err := fn(cursor)
		if err != nil {
			return 0, true, err
		}
		return v, true, nil
	}
	if v, ok := s.Find(name); ok {
		return v, true, nil
	}
	return 0, false, nil
}

// Find searches top-down for name among user variables only (pseudo-variables
// are not visited), returning its current value.
func (s *Store) Find(name string) (int64, bool) {
	id, ok := s.syms.Lookup(name)
	if !ok {
		return 0, false
	}
	for i := len(s.bindings) - 1; i >= 0; i-- {
		if s.bindings[i].id == id {
			return s.bindings[i].val, true
		}
	}
	return 0, false
}

// Set finds the topmost existing binding for name and updates it in place;
// if none exists, it pushes a new one (spec §4.3's "set").
func (s *Store) Set(name string, val int64) {
	if _, ok := s.pseudo[name]; ok {
		if s.Logf != nil {
			s.Logf("set: %q shadows a pseudo-variable; new binding is unreachable", name)
		}
	}
	id := s.syms.Intern(name)
	for i := len(s.bindings) - 1; i >= 0; i-- {
		if s.bindings[i].id == id {
			s.bindings[i].val = val
			return
		}
	}
	s.bindings = append(s.bindings, binding{id: id, val: val})
}

// Local always pushes a new binding, shadowing any existing one with the
// same name (spec §4.3's "local", used for procedure parameters).
func (s *Store) Local(name string, val int64) {
	if _, ok := s.pseudo[name]; ok && s.Logf != nil {
		s.Logf("local: %q shadows a pseudo-variable; new binding is unreachable", name)
	}
	id := s.syms.Intern(name)
	s.bindings = append(s.bindings, binding{id: id, val: val})
}

// Binding is one live (name, value) pair, as reported by Snapshot.
type Binding struct {
	Name string
	Val  int64
}

// Snapshot lists every live user-variable binding, top (most recently
// pushed) first — the order `listvariables` prints in.
func (s *Store) Snapshot() []Binding {
	out := make([]Binding, 0, len(s.bindings))
	for i := len(s.bindings) - 1; i >= 0; i-- {
		b := s.bindings[i]
		out = append(out, Binding{Name: s.syms.String(b.id), Val: b.val})
	}
	return out
}

// Mark returns the current stack depth, to be passed to a later
// TruncateTo when the enclosing call returns.
func (s *Store) Mark() int { return len(s.bindings) }

// TruncateTo drops every binding pushed since mark (spec §4.5: popping an
// interpreter frame truncates the variable stack to its LocalsMark).
func (s *Store) TruncateTo(mark int) {
	if mark < len(s.bindings) {
		s.bindings = s.bindings[:mark]
	}
}
