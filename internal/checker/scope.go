package checker

import "github.com/ea-lang/ea/internal/types"

// entry is one binding in a function's local scope: `name → (type, mutable)`
// per §4.4.
type entry struct {
	Type    types.Type
	Mutable bool
}

// scope is a chained lookup table; child blocks see their parent's
// bindings but can shadow them without mutating the parent.
type scope struct {
	vars   map[string]entry
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: make(map[string]entry), parent: parent}
}

func (s *scope) define(name string, t types.Type, mutable bool) {
	s.vars[name] = entry{Type: t, Mutable: mutable}
}

func (s *scope) lookup(name string) (entry, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if e, ok := cur.vars[name]; ok {
			return e, true
		}
	}
	return entry{}, false
}
