package parser

import "github.com/dolthub/swiss"

// scopedMap is a stack of open-addressing hash maps: pushScope opens a new
// innermost level on block entry, popScope closes it on exit, and lookup
// walks from innermost to outermost. The Parser keeps three independent
// instances (types, typedefs, declarations) that are always pushed and
// popped together, the stacked-scope design spec.md §3 calls ScopedMap.
type scopedMap[V any] struct {
	levels []*swiss.Map[string, V]
}

// push opens a new innermost level.
func (s *scopedMap[V]) push() {
	s.levels = append(s.levels, swiss.NewMap[string, V](8))
}

// pop closes the innermost level, discarding everything declared in it.
func (s *scopedMap[V]) pop() {
	s.levels = s.levels[:len(s.levels)-1]
}

// depth returns the number of currently open levels.
func (s *scopedMap[V]) depth() int { return len(s.levels) }

// insert adds key to the innermost level, reporting false without
// modifying anything if key is already present at that level (a
// same-scope redeclaration).
func (s *scopedMap[V]) insert(key string, v V) bool {
	top := s.levels[len(s.levels)-1]
	if _, ok := top.Get(key); ok {
		return false
	}
	top.Put(key, v)
	return true
}

// set installs key in the innermost level unconditionally, overwriting a
// prior entry at that level. Used for the tag-table insert-then-define
// pattern, where the tag is installed (possibly as an incomplete type)
// before its body is parsed.
func (s *scopedMap[V]) set(key string, v V) {
	s.levels[len(s.levels)-1].Put(key, v)
}

// lookup walks from innermost to outermost level and returns the first
// match.
func (s *scopedMap[V]) lookup(key string) (V, bool) {
	for i := len(s.levels) - 1; i >= 0; i-- {
		if v, ok := s.levels[i].Get(key); ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// lookupInnermost reports only an entry declared in the current (topmost)
// level, used to detect a duplicate declaration within the same scope.
func (s *scopedMap[V]) lookupInnermost(key string) (V, bool) {
	if len(s.levels) == 0 {
		var zero V
		return zero, false
	}
	return s.levels[len(s.levels)-1].Get(key)
}
