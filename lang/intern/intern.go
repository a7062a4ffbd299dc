// Package intern implements an append-only string arena: identifier and
// string-literal bytes are stored once, and identical contents collapse to
// the same id by hash+compare.
package intern

import "github.com/dolthub/swiss"

// ID identifies an interned string. The zero value never names a real
// string; Table.Intern never returns it.
type ID int32

// Table is an append-only arena of interned strings, backed by an
// open-addressing hash map from string content to ID so identical
// identifiers collapse by hash+compare.
type Table struct {
	byID   []string
	byText *swiss.Map[string, ID]
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{
		byID:   []string{""}, // index 0 reserved, never returned by Intern
		byText: swiss.NewMap[string, ID](64),
	}
}

// Intern returns the ID for s, allocating a new arena slot the first time s
// is seen and reusing it on every subsequent call with equal content.
func (t *Table) Intern(s string) ID {
	if id, ok := t.byText.Get(s); ok {
		return id
	}
	id := ID(len(t.byID))
	t.byID = append(t.byID, s)
	t.byText.Put(s, id)
	return id
}

// Text returns the string previously interned under id. It panics if id was
// never returned by Intern on this table.
func (t *Table) Text(id ID) string {
	return t.byID[id]
}

// Len returns the number of distinct strings interned so far.
func (t *Table) Len() int {
	return len(t.byID) - 1
}
