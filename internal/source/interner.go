package source

import "fmt"

// StringID is a compact handle for an interned identifier.
type StringID uint32

// NoStringID is never returned by Intern; ID 0 is reserved for "".
const NoStringID StringID = 0

// Interner maps identifier text to dense IDs. Symbol tables and scopes key on
// StringID so name comparisons are integer comparisons.
type Interner struct {
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	in := &Interner{
		byID:  make([]string, 1, 64),
		index: make(map[string]StringID, 64),
	}
	in.byID[0] = ""
	in.index[""] = NoStringID
	return in
}

func (in *Interner) Intern(s string) StringID {
	if id, ok := in.index[s]; ok {
		return id
	}
	id := StringID(len(in.byID)) //nolint:gosec // identifiers are bounded by file size
	in.byID = append(in.byID, s)
	in.index[s] = id
	return id
}

func (in *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(in.byID) {
		return "", false
	}
	return in.byID[id], true
}

func (in *Interner) MustLookup(id StringID) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("interner: unknown id %d", id))
	}
	return s
}

func (in *Interner) Has(s string) bool {
	_, ok := in.index[s]
	return ok
}

func (in *Interner) Len() int {
	return len(in.byID)
}
