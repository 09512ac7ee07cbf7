package dag

import (
	"fmt"

	"fortio.org/safecast"

	"wgslfront/internal/source"
)

// NodeID indexes a module-scope declaration in declaration order.
type NodeID uint32

// UseMeta is one identifier reference inside a declaration.
type UseMeta struct {
	Name string
	Span source.Span
}

// DeclMeta describes a module-scope declaration for dependency sorting.
// Name is empty for anonymous declarations such as const_assert.
type DeclMeta struct {
	Name string
	Kind string // "const", "fn", ... used in messages
	Span source.Span
	Uses []UseMeta
}

type DeclIndex struct {
	NameToID map[string]NodeID
	IDToName []string
}

// BuildIndex раздаёт ID по порядку объявления; первое объявление имени
// выигрывает, повторы ловит BuildGraph.
func BuildIndex(metas []DeclMeta) DeclIndex {
	idx := DeclIndex{
		NameToID: make(map[string]NodeID, len(metas)),
		IDToName: make([]string, len(metas)),
	}
	for i, meta := range metas {
		id, err := safecast.Conv[NodeID](i)
		if err != nil {
			panic(fmt.Errorf("declaration id overflow: %w", err))
		}
		idx.IDToName[i] = meta.Name
		if meta.Name == "" {
			continue
		}
		if _, dup := idx.NameToID[meta.Name]; !dup {
			idx.NameToID[meta.Name] = id
		}
	}
	return idx
}
