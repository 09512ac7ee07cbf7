package ast

import (
	"slices"
)

// AttrTargetMask describes where an attribute may be written.
type AttrTargetMask uint16

const (
	AttrTargetNone   AttrTargetMask = 0
	AttrTargetFn     AttrTargetMask = 1 << iota // function declarations
	AttrTargetParam                             // function parameters
	AttrTargetReturn                            // function return type
	AttrTargetMember                            // struct members
	AttrTargetVar                               // module-scope var
	AttrTargetOverride                          // override declarations
	AttrTargetStmt                              // compound statements and switch bodies
)

func (m AttrTargetMask) String() string {
	switch m {
	case AttrTargetFn:
		return "functions"
	case AttrTargetParam:
		return "function parameters"
	case AttrTargetReturn:
		return "function return types"
	case AttrTargetMember:
		return "struct members"
	case AttrTargetVar:
		return "module-scope 'var'"
	case AttrTargetOverride:
		return "'override' declarations"
	case AttrTargetStmt:
		return "statements"
	}
	return "this declaration"
}

// AttrSpec describes an attribute: its kind, where it can appear and how many
// arguments it takes.
type AttrSpec struct {
	Name    string
	Kind    AttrKind
	Targets AttrTargetMask
	MinArgs int
	MaxArgs int
}

func (spec AttrSpec) Allows(target AttrTargetMask) bool {
	return spec.Targets&target != 0
}

const ioTargets = AttrTargetParam | AttrTargetReturn | AttrTargetMember

var attrRegistry = map[string]AttrSpec{
	"align":          {Name: "align", Kind: AttrAlign, Targets: AttrTargetMember, MinArgs: 1, MaxArgs: 1},
	"binding":        {Name: "binding", Kind: AttrBinding, Targets: AttrTargetVar, MinArgs: 1, MaxArgs: 1},
	"builtin":        {Name: "builtin", Kind: AttrBuiltin, Targets: ioTargets, MinArgs: 1, MaxArgs: 1},
	"compute":        {Name: "compute", Kind: AttrCompute, Targets: AttrTargetFn},
	"const":          {Name: "const", Kind: AttrConst, Targets: AttrTargetNone},
	"diagnostic":     {Name: "diagnostic", Kind: AttrDiagnostic, Targets: AttrTargetFn | AttrTargetStmt, MinArgs: 2, MaxArgs: 2},
	"fragment":       {Name: "fragment", Kind: AttrFragment, Targets: AttrTargetFn},
	"group":          {Name: "group", Kind: AttrGroup, Targets: AttrTargetVar, MinArgs: 1, MaxArgs: 1},
	"id":             {Name: "id", Kind: AttrIdent, Targets: AttrTargetOverride, MinArgs: 1, MaxArgs: 1},
	"interpolate":    {Name: "interpolate", Kind: AttrInterpolate, Targets: ioTargets, MinArgs: 1, MaxArgs: 2},
	"invariant":      {Name: "invariant", Kind: AttrInvariant, Targets: ioTargets},
	"location":       {Name: "location", Kind: AttrLocation, Targets: ioTargets, MinArgs: 1, MaxArgs: 1},
	"must_use":       {Name: "must_use", Kind: AttrMustUse, Targets: AttrTargetFn},
	"offset":         {Name: "offset", Kind: AttrOffset, Targets: AttrTargetMember, MinArgs: 1, MaxArgs: 1},
	"size":           {Name: "size", Kind: AttrSize, Targets: AttrTargetMember, MinArgs: 1, MaxArgs: 1},
	"stride":         {Name: "stride", Kind: AttrStride, Targets: AttrTargetMember, MinArgs: 1, MaxArgs: 1},
	"vertex":         {Name: "vertex", Kind: AttrVertex, Targets: AttrTargetFn},
	"workgroup_size": {Name: "workgroup_size", Kind: AttrWorkgroupSize, Targets: AttrTargetFn, MinArgs: 1, MaxArgs: 3},
}

// LookupAttr returns metadata for the given attribute name. Names are case-sensitive.
func LookupAttr(name string) (AttrSpec, bool) {
	spec, ok := attrRegistry[name]
	return spec, ok
}

// AttrSpecByKind is the reverse lookup used when rendering diagnostics.
func AttrSpecByKind(kind AttrKind) (AttrSpec, bool) {
	for _, spec := range attrRegistry {
		if spec.Kind == kind {
			return spec, true
		}
	}
	return AttrSpec{}, false
}

// AttrSpecs returns all registered attribute specifications sorted by name.
func AttrSpecs() []AttrSpec {
	names := make([]string, 0, len(attrRegistry))
	for name := range attrRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	result := make([]AttrSpec, 0, len(names))
	for _, name := range names {
		result = append(result, attrRegistry[name])
	}
	return result
}
