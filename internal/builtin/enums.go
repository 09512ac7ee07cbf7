package builtin

import "slices"

// table maps the spelling of an enumerant to its value. Index 0 is the
// "undefined" value of every enum and has no spelling.
type table[T ~uint8] struct {
	names  []string
	lookup map[string]T
}

func newTable[T ~uint8](names ...string) table[T] {
	t := table[T]{names: append([]string{""}, names...), lookup: make(map[string]T, len(names))}
	for i, n := range names {
		t.lookup[n] = T(i + 1)
	}
	return t
}

func (t table[T]) parse(s string) T { return t.lookup[s] }

func (t table[T]) name(v T) string {
	if int(v) < len(t.names) {
		return t.names[v]
	}
	return "<invalid>"
}

// strings returns the spellings sorted, the way "Possible values" lists them.
func (t table[T]) strings() []string {
	out := slices.Clone(t.names[1:])
	slices.Sort(out)
	return out
}

// Extension is a language extension named by `enable`.
type Extension uint8

const ExtensionUndefined Extension = 0

var extensions = newTable[Extension](
	"chromium_disable_uniformity_analysis",
	"chromium_experimental_dp4a",
	"chromium_experimental_full_ptr_parameters",
	"chromium_experimental_push_constant",
	"chromium_internal_relaxed_uniform_layout",
	"f16",
)

var (
	ExtDisableUniformityAnalysis = extensions.parse("chromium_disable_uniformity_analysis")
	ExtDP4A                      = extensions.parse("chromium_experimental_dp4a")
	ExtFullPtrParameters         = extensions.parse("chromium_experimental_full_ptr_parameters")
	ExtPushConstant              = extensions.parse("chromium_experimental_push_constant")
	ExtRelaxedUniformLayout      = extensions.parse("chromium_internal_relaxed_uniform_layout")
	ExtF16                       = extensions.parse("f16")
)

func ParseExtension(s string) Extension { return extensions.parse(s) }
func (e Extension) String() string      { return extensions.name(e) }
func ExtensionStrings() []string        { return extensions.strings() }

// Extensions is a set of enabled extensions.
type Extensions uint32

func (s Extensions) Has(e Extension) bool { return e != 0 && s&(1<<e) != 0 }
func (s Extensions) With(e Extension) Extensions {
	if e == 0 {
		return s
	}
	return s | 1<<e
}

// List returns the enabled extensions in declaration order.
func (s Extensions) List() []Extension {
	var out []Extension
	for i := 1; i < len(extensions.names); i++ {
		if s.Has(Extension(i)) {
			out = append(out, Extension(i))
		}
	}
	return out
}

// AddressSpace is the storage class of a variable.
type AddressSpace uint8

const AddressSpaceUndefined AddressSpace = 0

var addressSpaces = newTable[AddressSpace](
	"function",
	"private",
	"push_constant",
	"storage",
	"uniform",
	"workgroup",
	"handle",
)

var (
	AddressSpaceFunction     = addressSpaces.parse("function")
	AddressSpacePrivate      = addressSpaces.parse("private")
	AddressSpacePushConstant = addressSpaces.parse("push_constant")
	AddressSpaceStorage      = addressSpaces.parse("storage")
	AddressSpaceUniform      = addressSpaces.parse("uniform")
	AddressSpaceWorkgroup    = addressSpaces.parse("workgroup")
	AddressSpaceHandle       = addressSpaces.parse("handle")
)

// ParseAddressSpace never returns AddressSpaceHandle: handle is implied for
// textures and samplers and cannot be spelled.
func ParseAddressSpace(s string) AddressSpace {
	if s == "handle" {
		return AddressSpaceUndefined
	}
	return addressSpaces.parse(s)
}

func (a AddressSpace) String() string { return addressSpaces.name(a) }

func AddressSpaceStrings() []string {
	return slices.DeleteFunc(addressSpaces.strings(), func(s string) bool { return s == "handle" })
}

// IsHostShareable reports spaces whose contents are visible to the host.
func (a AddressSpace) IsHostShareable() bool {
	return a == AddressSpaceUniform || a == AddressSpaceStorage || a == AddressSpacePushConstant
}

// DefaultAccess is the access mode used when `var<space>` omits one.
func (a AddressSpace) DefaultAccess() Access {
	switch a {
	case AddressSpaceStorage, AddressSpaceUniform, AddressSpaceHandle, AddressSpacePushConstant:
		return AccessRead
	}
	return AccessReadWrite
}

type Access uint8

const AccessUndefined Access = 0

var accesses = newTable[Access]("read", "read_write", "write")

var (
	AccessRead      = accesses.parse("read")
	AccessReadWrite = accesses.parse("read_write")
	AccessWrite     = accesses.parse("write")
)

func ParseAccess(s string) Access { return accesses.parse(s) }
func (a Access) String() string   { return accesses.name(a) }
func AccessStrings() []string     { return accesses.strings() }
func (a Access) CanRead() bool    { return a == AccessRead || a == AccessReadWrite }
func (a Access) CanWrite() bool   { return a == AccessWrite || a == AccessReadWrite }

// Value is a pipeline builtin value named by @builtin.
type Value uint8

const ValueUndefined Value = 0

var values = newTable[Value](
	"frag_depth",
	"front_facing",
	"global_invocation_id",
	"instance_index",
	"local_invocation_id",
	"local_invocation_index",
	"num_workgroups",
	"position",
	"sample_index",
	"sample_mask",
	"vertex_index",
	"workgroup_id",
)

var (
	ValueFragDepth            = values.parse("frag_depth")
	ValueFrontFacing          = values.parse("front_facing")
	ValueGlobalInvocationID   = values.parse("global_invocation_id")
	ValueInstanceIndex        = values.parse("instance_index")
	ValueLocalInvocationID    = values.parse("local_invocation_id")
	ValueLocalInvocationIndex = values.parse("local_invocation_index")
	ValueNumWorkgroups        = values.parse("num_workgroups")
	ValuePosition             = values.parse("position")
	ValueSampleIndex          = values.parse("sample_index")
	ValueSampleMask           = values.parse("sample_mask")
	ValueVertexIndex          = values.parse("vertex_index")
	ValueWorkgroupID          = values.parse("workgroup_id")
)

func ParseValue(s string) Value { return values.parse(s) }
func (v Value) String() string  { return values.name(v) }
func ValueStrings() []string    { return values.strings() }

type InterpolationType uint8

var interpTypes = newTable[InterpolationType]("flat", "linear", "perspective")

var (
	InterpolationFlat        = interpTypes.parse("flat")
	InterpolationLinear      = interpTypes.parse("linear")
	InterpolationPerspective = interpTypes.parse("perspective")
)

func ParseInterpolationType(s string) InterpolationType { return interpTypes.parse(s) }
func (t InterpolationType) String() string              { return interpTypes.name(t) }
func InterpolationTypeStrings() []string                { return interpTypes.strings() }

type InterpolationSampling uint8

var interpSamplings = newTable[InterpolationSampling]("center", "centroid", "sample")

func ParseInterpolationSampling(s string) InterpolationSampling { return interpSamplings.parse(s) }
func (s InterpolationSampling) String() string                  { return interpSamplings.name(s) }
func InterpolationSamplingStrings() []string                    { return interpSamplings.strings() }

// TexelFormat is the format argument of texture_storage_* types.
type TexelFormat uint8

var texelFormats = newTable[TexelFormat](
	"bgra8unorm",
	"r32float",
	"r32sint",
	"r32uint",
	"rg32float",
	"rg32sint",
	"rg32uint",
	"rgba16float",
	"rgba16sint",
	"rgba16uint",
	"rgba32float",
	"rgba32sint",
	"rgba32uint",
	"rgba8sint",
	"rgba8snorm",
	"rgba8uint",
	"rgba8unorm",
)

func ParseTexelFormat(s string) TexelFormat { return texelFormats.parse(s) }
func (f TexelFormat) String() string        { return texelFormats.name(f) }
func TexelFormatStrings() []string          { return texelFormats.strings() }

// DiagnosticSeverity is the first argument of `diagnostic(...)`.
type DiagnosticSeverity uint8

var severities = newTable[DiagnosticSeverity]("error", "info", "off", "warning")

var (
	SeverityError   = severities.parse("error")
	SeverityInfo    = severities.parse("info")
	SeverityOff     = severities.parse("off")
	SeverityWarning = severities.parse("warning")
)

func ParseDiagnosticSeverity(s string) DiagnosticSeverity { return severities.parse(s) }
func (s DiagnosticSeverity) String() string               { return severities.name(s) }
func DiagnosticSeverityStrings() []string                 { return severities.strings() }

// DiagnosticRule names a filterable diagnostic.
type DiagnosticRule uint8

var rules = newTable[DiagnosticRule](
	"chromium_unreachable_code",
	"derivative_uniformity",
	"identifier_not_nfc",
	"unused_value",
)

var (
	RuleUnreachableCode      = rules.parse("chromium_unreachable_code")
	RuleDerivativeUniformity = rules.parse("derivative_uniformity")
	RuleIdentifierNotNFC     = rules.parse("identifier_not_nfc")
	RuleUnusedValue          = rules.parse("unused_value")
)

// ParseDiagnosticRule accepts both `chromium_unreachable_code` and the
// qualified `chromium.unreachable_code`.
func ParseDiagnosticRule(category, name string) DiagnosticRule {
	if category != "" {
		return rules.parse(category + "_" + name)
	}
	return rules.parse(name)
}

func (r DiagnosticRule) String() string { return rules.name(r) }
func DiagnosticRuleStrings() []string   { return rules.strings() }

// DefaultSeverity is the severity a rule has before any filter applies.
func (r DiagnosticRule) DefaultSeverity() DiagnosticSeverity {
	switch r {
	case RuleUnreachableCode:
		return SeverityWarning
	case RuleDerivativeUniformity:
		return SeverityError
	case RuleIdentifierNotNFC:
		return SeverityInfo
	case RuleUnusedValue:
		return SeverityOff
	}
	return SeverityOff
}
