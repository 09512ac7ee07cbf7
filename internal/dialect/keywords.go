package dialect

import (
	"strings"

	"wgslfront/internal/source"
)

type keywordSignal struct {
	Dialect Kind
	Topic   Topic
	Score   int
	Reason  string
}

func sig(k Kind, t Topic, score int, reason string) keywordSignal {
	return keywordSignal{Dialect: k, Topic: t, Score: score, Reason: reason}
}

// Names that are also WGSL (vec3, sampler, discard) are not listed.
var keywordSignals = map[string][]keywordSignal{
	// C-family declarations, common to all three
	"void":  {sig(GLSL, TopicFunction, 1, "C-style `void`"), sig(HLSL, TopicFunction, 1, "C-style `void`"), sig(MSL, TopicFunction, 1, "C-style `void`")},
	"float": {sig(GLSL, TopicTypes, 1, "scalar type `float`"), sig(HLSL, TopicTypes, 1, "scalar type `float`"), sig(MSL, TopicTypes, 1, "scalar type `float`")},
	"int":   {sig(GLSL, TopicTypes, 1, "scalar type `int`"), sig(HLSL, TopicTypes, 1, "scalar type `int`"), sig(MSL, TopicTypes, 1, "scalar type `int`")},
	"inout": {sig(GLSL, TopicFunction, 2, "parameter qualifier `inout`"), sig(HLSL, TopicFunction, 2, "parameter qualifier `inout`")},

	// GLSL
	"layout":    {sig(GLSL, TopicBindings, 4, "GLSL `layout` qualifier")},
	"precision": {sig(GLSL, TopicOther, 5, "GLSL `precision` statement")},
	"highp":     {sig(GLSL, TopicOther, 5, "GLSL precision qualifier `highp`")},
	"mediump":   {sig(GLSL, TopicOther, 5, "GLSL precision qualifier `mediump`")},
	"lowp":      {sig(GLSL, TopicOther, 5, "GLSL precision qualifier `lowp`")},
	"sampler2D": {sig(GLSL, TopicBindings, 5, "GLSL combined sampler `sampler2D`")},
	"mat2":      {sig(GLSL, TopicTypes, 3, "GLSL matrix `mat2`")},
	"mat3":      {sig(GLSL, TopicTypes, 3, "GLSL matrix `mat3`")},
	"mat4":      {sig(GLSL, TopicTypes, 3, "GLSL matrix `mat4`")},
	"ivec2":     {sig(GLSL, TopicTypes, 4, "GLSL vector `ivec2`")},
	"ivec3":     {sig(GLSL, TopicTypes, 4, "GLSL vector `ivec3`")},
	"ivec4":     {sig(GLSL, TopicTypes, 4, "GLSL vector `ivec4`")},
	"uvec2":     {sig(GLSL, TopicTypes, 4, "GLSL vector `uvec2`")},
	"uvec3":     {sig(GLSL, TopicTypes, 4, "GLSL vector `uvec3`")},
	"uvec4":     {sig(GLSL, TopicTypes, 4, "GLSL vector `uvec4`")},
	"texture2D": {sig(GLSL, TopicBuiltins, 3, "GLSL `texture2D` call")},

	// HLSL
	"cbuffer":            {sig(HLSL, TopicBindings, 6, "HLSL `cbuffer` block")},
	"Texture2D":          {sig(HLSL, TopicBindings, 5, "HLSL `Texture2D` object")},
	"SamplerState":       {sig(HLSL, TopicBindings, 5, "HLSL `SamplerState` object")},
	"StructuredBuffer":   {sig(HLSL, TopicBindings, 5, "HLSL `StructuredBuffer`")},
	"RWStructuredBuffer": {sig(HLSL, TopicBindings, 6, "HLSL `RWStructuredBuffer`")},
	"numthreads":         {sig(HLSL, TopicEntryPoint, 5, "HLSL `[numthreads]` attribute")},
	"float2":             {sig(HLSL, TopicTypes, 3, "vector type `float2`"), sig(MSL, TopicTypes, 3, "vector type `float2`")},
	"float3":             {sig(HLSL, TopicTypes, 3, "vector type `float3`"), sig(MSL, TopicTypes, 3, "vector type `float3`")},
	"float4":             {sig(HLSL, TopicTypes, 3, "vector type `float4`"), sig(MSL, TopicTypes, 3, "vector type `float4`")},
	"float4x4":           {sig(HLSL, TopicTypes, 3, "matrix type `float4x4`"), sig(MSL, TopicTypes, 3, "matrix type `float4x4`")},
	"half4":              {sig(HLSL, TopicTypes, 2, "vector type `half4`"), sig(MSL, TopicTypes, 2, "vector type `half4`")},
	"lerp":               {sig(HLSL, TopicBuiltins, 3, "HLSL intrinsic `lerp`")},
	"saturate":           {sig(HLSL, TopicBuiltins, 3, "HLSL intrinsic `saturate`")},
	"frac":               {sig(HLSL, TopicBuiltins, 3, "HLSL intrinsic `frac`")},
	"mul":                {sig(HLSL, TopicBuiltins, 2, "HLSL intrinsic `mul`")},

	// Metal
	"kernel":        {sig(MSL, TopicEntryPoint, 5, "Metal `kernel` function")},
	"device":        {sig(MSL, TopicBindings, 4, "Metal `device` address space")},
	"constant":      {sig(MSL, TopicBindings, 2, "Metal `constant` address space")},
	"threadgroup":   {sig(MSL, TopicBindings, 5, "Metal `threadgroup` address space")},
	"metal":         {sig(MSL, TopicOther, 5, "`metal` namespace")},
	"packed_float3": {sig(MSL, TopicTypes, 6, "Metal `packed_float3`")},
	"texture2d":     {sig(MSL, TopicBindings, 4, "Metal `texture2d` object")},
}

// RecordIdent collects keyword evidence for an identifier token, including
// the gl_ and SV_ builtin prefixes.
func RecordIdent(e *Evidence, ident string, span source.Span) {
	if e == nil || ident == "" {
		return
	}
	for _, s := range keywordSignals[ident] {
		e.Add(Hint{Dialect: s.Dialect, Topic: s.Topic, Score: s.Score, Reason: s.Reason, Span: span})
	}
	switch {
	case strings.HasPrefix(ident, "gl_"):
		e.Add(Hint{Dialect: GLSL, Topic: TopicBuiltins, Score: 5, Reason: "GLSL builtin `" + ident + "`", Span: span})
	case strings.HasPrefix(ident, "SV_"):
		e.Add(Hint{Dialect: HLSL, Topic: TopicBuiltins, Score: 5, Reason: "HLSL system value `" + ident + "`", Span: span})
	}
}
