package dialect

// advice is what to write in WGSL instead, per topic.
var advice = map[Topic]string{
	TopicFunction:     "WGSL declares functions as `fn name(p: T) -> R { ... }`.",
	TopicTypes:        "WGSL spells types as `f32`, `i32`, `vec4<f32>` (or `vec4f`), `mat4x4<f32>`.",
	TopicPreprocessor: "WGSL has no preprocessor; use `const` declarations and `override` constants.",
	TopicBindings:     "WGSL binds resources with `@group(0) @binding(0) var<uniform> u : T;`.",
	TopicBuiltins:     "WGSL exposes stage inputs and outputs as `@builtin(position)` and `@location(n)` parameters.",
	TopicEntryPoint:   "WGSL entry points are functions marked `@vertex`, `@fragment` or `@compute @workgroup_size(x)`.",
}

// Message renders the headline of a dialect hint.
func Message(c Classification) string {
	return "this looks like " + c.Kind.String() + ", not WGSL"
}

// Describe renders one hint as a note: what was seen and how WGSL says it.
func Describe(h Hint) string {
	a, ok := advice[h.Topic]
	if !ok {
		return h.Reason
	}
	return h.Reason + "; " + a
}
