package dialect

import "fmt"

// Kind is a foreign shading language a WGSL file may resemble.
type Kind uint8

const (
	Unknown Kind = iota
	GLSL
	HLSL
	MSL

	kindCount
)

func (k Kind) String() string {
	switch k {
	case GLSL:
		return "GLSL"
	case HLSL:
		return "HLSL"
	case MSL:
		return "Metal"
	default:
		return "unknown"
	}
}

func (k Kind) GoString() string {
	return fmt.Sprintf("dialect.Kind(%s)", k.String())
}

// Topic groups hints by what the user should change.
type Topic uint8

const (
	TopicOther Topic = iota
	TopicFunction
	TopicTypes
	TopicPreprocessor
	TopicBindings
	TopicBuiltins
	TopicEntryPoint
)
