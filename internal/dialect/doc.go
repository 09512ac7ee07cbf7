// Package dialect spots signs that a file is written in another shading
// language (GLSL, HLSL, Metal) so that a failing check can say so.
//
// Evidence collection never changes parsing or checking; the resulting hint
// diagnostic is informational and only emitted next to real errors.
package dialect
