// Package fuzztests houses Go fuzz harnesses for the whole front end
// (source -> lexer -> parser -> resolver -> validator). Per-package fuzz
// targets live next to the lexer and parser; these run the pipeline end to
// end and guard against panics, internal compiler errors and hangs.
//
// Seeds: testdata/shaders/*.wgsl plus inline edge cases.
package fuzztests
