// Package token defines the lexical vocabulary of the shading language:
// token kinds, keyword lookup, the reserved-word list and the Token record.
//
// The '<' and '>' family is ambiguous in the grammar. The lexer always produces
// the comparison/shift form; lexer.ClassifyTemplateArgs later rewrites the ones
// that delimit template lists to TemplateArgsLeft / TemplateArgsRight.
package token
