package token

var keywords = map[string]Kind{
	"alias":        KwAlias,
	"bitcast":      KwBitcast,
	"break":        KwBreak,
	"case":         KwCase,
	"const":        KwConst,
	"const_assert": KwConstAssert,
	"continue":     KwContinue,
	"continuing":   KwContinuing,
	"default":      KwDefault,
	"diagnostic":   KwDiagnostic,
	"discard":      KwDiscard,
	"else":         KwElse,
	"enable":       KwEnable,
	"fallthrough":  KwFallthrough,
	"false":        KwFalse,
	"fn":           KwFn,
	"for":          KwFor,
	"if":           KwIf,
	"let":          KwLet,
	"loop":         KwLoop,
	"override":     KwOverride,
	"requires":     KwRequires,
	"return":       KwReturn,
	"struct":       KwStruct,
	"switch":       KwSwitch,
	"true":         KwTrue,
	"var":          KwVar,
	"while":        KwWhile,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Регистр важен: "Fn": обычный идентификатор.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// Зарезервированы под будущие версии языка; лексер отдаёт их как Ident,
// парсер ругается при попытке объявить такое имя. "get" сюда не входит.
var reserved = map[string]struct{}{
	"NULL": {}, "Self": {}, "abstract": {}, "active": {}, "alignas": {}, "alignof": {},
	"as": {}, "asm": {}, "asm_fragment": {}, "async": {}, "attribute": {}, "auto": {},
	"await": {}, "become": {}, "binding_array": {}, "cast": {}, "catch": {}, "class": {},
	"co_await": {}, "co_return": {}, "co_yield": {}, "coherent": {}, "column_major": {},
	"common": {}, "compile": {}, "compile_fragment": {}, "concept": {}, "const_cast": {},
	"consteval": {}, "constexpr": {}, "constinit": {}, "crate": {}, "debugger": {},
	"decltype": {}, "delete": {}, "demote": {}, "demote_to_helper": {}, "do": {},
	"dynamic_cast": {}, "enum": {}, "explicit": {}, "export": {}, "extends": {},
	"extern": {}, "external": {}, "filter": {}, "final": {}, "finally": {}, "friend": {},
	"from": {}, "fxgroup": {}, "goto": {}, "groupshared": {}, "highp": {},
	"impl": {}, "implements": {}, "import": {}, "inline": {}, "instanceof": {},
	"interface": {}, "layout": {}, "lowp": {}, "macro": {}, "macro_rules": {}, "match": {},
	"mediump": {}, "meta": {}, "mod": {}, "module": {}, "move": {}, "mut": {},
	"mutable": {}, "namespace": {}, "new": {}, "nil": {}, "noexcept": {}, "noinline": {},
	"nointerpolation": {}, "noperspective": {}, "null": {}, "nullptr": {}, "of": {},
	"operator": {}, "package": {}, "packoffset": {}, "partition": {}, "pass": {},
	"patch": {}, "pixelfragment": {}, "precise": {}, "precision": {}, "premerge": {},
	"priv": {}, "protected": {}, "pub": {}, "public": {}, "readonly": {}, "ref": {},
	"regardless": {}, "register": {}, "reinterpret_cast": {}, "require": {},
	"resource": {}, "restrict": {}, "self": {}, "set": {}, "shared": {}, "sizeof": {},
	"smooth": {}, "snorm": {}, "static": {}, "static_assert": {}, "static_cast": {},
	"std": {}, "subroutine": {}, "super": {}, "target": {}, "template": {}, "this": {},
	"thread_local": {}, "throw": {}, "trait": {}, "try": {}, "type": {}, "typedef": {},
	"typeid": {}, "typename": {}, "typeof": {}, "union": {}, "unless": {}, "unorm": {},
	"unsafe": {}, "unsized": {}, "use": {}, "using": {}, "varying": {}, "virtual": {},
	"volatile": {}, "wgsl": {}, "where": {}, "with": {}, "writeonly": {}, "yield": {},
}

// IsReserved reports words that cannot be used as identifiers.
func IsReserved(ident string) bool {
	_, ok := reserved[ident]
	return ok
}
