package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Error carries a lexer failure; Token.Text holds the message.
	Error Kind = iota
	EOF
	// Placeholder follows every token the parser may later split in two
	// (">>", ">=", ">>=", "&&", "--"), so a split never shifts indices.
	Placeholder

	Ident

	IntLit    // 42 (abstract-int)
	IntLitI   // 42i
	IntLitU   // 42u
	FloatLit  // 1.0 (abstract-float)
	FloatLitF // 1.0f
	FloatLitH // 1.0h

	KwAlias       // alias
	KwBitcast     // bitcast
	KwBreak       // break
	KwCase        // case
	KwConst       // const
	KwConstAssert // const_assert
	KwContinue    // continue
	KwContinuing  // continuing
	KwDefault     // default
	KwDiagnostic  // diagnostic
	KwDiscard     // discard
	KwElse        // else
	KwEnable      // enable
	KwFallthrough // fallthrough
	KwFalse       // false
	KwFn          // fn
	KwFor         // for
	KwIf          // if
	KwLet         // let
	KwLoop        // loop
	KwOverride    // override
	KwRequires    // requires
	KwReturn      // return
	KwStruct      // struct
	KwSwitch      // switch
	KwTrue        // true
	KwVar         // var
	KwWhile       // while

	And               // &
	AndAnd            // &&
	Arrow             // ->
	Attr              // @
	Slash             // /
	Bang              // !
	LBracket          // [
	RBracket          // ]
	LBrace            // {
	RBrace            // }
	Colon             // :
	Comma             // ,
	Equal             // =
	EqualEqual        // ==
	TemplateArgsRight // > closing a template list
	GreaterThan       // >
	GreaterThanEqual  // >=
	ShiftRight        // >>
	TemplateArgsLeft  // < opening a template list
	LessThan          // <
	LessThanEqual     // <=
	ShiftLeft         // <<
	Percent           // %
	Minus             // -
	MinusMinus        // --
	NotEqual          // !=
	Period            // .
	Plus              // +
	PlusPlus          // ++
	Or                // |
	OrOr              // ||
	LParen            // (
	RParen            // )
	Semicolon         // ;
	Star              // *
	Tilde             // ~
	Underscore        // _
	Xor               // ^
	PlusEqual         // +=
	MinusEqual        // -=
	StarEqual         // *=
	SlashEqual        // /=
	PercentEqual      // %=
	AndEqual          // &=
	OrEqual           // |=
	XorEqual          // ^=
	ShiftRightEqual   // >>=
	ShiftLeftEqual    // <<=

	kindCount
)

var kindNames = [kindCount]string{
	Error:       "error",
	EOF:         "end of file",
	Placeholder: "placeholder",
	Ident:       "identifier",

	IntLit:    "abstract integer literal",
	IntLitI:   "'i'-suffixed integer literal",
	IntLitU:   "'u'-suffixed integer literal",
	FloatLit:  "abstract float literal",
	FloatLitF: "'f'-suffixed float literal",
	FloatLitH: "'h'-suffixed float literal",

	KwAlias:       "alias",
	KwBitcast:     "bitcast",
	KwBreak:       "break",
	KwCase:        "case",
	KwConst:       "const",
	KwConstAssert: "const_assert",
	KwContinue:    "continue",
	KwContinuing:  "continuing",
	KwDefault:     "default",
	KwDiagnostic:  "diagnostic",
	KwDiscard:     "discard",
	KwElse:        "else",
	KwEnable:      "enable",
	KwFallthrough: "fallthrough",
	KwFalse:       "false",
	KwFn:          "fn",
	KwFor:         "for",
	KwIf:          "if",
	KwLet:         "let",
	KwLoop:        "loop",
	KwOverride:    "override",
	KwRequires:    "requires",
	KwReturn:      "return",
	KwStruct:      "struct",
	KwSwitch:      "switch",
	KwTrue:        "true",
	KwVar:         "var",
	KwWhile:       "while",

	And:               "&",
	AndAnd:            "&&",
	Arrow:             "->",
	Attr:              "@",
	Slash:             "/",
	Bang:              "!",
	LBracket:          "[",
	RBracket:          "]",
	LBrace:            "{",
	RBrace:            "}",
	Colon:             ":",
	Comma:             ",",
	Equal:             "=",
	EqualEqual:        "==",
	TemplateArgsRight: ">",
	GreaterThan:       ">",
	GreaterThanEqual:  ">=",
	ShiftRight:        ">>",
	TemplateArgsLeft:  "<",
	LessThan:          "<",
	LessThanEqual:     "<=",
	ShiftLeft:         "<<",
	Percent:           "%",
	Minus:             "-",
	MinusMinus:        "--",
	NotEqual:          "!=",
	Period:            ".",
	Plus:              "+",
	PlusPlus:          "++",
	Or:                "|",
	OrOr:              "||",
	LParen:            "(",
	RParen:            ")",
	Semicolon:         ";",
	Star:              "*",
	Tilde:             "~",
	Underscore:        "_",
	Xor:               "^",
	PlusEqual:         "+=",
	MinusEqual:        "-=",
	StarEqual:         "*=",
	SlashEqual:        "/=",
	PercentEqual:      "%=",
	AndEqual:          "&=",
	OrEqual:           "|=",
	XorEqual:          "^=",
	ShiftRightEqual:   ">>=",
	ShiftLeftEqual:    "<<=",
}

var goNames = [kindCount]string{
	Error:             "Error",
	EOF:               "EOF",
	Placeholder:       "Placeholder",
	Ident:             "Ident",
	IntLit:            "IntLit",
	IntLitI:           "IntLitI",
	IntLitU:           "IntLitU",
	FloatLit:          "FloatLit",
	FloatLitF:         "FloatLitF",
	FloatLitH:         "FloatLitH",
	KwAlias:           "KwAlias",
	KwBitcast:         "KwBitcast",
	KwBreak:           "KwBreak",
	KwCase:            "KwCase",
	KwConst:           "KwConst",
	KwConstAssert:     "KwConstAssert",
	KwContinue:        "KwContinue",
	KwContinuing:      "KwContinuing",
	KwDefault:         "KwDefault",
	KwDiagnostic:      "KwDiagnostic",
	KwDiscard:         "KwDiscard",
	KwElse:            "KwElse",
	KwEnable:          "KwEnable",
	KwFallthrough:     "KwFallthrough",
	KwFalse:           "KwFalse",
	KwFn:              "KwFn",
	KwFor:             "KwFor",
	KwIf:              "KwIf",
	KwLet:             "KwLet",
	KwLoop:            "KwLoop",
	KwOverride:        "KwOverride",
	KwRequires:        "KwRequires",
	KwReturn:          "KwReturn",
	KwStruct:          "KwStruct",
	KwSwitch:          "KwSwitch",
	KwTrue:            "KwTrue",
	KwVar:             "KwVar",
	KwWhile:           "KwWhile",
	And:               "And",
	AndAnd:            "AndAnd",
	Arrow:             "Arrow",
	Attr:              "Attr",
	Slash:             "Slash",
	Bang:              "Bang",
	LBracket:          "LBracket",
	RBracket:          "RBracket",
	LBrace:            "LBrace",
	RBrace:            "RBrace",
	Colon:             "Colon",
	Comma:             "Comma",
	Equal:             "Equal",
	EqualEqual:        "EqualEqual",
	TemplateArgsRight: "TemplateArgsRight",
	GreaterThan:       "GreaterThan",
	GreaterThanEqual:  "GreaterThanEqual",
	ShiftRight:        "ShiftRight",
	TemplateArgsLeft:  "TemplateArgsLeft",
	LessThan:          "LessThan",
	LessThanEqual:     "LessThanEqual",
	ShiftLeft:         "ShiftLeft",
	Percent:           "Percent",
	Minus:             "Minus",
	MinusMinus:        "MinusMinus",
	NotEqual:          "NotEqual",
	Period:            "Period",
	Plus:              "Plus",
	PlusPlus:          "PlusPlus",
	Or:                "Or",
	OrOr:              "OrOr",
	LParen:            "LParen",
	RParen:            "RParen",
	Semicolon:         "Semicolon",
	Star:              "Star",
	Tilde:             "Tilde",
	Underscore:        "Underscore",
	Xor:               "Xor",
	PlusEqual:         "PlusEqual",
	MinusEqual:        "MinusEqual",
	StarEqual:         "StarEqual",
	SlashEqual:        "SlashEqual",
	PercentEqual:      "PercentEqual",
	AndEqual:          "AndEqual",
	OrEqual:           "OrEqual",
	XorEqual:          "XorEqual",
	ShiftRightEqual:   "ShiftRightEqual",
	ShiftLeftEqual:    "ShiftLeftEqual",
}

// String returns the spelling used in diagnostics ("expected ';' ...").
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "<unknown>"
}

// GoName returns a stable identifier-like name, used by token dumps.
func (k Kind) GoName() string {
	if k < kindCount {
		return goNames[k]
	}
	return "Unknown"
}

// Placeholders is the number of placeholder tokens the lexer emits after k.
func (k Kind) Placeholders() int {
	switch k {
	case ShiftRightEqual:
		return 2
	case ShiftRight, GreaterThanEqual, AndAnd, MinusMinus:
		return 1
	}
	return 0
}

// IsKeyword reports whether k is a reserved keyword token.
func (k Kind) IsKeyword() bool {
	return k >= KwAlias && k <= KwWhile
}

// IsLiteral reports numeric and boolean literal kinds.
func (k Kind) IsLiteral() bool {
	return (k >= IntLit && k <= FloatLitH) || k == KwTrue || k == KwFalse
}

// IsBinaryOperator covers every token that can sit between two operands.
func (k Kind) IsBinaryOperator() bool {
	switch k {
	case And, AndAnd, Slash, EqualEqual, GreaterThan, GreaterThanEqual, ShiftRight,
		LessThan, LessThanEqual, ShiftLeft, Percent, Minus, NotEqual, Plus, Or, OrOr,
		Star, Xor:
		return true
	}
	return false
}

// IsCompoundAssignment reports "op=" forms.
func (k Kind) IsCompoundAssignment() bool {
	return k >= PlusEqual && k <= ShiftLeftEqual
}
