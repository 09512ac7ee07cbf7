package diag

import (
	"fmt"
	"slices"
	"strings"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexInvalidCharacter         Code = 1001
	LexUnterminatedBlockComment Code = 1002
	LexInvalidNumber            Code = 1003
	LexIdentifierNotNFC         Code = 1004
	LexNullCharacter            Code = 1005

	// Синтаксические
	SynInfo                     Code = 2000
	SynUnexpectedToken          Code = 2001
	SynExpectedToken            Code = 2002
	SynMaxDepth                 Code = 2003
	SynTooManyErrors            Code = 2004
	SynReservedKeyword          Code = 2005
	SynMissingTemplateClose     Code = 2006
	SynInvalidType              Code = 2007
	SynOperatorMixing           Code = 2008
	SynDirectiveAfterDecl       Code = 2009
	SynDirectiveParens          Code = 2010
	SynUnsupportedFeature       Code = 2011
	SynUnknownExtension         Code = 2012
	SynStatementOutsideFunction Code = 2013
	SynUnexpectedAttributes     Code = 2014
	SynModuleScopeLet           Code = 2015
	SynMissingInitializer       Code = 2016
	SynAttributeArgCount        Code = 2017
	SynUnknownAttribute         Code = 2018
	SynConstAttribute           Code = 2019
	SynReservedOperator         Code = 2020
	SynExpectedExpression       Code = 2021
	SynInvalidCaseSelector      Code = 2022
	SynExpectedDeclaration      Code = 2023
	SynInvalidEnumValue         Code = 2024
	SynMissingReturnType        Code = 2025
	SynForeignDialect           Code = 2026

	// Разрешение имён, типы, константные вычисления
	ResInfo                  Code = 3000
	ResUnresolvedIdentifier  Code = 3001
	ResRedeclaration         Code = 3002
	ResCyclicDependency      Code = 3003
	ResTypeMismatch          Code = 3004
	ResNotRepresentable      Code = 3005
	ResConstEval             Code = 3006
	ResConstAssertFailed     Code = 3007
	ResInvalidAttribute      Code = 3008
	ResArrayCount            Code = 3009
	ResNestingLimit          Code = 3010
	ResExpressionDepth       Code = 3011
	ResInvalidSwizzle        Code = 3012
	ResMissingTypeOrInit     Code = 3013
	ResInvalidCall           Code = 3014
	ResAliasedPointer        Code = 3015
	ResMustUse               Code = 3016
	ResUnreachableCode       Code = 3017
	ResUnknownDiagnosticRule Code = 3018
	ResWorkgroupSize         Code = 3019
	ResMisplacedIdentifier   Code = 3020
	ResInvalidAssignment     Code = 3021
	ResInvalidConstructor    Code = 3022
	ResInvalidStage          Code = 3023
	ResInvalidOperand        Code = 3024
	ResInvalidMember         Code = 3025
	ResInvalidIndex          Code = 3026
	ResUnusedValue           Code = 3027
	ResIdentifierNotNFC      Code = 3028
	ResConflictingDiagnostic Code = 3029

	// Правила валидации
	ValInfo               Code = 4000
	ValAddressSpaceLayout Code = 4001
	ValHostShareable      Code = 4002
	ValExtensionRequired  Code = 4003
	ValEntryPointIO       Code = 4004
	ValBuiltinStage       Code = 4005
	ValBuiltinType        Code = 4006
	ValDuplicateIO        Code = 4007
	ValInterpolation      Code = 4008
	ValBindingCollision   Code = 4009
	ValSwitch             Code = 4010
	ValLoopExit           Code = 4011
	ValMissingReturn      Code = 4012
	ValBreakContinue      Code = 4013
	ValCondition          Code = 4014
	ValReturnType         Code = 4015
	ValResourceBinding    Code = 4016
	ValOverrideID         Code = 4017
	ValAddressSpace       Code = 4018
	ValAccessMode         Code = 4019
	ValFunctionAttribute  Code = 4020
	ValParameter          Code = 4021
	ValInvariant          Code = 4022
	ValConstructible      Code = 4023
	ValStorable           Code = 4024

	// Конфигурация
	CfgInfo              Code = 5000
	CfgInvalidFile       Code = 5001
	CfgUnknownExtension  Code = 5002
	CfgVersionConstraint Code = 5003
	CfgUnknownRule       Code = 5004

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Ввод-вывод и аварии
	IOInfo     Code = 7000
	IOInternal Code = 7001
	IOReadFile Code = 7002
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	LexInfo:                     "Lexical information",
	LexInvalidCharacter:         "Invalid character",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexInvalidNumber:            "Invalid numeric literal",
	LexIdentifierNotNFC:         "Identifier is not in NFC form",
	LexNullCharacter:            "Null character in source",

	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectedToken:            "Expected token",
	SynMaxDepth:                 "Maximum parser recursion depth reached",
	SynTooManyErrors:            "Too many errors",
	SynReservedKeyword:          "Reserved keyword used as identifier",
	SynMissingTemplateClose:     "Missing closing template bracket",
	SynInvalidType:              "Invalid type",
	SynOperatorMixing:           "Mixed binary operators require parenthesis",
	SynDirectiveAfterDecl:       "Directive after declarations",
	SynDirectiveParens:          "Directive does not take parenthesis",
	SynUnsupportedFeature:       "Unsupported language feature",
	SynUnknownExtension:         "Unknown extension",
	SynStatementOutsideFunction: "Statement outside of function body",
	SynUnexpectedAttributes:     "Unexpected attributes",
	SynModuleScopeLet:           "Module-scope let",
	SynMissingInitializer:       "Missing initializer",
	SynAttributeArgCount:        "Wrong number of attribute arguments",
	SynUnknownAttribute:         "Unknown attribute",
	SynConstAttribute:           "Const attribute in shader",
	SynReservedOperator:         "Reserved operator",
	SynExpectedExpression:       "Expected expression",
	SynInvalidCaseSelector:      "Invalid case selector",
	SynExpectedDeclaration:      "Expected declaration",
	SynInvalidEnumValue:         "Invalid enumerant",
	SynMissingReturnType:        "Missing function return type",
	SynForeignDialect:           "Source looks like another shading language",

	ResInfo:                  "Resolver information",
	ResUnresolvedIdentifier:  "Unresolved identifier",
	ResRedeclaration:         "Redeclaration",
	ResCyclicDependency:      "Cyclic dependency",
	ResTypeMismatch:          "Type mismatch",
	ResNotRepresentable:      "Value not representable",
	ResConstEval:             "Constant evaluation failed",
	ResConstAssertFailed:     "Const assertion failed",
	ResInvalidAttribute:      "Invalid attribute",
	ResArrayCount:            "Invalid array count",
	ResNestingLimit:          "Nesting limit exceeded",
	ResExpressionDepth:       "Expression depth exceeded",
	ResInvalidSwizzle:        "Invalid swizzle",
	ResMissingTypeOrInit:     "Missing type or initializer",
	ResInvalidCall:           "Invalid call",
	ResAliasedPointer:        "Aliased pointer argument",
	ResMustUse:               "Result of must_use function ignored",
	ResUnreachableCode:       "Unreachable code",
	ResUnknownDiagnosticRule: "Unknown diagnostic rule",
	ResWorkgroupSize:         "Invalid workgroup size",
	ResMisplacedIdentifier:   "Identifier used in wrong role",
	ResInvalidAssignment:     "Invalid assignment",
	ResInvalidConstructor:    "Invalid constructor",
	ResInvalidStage:          "Invalid evaluation stage",
	ResInvalidOperand:        "Invalid operand",
	ResInvalidMember:         "Invalid member access",
	ResInvalidIndex:          "Invalid index",
	ResUnusedValue:           "Unused value",
	ResIdentifierNotNFC:      "Identifier is not in NFC form",
	ResConflictingDiagnostic: "Conflicting diagnostic directive",

	ValInfo:               "Validation information",
	ValAddressSpaceLayout: "Address space layout violation",
	ValHostShareable:      "Type is not host-shareable",
	ValExtensionRequired:  "Extension required",
	ValEntryPointIO:       "Invalid entry point IO",
	ValBuiltinStage:       "Builtin not valid for stage",
	ValBuiltinType:        "Builtin type mismatch",
	ValDuplicateIO:        "Duplicate entry point IO",
	ValInterpolation:      "Invalid interpolation",
	ValBindingCollision:   "Resource binding collision",
	ValSwitch:             "Invalid switch statement",
	ValLoopExit:           "Loop does not exit",
	ValMissingReturn:      "Missing return",
	ValBreakContinue:      "Misplaced break or continue",
	ValCondition:          "Invalid condition type",
	ValReturnType:         "Return type mismatch",
	ValResourceBinding:    "Invalid resource binding",
	ValOverrideID:         "Invalid override id",
	ValAddressSpace:       "Invalid address space",
	ValAccessMode:         "Invalid access mode",
	ValFunctionAttribute:  "Invalid function attribute",
	ValParameter:          "Invalid parameter",
	ValInvariant:          "Invalid invariant attribute",
	ValConstructible:      "Type is not constructible",
	ValStorable:           "Type is not storable",

	CfgInfo:              "Configuration information",
	CfgInvalidFile:       "Invalid configuration file",
	CfgUnknownExtension:  "Unknown extension in configuration",
	CfgVersionConstraint: "Version constraint not satisfied",
	CfgUnknownRule:       "Unknown diagnostic rule in configuration",

	ObsInfo:    "Observability information",
	ObsTimings: "Phase timings",

	IOInfo:     "IO information",
	IOInternal: "Internal compiler error",
	IOReadFile: "Cannot read file",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("VAL%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Known reports whether c has a registered description.
func (c Code) Known() bool {
	_, ok := codeDescription[c]
	return ok
}

// ParseCode accepts either the bare number ("2001") or the prefixed form ("SYN2001").
func ParseCode(s string) (Code, bool) {
	i := 0
	for i < len(s) && (s[i] < '0' || s[i] > '9') {
		i++
	}
	n := 0
	if i == len(s) {
		return UnknownCode, false
	}
	for _, r := range s[i:] {
		if r < '0' || r > '9' {
			return UnknownCode, false
		}
		n = n*10 + int(r-'0')
		if n > 0xFFFF {
			return UnknownCode, false
		}
	}
	c := Code(n)
	if !c.Known() {
		return UnknownCode, false
	}
	if i > 0 && !strings.EqualFold(s[:i], c.ID()[:len(c.ID())-4]) {
		return UnknownCode, false
	}
	return c, true
}

// AllCodes returns every registered code in ascending order.
func AllCodes() []Code {
	out := make([]Code, 0, len(codeDescription))
	for c := range codeDescription {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}
