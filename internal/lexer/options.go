package lexer

// Options tune a single Tokenize call.
type Options struct {
	// MaxTokens stops the scan with an error token once exceeded; 0 means unlimited.
	MaxTokens int
	// SkipClassify leaves '<' / '>' unclassified. Used by token dumps and tests.
	SkipClassify bool
}
