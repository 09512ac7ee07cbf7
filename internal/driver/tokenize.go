package driver

import (
	"wgslfront/internal/lexer"
	"wgslfront/internal/source"
	"wgslfront/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	// Errors counts token.Error tokens; the lexer itself never reports.
	Errors int
}

// Tokenize lexes one file. raw leaves '<' and '>' unclassified.
func Tokenize(path string, raw bool) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	tokens := lexer.Tokenize(file, lexer.Options{SkipClassify: raw})
	errs := 0
	for _, tok := range tokens {
		if tok.Kind == token.Error {
			errs++
		}
	}
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Errors:  errs,
	}, nil
}
