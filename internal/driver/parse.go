package driver

import (
	"context"

	"fortio.org/safecast"

	"wgslfront/internal/ast"
	"wgslfront/internal/diag"
	"wgslfront/internal/parser"
	"wgslfront/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	Bag     *diag.Bag
}

// Parse runs the lexer and parser only.
func Parse(ctx context.Context, filePath string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	builder := ast.NewBuilder(ast.Hints{}, nil)

	var maxErrors uint
	if maxDiagnostics > 0 {
		maxErrors, err = safecast.Conv[uint](maxDiagnostics)
		if err != nil {
			return nil, err
		}
	}

	parser.ParseFile(ctx, file, builder, parser.Options{
		Reporter:  diag.BagReporter{Bag: bag},
		MaxErrors: maxErrors,
	})

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Builder: builder,
		Bag:     bag,
	}, nil
}
