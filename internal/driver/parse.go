package driver

import (
	"context"
	"strconv"

	"scenec/internal/grammar"
	"scenec/internal/source"
	"scenec/internal/trace"
)

// TokensResult holds the raw grammar tree of one file.
type TokensResult struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Root    *grammar.Token
}

// Tokenize loads path and runs only the grammar engine.
func Tokenize(ctx context.Context, path string) (*TokensResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "grammar", trace.CurrentSpan(ctx).SpanID)
	root := grammar.Parse(fs.Get(fileID).Content, fileID)
	span.WithExtra("errors", strconv.Itoa(len(root.Errors()))).End("")
	return &TokensResult{FileSet: fs, FileID: fileID, Root: root}, nil
}

// Parse runs the whole pipeline without the disk cache, so the typed
// document is always available in Result.Compile.
func Parse(ctx context.Context, path string, opts Options) (*Result, error) {
	opts.Cache = nil
	return Diagnose(ctx, path, opts)
}
