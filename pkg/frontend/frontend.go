// Package frontend turns source files into the engine's structural model.
//
// Each supported language has an extractor that maps its tree-sitter grammar
// onto syntax.Unit: class declarations with their bases, method members with
// attribute accesses, identifier references and decision points, plus the
// unit's line counters. Everything downstream of this package is
// language-agnostic.
package frontend

import (
	"errors"
	"fmt"

	"github.com/corvidae/augur/pkg/parser"
	"github.com/corvidae/augur/pkg/syntax"
)

// ErrUnsupported marks input no extractor can handle.
var ErrUnsupported = errors.New("unsupported language")

// Frontend extracts structural models from source code.
type Frontend struct {
	maxFileSize int64
}

// Option configures a Frontend.
type Option func(*Frontend)

// WithMaxFileSize skips files larger than the given byte count. Zero means
// no limit.
func WithMaxFileSize(n int64) Option {
	return func(f *Frontend) { f.maxFileSize = n }
}

// New creates a Frontend.
func New(opts ...Option) *Frontend {
	f := &Frontend{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Extract parses source and builds the structural model for one unit.
// A fresh parser is used per call, so Extract is safe to run concurrently.
func (f *Frontend) Extract(source []byte, lang parser.Language, path string) (*syntax.Unit, error) {
	if f.maxFileSize > 0 && int64(len(source)) > f.maxFileSize {
		return nil, fmt.Errorf("%s: file exceeds size limit (%d bytes)", path, f.maxFileSize)
	}

	p := parser.New()
	defer p.Close()

	result, err := p.Parse(source, lang, path)
	if err != nil {
		return nil, err
	}
	if result.Tree == nil || result.Tree.RootNode() == nil {
		return nil, fmt.Errorf("%s: parser produced no tree", path)
	}

	var classes []syntax.ClassDecl
	switch lang {
	case parser.LangPython:
		classes = extractPython(result)
	case parser.LangRuby:
		classes = extractRuby(result)
	case parser.LangJavaScript:
		classes = extractJavaScript(result)
	default:
		return nil, fmt.Errorf("%s: %w: %s", path, ErrUnsupported, lang)
	}

	return &syntax.Unit{
		Path:     path,
		Language: string(lang),
		Lines:    countLines(result),
		Classes:  classes,
	}, nil
}

// ExtractFile detects the language from the path and extracts the model.
func (f *Frontend) ExtractFile(source []byte, path string) (*syntax.Unit, error) {
	lang := parser.DetectLanguage(path)
	if lang == parser.LangUnknown {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	return f.Extract(source, lang, path)
}
