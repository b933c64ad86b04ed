//go:build !cgo

package parser

import (
	"context"

	"structdiff/internal/errors"
)

// Parser wraps tree-sitter parsing functionality.
// This is a stub implementation for non-CGO builds; structural comparison
// is unavailable without it and callers fall back to the line differ.
type Parser struct{}

// NewParser creates a new tree-sitter parser.
// Returns a stub when CGO is disabled.
func NewParser() *Parser {
	return &Parser{}
}

// Parse is unavailable without CGO.
func (p *Parser) Parse(ctx context.Context, source []byte, lang Language) (Node, error) {
	return nil, errors.Newf(errors.ParseFailed, "structural parsing requires CGO (tree-sitter)")
}

// ParseFile is unavailable without CGO.
func (p *Parser) ParseFile(ctx context.Context, path string, source []byte) (Node, error) {
	return nil, errors.Newf(errors.ParseFailed, "structural parsing requires CGO (tree-sitter)")
}
