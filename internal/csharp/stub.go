//go:build !cgo

package csharp

import (
	"context"
	"errors"

	sitter "github.com/smacker/go-tree-sitter"
)

// ErrNoCGO is returned when C# parsing is unavailable because the build was
// compiled without CGO (tree-sitter requires it).
var ErrNoCGO = errors.New("csharp parsing requires CGO (tree-sitter)")

// Parser is a stub implementation for non-CGO builds.
type Parser struct{}

// NewParser returns nil when CGO is disabled.
func NewParser() *Parser {
	return nil
}

// Parse is a stub implementation that always fails when CGO is disabled.
func (p *Parser) Parse(ctx context.Context, source []byte) (*sitter.Node, error) {
	return nil, ErrNoCGO
}

// IsAvailable returns whether C# parsing is available.
func IsAvailable() bool {
	return false
}
