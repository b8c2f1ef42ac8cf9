// Package idgen provides identifier generators.
package idgen

import (
	"github.com/oklog/ulid/v2"

	"github.com/iho/ledgerdash/internal/usecase"
)

// ULIDGenerator generates ULID-based IDs.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}

var _ usecase.IDGenerator = (*ULIDGenerator)(nil)
