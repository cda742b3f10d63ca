package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates ULID account IDs. ULIDs sort lexicographically by
// creation time, which keeps the transfer lock order stable and readable.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
