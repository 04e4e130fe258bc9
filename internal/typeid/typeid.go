package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixShape = "shape"
	PrefixBoard = "board"
	PrefixOp    = "op"
)

// New returns a fresh typeid string. Suffixes are UUIDv7, so ids generated by one
// process sort in creation order.
func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewShapeID() string { return New(PrefixShape) }
func NewBoardID() string { return New(PrefixBoard) }
func NewOpID() string    { return New(PrefixOp) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
