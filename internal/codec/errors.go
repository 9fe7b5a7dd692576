package codec

import (
	"errors"
	"fmt"

	"github.com/aanand-mishra/people-registry/internal/types"
)

var (
	// ErrFormat matches every *FormatError via errors.Is.
	ErrFormat = errors.New("record format error")

	// ErrInvalidRecord is returned by the encoder for records that cannot
	// be written in the block grammar.
	ErrInvalidRecord = errors.New("invalid record")
)

// FormatError describes a block that could not be turned into a record.
// It aborts the whole read.
type FormatError struct {
	Line   int // line of the record's header
	Kind   types.Kind
	Field  string // missing key, empty when the block itself is malformed
	Reason string
}

func (e *FormatError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("line %d: %s record: %s %q", e.Line, e.Kind, e.Reason, e.Field)
	}
	return fmt.Sprintf("line %d: %s record: %s", e.Line, e.Kind, e.Reason)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// UnknownKindWarning records a header whose tag is not a known kind. The
// record is skipped and decoding continues.
type UnknownKindWarning struct {
	Line int
	Kind string
}

func (w UnknownKindWarning) String() string {
	return fmt.Sprintf("line %d: unknown record kind %q", w.Line, w.Kind)
}
