// Package storage defines the Repository interface — the contract that
// any record backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// The CLI and the HTTP handlers should not know or care whether records
// live in the flat block-format file or in a SQLite database. By
// depending only on this interface:
//
//   - Switching backends = pick a different implementation in main.go.
//     Zero consumer changes.
//
//   - Writing tests = pass a fake that satisfies the interface.
//
// Every operation takes the path of the backing store and holds no state
// between calls: each call opens what it needs and closes it before
// returning. There is no locking: callers that share a path between
// writers must serialise the calls themselves.
package storage

import (
	"fmt"

	"github.com/aanand-mishra/people-registry/internal/types"
)

// Repository is the record persistence contract.
type Repository interface {
	// ReadAll returns every record in store order. An empty store yields
	// an empty (non-nil) slice. Any format error aborts the whole read:
	// no partial result is returned.
	ReadAll(path string) ([]types.Record, error)

	// Append adds one record to the end of the store, creating it if
	// needed. Existing content is never truncated.
	Append(path string, r types.Record) error

	// OverwriteAll replaces the entire content of the store with rs, in
	// order. An empty rs leaves an empty store.
	OverwriteAll(path string, rs []types.Record) error
}

// IOError reports a failure to open, create, read or write the store.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
