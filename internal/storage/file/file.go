// Package file implements storage.Repository on top of a plain text file
// in the block format understood by package codec.
package file

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/people-registry/internal/codec"
	"github.com/aanand-mishra/people-registry/internal/storage"
	"github.com/aanand-mishra/people-registry/internal/types"
)

const defaultPerm os.FileMode = 0o644

// Repository is the flat-file backend. It keeps no open handles between
// calls.
type Repository struct {
	log *slog.Logger
}

var _ storage.Repository = (*Repository)(nil)

// New returns a file repository that reports skipped records to log.
// A nil log uses slog.Default().
func New(log *slog.Logger) *Repository {
	if log == nil {
		log = slog.Default()
	}
	return &Repository{log: log}
}

func (r *Repository) ReadAll(path string) ([]types.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &storage.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	dec := codec.NewDecoder(f)
	records, err := dec.Decode()

	for _, w := range dec.Warnings() {
		r.log.Warn("skipping record of unknown kind",
			slog.String("path", path),
			slog.Int("line", w.Line),
			slog.String("kind", w.Kind))
	}

	if err != nil {
		if errors.Is(err, codec.ErrFormat) {
			return nil, fmt.Errorf("ReadAll %s: %w", path, err)
		}
		return nil, &storage.IOError{Op: "read", Path: path, Err: err}
	}

	return records, nil
}

// Append validates rec before touching the file, so an unencodable record
// neither creates the file nor leaves a partial block behind.
func (r *Repository) Append(path string, rec types.Record) (err error) {
	if err := codec.Validate(rec); err != nil {
		return fmt.Errorf("Append: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, defaultPerm)
	if err != nil {
		return &storage.IOError{Op: "open", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &storage.IOError{Op: "close", Path: path, Err: cerr}
		}
	}()

	if err := codec.NewEncoder(f).Encode(rec); err != nil {
		return &storage.IOError{Op: "write", Path: path, Err: err}
	}

	return nil
}

// OverwriteAll writes every record to a temporary file in the target's
// directory through a single handle, syncs it, and renames it over path.
// Readers see either the old content or the new content, never a
// truncated file. The existing file mode is kept.
func (r *Repository) OverwriteAll(path string, rs []types.Record) error {
	for i, rec := range rs {
		if err := codec.Validate(rec); err != nil {
			return fmt.Errorf("OverwriteAll: record %d: %w", i, err)
		}
	}

	perm := defaultPerm
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	if err := writeAtomic(path, rs, perm); err != nil {
		return err
	}

	r.log.Debug("records overwritten", slog.String("path", path), slog.Int("count", len(rs)))
	return nil
}

func writeAtomic(path string, rs []types.Record, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return &storage.IOError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	enc := codec.NewEncoder(w)
	for _, rec := range rs {
		if err := enc.Encode(rec); err != nil {
			return &storage.IOError{Op: "write", Path: tmpName, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		return &storage.IOError{Op: "write", Path: tmpName, Err: err}
	}
	if err := tmp.Chmod(perm); err != nil {
		return &storage.IOError{Op: "chmod", Path: tmpName, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &storage.IOError{Op: "sync", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &storage.IOError{Op: "close", Path: tmpName, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &storage.IOError{Op: "rename", Path: path, Err: err}
	}
	committed = true

	if err := syncDir(dir); err != nil {
		return &storage.IOError{Op: "sync", Path: dir, Err: err}
	}
	return nil
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
