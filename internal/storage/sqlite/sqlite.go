// Package sqlite provides a SQLite-backed implementation of the
// storage.Repository interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk, just like the block
// format backend, so the same "path" argument works for both. There is no
// network, no separate server process, and no installation beyond the
// driver. OverwriteAll gets real atomicity from a transaction.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded — we never call anything from it directly.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/aanand-mishra/people-registry/internal/codec"
	"github.com/aanand-mishra/people-registry/internal/storage"
	"github.com/aanand-mishra/people-registry/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Repository.
//
// Unlike a long-lived server backend it does not keep a *sql.DB around:
// every call opens the database at the given path and closes it before
// returning, matching the file backend's resource model.
type SQLite struct {
	log *slog.Logger
}

var _ storage.Repository = (*SQLite)(nil)

// New returns a SQLite repository. A nil log uses slog.Default().
func New(log *slog.Logger) *SQLite {
	if log == nil {
		log = slog.Default()
	}
	return &SQLite{log: log}
}

// Schema:
//
//	kind             "Student", "Seller" or "Gardener"
//	student_id       NULL for non-students
//	course           NULL means course 1
//	dormitory_room, shop, experience_years: NULL when absent
const createTable = `
	CREATE TABLE IF NOT EXISTS records (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		kind             TEXT    NOT NULL,
		first_name       TEXT    NOT NULL,
		last_name        TEXT    NOT NULL,
		gender           TEXT    NOT NULL,
		student_id       TEXT,
		course           INTEGER,
		dormitory_room   TEXT,
		shop             TEXT,
		experience_years INTEGER
	)
`

// open opens the database at path and creates the records table if it
// does not already exist. CREATE TABLE IF NOT EXISTS is idempotent, so it
// is safe to run on every call.
func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &storage.IOError{Op: "open", Path: path, Err: err}
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, &storage.IOError{Op: "create table", Path: path, Err: err}
	}

	return db, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// ReadAll returns all rows ordered by insertion.
//
// Rows with an unknown kind are skipped with a warning, the same leniency
// the file backend applies to unknown header tags. A student row without a
// student_id is a format error and aborts the read. A missing database is
// an IOError, like a missing data file; reading never creates it.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) ReadAll(path string) ([]types.Record, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &storage.IOError{Op: "open", Path: path, Err: err}
	}

	db, err := open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT id, kind, first_name, last_name, gender,
		       student_id, course, dormitory_room, shop, experience_years
		FROM records ORDER BY id
	`)
	if err != nil {
		return nil, &storage.IOError{Op: "query", Path: path, Err: err}
	}
	defer rows.Close()

	records := make([]types.Record, 0)

	for rows.Next() {
		var (
			id                      int64
			kind, first, last, gen  string
			studentID, dorm, shop   sql.NullString
			course, experienceYears sql.NullInt64
		)

		if err := rows.Scan(&id, &kind, &first, &last, &gen,
			&studentID, &course, &dorm, &shop, &experienceYears); err != nil {
			return nil, &storage.IOError{Op: "scan", Path: path, Err: err}
		}

		k, ok := types.ParseKind(kind)
		if !ok {
			s.log.Warn("skipping record of unknown kind",
				slog.String("path", path),
				slog.Int64("id", id),
				slog.String("kind", kind))
			continue
		}
		if k == types.KindStudent && !studentID.Valid {
			return nil, fmt.Errorf("ReadAll %s: row %d: %w: student_id is NULL", path, id, codec.ErrFormat)
		}

		doc := types.Document{
			Kind:            k,
			FirstName:       first,
			LastName:        last,
			Gender:          types.ParseGender(gen),
			StudentID:       studentID.String,
			Course:          nullUint8(course),
			DormitoryRoom:   nullString(dorm),
			Shop:            nullString(shop),
			ExperienceYears: nullUint8(experienceYears),
		}
		rec, err := doc.Record()
		if err != nil {
			return nil, fmt.Errorf("ReadAll %s: row %d: %w", path, id, err)
		}
		records = append(records, rec)
	}

	// rows.Err() captures any error that occurred during iteration.
	if err := rows.Err(); err != nil {
		return nil, &storage.IOError{Op: "read", Path: path, Err: err}
	}

	return records, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Append inserts one row. The record is validated with the same rules the
// file backend enforces, so both backends accept exactly the same records.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Append(path string, rec types.Record) error {
	if err := codec.Validate(rec); err != nil {
		return fmt.Errorf("Append: %w", err)
	}

	db, err := open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := insert(db, rec); err != nil {
		return &storage.IOError{Op: "insert", Path: path, Err: err}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// OverwriteAll deletes every row and inserts rs in order inside a single
// transaction. Other connections see either the old rows or the new ones.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) OverwriteAll(path string, rs []types.Record) (err error) {
	for i, rec := range rs {
		if err := codec.Validate(rec); err != nil {
			return fmt.Errorf("OverwriteAll: record %d: %w", i, err)
		}
	}

	db, err := open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return &storage.IOError{Op: "begin", Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return &storage.IOError{Op: "delete", Path: path, Err: err}
	}
	for _, rec := range rs {
		if err := insert(tx, rec); err != nil {
			return &storage.IOError{Op: "insert", Path: path, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &storage.IOError{Op: "commit", Path: path, Err: err}
	}

	s.log.Debug("records overwritten", slog.String("path", path), slog.Int("count", len(rs)))
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// insert uses placeholders (?) so values are sent separately from the SQL
// and are never interpreted as SQL syntax.
func insert(db execer, rec types.Record) error {
	doc := types.ToDocument(rec)

	var studentID sql.NullString
	if doc.Kind == types.KindStudent {
		studentID = sql.NullString{String: doc.StudentID, Valid: true}
	}

	_, err := db.Exec(`
		INSERT INTO records (kind, first_name, last_name, gender,
		                     student_id, course, dormitory_room, shop, experience_years)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(doc.Kind), doc.FirstName, doc.LastName, doc.Gender.String(),
		studentID, doc.Course, doc.DormitoryRoom, doc.Shop, doc.ExperienceYears,
	)
	return err
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

// nullUint8 maps NULL and out-of-range values to nil.
func nullUint8(v sql.NullInt64) *uint8 {
	if !v.Valid || v.Int64 < 0 || v.Int64 > 255 {
		return nil
	}
	u := uint8(v.Int64)
	return &u
}
