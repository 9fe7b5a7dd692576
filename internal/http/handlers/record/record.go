// Package record contains all HTTP handlers for the record resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// To inject the repository and the store path, each exported function is
// a factory that receives them and returns a handler closing over them:
//
//	router.HandleFunc("GET /api/records", record.List(repo, cfg.StoragePath))
//
// The repository is not safe for concurrent writers, so handlers that
// write are expected to be wrapped by Serialize (see main.go).
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/people-registry/internal/codec"
	"github.com/aanand-mishra/people-registry/internal/filter"
	"github.com/aanand-mishra/people-registry/internal/storage"
	"github.com/aanand-mishra/people-registry/internal/types"
	"github.com/aanand-mishra/people-registry/internal/utils/response"
)

var validate = types.NewValidator()

// ─────────────────────────────────────────────────────────────────────────────
// List handles GET /api/records
// Returns every record matching the optional query parameters.
//
// Query parameters (all optional):
//
//	kind=Student|Seller|Gardener  last_name=Pupkin  gender=male
//	course=3                      in_dorm=true
//
// Success response (200 OK):
//
//	[ { "kind": "Student", "first_name": "Vlad", ... }, ... ]
//
// Returns [] (not null) when nothing matches.
// ─────────────────────────────────────────────────────────────────────────────
func List(repo storage.Repository, path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("listing records", slog.String("query", r.URL.RawQuery))

		q, err := parseQuery(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		records, err := repo.ReadAll(path)
		if err != nil {
			slog.Error("error reading records", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, types.ToDocuments(q.Apply(records)))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/records
// Appends one record to the end of the store.
//
// Request body (JSON):
//
//	{ "kind": "Seller", "first_name": "Olga", "last_name": "Ivanova",
//	  "gender": "Female", "shop": "ATB" }
//
// Success response (201 Created): the stored record.
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	500 Internal     — storage error
// ─────────────────────────────────────────────────────────────────────────────
func New(repo storage.Repository, path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("appending a record")

		var doc types.Document
		err := json.NewDecoder(r.Body).Decode(&doc)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		rec, ok := toRecord(w, doc)
		if !ok {
			return
		}

		if err := repo.Append(path, rec); err != nil {
			writeStorageError(w, err)
			return
		}

		slog.Info("record appended",
			slog.String("kind", string(rec.Kind())),
			slog.String("name", types.FullName(rec)))

		response.WriteJSON(w, http.StatusCreated, types.ToDocument(rec))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ReplaceAll handles PUT /api/records
// Replaces the entire store with the records in the body, in order.
// An empty array empties the store.
//
// Success response (200 OK):
//
//	{ "count": 2 }
// ─────────────────────────────────────────────────────────────────────────────
func ReplaceAll(repo storage.Repository, path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("replacing all records")

		var docs []types.Document
		err := json.NewDecoder(r.Body).Decode(&docs)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		records := make([]types.Record, 0, len(docs))
		for _, doc := range docs {
			rec, ok := toRecord(w, doc)
			if !ok {
				return
			}
			records = append(records, rec)
		}

		if err := repo.OverwriteAll(path, records); err != nil {
			writeStorageError(w, err)
			return
		}

		slog.Info("records replaced", slog.Int("count", len(records)))
		response.WriteJSON(w, http.StatusOK, map[string]int{"count": len(records)})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// DormResidents handles GET /api/reports/dorm-residents
// Reports the male third-year students who live in a dormitory.
//
// Success response (200 OK):
//
//	{ "count": 1, "students": [ { "kind": "Student", ... } ] }
// ─────────────────────────────────────────────────────────────────────────────
func DormResidents(repo storage.Repository, path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := repo.ReadAll(path)
		if err != nil {
			slog.Error("error reading records", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		students := filter.DormResidents(records)
		docs := make([]types.Document, 0, len(students))
		for _, s := range students {
			docs = append(docs, types.ToDocument(s))
		}

		response.WriteJSON(w, http.StatusOK, struct {
			Count    int              `json:"count"`
			Students []types.Document `json:"students"`
		}{len(docs), docs})
	}
}

// Serialize runs the wrapped handlers one at a time. The repositories
// provide no locking, so every handler sharing a store path goes through
// the same Serialize value.
type Serialize struct {
	mu sync.Mutex
}

func (s *Serialize) Wrap(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		h(w, r)
	}
}

// toRecord validates doc and writes a 400 response when it is invalid.
func toRecord(w http.ResponseWriter, doc types.Document) (types.Record, bool) {
	if err := validate.Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(verrs))
		} else {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		}
		return nil, false
	}

	rec, err := doc.Record()
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return nil, false
	}
	return rec, true
}

func writeStorageError(w http.ResponseWriter, err error) {
	if errors.Is(err, codec.ErrInvalidRecord) {
		response.WriteJSON(w, http.StatusBadRequest, response.FromError(err))
		return
	}
	slog.Error("error writing records", slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
}

func parseQuery(r *http.Request) (filter.Query, error) {
	var q filter.Query
	values := r.URL.Query()

	if v := values.Get("kind"); v != "" {
		kind, ok := types.ParseKind(v)
		if !ok {
			return q, fmt.Errorf("invalid kind %q", v)
		}
		q.Kind = kind
	}

	q.LastName = values.Get("last_name")

	if v := values.Get("gender"); v != "" {
		g := types.ParseGender(v)
		q.Gender = &g
	}

	if v := values.Get("course"); v != "" {
		course, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return q, fmt.Errorf("invalid course %q: must be an integer 0-255", v)
		}
		c := uint8(course)
		q.Course = &c
	}

	if v := values.Get("in_dorm"); v != "" {
		inDorm, err := strconv.ParseBool(v)
		if err != nil {
			return q, fmt.Errorf("invalid in_dorm %q: must be true or false", v)
		}
		q.InDorm = &inDorm
	}

	return q, nil
}
