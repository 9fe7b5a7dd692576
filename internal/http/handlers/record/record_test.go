package record

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/people-registry/internal/storage/file"
	"github.com/aanand-mishra/people-registry/internal/types"
	"github.com/aanand-mishra/people-registry/internal/utils/response"
)

func newStore(t *testing.T) (*file.Repository, string) {
	t.Helper()
	return file.New(nil), filepath.Join(t.TempDir(), "data")
}

func do(t *testing.T, h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestNewAppendsRecord(t *testing.T) {
	t.Parallel()

	repo, path := newStore(t)

	res := do(t, New(repo, path), http.MethodPost, "/api/records",
		`{"kind":"Student","first_name":"Vlad","last_name":"Upyrov","gender":"male","student_id":"3332","course":3,"dormitory_room":"101-12"}`)
	require.Equal(t, http.StatusCreated, res.Code)

	records, err := repo.ReadAll(path)
	require.NoError(t, err)
	require.Equal(t, []types.Record{
		&types.Student{FirstName: "Vlad", LastName: "Upyrov", Gender: types.GenderMale, StudentID: "3332", Course: 3, DormitoryRoom: types.StringPtr("101-12")},
	}, records)
}

func TestNewRejectsEmptyBody(t *testing.T) {
	t.Parallel()

	repo, path := newStore(t)

	res := do(t, New(repo, path), http.MethodPost, "/api/records", "")
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Contains(t, res.Body.String(), "request body is empty")
}

func TestNewRejectsInvalidDocument(t *testing.T) {
	t.Parallel()

	repo, path := newStore(t)

	res := do(t, New(repo, path), http.MethodPost, "/api/records",
		`{"kind":"Student","first_name":"Vlad","last_name":"Up\"yrov"}`)
	require.Equal(t, http.StatusBadRequest, res.Code)

	var body response.Response
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.Equal(t, response.StatusError, body.Status)
	require.Contains(t, body.Error, "field StudentID is required")
	require.Contains(t, body.Error, "field LastName must not contain double quotes")
}

func TestListFiltersRecords(t *testing.T) {
	t.Parallel()

	repo, path := newStore(t)
	require.NoError(t, repo.OverwriteAll(path, []types.Record{
		&types.Student{FirstName: "Ivan", LastName: "Pupkin", StudentID: "1", Course: 2},
		&types.Seller{FirstName: "Olga", LastName: "Pupkin", Gender: types.GenderFemale},
		&types.Gardener{FirstName: "Taras", LastName: "Bulba"},
	}))

	res := do(t, List(repo, path), http.MethodGet, "/api/records?last_name=Pupkin&gender=female", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.JSONEq(t,
		`[{"kind":"Seller","first_name":"Olga","last_name":"Pupkin","gender":"Female"}]`,
		res.Body.String())

	res = do(t, List(repo, path), http.MethodGet, "/api/records?kind=Gardener", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.JSONEq(t,
		`[{"kind":"Gardener","first_name":"Taras","last_name":"Bulba","gender":"Other"}]`,
		res.Body.String())
}

func TestListRejectsBadQuery(t *testing.T) {
	t.Parallel()

	repo, path := newStore(t)

	for _, q := range []string{"kind=Wizard", "course=abc", "in_dorm=maybe"} {
		res := do(t, List(repo, path), http.MethodGet, "/api/records?"+q, "")
		require.Equal(t, http.StatusBadRequest, res.Code, q)
	}
}

func TestListMissingStoreIsServerError(t *testing.T) {
	t.Parallel()

	repo, path := newStore(t)

	res := do(t, List(repo, path), http.MethodGet, "/api/records", "")
	require.Equal(t, http.StatusInternalServerError, res.Code)
}

func TestReplaceAllOverwritesStore(t *testing.T) {
	t.Parallel()

	repo, path := newStore(t)
	require.NoError(t, repo.Append(path, &types.Gardener{FirstName: "Taras", LastName: "Bulba"}))

	res := do(t, ReplaceAll(repo, path), http.MethodPut, "/api/records",
		`[{"kind":"Seller","first_name":"Olga","last_name":"Ivanova","shop":"ATB"},
		  {"kind":"Gardener","first_name":"Maksym","last_name":"Steblovskyi","experience_years":3}]`)
	require.Equal(t, http.StatusOK, res.Code)
	require.JSONEq(t, `{"count":2}`, res.Body.String())

	records, err := repo.ReadAll(path)
	require.NoError(t, err)
	require.Equal(t, []types.Record{
		&types.Seller{FirstName: "Olga", LastName: "Ivanova", Shop: types.StringPtr("ATB")},
		&types.Gardener{FirstName: "Maksym", LastName: "Steblovskyi", ExperienceYears: types.Uint8Ptr(3)},
	}, records)

	res = do(t, ReplaceAll(repo, path), http.MethodPut, "/api/records", `[]`)
	require.Equal(t, http.StatusOK, res.Code)

	records, err = repo.ReadAll(path)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestListThenReplaceAllKeepsCourseZero(t *testing.T) {
	t.Parallel()

	repo, path := newStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`Student IvanPupkin
{ "firstName": "Ivan",
"lastName": "Pupkin",
"studentId": "17",
"gender": "Male",
"course": "0",
};
`), 0o644))

	res := do(t, List(repo, path), http.MethodGet, "/api/records", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.JSONEq(t,
		`[{"kind":"Student","first_name":"Ivan","last_name":"Pupkin","gender":"Male","student_id":"17","course":0}]`,
		res.Body.String())

	res = do(t, ReplaceAll(repo, path), http.MethodPut, "/api/records", res.Body.String())
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	records, err := repo.ReadAll(path)
	require.NoError(t, err)
	require.Equal(t, []types.Record{
		&types.Student{FirstName: "Ivan", LastName: "Pupkin", Gender: types.GenderMale, StudentID: "17", Course: 0},
	}, records)
}

func TestReplaceAllRejectsInvalidEntryWithoutWriting(t *testing.T) {
	t.Parallel()

	repo, path := newStore(t)
	require.NoError(t, repo.Append(path, &types.Gardener{FirstName: "Taras", LastName: "Bulba"}))

	res := do(t, ReplaceAll(repo, path), http.MethodPut, "/api/records",
		`[{"kind":"Seller","first_name":"Olga","last_name":"Ivanova"},{"kind":"Wizard","first_name":"A","last_name":"B"}]`)
	require.Equal(t, http.StatusBadRequest, res.Code)

	records, err := repo.ReadAll(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestDormResidentsReport(t *testing.T) {
	t.Parallel()

	repo, path := newStore(t)
	require.NoError(t, repo.OverwriteAll(path, []types.Record{
		&types.Student{FirstName: "Vlad", LastName: "Upyrov", Gender: types.GenderMale, StudentID: "3332", Course: 3, DormitoryRoom: types.StringPtr("101-12")},
		&types.Student{FirstName: "Ivan", LastName: "Pupkin", Gender: types.GenderMale, StudentID: "17", Course: 3},
	}))

	res := do(t, DormResidents(repo, path), http.MethodGet, "/api/reports/dorm-residents", "")
	require.Equal(t, http.StatusOK, res.Code)

	var body struct {
		Count    int              `json:"count"`
		Students []types.Document `json:"students"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	require.Equal(t, "Upyrov", body.Students[0].LastName)
}

func TestSerializeWrapCallsHandler(t *testing.T) {
	t.Parallel()

	var s Serialize
	called := 0
	h := s.Wrap(func(w http.ResponseWriter, r *http.Request) {
		called++
		w.WriteHeader(http.StatusNoContent)
	})

	res := do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusNoContent, res.Code)
	require.Equal(t, 1, called)
}
