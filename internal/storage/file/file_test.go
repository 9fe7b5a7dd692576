package file

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/people-registry/internal/codec"
	"github.com/aanand-mishra/people-registry/internal/storage"
	"github.com/aanand-mishra/people-registry/internal/types"
)

func newRepo(t *testing.T) (*Repository, string, *bytes.Buffer) {
	t.Helper()

	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(log), filepath.Join(t.TempDir(), "data"), &logs
}

func sampleRecords() []types.Record {
	return []types.Record{
		&types.Student{FirstName: "Vlad", LastName: "Upyrov", StudentID: "3332", Gender: types.GenderMale, Course: 3, DormitoryRoom: types.StringPtr("101-12")},
		&types.Seller{FirstName: "Olga", LastName: "Ivanova", Gender: types.GenderFemale, Shop: types.StringPtr("ATB")},
		&types.Gardener{FirstName: "Maksym", LastName: "Steblovskyi", Gender: types.GenderMale},
		&types.Student{FirstName: "Ivan", LastName: "Pupkin", StudentID: "17", Course: 1},
	}
}

func TestAppendToEmptyFileThenReadAll(t *testing.T) {
	t.Parallel()

	repo, path, _ := newRepo(t)
	want := sampleRecords()[0]

	require.NoError(t, repo.Append(path, want))

	got, err := repo.ReadAll(path)
	require.NoError(t, err)
	require.Equal(t, []types.Record{want}, got)
	require.Equal(t, "101-12", *got[0].(*types.Student).DormitoryRoom)
}

func TestAppendKeepsOrderAndExistingContent(t *testing.T) {
	t.Parallel()

	repo, path, _ := newRepo(t)
	want := sampleRecords()

	for i, r := range want {
		require.NoError(t, repo.Append(path, r))

		got, err := repo.ReadAll(path)
		require.NoError(t, err)
		require.Equal(t, want[:i+1], got)
	}
}

func TestAppendGrowsFileByExactlyOneRecord(t *testing.T) {
	t.Parallel()

	repo, path, _ := newRepo(t)
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0o644))

	rec := sampleRecords()[1]
	require.NoError(t, repo.Append(path, rec))

	block, err := codec.Marshal(rec)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "\n\n"+string(block), string(content))
}

func TestAppendInvalidRecordDoesNotCreateFile(t *testing.T) {
	t.Parallel()

	repo, path, _ := newRepo(t)

	err := repo.Append(path, &types.Seller{FirstName: "Ol\"ga", LastName: "Ivanova"})
	require.ErrorIs(t, err, codec.ErrInvalidRecord)

	_, statErr := os.Stat(path)
	require.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestAppendIntoMissingDirectoryIsIOError(t *testing.T) {
	t.Parallel()

	repo, _, _ := newRepo(t)
	path := filepath.Join(t.TempDir(), "missing", "data")

	err := repo.Append(path, sampleRecords()[0])
	var ioErr *storage.IOError
	require.ErrorAs(t, err, &ioErr)
	require.Equal(t, "open", ioErr.Op)
}

func TestReadAllMissingFileIsIOError(t *testing.T) {
	t.Parallel()

	repo, path, _ := newRepo(t)

	got, err := repo.ReadAll(path)
	require.Nil(t, got)

	var ioErr *storage.IOError
	require.ErrorAs(t, err, &ioErr)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadAllFormatErrorReturnsNoRecords(t *testing.T) {
	t.Parallel()

	repo, path, _ := newRepo(t)
	require.NoError(t, repo.Append(path, sampleRecords()[0]))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteString("Seller Broken\n{ \"lastName\": \"Broken\",\n};\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	got, err := repo.ReadAll(path)
	require.Nil(t, got)
	require.ErrorIs(t, err, codec.ErrFormat)

	var ioErr *storage.IOError
	require.False(t, errors.As(err, &ioErr))
}

func TestReadAllSkipsUnknownKindAndLogsWarning(t *testing.T) {
	t.Parallel()

	repo, path, logs := newRepo(t)
	require.NoError(t, os.WriteFile(path, []byte("Wizard FooBar\n{ \"firstName\": \"Foo\",\n\"lastName\": \"Bar\"};\n"), 0o644))
	require.NoError(t, repo.Append(path, sampleRecords()[2]))

	got, err := repo.ReadAll(path)
	require.NoError(t, err)
	require.Equal(t, sampleRecords()[2:3], got)
	require.Contains(t, logs.String(), "skipping record of unknown kind")
	require.Contains(t, logs.String(), "kind=Wizard")
}

func TestOverwriteAllReplacesContent(t *testing.T) {
	t.Parallel()

	repo, path, _ := newRepo(t)
	all := sampleRecords()
	for _, r := range all {
		require.NoError(t, repo.Append(path, r))
	}

	replacement := []types.Record{all[3], all[0]}
	require.NoError(t, repo.OverwriteAll(path, replacement))

	got, err := repo.ReadAll(path)
	require.NoError(t, err)
	require.Equal(t, replacement, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestOverwriteAllEmptyLeavesEmptyFile(t *testing.T) {
	t.Parallel()

	repo, path, _ := newRepo(t)
	require.NoError(t, repo.Append(path, sampleRecords()[0]))

	require.NoError(t, repo.OverwriteAll(path, []types.Record{}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Empty(t, content)

	got, err := repo.ReadAll(path)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestOverwriteAllCreatesMissingFile(t *testing.T) {
	t.Parallel()

	repo, path, _ := newRepo(t)
	require.NoError(t, repo.OverwriteAll(path, sampleRecords()))

	got, err := repo.ReadAll(path)
	require.NoError(t, err)
	require.Equal(t, sampleRecords(), got)
}

func TestOverwriteAllKeepsFileMode(t *testing.T) {
	t.Parallel()

	repo, path, _ := newRepo(t)
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	require.NoError(t, os.Chmod(path, 0o600))

	require.NoError(t, repo.OverwriteAll(path, sampleRecords()[:1]))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestOverwriteAllInvalidRecordLeavesFileUntouched(t *testing.T) {
	t.Parallel()

	repo, path, _ := newRepo(t)
	require.NoError(t, repo.Append(path, sampleRecords()[0]))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	err = repo.OverwriteAll(path, []types.Record{sampleRecords()[1], &types.Student{FirstName: "A", LastName: "B"}})
	require.ErrorIs(t, err, codec.ErrInvalidRecord)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestAppendThenReadAllValueLongerThanOneMebibyte(t *testing.T) {
	t.Parallel()

	repo, path, _ := newRepo(t)
	long := &types.Seller{FirstName: "Olga", LastName: "Ivanova", Gender: types.GenderFemale, Shop: types.StringPtr(strings.Repeat("x", 2<<20))}

	require.NoError(t, repo.Append(path, sampleRecords()[0]))
	require.NoError(t, repo.Append(path, long))
	require.NoError(t, repo.Append(path, sampleRecords()[2]))

	got, err := repo.ReadAll(path)
	require.NoError(t, err)
	require.Equal(t, []types.Record{sampleRecords()[0], long, sampleRecords()[2]}, got)
}

func TestOverwriteAllWritesEncodedBlocksInOrder(t *testing.T) {
	t.Parallel()

	repo, path, _ := newRepo(t)
	rs := sampleRecords()
	require.NoError(t, repo.OverwriteAll(path, rs))

	var want bytes.Buffer
	enc := codec.NewEncoder(&want)
	for _, r := range rs {
		require.NoError(t, enc.Encode(r))
	}

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, want.String(), string(content))
}
