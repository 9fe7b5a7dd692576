package filter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/people-registry/internal/types"
)

var (
	vlad   = &types.Student{FirstName: "Vlad", LastName: "Upyrov", StudentID: "3332", Gender: types.GenderMale, Course: 3, DormitoryRoom: types.StringPtr("101-12")}
	ivan   = &types.Student{FirstName: "Ivan", LastName: "Pupkin", StudentID: "17", Gender: types.GenderMale, Course: 3}
	oksana = &types.Student{FirstName: "Oksana", LastName: "Pupkin", StudentID: "18", Gender: types.GenderFemale, Course: 3, DormitoryRoom: types.StringPtr("7")}
	olga   = &types.Seller{FirstName: "Olga", LastName: "Pupkin", Gender: types.GenderFemale}
	taras  = &types.Gardener{FirstName: "Taras", LastName: "Bulba", Gender: types.GenderMale}

	everyone = []types.Record{vlad, ivan, oksana, olga, taras}
)

func TestZeroQueryMatchesEverything(t *testing.T) {
	t.Parallel()

	require.Equal(t, everyone, Query{}.Apply(everyone))
}

func TestByLastNameSpansKinds(t *testing.T) {
	t.Parallel()

	require.Equal(t, []types.Record{ivan, oksana, olga}, ByLastName(everyone, "Pupkin"))
	require.Empty(t, ByLastName(everyone, "Nobody"))
}

func TestDormResidents(t *testing.T) {
	t.Parallel()

	require.Equal(t, []*types.Student{vlad}, DormResidents(everyone))
}

func TestStudentOnlyFieldsExcludeOtherKinds(t *testing.T) {
	t.Parallel()

	notInDorm := false
	got := Query{InDorm: &notInDorm}.Apply(everyone)
	require.Equal(t, []types.Record{ivan}, got)
}

func TestQueryByKindAndGender(t *testing.T) {
	t.Parallel()

	male := types.GenderMale
	require.Equal(t, []types.Record{taras}, Query{Kind: types.KindGardener, Gender: &male}.Apply(everyone))

	female := types.GenderFemale
	require.Equal(t, []types.Record{oksana, olga}, Query{Gender: &female}.Apply(everyone))
}
