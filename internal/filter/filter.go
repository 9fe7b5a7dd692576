// Package filter implements the in-memory queries consumers run over the
// records returned by a repository.
package filter

import "github.com/aanand-mishra/people-registry/internal/types"

// Query selects records. Zero-valued fields do not constrain the result,
// so the zero Query matches everything. Course and InDorm only match
// students.
type Query struct {
	Kind     types.Kind
	LastName string
	Gender   *types.Gender
	Course   *uint8
	InDorm   *bool
}

// Match reports whether r satisfies every set field of q.
func (q Query) Match(r types.Record) bool {
	if q.Kind != "" && r.Kind() != q.Kind {
		return false
	}
	if q.LastName != "" && r.GetLastName() != q.LastName {
		return false
	}
	if q.Gender != nil && r.GetGender() != *q.Gender {
		return false
	}

	if q.Course == nil && q.InDorm == nil {
		return true
	}
	s, ok := r.(*types.Student)
	if !ok {
		return false
	}
	if q.Course != nil && s.Course != *q.Course {
		return false
	}
	if q.InDorm != nil && s.InDormitory() != *q.InDorm {
		return false
	}
	return true
}

// Apply returns the matching records in their original order. The result
// is never nil.
func (q Query) Apply(rs []types.Record) []types.Record {
	out := make([]types.Record, 0)
	for _, r := range rs {
		if q.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// ByLastName returns every record, of any kind, with the given last name.
func ByLastName(rs []types.Record, lastName string) []types.Record {
	return Query{LastName: lastName}.Apply(rs)
}

// DormResidentsCourse is the course DormResidents reports on.
const DormResidentsCourse = 3

// DormResidents returns the male third-year students who live in a
// dormitory.
func DormResidents(rs []types.Record) []*types.Student {
	male := types.GenderMale
	course := uint8(DormResidentsCourse)
	inDorm := true
	q := Query{Kind: types.KindStudent, Gender: &male, Course: &course, InDorm: &inDorm}

	out := make([]*types.Student, 0)
	for _, r := range q.Apply(rs) {
		out = append(out, r.(*types.Student))
	}
	return out
}
