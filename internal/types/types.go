// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// the codec, storage backends, filters, CLI and HTTP handlers can all
// import types without depending on each other.
//
// THE RECORD MODEL
// ────────────────
// A Record is one of exactly three variants: *Student, *Seller or
// *Gardener. Go has no sum types, so the set is closed with an
// unexported marker method: only types in this package can satisfy
// Record, and every consumer dispatches with a type switch.
//
// Every variant also satisfies Person, the shared read-only capability
// (first name, last name, gender) usable without knowing the variant.
package types

import "fmt"

// Kind is the literal tag written at the start of a record's header line.
type Kind string

const (
	KindStudent  Kind = "Student"
	KindSeller   Kind = "Seller"
	KindGardener Kind = "Gardener"
)

// Kinds lists every supported kind in a stable order.
var Kinds = []Kind{KindStudent, KindSeller, KindGardener}

// ParseKind maps a header tag to a Kind. Tags are case-sensitive: the file
// format only ever contains the exact spellings above.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindStudent, KindSeller, KindGardener:
		return Kind(s), true
	default:
		return "", false
	}
}

// Person is the capability shared by every record variant.
type Person interface {
	GetFirstName() string
	GetLastName() string
	GetGender() Gender
}

// Record is a persisted person-like entity.
type Record interface {
	Person
	Kind() Kind
	isRecord()
}

// Student is a university student.
//
// Course defaults to 1 when the stored value is absent or unparsable.
// DormitoryRoom is nil when the student does not live in a dormitory.
type Student struct {
	FirstName     string  `json:"first_name"     validate:"required,recordtext"`
	LastName      string  `json:"last_name"      validate:"required,recordtext"`
	Gender        Gender  `json:"gender"`
	StudentID     string  `json:"student_id"     validate:"required,recordtext"`
	Course        uint8   `json:"course"`
	DormitoryRoom *string `json:"dormitory_room" validate:"omitempty,recordtext"`
}

func (s *Student) GetFirstName() string { return s.FirstName }
func (s *Student) GetLastName() string  { return s.LastName }
func (s *Student) GetGender() Gender    { return s.Gender }
func (s *Student) Kind() Kind           { return KindStudent }
func (*Student) isRecord()              {}

// MaxCourse is the last course a student can be promoted to.
const MaxCourse = 10

// Study promotes the student to the next course, stopping at MaxCourse.
func (s *Student) Study() {
	if s.Course < MaxCourse {
		s.Course++
	}
}

// InDormitory reports whether the student has a dormitory room on file.
func (s *Student) InDormitory() bool {
	return s.DormitoryRoom != nil
}

// Seller works in a shop; Shop is nil when unknown.
type Seller struct {
	FirstName string  `json:"first_name" validate:"required,recordtext"`
	LastName  string  `json:"last_name"  validate:"required,recordtext"`
	Gender    Gender  `json:"gender"`
	Shop      *string `json:"shop"       validate:"omitempty,recordtext"`
}

func (s *Seller) GetFirstName() string { return s.FirstName }
func (s *Seller) GetLastName() string  { return s.LastName }
func (s *Seller) GetGender() Gender    { return s.Gender }
func (s *Seller) Kind() Kind           { return KindSeller }
func (*Seller) isRecord()              {}

// Gardener has an optional number of years of experience.
type Gardener struct {
	FirstName       string `json:"first_name" validate:"required,recordtext"`
	LastName        string `json:"last_name"  validate:"required,recordtext"`
	Gender          Gender `json:"gender"`
	ExperienceYears *uint8 `json:"experience_years"`
}

func (g *Gardener) GetFirstName() string { return g.FirstName }
func (g *Gardener) GetLastName() string  { return g.LastName }
func (g *Gardener) GetGender() Gender    { return g.Gender }
func (g *Gardener) Kind() Kind           { return KindGardener }
func (*Gardener) isRecord()              {}

// FullName joins first and last name with a space.
func FullName(p Person) string {
	return fmt.Sprintf("%s %s", p.GetFirstName(), p.GetLastName())
}

// StringPtr and Uint8Ptr build optional field values inline.
func StringPtr(s string) *string { return &s }

func Uint8Ptr(v uint8) *uint8 { return &v }
