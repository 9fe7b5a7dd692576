package types

import "fmt"

// Document is the flat JSON shape of a Record, used by the HTTP API and
// the CLI's --json output. The Kind field says which of the variant-only
// fields are meaningful.
//
// Example (JSON):
//
//	{ "kind": "Student", "first_name": "Vlad", "last_name": "Upyrov",
//	  "gender": "Male", "student_id": "3332", "course": 3,
//	  "dormitory_room": "101-12" }
type Document struct {
	Kind            Kind    `json:"kind"                       validate:"required,oneof=Student Seller Gardener"`
	FirstName       string  `json:"first_name"                 validate:"required,recordtext"`
	LastName        string  `json:"last_name"                  validate:"required,recordtext"`
	Gender          Gender  `json:"gender"`
	StudentID       string  `json:"student_id,omitempty"       validate:"required_if=Kind Student,recordtext"`
	Course          *uint8  `json:"course,omitempty"`
	DormitoryRoom   *string `json:"dormitory_room,omitempty"   validate:"omitempty,recordtext"`
	Shop            *string `json:"shop,omitempty"             validate:"omitempty,recordtext"`
	ExperienceYears *uint8  `json:"experience_years,omitempty"`
}

// ToDocument flattens any Record into a Document.
func ToDocument(r Record) Document {
	doc := Document{
		Kind:      r.Kind(),
		FirstName: r.GetFirstName(),
		LastName:  r.GetLastName(),
		Gender:    r.GetGender(),
	}

	switch v := r.(type) {
	case *Student:
		course := v.Course
		doc.StudentID = v.StudentID
		doc.Course = &course
		doc.DormitoryRoom = v.DormitoryRoom
	case *Seller:
		doc.Shop = v.Shop
	case *Gardener:
		doc.ExperienceYears = v.ExperienceYears
	}

	return doc
}

// ToDocuments flattens a slice of records. The result is never nil so it
// encodes to [] rather than null.
func ToDocuments(rs []Record) []Document {
	docs := make([]Document, 0, len(rs))
	for _, r := range rs {
		docs = append(docs, ToDocument(r))
	}
	return docs
}

// Record builds the typed variant described by the document. Fields that
// do not belong to the document's kind are ignored. A student without a
// course starts in course 1.
func (d Document) Record() (Record, error) {
	switch d.Kind {
	case KindStudent:
		course := uint8(1)
		if d.Course != nil {
			course = *d.Course
		}
		return &Student{
			FirstName:     d.FirstName,
			LastName:      d.LastName,
			Gender:        d.Gender,
			StudentID:     d.StudentID,
			Course:        course,
			DormitoryRoom: d.DormitoryRoom,
		}, nil
	case KindSeller:
		return &Seller{
			FirstName: d.FirstName,
			LastName:  d.LastName,
			Gender:    d.Gender,
			Shop:      d.Shop,
		}, nil
	case KindGardener:
		return &Gardener{
			FirstName:       d.FirstName,
			LastName:        d.LastName,
			Gender:          d.Gender,
			ExperienceYears: d.ExperienceYears,
		}, nil
	default:
		return nil, fmt.Errorf("unknown record kind %q", d.Kind)
	}
}
