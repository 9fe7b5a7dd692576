package types

import (
	"encoding/json"
	"strings"
)

// Gender is a closed enumeration. The zero value is GenderOther, so a
// record built without an explicit gender behaves exactly like one parsed
// from a file with no (or an unrecognised) gender value.
type Gender uint8

const (
	GenderOther Gender = iota
	GenderMale
	GenderFemale
)

// ParseGender never fails: matching is case-insensitive and anything
// unrecognised, including the empty string, maps to GenderOther.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return GenderMale
	case "female":
		return GenderFemale
	default:
		return GenderOther
	}
}

// String returns the label written to the record file ("Male", "Female",
// "Other").
func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	default:
		return "Other"
	}
}

func (g Gender) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.String())
}

func (g *Gender) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*g = ParseGender(s)
	return nil
}
