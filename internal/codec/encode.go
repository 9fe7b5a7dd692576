package codec

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/aanand-mishra/people-registry/internal/types"
)

var validate = types.NewValidator()

type pair struct {
	key   string
	value string
}

// Encoder writes records to a stream. Each record reaches the underlying
// writer in a single Write call.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an Encoder writing to w. The file backend streams
// through it both when appending and when rewriting the whole store.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode validates r and writes its header line and block. Nothing is
// written when r is invalid; the error then wraps ErrInvalidRecord.
func (e *Encoder) Encode(r types.Record) error {
	b, err := Marshal(r)
	if err != nil {
		return err
	}
	_, err = e.w.Write(b)
	return err
}

// Validate checks that r has its required values and that every value can
// be stored in a block. The returned error wraps ErrInvalidRecord and,
// for rule violations, validator.ValidationErrors.
func Validate(r types.Record) error {
	if r == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidRecord)
	}
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return nil
}

// Marshal returns the header line and block for r.
//
// Fields are written in a fixed per-kind order. When the kind's optional
// field is present it is the last pair and carries the "};" terminator;
// otherwise the block is closed by a lone "};" line.
func Marshal(r types.Record) ([]byte, error) {
	if err := Validate(r); err != nil {
		return nil, err
	}

	pairs := []pair{
		{keyFirstName, r.GetFirstName()},
		{keyLastName, r.GetLastName()},
	}
	var optional *pair

	switch v := r.(type) {
	case *types.Student:
		pairs = append(pairs,
			pair{keyStudentID, v.StudentID},
			pair{keyGender, v.Gender.String()},
			pair{keyCourse, strconv.Itoa(int(v.Course))},
		)
		if v.DormitoryRoom != nil {
			optional = &pair{keyDorm, *v.DormitoryRoom}
		}
	case *types.Seller:
		pairs = append(pairs, pair{keyGender, v.Gender.String()})
		if v.Shop != nil {
			optional = &pair{keyShop, *v.Shop}
		}
	case *types.Gardener:
		pairs = append(pairs, pair{keyGender, v.Gender.String()})
		if v.ExperienceYears != nil {
			optional = &pair{keyExperience, strconv.Itoa(int(*v.ExperienceYears))}
		}
	default:
		return nil, fmt.Errorf("%w: unsupported record type %T", ErrInvalidRecord, r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s%s\n", r.Kind(), r.GetFirstName(), r.GetLastName())

	for i, p := range pairs {
		if i == 0 {
			buf.WriteString("{ ")
		}
		fmt.Fprintf(&buf, "\"%s\": \"%s\",\n", p.key, p.value)
	}

	if optional != nil {
		fmt.Fprintf(&buf, "\"%s\": \"%s\"%s\n", optional.key, optional.value, blockTerminator)
	} else {
		buf.WriteString(blockTerminator + "\n")
	}

	return buf.Bytes(), nil
}
