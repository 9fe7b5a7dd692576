// Package codec converts records to and from the line-oriented block
// format stored in the data file:
//
//	Student VladUpyrov
//	{ "firstName": "Vlad",
//	"lastName": "Upyrov",
//	"studentId": "3332",
//	"gender": "Male",
//	"course": "3",
//	"dorm": "101-12"};
//
// A header line carries the kind tag followed by the concatenated names.
// Only the tag is read back; the names come from the block. The block is a
// brace-delimited list of quoted key/value pairs that ends on the first
// line containing "};".
package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/aanand-mishra/people-registry/internal/types"
)

// Block keys, as written to the file.
const (
	keyFirstName  = "firstName"
	keyLastName   = "lastName"
	keyStudentID  = "studentId"
	keyGender     = "gender"
	keyCourse     = "course"
	keyDorm       = "dorm"
	keyShop       = "shop"
	keyExperience = "experience"
)

const (
	blockTerminator = "};"
	defaultCourse   = 1
)

var pairPattern = regexp.MustCompile(`"([^"]+)"\s*:\s*"([^"]*)"`)

type decodeState int

const (
	awaitHeader decodeState = iota
	accumulatingBlock
)

// Decoder reads records from a stream. It is single-use: call Decode once.
type Decoder struct {
	r        *bufio.Reader
	line     int
	warnings []UnknownKindWarning
}

// NewDecoder returns a Decoder reading from r. Lines have no length limit:
// any value the encoder accepts can be read back.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// readLine returns the next line without its "\n" or "\r\n" ending. ok is
// false once the input is exhausted.
func (d *Decoder) readLine() (text string, ok bool, err error) {
	text, err = d.r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", false, fmt.Errorf("read line %d: %w", d.line+1, err)
		}
		if text == "" {
			return "", false, nil
		}
	}

	d.line++
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	return text, true, nil
}

// Warnings returns the unknown-kind headers skipped by Decode.
func (d *Decoder) Warnings() []UnknownKindWarning {
	return d.warnings
}

// Decode reads the whole stream and returns its records in file order.
//
// A block with a missing required key fails the whole call with a
// *FormatError and no records. Read failures are returned wrapped. Blocks
// under an unknown kind tag are consumed, recorded as warnings, and
// skipped. A block cut short by end of input is decoded from whatever
// lines were read.
func (d *Decoder) Decode() ([]types.Record, error) {
	records := make([]types.Record, 0)

	var (
		state      = awaitHeader
		tag        string
		headerLine int
		block      strings.Builder
	)

	for {
		text, ok, err := d.readLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		switch state {
		case awaitHeader:
			fields := strings.Fields(text)
			if len(fields) == 0 {
				continue
			}
			tag = fields[0]
			headerLine = d.line
			block.Reset()
			state = accumulatingBlock

		case accumulatingBlock:
			block.WriteString(text)
			block.WriteByte('\n')
			if !strings.Contains(text, blockTerminator) {
				continue
			}

			rec, err := d.finishBlock(tag, headerLine, block.String())
			if err != nil {
				return nil, err
			}
			if rec != nil {
				records = append(records, rec)
			}
			state = awaitHeader
		}
	}

	if state == accumulatingBlock {
		rec, err := d.finishBlock(tag, headerLine, block.String())
		if err != nil {
			return nil, err
		}
		if rec != nil {
			records = append(records, rec)
		}
	}

	return records, nil
}

func (d *Decoder) finishBlock(tag string, line int, block string) (types.Record, error) {
	kind, ok := types.ParseKind(tag)
	if !ok {
		d.warnings = append(d.warnings, UnknownKindWarning{Line: line, Kind: tag})
		return nil, nil
	}

	attrs := parsePairs(block)
	if len(attrs) == 0 {
		return nil, &FormatError{Line: line, Kind: kind, Reason: "no quoted key/value pairs in block"}
	}

	return buildRecord(kind, line, attrs)
}

// parsePairs extracts every "key": "value" pair. Later duplicates replace
// earlier ones.
func parsePairs(block string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range pairPattern.FindAllStringSubmatch(block, -1) {
		attrs[m[1]] = m[2]
	}
	return attrs
}

func buildRecord(kind types.Kind, line int, attrs map[string]string) (types.Record, error) {
	required := func(key string) (string, error) {
		v, ok := attrs[key]
		if !ok {
			return "", &FormatError{Line: line, Kind: kind, Field: key, Reason: "missing required field"}
		}
		return v, nil
	}

	first, err := required(keyFirstName)
	if err != nil {
		return nil, err
	}
	last, err := required(keyLastName)
	if err != nil {
		return nil, err
	}
	gender := types.ParseGender(attrs[keyGender])

	switch kind {
	case types.KindStudent:
		id, err := required(keyStudentID)
		if err != nil {
			return nil, err
		}
		return &types.Student{
			FirstName:     first,
			LastName:      last,
			Gender:        gender,
			StudentID:     id,
			Course:        uint8OrDefault(attrs[keyCourse], defaultCourse),
			DormitoryRoom: optionalString(attrs, keyDorm),
		}, nil

	case types.KindSeller:
		return &types.Seller{
			FirstName: first,
			LastName:  last,
			Gender:    gender,
			Shop:      optionalString(attrs, keyShop),
		}, nil

	case types.KindGardener:
		return &types.Gardener{
			FirstName:       first,
			LastName:        last,
			Gender:          gender,
			ExperienceYears: optionalUint8(attrs, keyExperience),
		}, nil
	}

	return nil, &FormatError{Line: line, Kind: kind, Reason: "unsupported kind"}
}

// uint8OrDefault parses s, falling back to def when s is empty or not a
// number in 0..255.
func uint8OrDefault(s string, def uint8) uint8 {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return def
	}
	return uint8(v)
}

// optionalUint8 is nil when the key is absent or its value does not parse.
func optionalUint8(attrs map[string]string, key string) *uint8 {
	s, ok := attrs[key]
	if !ok {
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return nil
	}
	u := uint8(v)
	return &u
}

func optionalString(attrs map[string]string, key string) *string {
	s, ok := attrs[key]
	if !ok {
		return nil
	}
	return &s
}
