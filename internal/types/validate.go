package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// TagRecordText is the custom validation tag for values that end up inside
// a record block. The block grammar has no escaping, so a value must not
// contain a double quote, a line break, or the block terminator "};".
const TagRecordText = "recordtext"

// NewValidator returns a validator with the record-specific tags
// registered. validator.Validate caches struct metadata, so callers should
// build one and reuse it.
func NewValidator() *validator.Validate {
	v := validator.New()
	// RegisterValidation only fails for an empty tag or nil func.
	_ = v.RegisterValidation(TagRecordText, validateRecordText)
	return v
}

func validateRecordText(fl validator.FieldLevel) bool {
	return IsRecordText(fl.Field().String())
}

// IsRecordText reports whether s can be stored in a record block verbatim.
func IsRecordText(s string) bool {
	return !strings.ContainsAny(s, "\"\r\n") && !strings.Contains(s, "};")
}
