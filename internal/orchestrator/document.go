package orchestrator

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
)

// Document is the raw input payload for a parent entity. Top-level keys are
// either parent columns or declared aspect keys.
type Document map[string]any

var validate = validator.New(validator.WithRequiredStructEnabled())

// Project returns the sub-document containing only the recognized fields.
func (d Document) Project(fields []string) Document {
	out := Document{}
	for _, field := range fields {
		if value, ok := d[field]; ok {
			out[field] = value
		}
	}
	return out
}

// Aspect returns the raw value stored under the aspect key and whether the
// key is present with a non-empty value. nil values and empty lists count as
// absent, which makes a declared-but-empty aspect a no-op.
func (d Document) Aspect(key string) (any, bool) {
	value, ok := d[key]
	if !ok || value == nil {
		return nil, false
	}
	switch v := value.(type) {
	case []any:
		if len(v) == 0 {
			return nil, false
		}
	case map[string]any:
		if len(v) == 0 {
			return nil, false
		}
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, false
		}
	}
	return value, true
}

// AsList coerces an aspect value into a list of elements, wrapping a single
// object into a one-element slice.
func AsList(value any) []any {
	if value == nil {
		return nil
	}
	if list, ok := value.([]any); ok {
		return list
	}
	return []any{value}
}

// Decode round-trips the raw value through JSON into the typed payload and
// runs struct validation. The first validation failure is surfaced as a
// field-level message.
func Decode(value any, out any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encoding payload")
	}
	decoder := json.NewDecoder(strings.NewReader(string(raw)))
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "payload shape is invalid")
	}
	if err := validate.Struct(out); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			first := invalid[0]
			return pkgerrors.Newf(pkgerrors.CodeValidation, "%s validation is incorrect: failed on %s", strings.ToLower(first.Field()), first.Tag())
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "payload validation failed")
	}
	return nil
}

// ParseDate accepts ISO dates with or without a time component.
func ParseDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, nil
		}
	}
	return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "date validation is incorrect: %q is not an ISO date", value)
}
