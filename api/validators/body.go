package validators

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/oakline/oakline-backend/internal/orchestrator"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// DecodeJSONBody unmarshals a typed request body and validates it. The first
// failing field is reported in the standard flavor.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// DecodeDocument reads the body as a free-form entity document for the
// orchestrated create and update endpoints.
func DecodeDocument(r *http.Request) (orchestrator.Document, error) {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()
	doc := orchestrator.Document{}
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return doc, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
	}
	return doc, nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		first := errs[0]
		return pkgerrors.Newf(pkgerrors.CodeValidation,
			"%s validation is incorrect: failed on %s", strings.ToLower(first.Field()), first.Tag())
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}
