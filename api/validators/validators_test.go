package validators

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
	"github.com/oakline/oakline-backend/pkg/pagination"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    pagination.Params
		wantErr bool
	}{
		{name: "defaults", query: "", want: pagination.Params{Limit: pagination.DefaultLimit}},
		{name: "explicit", query: "?limit=10&offset=30", want: pagination.Params{Limit: 10, Offset: 30}},
		{name: "limit too large", query: "?limit=500", wantErr: true},
		{name: "limit zero", query: "?limit=0", wantErr: true},
		{name: "negative offset", query: "?offset=-1", wantErr: true},
		{name: "non numeric", query: "?limit=lots", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/users"+tc.query, nil)
			got, err := ParsePagination(r)
			if tc.wantErr {
				if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", id.String())
	r := httptest.NewRequest("GET", "/users/"+id.String(), nil)
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))

	got, err := ParseUUIDParam(r, "id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != id {
		t.Fatalf("got %s, want %s", got, id)
	}

	badCtx := chi.NewRouteContext()
	badCtx.URLParams.Add("id", "not-a-uuid")
	r = httptest.NewRequest("GET", "/users/not-a-uuid", nil)
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, badCtx))
	if _, err := ParseUUIDParam(r, "id"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	r = httptest.NewRequest("GET", "/users/", nil)
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, chi.NewRouteContext()))
	if _, err := ParseUUIDParam(r, "id"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing param, got %v", err)
	}
}

func TestParseOptionalQueryUUID(t *testing.T) {
	id := uuid.New()

	r := httptest.NewRequest("GET", "/report?client_id="+id.String(), nil)
	got, err := ParseOptionalQueryUUID(r, "client_id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || *got != id {
		t.Fatalf("got %v, want %s", got, id)
	}

	r = httptest.NewRequest("GET", "/report", nil)
	got, err = ParseOptionalQueryUUID(r, "client_id")
	if err != nil || got != nil {
		t.Fatalf("absent param must yield nil, got %v err=%v", got, err)
	}

	r = httptest.NewRequest("GET", "/report?client_id=nope", nil)
	if _, err := ParseOptionalQueryUUID(r, "client_id"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Email string `json:"email" validate:"required,email"`
	}

	r := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"ana@example.com"}`))
	var dest payload
	if err := DecodeJSONBody(r, &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Email != "ana@example.com" {
		t.Fatalf("unexpected email %q", dest.Email)
	}

	r = httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"not-an-email"}`))
	err := DecodeJSONBody(r, &payload{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	// Field names in the message come from the json tag.
	if !strings.Contains(err.Error(), "email validation is incorrect") {
		t.Fatalf("unexpected message %q", err.Error())
	}

	r = httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":`))
	if err := DecodeJSONBody(r, &payload{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for malformed json, got %v", err)
	}
}

func TestDecodeDocument(t *testing.T) {
	r := httptest.NewRequest("POST", "/users", strings.NewReader(`{"first_name":"Ana","age":30}`))
	doc, err := DecodeDocument(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc["first_name"] != "Ana" {
		t.Fatalf("unexpected doc %v", doc)
	}

	// Empty bodies decode to an empty document.
	r = httptest.NewRequest("POST", "/users", strings.NewReader(""))
	doc, err = DecodeDocument(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc) != 0 {
		t.Fatalf("expected empty document, got %v", doc)
	}

	r = httptest.NewRequest("POST", "/users", strings.NewReader(`[1,2,3]`))
	if _, err := DecodeDocument(r); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for non-object body, got %v", err)
	}
}
