package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error is never a violation")
	}
	if !IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "users_email_key"`), "") {
		t.Fatal("expected postgres phrasing to match")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email"), "") {
		t.Fatal("expected sqlite phrasing to match")
	}
	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatal("unrelated errors must not match")
	}
}

func TestIsUniqueViolationWithConstraintName(t *testing.T) {
	err := errors.New(`duplicate key value violates unique constraint "idx_entity_address"`)
	if !IsUniqueViolation(err, "idx_entity_address") {
		t.Fatal("expected named constraint to match")
	}
	if IsUniqueViolation(err, "idx_entity_media") {
		t.Fatal("different constraint must not match")
	}
}
