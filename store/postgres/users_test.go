package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: "23505", Constraint: "users_username_key"}

	if !isUniqueViolation(dup) {
		t.Error("duplicate-key error not recognized")
	}
	if !isUniqueViolation(fmt.Errorf("insert user: %w", dup)) {
		t.Error("wrapped duplicate-key error not recognized")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Error("foreign-key violation misclassified as duplicate")
	}
	if isUniqueViolation(errors.New("connection refused")) {
		t.Error("plain error misclassified as duplicate")
	}
}
