package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestToDomainError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"no rows", fmt.Errorf("get candidate: %w", pgx.ErrNoRows), CodeNotFound, http.StatusNotFound},
		{"malformed uuid", &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}, CodeNotFound, http.StatusNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, CodeConflict, http.StatusConflict},
		{"foreign key", &pgconn.PgError{Code: "23503"}, CodeConflict, http.StatusConflict},
		{"other pg error", &pgconn.PgError{Code: "40001"}, CodeInternal, http.StatusInternalServerError},
		{"fiber", fiber.NewError(http.StatusRequestEntityTooLarge, "too big"), "HTTP_413", http.StatusRequestEntityTooLarge},
		{"plain", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToDomainError(tc.err)
			if got.Code != tc.code || got.HTTPStatus != tc.status {
				t.Fatalf("got %s/%d, want %s/%d", got.Code, got.HTTPStatus, tc.code, tc.status)
			}
		})
	}
}

func TestToDomainErrorKeepsDomainErrors(t *testing.T) {
	orig := NewNotFound("candidate", map[string]any{"id": "x"})
	wrapped := fmt.Errorf("load: %w", orig)
	if got := ToDomainError(wrapped); got != orig {
		t.Fatalf("expected the wrapped domain error to be returned as-is, got %+v", got)
	}
	if !IsCode(wrapped, CodeNotFound) {
		t.Fatalf("IsCode should see through wrapping")
	}
	if ToDomainError(nil) != nil {
		t.Fatalf("nil error must stay nil")
	}
}
