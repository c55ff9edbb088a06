package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsMatchesByStatusCode(t *testing.T) {
	err := NewConflictError("Bill number already exists for this shop")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict error to match ErrConflict")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("conflict error must not match ErrNotFound")
	}

	wrapped := fmt.Errorf("create bill: %w", NewNotFoundError("Shop"))
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatalf("wrapped not found error should match ErrNotFound")
	}
}

func TestGetAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"app error", NewBadRequestError("bad"), http.StatusBadRequest, "bad"},
		{"wrapped", fmt.Errorf("x: %w", NewNotFoundError("Bill")), http.StatusNotFound, "Bill not found"},
		{"plain error", errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetAppError(tt.err)
			if got.Code != tt.wantCode || got.Message != tt.wantMsg {
				t.Fatalf("GetAppError() = %d %q, want %d %q", got.Code, got.Message, tt.wantCode, tt.wantMsg)
			}
		})
	}
}

func TestNewFieldError(t *testing.T) {
	err := NewFieldError("nic", "invalid NIC number")
	if err.Code != http.StatusUnprocessableEntity {
		t.Fatalf("code = %d", err.Code)
	}
	if len(err.Errors) != 1 || err.Errors[0].Field != "nic" {
		t.Fatalf("unexpected field errors: %+v", err.Errors)
	}
}
