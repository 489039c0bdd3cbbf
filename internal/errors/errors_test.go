package errors

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestAppErrorIsMatchesTypeAndCode(t *testing.T) {
	err := Wrap(stderrors.New("disk full"), ErrorTypeDatabase, "STORE_INIT", "open failed")

	if !stderrors.Is(err, ErrStoreInit) {
		t.Fatal("expected wrapped error to match ErrStoreInit")
	}
	if stderrors.Is(err, ErrMigration) {
		t.Fatal("different code must not match")
	}

	outer := fmt.Errorf("init: %w", err)
	if !stderrors.Is(outer, ErrStoreInit) {
		t.Fatal("expected match through fmt wrapping")
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := stderrors.New("constraint failed")
	err := NewDatabaseError(cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected internal error to be reachable")
	}
	if !strings.Contains(err.Error(), "constraint failed") {
		t.Fatalf("Error() = %q, missing cause", err.Error())
	}
	if err.Source == "" || !strings.Contains(err.Source, "errors_test.go") {
		t.Fatalf("Source = %q, want caller location", err.Source)
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"validation", NewValidationError("bad date"), ErrorTypeValidation},
		{"wrapped external", fmt.Errorf("search: %w", NewExternalAPIError(stderrors.New("502"), "edamam")), ErrorTypeExternal},
		{"plain", stderrors.New("boom"), ErrorTypeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeOf(tt.err); got != tt.want {
				t.Errorf("TypeOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHandlerLogsBySeverity(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	h.Handle(context.Background(), NewValidationError("bad date"))
	h.Handle(context.Background(), NewDatabaseError(stderrors.New("locked")))
	h.Handle(context.Background(), stderrors.New("plain"))
	h.Handle(context.Background(), nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d log lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"level":"WARN"`) {
		t.Errorf("validation should log at warn: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"level":"ERROR"`) || !strings.Contains(lines[1], "locked") {
		t.Errorf("database error should log at error with cause: %s", lines[1])
	}
	if !strings.Contains(lines[2], "Unhandled error") {
		t.Errorf("generic error message missing: %s", lines[2])
	}
}

func TestExternalAPIErrorCarriesAPIName(t *testing.T) {
	err := NewExternalAPIError(stderrors.New("status 500"), "edamam")
	if err.Context["api"] != "edamam" {
		t.Fatalf("context api = %v", err.Context["api"])
	}
	if !stderrors.Is(err, ErrExternalAPI) {
		t.Fatal("expected match with ErrExternalAPI")
	}
}
