package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return New(Config{
		Component: "test",
		Handler:   slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestStructuredLoggerTransactionCreated(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newBufferLogger(&buf))

	sl.LogTransactionCreated(context.Background(), "id-1", "Lunch", "-12.5", "Food", "2024-01-02")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if entry[FieldTransactionID] != "id-1" || entry[FieldAmount] != "-12.5" || entry[FieldCategory] != "Food" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry[FieldOperation] != OpCreate {
		t.Fatalf("expected operation %q, got %v", OpCreate, entry[FieldOperation])
	}
}

func TestStructuredLoggerCategoryChanged(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newBufferLogger(&buf))

	sl.LogCategoryChanged(context.Background(), OpDelete, "Food", 3)
	if !strings.Contains(buf.String(), `"reassigned":3`) {
		t.Fatalf("expected reassigned count in %s", buf.String())
	}

	buf.Reset()
	sl.LogCategoryChanged(context.Background(), OpCreate, "Travel", 0)
	if strings.Contains(buf.String(), "reassigned") {
		t.Fatalf("create must not log a reassigned count: %s", buf.String())
	}
}

func TestLogErrorWithNilFields(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newBufferLogger(&buf))

	sl.LogError(context.Background(), "save failed", errors.New("disk full"), ComponentStorage, OpSave, nil)
	if !strings.Contains(buf.String(), "disk full") {
		t.Fatalf("expected error in %s", buf.String())
	}
}

func TestMiddlewareChain(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)

	var got *Logger
	h := Middleware(logger)(RequestIDMiddleware(func(*http.Request) string { return "req-42" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = FromContext(r.Context())
			got.Info("inside")
		})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got == nil || got.Component() != "test" {
		t.Fatalf("expected logger from context, got %+v", got)
	}
	if !strings.Contains(buf.String(), `"request_id":"req-42"`) {
		t.Fatalf("expected request id in %s", buf.String())
	}

	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatalf("expected fallback logger")
	}
}
