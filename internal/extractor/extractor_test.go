package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestExtractPassesPromptAndAnchor(t *testing.T) {
	anchor := time.Date(2024, 3, 14, 8, 30, 0, 0, time.UTC)
	var gotSystem, gotUser string
	oracle := OracleFunc(func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
		gotSystem = systemPrompt
		gotUser = userPrompt
		return `{"useParLevel": false, "items": [{"name": "tomato", "quantity": 4}]}`, nil
	})
	ex := NewExtractor(oracle).WithClock(func() time.Time { return anchor })

	intent, err := ex.Extract(context.Background(), "  4 tomato please ")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(intent.Lines) != 1 || intent.Lines[0].Name != "tomato" {
		t.Fatalf("unexpected intent: %+v", intent)
	}
	if !strings.Contains(gotSystem, "2024-03-14T08:30:00Z") {
		t.Fatalf("system prompt should carry time anchor: %s", gotSystem)
	}
	if gotUser != "User input:\n4 tomato please\n" {
		t.Fatalf("unexpected user prompt: %q", gotUser)
	}
}

func TestExtractRejectsEmptyText(t *testing.T) {
	called := false
	ex := NewExtractor(OracleFunc(func(ctx context.Context, s, u string) (string, error) {
		called = true
		return "{}", nil
	}))
	if _, err := ex.Extract(context.Background(), " \n\t"); !errors.Is(err, ErrEmptyOrderText) {
		t.Fatalf("expected ErrEmptyOrderText, got %v", err)
	}
	if called {
		t.Fatalf("oracle should not be called for empty text")
	}
}

func TestExtractWrapsOracleFailure(t *testing.T) {
	ex := NewExtractor(OracleFunc(func(ctx context.Context, s, u string) (string, error) {
		return "", context.DeadlineExceeded
	}))
	_, err := ex.Extract(context.Background(), "10 lettuce")
	if !IsTransportError(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("transport error should unwrap to cause")
	}
}

func TestExtractMalformedOutput(t *testing.T) {
	ex := NewExtractor(OracleFunc(func(ctx context.Context, s, u string) (string, error) {
		return "Sure! Here is your order: lettuce x10", nil
	}))
	_, err := ex.Extract(context.Background(), "10 lettuce")
	var formatErr *ExtractionFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected format error, got %v", err)
	}
	if !strings.Contains(formatErr.Raw, "lettuce x10") {
		t.Fatalf("format error should carry raw output: %+v", formatErr)
	}
}

func TestExtractWithoutOracle(t *testing.T) {
	if _, err := NewExtractor(nil).Extract(context.Background(), "10 lettuce"); !IsTransportError(err) {
		t.Fatalf("missing oracle should be a transport error, got %v", err)
	}
}
