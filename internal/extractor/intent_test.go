package extractor

import (
	"testing"
	"time"
)

func TestParseIntentFull(t *testing.T) {
	intent, err := ParseIntent(`{"useParLevel": true, "items": [{"name": "Lettuce", "quantity": 10}, {"name": "eggs", "quantity": 3.0}], "expectedDeliveryDateTime": "2024-03-15T09:00:00Z"}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !intent.UseParLevel {
		t.Fatalf("useParLevel should be true")
	}
	if len(intent.Lines) != 2 || intent.Lines[0].Name != "Lettuce" || intent.Lines[0].Quantity != 10 || intent.Lines[1].Quantity != 3 {
		t.Fatalf("unexpected lines: %+v", intent.Lines)
	}
	want := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	if intent.ExpectedDelivery == nil || !intent.ExpectedDelivery.Equal(want) {
		t.Fatalf("unexpected delivery: %v", intent.ExpectedDelivery)
	}
}

func TestParseIntentLenientFields(t *testing.T) {
	cases := []string{
		`{}`,
		`{"items": null}`,
		`{"items": [], "useParLevel": "yes"}`,
		`{"useParLevel": 1, "expectedDeliveryDateTime": ""}`,
	}
	for _, raw := range cases {
		intent, err := ParseIntent(raw)
		if err != nil {
			t.Fatalf("parse %s failed: %v", raw, err)
		}
		if intent.UseParLevel {
			t.Fatalf("non-boolean or missing useParLevel should be false for %s", raw)
		}
		if intent.Lines == nil || len(intent.Lines) != 0 {
			t.Fatalf("expected empty non-nil lines for %s, got %+v", raw, intent.Lines)
		}
		if intent.ExpectedDelivery != nil {
			t.Fatalf("expected no delivery for %s", raw)
		}
	}
}

func TestParseIntentCodeFence(t *testing.T) {
	intent, err := ParseIntent("```json\n{\"items\": [{\"name\": \"cola\", \"quantity\": 2}]}\n```")
	if err != nil {
		t.Fatalf("parse fenced output failed: %v", err)
	}
	if len(intent.Lines) != 1 || intent.Lines[0].Name != "cola" {
		t.Fatalf("unexpected lines: %+v", intent.Lines)
	}
}

func TestParseIntentDateOnly(t *testing.T) {
	intent, err := ParseIntent(`{"expectedDeliveryDateTime": "2024-03-16"}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if intent.ExpectedDelivery == nil || intent.ExpectedDelivery.Day() != 16 {
		t.Fatalf("unexpected delivery: %v", intent.ExpectedDelivery)
	}
}

func TestParseIntentRejectsMalformed(t *testing.T) {
	cases := []string{
		`not json`,
		`null`,
		`[]`,
		`{"items": "lettuce"}`,
		`{"items": [1, 2]}`,
		`{"items": [{"quantity": 1}]}`,
		`{"items": [{"name": "  ", "quantity": 1}]}`,
		`{"items": [{"name": "lettuce"}]}`,
		`{"items": [{"name": "lettuce", "quantity": "ten"}]}`,
		`{"items": [{"name": "lettuce", "quantity": 1.5}]}`,
		`{"expectedDeliveryDateTime": "next tuesday"}`,
		`{"expectedDeliveryDateTime": 12}`,
		`{"items": []} trailing`,
	}
	for _, raw := range cases {
		_, err := ParseIntent(raw)
		if err == nil {
			t.Fatalf("expected format error for %s", raw)
		}
		if !IsFormatError(err) {
			t.Fatalf("expected ExtractionFormatError for %s, got %T", raw, err)
		}
	}
}

func TestParseIntentKeepsNonPositiveQuantity(t *testing.T) {
	intent, err := ParseIntent(`{"items": [{"name": "lettuce", "quantity": 0}, {"name": "cola", "quantity": -2}]}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(intent.Lines) != 2 || intent.Lines[0].Quantity != 0 || intent.Lines[1].Quantity != -2 {
		t.Fatalf("quantities should pass through unchanged: %+v", intent.Lines)
	}
}
