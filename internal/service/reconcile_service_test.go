package service

import (
	"context"
	"testing"
	"time"

	"github.com/parlevel-next/internal/constants"
	"github.com/parlevel-next/internal/extractor"
	"github.com/parlevel-next/internal/models"
)

func TestParLevelResolverExpandsFirstTemplate(t *testing.T) {
	s := newIntakeStack(t, true)
	f := s.seedFixture(t)
	s.mustParLevel(t, "Backup Par", f.steakhouse.ID, f.freshProduce.ID,
		models.ParLevelLine{CatalogItemID: f.tomatoes.ID, Quantity: 99},
	)

	lines, err := s.resolver.Resolve(context.Background(), f.steakhouse.ID, f.freshProduce.ID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines from first template, got %+v", lines)
	}
	if lines[0].Name != "Lettuce (Iceberg)" || lines[0].Quantity != 10 {
		t.Fatalf("unexpected first line: %+v", lines[0])
	}
	if lines[1].Name != "Tomatoes (kg)" || lines[1].Quantity != 5 {
		t.Fatalf("unexpected second line: %+v", lines[1])
	}
}

func TestParLevelResolverWithoutTemplate(t *testing.T) {
	s := newIntakeStack(t, true)
	f := s.seedFixture(t)

	lines, err := s.resolver.Resolve(context.Background(), f.pizzaPalace.ID, f.beverages.ID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if lines == nil || len(lines) != 0 {
		t.Fatalf("expected empty non-nil lines, got %+v", lines)
	}
}

func TestReconcileParLevelLinesComeFirst(t *testing.T) {
	s := newIntakeStack(t, true)
	f := s.seedFixture(t)
	delivery := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
	intent := intentOf(true, textLine("tomato", 3), textLine("onion", 2))
	intent.ExpectedDelivery = &delivery

	draft, report, err := s.reconciler.Reconcile(context.Background(), ReconcileInput{
		RestaurantID: f.steakhouse.ID,
		SupplierID:   f.freshProduce.ID,
		RawText:      "usual plus 3 tomatoes and 2 onions",
		Intent:       intent,
	})
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if len(draft.Lines) != 3 {
		t.Fatalf("expected 3 draft lines, got %+v", draft.Lines)
	}
	wantNames := []string{"Lettuce (Iceberg)", "Tomatoes (kg)", "Tomatoes (kg)"}
	wantQty := []int{10, 5, 3}
	wantSource := []string{constants.LineSourceParLevel, constants.LineSourceParLevel, constants.LineSourceText}
	for i, l := range draft.Lines {
		if l.Item.Name != wantNames[i] || l.Quantity != wantQty[i] || l.Source != wantSource[i] {
			t.Fatalf("line %d mismatch: %+v", i, l)
		}
	}
	if !report.UsedParLevel || len(report.Inserted) != 3 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.Unmatched) != 1 || report.Unmatched[0].Name != "onion" || report.Unmatched[0].Reason != constants.LineRejectUnmatched {
		t.Fatalf("onion should be unmatched: %+v", report.Unmatched)
	}
	if draft.ExpectedDelivery == nil || !draft.ExpectedDelivery.Equal(delivery) {
		t.Fatalf("delivery not carried: %+v", draft.ExpectedDelivery)
	}
	if draft.Notes != "usual plus 3 tomatoes and 2 onions" || draft.Source != constants.OrderSourceText {
		t.Fatalf("unexpected draft meta: %+v", draft)
	}
}

func TestReconcileRejectsNonPositiveQuantity(t *testing.T) {
	s := newIntakeStack(t, true)
	f := s.seedFixture(t)

	draft, report, err := s.reconciler.Reconcile(context.Background(), ReconcileInput{
		RestaurantID: f.pizzaPalace.ID,
		SupplierID:   f.beverages.ID,
		Intent:       intentOf(false, textLine("cola", 0), textLine("juice", 2)),
	})
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if len(draft.Lines) != 1 || draft.Lines[0].Item.ID != f.orangeJuice.ID {
		t.Fatalf("unexpected lines: %+v", draft.Lines)
	}
	if len(report.Unmatched) != 1 || report.Unmatched[0].Reason != constants.LineRejectInvalidQuantity {
		t.Fatalf("zero quantity should be rejected: %+v", report.Unmatched)
	}
}

func TestReconcileEmptyIntentYieldsEmptyDraft(t *testing.T) {
	s := newIntakeStack(t, true)
	f := s.seedFixture(t)

	draft, report, err := s.reconciler.Reconcile(context.Background(), ReconcileInput{
		RestaurantID: f.pizzaPalace.ID,
		SupplierID:   f.beverages.ID,
		Intent:       &extractor.OrderIntent{},
	})
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if len(draft.Lines) != 0 || len(report.Inserted) != 0 || len(report.Unmatched) != 0 {
		t.Fatalf("expected empty result, got draft=%+v report=%+v", draft, report)
	}
}
