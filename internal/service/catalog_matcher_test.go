package service

import (
	"context"
	"testing"

	"github.com/parlevel-next/internal/constants"
	"github.com/parlevel-next/internal/models"
)

func TestFirstMatchCaseInsensitiveSubstring(t *testing.T) {
	items := []models.CatalogItem{
		{ID: 1, Name: "Lettuce (Iceberg)"},
		{ID: 2, Name: "Tomatoes (kg)"},
	}
	cases := map[string]uint{
		"tomato":   2,
		"TOMATOES": 2,
		" iceberg": 1,
		"lettuce":  1,
	}
	for raw, want := range cases {
		got := FirstMatch(items, raw)
		if got == nil || got.ID != want {
			t.Fatalf("match %q: want id=%d got=%+v", raw, want, got)
		}
	}
	if got := FirstMatch(items, "onion"); got != nil {
		t.Fatalf("onion should not match, got %+v", got)
	}
	if got := FirstMatch(items, "   "); got != nil {
		t.Fatalf("blank name should not match, got %+v", got)
	}
	// 原始名称比目录名称更长时不匹配
	if got := FirstMatch(items, "tomatoes (kg) roma"); got != nil {
		t.Fatalf("longer raw name should not match, got %+v", got)
	}
}

func TestFirstMatchReturnsEarliestCandidate(t *testing.T) {
	items := []models.CatalogItem{
		{ID: 3, Name: "Cola (12 pack)"},
		{ID: 4, Name: "Cola Zero (12 pack)"},
	}
	got := FirstMatch(items, "cola")
	if got == nil || got.ID != 3 {
		t.Fatalf("expected first cola, got %+v", got)
	}
}

func TestCatalogMatcherScopedBySupplier(t *testing.T) {
	s := newIntakeStack(t, true)
	f := s.seedFixture(t)
	ctx := context.Background()

	item, err := s.matcher.Match(ctx, f.freshProduce.ID, "tomato")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if item == nil || item.ID != f.tomatoes.ID {
		t.Fatalf("expected tomatoes, got %+v", item)
	}

	item, err = s.matcher.Match(ctx, f.freshProduce.ID, "cola")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if item != nil {
		t.Fatalf("cola belongs to another supplier, got %+v", item)
	}
}

func TestCatalogMatcherActiveOnly(t *testing.T) {
	s := newIntakeStack(t, true)
	f := s.seedFixture(t)
	if err := s.db.Model(&models.CatalogItem{}).Where("id = ?", f.cola.ID).
		Update("status", constants.ItemStatusArchived).Error; err != nil {
		t.Fatalf("archive item failed: %v", err)
	}
	ctx := context.Background()

	item, err := s.matcher.Match(ctx, f.beverages.ID, "cola")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if item != nil {
		t.Fatalf("archived item should be excluded, got %+v", item)
	}

	lenient := NewCatalogMatcher(s.catalogRepo, false)
	item, err = lenient.Match(ctx, f.beverages.ID, "cola")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if item == nil || item.ID != f.cola.ID {
		t.Fatalf("archived item should match when active_only is off, got %+v", item)
	}
}
