package domain_test

import (
	"testing"

	"github.com/robertarktes/capsule-hotel/internal/domain"
)

func TestHistory_RecentOrder(t *testing.T) {
	h := domain.NewHistory(domain.HistoryCapacity)
	for i := 1; i <= 7; i++ {
		h.Append(&domain.Booking{ID: i})
	}

	got := h.Recent(5)
	if len(got) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(got))
	}
	for i, b := range got {
		if want := 3 + i; b.ID != want {
			t.Errorf("entry %d: expected id %d, got %d", i, want, b.ID)
		}
	}
}

func TestHistory_CountLargerThanBuffer(t *testing.T) {
	h := domain.NewHistory(domain.HistoryCapacity)
	h.Append(&domain.Booking{ID: 1})
	h.Append(&domain.Booking{ID: 2})

	if got := h.Recent(10); len(got) != 2 {
		t.Fatalf("expected all 2 entries, got %d", len(got))
	}
	if got := h.Recent(0); got != nil {
		t.Errorf("expected nil for zero count, got %v", got)
	}
}

func TestHistory_EvictsOldestFirst(t *testing.T) {
	h := domain.NewHistory(domain.HistoryCapacity)
	total := domain.HistoryCapacity + 50
	for i := 1; i <= total; i++ {
		h.Append(&domain.Booking{ID: i})
	}

	if h.Len() != domain.HistoryCapacity {
		t.Fatalf("buffer must stay at capacity, got %d", h.Len())
	}

	got := h.Recent(5)
	for i, b := range got {
		if want := total - 4 + i; b.ID != want {
			t.Errorf("entry %d: expected id %d, got %d", i, want, b.ID)
		}
	}

	// The oldest survivor is exactly total-capacity+1.
	all := h.Recent(domain.HistoryCapacity)
	if all[0].ID != total-domain.HistoryCapacity+1 {
		t.Errorf("expected oldest id %d, got %d", total-domain.HistoryCapacity+1, all[0].ID)
	}
}
