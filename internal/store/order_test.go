package store

import (
	"fmt"
	"testing"

	"github.com/efreitasn/minimarket/internal/domain"
)

func seedOrders(s *OrderStore, owner string, n int) {
	for i := 0; i < n; i++ {
		status := domain.OrderStatusFilled
		if i%2 == 0 {
			status = domain.OrderStatusPendingDelay
		}
		s.Create(&domain.Order{
			OrderID: fmt.Sprintf("%s-%d", owner, i),
			OwnerID: owner,
			Status:  status,
		})
	}
}

func TestOrderStore_CreateAndGet(t *testing.T) {
	s := NewOrderStore()
	o := &domain.Order{OrderID: "o-1", OwnerID: "player"}
	s.Create(o)

	got, err := s.Get("o-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != o {
		t.Error("Get() returned a different order")
	}

	if _, err := s.Get("nope"); err != domain.ErrOrderNotFound {
		t.Errorf("Get() error = %v, want ErrOrderNotFound", err)
	}
}

func TestOrderStore_ListByOwnerNewestFirst(t *testing.T) {
	s := NewOrderStore()
	seedOrders(s, "player", 5)
	seedOrders(s, "other", 3)

	got, total := s.ListByOwner("player", nil, 1, 10)
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	if got[0].OrderID != "player-4" || got[4].OrderID != "player-0" {
		t.Errorf("order = [%s … %s], want newest first", got[0].OrderID, got[4].OrderID)
	}
}

func TestOrderStore_ListByOwnerStatusFilter(t *testing.T) {
	s := NewOrderStore()
	seedOrders(s, "player", 6) // 3 pending_delay, 3 filled

	status := domain.OrderStatusFilled
	got, total := s.ListByOwner("player", &status, 1, 10)
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	for _, o := range got {
		if o.Status != domain.OrderStatusFilled {
			t.Errorf("order %s has status %s", o.OrderID, o.Status)
		}
	}
}

func TestOrderStore_ListByOwnerPagination(t *testing.T) {
	s := NewOrderStore()
	seedOrders(s, "player", 5)

	page1, total := s.ListByOwner("player", nil, 1, 2)
	if total != 5 || len(page1) != 2 {
		t.Fatalf("page 1: len=%d total=%d, want 2/5", len(page1), total)
	}
	page3, _ := s.ListByOwner("player", nil, 3, 2)
	if len(page3) != 1 {
		t.Fatalf("page 3: len=%d, want 1", len(page3))
	}
	// Pages run newest to oldest with no overlap.
	if page1[0].OrderID != "player-4" || page3[0].OrderID != "player-0" {
		t.Errorf("pages = %s … %s", page1[0].OrderID, page3[0].OrderID)
	}

	empty, total := s.ListByOwner("player", nil, 4, 2)
	if len(empty) != 0 || total != 5 {
		t.Errorf("past-the-end page: len=%d total=%d, want 0/5", len(empty), total)
	}
}

func TestOrderStore_ListByOwnerUnknownOwner(t *testing.T) {
	s := NewOrderStore()
	got, total := s.ListByOwner("nobody", nil, 1, 10)
	if len(got) != 0 || total != 0 {
		t.Errorf("unknown owner: len=%d total=%d, want 0/0", len(got), total)
	}
}
