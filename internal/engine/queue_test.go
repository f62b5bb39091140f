package engine

import (
	"testing"

	"github.com/efreitasn/minimarket/internal/domain"
)

func queueOrder(seq int64, id string) *domain.Order {
	return &domain.Order{OrderID: id, Seq: seq, Status: domain.OrderStatusPendingDelay}
}

func TestPendingQueue_AscendsInSeqOrder(t *testing.T) {
	q := NewPendingQueue()
	q.Add(queueOrder(3, "c"))
	q.Add(queueOrder(1, "a"))
	q.Add(queueOrder(2, "b"))

	var got []string
	q.Ascend(func(o *domain.Order) bool {
		got = append(got, o.OrderID)
		return true
	})
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %d = %s, want %s (full: %v)", i, got[i], want[i], got)
		}
	}

	orders := q.Orders()
	if len(orders) != 3 || orders[0].OrderID != "a" {
		t.Errorf("Orders() = %v, want settlement order", orders)
	}
}

func TestPendingQueue_RemoveAndGet(t *testing.T) {
	q := NewPendingQueue()
	q.Add(queueOrder(1, "a"))
	q.Add(queueOrder(2, "b"))

	if o, ok := q.Get("a"); !ok || o.Seq != 1 {
		t.Fatalf("Get(a) = %v, %v", o, ok)
	}

	q.Remove("a")
	if _, ok := q.Get("a"); ok {
		t.Error("removed order still present")
	}
	if q.Len() != 1 {
		t.Errorf("len = %d, want 1", q.Len())
	}

	// Unknown removals are ignored.
	q.Remove("zzz")
	if q.Len() != 1 {
		t.Errorf("len = %d, want 1 after unknown removal", q.Len())
	}
}

func TestPendingQueue_AscendStopsEarly(t *testing.T) {
	q := NewPendingQueue()
	for i := int64(1); i <= 5; i++ {
		q.Add(queueOrder(i, string(rune('a'+i-1))))
	}

	count := 0
	q.Ascend(func(o *domain.Order) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Errorf("visited %d orders, want 2", count)
	}
}
