package engine

import (
	"github.com/google/btree"

	"github.com/efreitasn/minimarket/internal/domain"
)

// queueEntry represents a single pending order in the settlement queue.
type queueEntry struct {
	Seq     int64
	OrderID string
	Order   *domain.Order
}

// seqLess orders the queue by sequence number ascending, which is
// insertion order: first-in orders settle first when several draw from
// the same limited market-maker inventory.
func seqLess(a, b queueEntry) bool {
	return a.Seq < b.Seq
}

// PendingQueue holds all non-terminal orders across symbols in a B-tree
// keyed by sequence number, with a secondary index for O(log n) removal
// by order ID. The coordinator holds its own lock around every queue
// access, so the queue itself is not guarded.
type PendingQueue struct {
	tree  *btree.BTreeG[queueEntry]
	index map[string]queueEntry // order_id → entry
}

// NewPendingQueue creates an empty queue.
func NewPendingQueue() *PendingQueue {
	const degree = 32
	return &PendingQueue{
		tree:  btree.NewG[queueEntry](degree, seqLess),
		index: make(map[string]queueEntry),
	}
}

// Add inserts an order.
func (q *PendingQueue) Add(o *domain.Order) {
	entry := queueEntry{Seq: o.Seq, OrderID: o.OrderID, Order: o}
	q.tree.ReplaceOrInsert(entry)
	q.index[o.OrderID] = entry
}

// Remove deletes an order by ID. Unknown IDs are ignored.
func (q *PendingQueue) Remove(orderID string) {
	entry, ok := q.index[orderID]
	if !ok {
		return
	}
	delete(q.index, orderID)
	q.tree.Delete(entry)
}

// Get returns the pending order with the given ID.
func (q *PendingQueue) Get(orderID string) (*domain.Order, bool) {
	entry, ok := q.index[orderID]
	if !ok {
		return nil, false
	}
	return entry.Order, true
}

// Ascend iterates pending orders in settlement order. The callback
// returns true to continue, false to stop.
func (q *PendingQueue) Ascend(fn func(*domain.Order) bool) {
	q.tree.Ascend(func(entry queueEntry) bool {
		return fn(entry.Order)
	})
}

// Orders returns all pending orders in settlement order.
func (q *PendingQueue) Orders() []*domain.Order {
	out := make([]*domain.Order, 0, q.tree.Len())
	q.tree.Ascend(func(entry queueEntry) bool {
		out = append(out, entry.Order)
		return true
	})
	return out
}

// Len returns the number of pending orders.
func (q *PendingQueue) Len() int {
	return q.tree.Len()
}
