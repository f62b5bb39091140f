package domain

// EventType enumerates the notifications the engine emits for UI and
// logging collaborators. Events are read-only projections, never mutation
// entry points.
type EventType string

const (
	EventOrderFilled       EventType = "order.filled"
	EventOrderFailed       EventType = "order.failed"
	EventOrderExpired      EventType = "order.expired"
	EventOrderCancelled    EventType = "order.cancelled"
	EventOrderTriggered    EventType = "order.triggered"
	EventShortOpened       EventType = "short.opened"
	EventShortClosed       EventType = "short.closed"
	EventMarginCall        EventType = "short.margin_call"
	EventMarginCallCleared EventType = "short.margin_call_cleared"
	EventForcedCover       EventType = "short.forced_cover"
	EventSplit             EventType = "stock.split"
)

// Event records one engine-side state transition within a cycle.
// Fields beyond the common header are populated per type: Fill for fills,
// Reason for failures, GrossPL/NetPL for short closes, Ratio for splits.
type Event struct {
	EventID string
	Seq     int64
	Cycle   int64
	Type    EventType

	OwnerID    string
	Symbol     string
	OrderID    string
	PositionID string

	Reason  FailReason
	Fill    *Fill
	GrossPL int64
	NetPL   int64
	Ratio   int64
	Forced  bool // set on short.closed when the cover was forced
}
