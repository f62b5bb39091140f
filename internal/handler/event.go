package handler

import (
	"net/http"
	"strconv"

	"github.com/efreitasn/minimarket/internal/domain"
	"github.com/efreitasn/minimarket/internal/store"
)

// EventHandler serves the engine's event feed. Clients poll with the
// after_seq cursor from the previous response.
type EventHandler struct {
	events *store.EventStore
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(events *store.EventStore) *EventHandler {
	return &EventHandler{events: events}
}

// eventResponse is one engine event in the feed. Only fields relevant to
// the event type are set; the rest are omitted.
type eventResponse struct {
	EventID    string        `json:"event_id"`
	Seq        int64         `json:"seq"`
	Cycle      int64         `json:"cycle"`
	Type       string        `json:"type"`
	OwnerID    string        `json:"owner_id,omitempty"`
	Symbol     string        `json:"symbol,omitempty"`
	OrderID    string        `json:"order_id,omitempty"`
	PositionID string        `json:"position_id,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	Fill       *fillResponse `json:"fill,omitempty"`
	GrossPL    *float64      `json:"gross_pl,omitempty"`
	NetPL      *float64      `json:"net_pl,omitempty"`
	Ratio      int64         `json:"ratio,omitempty"`
	Forced     bool          `json:"forced,omitempty"`
}

// List handles GET /events?after_seq=0&limit=50.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	afterSeq := int64(0)
	if s := r.URL.Query().Get("after_seq"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v < 0 {
			WriteError(w, http.StatusBadRequest, "validation_error", "after_seq must be a non-negative integer")
			return
		}
		afterSeq = v
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v < 1 || v > 500 {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be between 1 and 500")
			return
		}
		limit = v
	}

	events := h.events.Since(afterSeq, limit)
	out := make([]eventResponse, len(events))
	var lastSeq int64 = afterSeq
	for i, e := range events {
		out[i] = buildEventResponse(e)
		lastSeq = e.Seq
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"events":   out,
		"last_seq": lastSeq,
	})
}

// buildEventResponse converts a domain event to the response shape.
func buildEventResponse(e *domain.Event) eventResponse {
	resp := eventResponse{
		EventID:    e.EventID,
		Seq:        e.Seq,
		Cycle:      e.Cycle,
		Type:       string(e.Type),
		OwnerID:    e.OwnerID,
		Symbol:     e.Symbol,
		OrderID:    e.OrderID,
		PositionID: e.PositionID,
		Reason:     string(e.Reason),
		Ratio:      e.Ratio,
		Forced:     e.Forced,
	}
	if e.Fill != nil {
		resp.Fill = buildFillResponse(e.Fill)
	}
	if e.Type == domain.EventShortClosed {
		g := domain.CentsToDollars(e.GrossPL)
		n := domain.CentsToDollars(e.NetPL)
		resp.GrossPL = &g
		resp.NetPL = &n
	}
	return resp
}
