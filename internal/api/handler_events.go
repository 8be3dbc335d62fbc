package api

import (
	"net/http"

	"camwatch/internal/events"

	"github.com/gin-gonic/gin"
)

// EventSource yields the recently observed camera-job lifecycle events.
type EventSource interface {
	Recent() []events.Event
}

type EventsHandler struct {
	source EventSource
}

func NewEventsHandler(source EventSource) *EventsHandler {
	return &EventsHandler{source: source}
}

// Recent feeds the dashboard's activity panel with the latest job starts,
// stops, and vanishes seen on the bus.
func (h *EventsHandler) Recent(c *gin.Context) {
	evs := h.source.Recent()
	if evs == nil {
		evs = []events.Event{}
	}
	respondSuccess(c, http.StatusOK, evs)
}
