package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"camwatch/internal/events"

	"github.com/gin-gonic/gin"
)

type fakeEventSource struct {
	evs []events.Event
}

func (f *fakeEventSource) Recent() []events.Event { return f.evs }

func newEventsRouter(source EventSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/jobs/events", NewEventsHandler(source).Recent)
	return r
}

func getEvents(t *testing.T, r *gin.Engine) (int, string, []events.Event) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/jobs/events", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out struct {
		Status string         `json:"status"`
		Data   []events.Event `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec.Code, out.Status, out.Data
}

func TestRecentEventsEndpoint(t *testing.T) {
	source := &fakeEventSource{evs: []events.Event{
		{Type: events.EventJobStarted, CameraID: 1, CameraName: "lobby"},
		{Type: events.EventJobVanished, CameraID: 1, CameraName: "lobby"},
	}}
	code, status, data := getEvents(t, newEventsRouter(source))
	if code != http.StatusOK || status != "success" {
		t.Fatalf("code=%d status=%s", code, status)
	}
	if len(data) != 2 || data[1].Type != events.EventJobVanished {
		t.Fatalf("unexpected events: %+v", data)
	}
}

func TestRecentEventsEndpointEmpty(t *testing.T) {
	code, status, data := getEvents(t, newEventsRouter(&fakeEventSource{}))
	if code != http.StatusOK || status != "success" {
		t.Fatalf("code=%d status=%s", code, status)
	}
	if data == nil || len(data) != 0 {
		t.Fatalf("expected empty array, got %+v", data)
	}
}
