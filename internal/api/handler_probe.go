package api

import (
	"context"
	"net/http"

	"camwatch/internal/outcome"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store currently answers.
type Pinger interface {
	Probe(ctx context.Context) bool
}

// PingerFunc adapts the stores' Outcome-returning pings.
type PingerFunc func(ctx context.Context) bool

func (f PingerFunc) Probe(ctx context.Context) bool { return f(ctx) }

// OutcomePinger wraps a ping that reports through an Outcome.
func OutcomePinger[T any](ping func(ctx context.Context) outcome.Outcome[T]) Pinger {
	return PingerFunc(func(ctx context.Context) bool {
		return ping(ctx).IsFound()
	})
}

type ProbeHandler struct {
	db     Pinger
	cache  Pinger
	signer *CookieSigner
}

func NewProbeHandler(db, cache Pinger, signer *CookieSigner) *ProbeHandler {
	return &ProbeHandler{db: db, cache: cache, signer: signer}
}

type backendStatus struct {
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
}

// Root reports the health of both backing stores; the dashboard shows this
// on its status page.
func (h *ProbeHandler) Root(c *gin.Context) {
	ctx := c.Request.Context()
	status := backendStatus{Postgres: "offline", Redis: "offline"}
	if h.db.Probe(ctx) {
		status.Postgres = "online"
	}
	if h.cache.Probe(ctx) {
		status.Redis = "online"
	}
	respondSuccess(c, http.StatusOK, status)
}

func (h *ProbeHandler) Hello(c *gin.Context) {
	respondSuccess(c, http.StatusOK, Message{Message: "Hello from server!"})
}

// Verify echoes the signed userId cookie so the frontend can confirm its
// session cookies are still intact.
func (h *ProbeHandler) Verify(c *gin.Context) {
	userID, ok := h.signer.Get(c, CookieUserID)
	if !ok {
		respondFail(c, http.StatusUnauthorized, "No valid session cookies!")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"userId": userID})
}
