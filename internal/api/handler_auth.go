package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"camwatch/internal/outcome"
	"camwatch/internal/session"

	"github.com/gin-gonic/gin"
)

// UserVerifier answers whether a credential pair belongs to a known user of
// the given role, yielding the user's id.
type UserVerifier interface {
	VerifyAdmin(ctx context.Context, userName, password string) outcome.Outcome[int64]
	VerifyEmployee(ctx context.Context, userName, password string) outcome.Outcome[int64]
}

// SessionResolver is the slice of the session service login needs.
type SessionResolver interface {
	Resolve(ctx context.Context, identity string) (string, error)
}

type AuthHandler struct {
	users    UserVerifier
	sessions SessionResolver
	signer   *CookieSigner
	logger   *slog.Logger
}

func NewAuthHandler(users UserVerifier, sessions SessionResolver, signer *CookieSigner, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		signer:   signer,
		logger:   logger.With("component", "auth"),
	}
}

func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, h.users.VerifyAdmin)
}

func (h *AuthHandler) EmployeeLogin(c *gin.Context) {
	h.login(c, h.users.VerifyEmployee)
}

func (h *AuthHandler) login(c *gin.Context, verify func(context.Context, string, string) outcome.Outcome[int64]) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "userName and password are required!")
		return
	}

	ctx := c.Request.Context()
	verified := verify(ctx, req.UserName, req.Password)
	if verified.IsUnavailable() {
		respondFail(c, http.StatusBadRequest, "Database is offline, please try again later!")
		return
	}
	if verified.IsNotFound() {
		respondFail(c, http.StatusBadRequest, "Wrong username and password!")
		return
	}
	userID := verified.MustValue()

	// Sessions are keyed by the login name; the numeric id only rides along
	// in the userId cookie.
	sessionID, err := h.sessions.Resolve(ctx, req.UserName)
	if err != nil {
		if errors.Is(err, session.ErrDatabasesOffline) {
			respondFail(c, http.StatusBadRequest, "Database is offline, please try again later!")
			return
		}
		h.logger.Error("Session resolution failed", "identity", req.UserName, "error", err)
		respondFail(c, http.StatusInternalServerError, "Could not resolve a session!")
		return
	}

	h.signer.Set(c, CookieSessionID, sessionID)
	h.signer.Set(c, CookieAuthID, req.UserName)
	h.signer.Set(c, CookieUserID, strconv.FormatInt(userID, 10))

	respondSuccess(c, http.StatusOK, LoginData{SessionID: sessionID})
}
