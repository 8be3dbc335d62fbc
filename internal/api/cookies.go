package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	CookieSessionID = "sessionId"
	CookieAuthID    = "authId"
	CookieUserID    = "userId"
)

var errBadSignature = errors.New("cookie signature mismatch")

// CookieSigner writes and reads tamper-evident cookies. The value is stored
// as base64(value).base64(HMAC-SHA256(value)); anything that fails
// verification is treated as absent.
type CookieSigner struct {
	secret []byte
	maxAge time.Duration
}

func NewCookieSigner(secret string, maxAge time.Duration) *CookieSigner {
	return &CookieSigner{secret: []byte(secret), maxAge: maxAge}
}

func (s *CookieSigner) sign(value string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString([]byte(value)) +
		"." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (s *CookieSigner) verify(encoded string) (string, error) {
	rawValue, rawMAC, ok := strings.Cut(encoded, ".")
	if !ok {
		return "", errBadSignature
	}
	value, err := base64.RawURLEncoding.DecodeString(rawValue)
	if err != nil {
		return "", errBadSignature
	}
	sum, err := base64.RawURLEncoding.DecodeString(rawMAC)
	if err != nil {
		return "", errBadSignature
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(value)
	if !hmac.Equal(sum, mac.Sum(nil)) {
		return "", errBadSignature
	}
	return string(value), nil
}

// Set writes a signed cookie the way the dashboard expects: httpOnly,
// secure, SameSite=None so the separately-hosted frontend can send it.
func (s *CookieSigner) Set(c *gin.Context, name, value string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    s.sign(value),
		Path:     "/",
		MaxAge:   int(s.maxAge.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

// Get returns the verified cookie value; ok is false when the cookie is
// missing or its signature does not check out.
func (s *CookieSigner) Get(c *gin.Context, name string) (string, bool) {
	raw, err := c.Cookie(name)
	if err != nil {
		return "", false
	}
	value, err := s.verify(raw)
	if err != nil {
		return "", false
	}
	return value, true
}
