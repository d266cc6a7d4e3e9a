package api

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/artemis-health/artemis/internal/services"
	"github.com/gofiber/fiber/v2"
)

// FlashPayload survives exactly one redirect.
type FlashPayload struct {
	AuthError      string `json:"auth_error,omitempty"`
	LoginEmail     string `json:"login_email,omitempty"`
	SignupEmail    string `json:"signup_email,omitempty"`
	SignupFullName string `json:"signup_full_name,omitempty"`
}

func (payload FlashPayload) normalized() FlashPayload {
	payload.AuthError = strings.TrimSpace(payload.AuthError)
	payload.LoginEmail = services.NormalizeAuthEmail(payload.LoginEmail)
	payload.SignupEmail = services.NormalizeAuthEmail(payload.SignupEmail)
	payload.SignupFullName, _ = services.NormalizeFullName(payload.SignupFullName)
	return payload
}

func (payload FlashPayload) empty() bool {
	return payload == FlashPayload{}
}

const flashCookieTTL = 5 * time.Minute

func (handler *Handler) setFlashCookie(c *fiber.Ctx, payload FlashPayload) {
	payload = payload.normalized()
	if payload.empty() {
		handler.clearFlashCookie(c)
		return
	}

	serialized, err := json.Marshal(payload)
	if err != nil {
		handler.requestLogger(c).WithError(err).Warn("encode flash payload failed")
		return
	}

	cookie := handler.baseCookie(flashCookieName, base64.RawURLEncoding.EncodeToString(serialized), true)
	cookie.Expires = handler.now().Add(flashCookieTTL)
	c.Cookie(cookie)
}

// popFlashCookie reads the flash once and clears it. Tampered values decode
// to an empty payload.
func (handler *Handler) popFlashCookie(c *fiber.Ctx) FlashPayload {
	raw := strings.TrimSpace(c.Cookies(flashCookieName))
	if raw == "" {
		return FlashPayload{}
	}
	handler.clearFlashCookie(c)

	var payload FlashPayload
	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil || json.Unmarshal(decoded, &payload) != nil {
		return FlashPayload{}
	}
	return payload.normalized()
}

func (handler *Handler) clearFlashCookie(c *fiber.Ctx) {
	cookie := handler.baseCookie(flashCookieName, "", true)
	cookie.Expires = handler.now().Add(-time.Hour)
	c.Cookie(cookie)
}
