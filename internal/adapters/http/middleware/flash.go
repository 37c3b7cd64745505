package middleware

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const flashCookieName = "club_flash"

// Flash kinds
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// SetFlash stores a notification for the next page the browser loads.
func SetFlash(w http.ResponseWriter, kind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    kind + ":" + base64.RawURLEncoding.EncodeToString([]byte(message)),
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   60,
	})
}

// PopFlash reads and clears the pending notification.
// POST: returns false when there is none or the cookie is malformed
func PopFlash(w http.ResponseWriter, r *http.Request) (Flash, bool) {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return Flash{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
	kind, encoded, found := strings.Cut(cookie.Value, ":")
	if !found || (kind != FlashSuccess && kind != FlashError) {
		return Flash{}, false
	}
	msg, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Flash{}, false
	}
	return Flash{Kind: kind, Message: string(msg)}, true
}
