package cart

import (
	"encoding/gob"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

// sessionKey is the key the cart lines live under inside the session.
const sessionKey = "cart_lines"

// Session values are gob encoded by gorilla/sessions.
func init() {
	gob.Register([]Line{})
}

// Load deserializes the session's cart. A missing or corrupt value
// yields a fresh empty cart; losing a cart is degraded but safe, so it
// never becomes an error.
func Load(session *sessions.Session) *Cart {
	raw, ok := session.Values[sessionKey]
	if !ok {
		return New()
	}
	lines, ok := raw.([]Line)
	if !ok {
		slog.Warn("Discarding unreadable cart session value")
		delete(session.Values, sessionKey)
		return New()
	}
	return &Cart{Lines: lines}
}

// Save serializes the cart into the session and writes the session
// cookie. The cart does not auto-persist; call Save after every
// mutation that should survive the request. Persistence failures are
// logged and swallowed.
func Save(session *sessions.Session, c *Cart, w http.ResponseWriter, r *http.Request) {
	session.Values[sessionKey] = c.Lines
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save cart session", "error", err)
	}
}
