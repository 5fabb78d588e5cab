package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alextreichler/pcbuilder/internal/cart"
	"github.com/alextreichler/pcbuilder/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

type CartHandler struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

// cartStatus is the JSON shape the cart badge polls for.
type cartStatus struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	ItemCount int    `json:"itemCount"`
	Total     string `json:"totalCartPrice"`
}

func (h *CartHandler) session(r *http.Request) *sessions.Session {
	session, _ := h.SessionStore.Get(r, "cart-session")
	return session
}

// Index shows the cart page.
func (h *CartHandler) Index(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	c := cart.Load(session)

	tmpl := h.Templates.Get("cart.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	data := map[string]interface{}{
		"Cart":      c,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// AddComponent adds one component to the cart and answers JSON so the
// catalog pages can update the badge without a reload.
func (h *CartHandler) AddComponent(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	c := cart.Load(session)

	componentID, err := strconv.Atoi(r.FormValue("component_id"))
	if err != nil || componentID <= 0 {
		writeJSON(w, cartStatus{Message: "Component ID is missing.", ItemCount: c.ItemCount(), Total: c.Total().StringFixed(2)})
		return
	}
	quantity := 1
	if q, err := strconv.Atoi(r.FormValue("quantity")); err == nil && q > 0 {
		quantity = q
	}

	component, err := h.Store.ComponentByID(componentID)
	if err != nil {
		writeJSON(w, cartStatus{Message: "Error looking up component.", ItemCount: c.ItemCount(), Total: c.Total().StringFixed(2)})
		return
	}
	if component == nil {
		writeJSON(w, cartStatus{Message: "Component not found.", ItemCount: c.ItemCount(), Total: c.Total().StringFixed(2)})
		return
	}

	c.AddItem(component, quantity)
	cart.Save(session, c, w, r)
	writeJSON(w, cartStatus{
		Success:   true,
		Message:   fmt.Sprintf("%s (x%d) added to cart.", component.Name, quantity),
		ItemCount: c.ItemCount(),
		Total:     c.Total().StringFixed(2),
	})
}

// Remove drops a whole line from the cart. Removing a line that is
// already gone still reads as success.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	c := cart.Load(session)

	componentID, err := strconv.Atoi(r.FormValue("component_id"))
	if err != nil || componentID <= 0 {
		session.AddFlash(FlashMessage{Type: "error", Message: "Cart item ID is missing."})
		session.Save(r, w)
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	c.RemoveItem(componentID)
	session.AddFlash(FlashMessage{Type: "success", Message: "Item removed from cart."})
	cart.Save(session, c, w, r)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Clear empties the cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	c := cart.Load(session)
	c.Clear()
	session.AddFlash(FlashMessage{Type: "success", Message: "Cart cleared."})
	cart.Save(session, c, w, r)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Status answers the item count and the formatted total for the badge.
func (h *CartHandler) Status(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	c := cart.Load(session)
	writeJSON(w, cartStatus{Success: true, ItemCount: c.ItemCount(), Total: c.Total().StringFixed(2)})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
