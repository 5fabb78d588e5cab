package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alextreichler/pcbuilder/internal/cart"
	"github.com/alextreichler/pcbuilder/internal/orders"
	"github.com/alextreichler/pcbuilder/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

type CheckoutHandler struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
	Orders       *orders.Manager
	Account      *AccountHandler
}

type checkoutForm struct {
	ShippingAddress string `validate:"required,max=200"`
}

// Checkout shows the checkout page with the shipping address
// pre-filled from the customer's profile.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	cartSession, _ := h.SessionStore.Get(r, "cart-session")
	c := cart.Load(cartSession)
	if c.IsEmpty() {
		cartSession.AddFlash(FlashMessage{Type: "error", Message: "Your cart is empty. Please add items before checking out."})
		cartSession.Save(r, w)
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	customer, err := h.Store.CustomerByID(h.Account.CustomerID(r))
	if err != nil || customer == nil {
		http.Error(w, "Unable to identify user", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("checkout.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	data := map[string]interface{}{
		"Cart":            c,
		"Customer":        customer,
		"ShippingAddress": customer.Address,
		"CsrfField":       csrf.TemplateField(r),
		"Flashes":         GetFlash(cartSession),
	}
	cartSession.Save(r, w)
	tmpl.Execute(w, data)
}

// PlaceOrder turns the cart into an order. Placement is all or
// nothing: a cart line whose component has left the catalog fails the
// whole checkout, and the cart is only cleared on success.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	cartSession, _ := h.SessionStore.Get(r, "cart-session")
	c := cart.Load(cartSession)

	form := checkoutForm{ShippingAddress: r.FormValue("shipping_address")}
	if err := validate.Struct(form); err != nil {
		cartSession.AddFlash(FlashMessage{Type: "error", Message: "Shipping address is required (max 200 characters)."})
		cartSession.Save(r, w)
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}

	customerID := h.Account.CustomerID(r)
	customer, err := h.Store.CustomerByID(customerID)
	if err != nil || customer == nil {
		cartSession.AddFlash(FlashMessage{Type: "error", Message: "User session expired. Please log in again."})
		cartSession.Save(r, w)
		http.Redirect(w, r, "/account/login", http.StatusSeeOther)
		return
	}

	order, err := h.Orders.PlaceOrder(c, customerID, form.ShippingAddress)
	if err != nil {
		cartSession.AddFlash(FlashMessage{Type: "error", Message: placementMessage(err)})
		cartSession.Save(r, w)
		http.Redirect(w, r, "/checkout", http.StatusSeeOther)
		return
	}

	// The manager cleared the cart; persist the empty state.
	cart.Save(cartSession, c, w, r)

	// MOCK EMAIL SENDING
	slog.Info("==========================================")
	slog.Info("📧 EMAIL SENT TO: " + customer.Email)
	slog.Info("Subject: Order Confirmation - PC Builder")
	slog.Info("Order Reference: " + order.OrderRef)
	slog.Info("Order Total: $" + order.TotalAmount.StringFixed(2))
	slog.Info("==========================================")

	http.Redirect(w, r, "/order/confirmation?ref="+order.OrderRef, http.StatusSeeOther)
}

// Confirmation shows the post-checkout confirmation page.
func (h *CheckoutHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("order_confirmation.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	tmpl.Execute(w, map[string]interface{}{
		"OrderRef": r.URL.Query().Get("ref"),
	})
}

func placementMessage(err error) string {
	switch {
	case errors.Is(err, orders.ErrEmptyCart):
		return "Cannot process an order for an empty cart."
	case errors.Is(err, orders.ErrMissingAddress):
		return "Shipping address is required."
	case errors.Is(err, orders.ErrComponentUnavailable):
		return "Some items in your cart are no longer available. Please review your cart and try again."
	default:
		slog.Error("Order placement failed", "error", err)
		return "An error occurred while processing your order. Please try again."
	}
}
