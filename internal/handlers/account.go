package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alextreichler/pcbuilder/internal/cart"
	"github.com/alextreichler/pcbuilder/internal/models"
	"github.com/alextreichler/pcbuilder/internal/orders"
	"github.com/alextreichler/pcbuilder/internal/store"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

type AccountHandler struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
	Orders       *orders.Manager
}

type registerForm struct {
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=8"`
	FirstName string `validate:"max=100"`
	LastName  string `validate:"max=100"`
	Address   string `validate:"max=200"`
}

// CustomerID returns the signed-in customer's id, or "" when the
// request is anonymous.
func (h *AccountHandler) CustomerID(r *http.Request) string {
	session, _ := h.SessionStore.Get(r, "customer-session")
	id, _ := session.Values["customer_id"].(string)
	return id
}

// RequireCustomer redirects anonymous requests to the login page.
func (h *AccountHandler) RequireCustomer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.CustomerID(r) == "" {
			session, _ := h.SessionStore.Get(r, "customer-session")
			session.AddFlash(FlashMessage{Type: "error", Message: "Please sign in to continue."})
			session.Save(r, w)
			http.Redirect(w, r, "/account/login?return="+r.URL.Path, http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func (h *AccountHandler) RegisterGet(w http.ResponseWriter, r *http.Request) {
	h.renderAccountPage(w, r, "register.html")
}

func (h *AccountHandler) RegisterPost(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "customer-session")

	form := registerForm{
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Address:   r.FormValue("address"),
	}
	if err := validate.Struct(form); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fe := range fieldErrors {
				session.AddFlash(FlashMessage{Type: "error", Message: registerFieldMessage(fe)})
			}
		} else {
			session.AddFlash(FlashMessage{Type: "error", Message: "Invalid registration details."})
		}
		session.Save(r, w)
		http.Redirect(w, r, "/account/register", http.StatusSeeOther)
		return
	}

	existing, err := h.Store.CustomerByEmail(form.Email)
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Internal Server Error"})
		session.Save(r, w)
		http.Redirect(w, r, "/account/register", http.StatusSeeOther)
		return
	}
	if existing != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "An account with this email already exists."})
		session.Save(r, w)
		http.Redirect(w, r, "/account/register", http.StatusSeeOther)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Internal Server Error"})
		session.Save(r, w)
		http.Redirect(w, r, "/account/register", http.StatusSeeOther)
		return
	}

	customer := &models.Customer{
		ID:           uuid.New().String(),
		Email:        form.Email,
		PasswordHash: string(hash),
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Address:      form.Address,
	}
	if err := h.Store.CreateCustomer(customer); err != nil {
		slog.Error("Failed to create customer", "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "Could not create your account. Please try again."})
		session.Save(r, w)
		http.Redirect(w, r, "/account/register", http.StatusSeeOther)
		return
	}

	session.Values["customer_id"] = customer.ID
	session.AddFlash(FlashMessage{Type: "success", Message: "Welcome, " + customer.Email + "!"})
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AccountHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	h.renderAccountPage(w, r, "login.html")
}

func (h *AccountHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "customer-session")

	email := r.FormValue("email")
	password := r.FormValue("password")

	customer, err := h.Store.CustomerByEmail(email)
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Internal Server Error"})
		session.Save(r, w)
		http.Redirect(w, r, "/account/login", http.StatusSeeOther)
		return
	}
	// Same failure for a missing account and a bad password.
	if customer == nil || bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)) != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid email or password"})
		session.Save(r, w)
		http.Redirect(w, r, "/account/login", http.StatusSeeOther)
		return
	}

	session.Values["customer_id"] = customer.ID
	session.Options.Path = "/"
	session.AddFlash(FlashMessage{Type: "success", Message: "Welcome back!"})
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	returnTo := r.URL.Query().Get("return")
	if returnTo == "" || returnTo[0] != '/' {
		returnTo = "/"
	}
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "customer-session")
	delete(session.Values, "customer_id")
	session.Options.MaxAge = -1 // Expire immediately
	session.Save(r, w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// MyOrders lists the signed-in customer's orders, newest first.
func (h *AccountHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	customerID := h.CustomerID(r)
	orderList, err := h.Store.OrdersByCustomer(customerID)
	if err != nil {
		http.Error(w, "Error fetching your orders", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("my_orders.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "customer-session")
	data := map[string]interface{}{
		"Orders":    orderList,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// CancelOrder cancels one of the customer's own orders.
func (h *AccountHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "customer-session")
	defer session.Save(r, w)

	orderID, err := strconv.Atoi(r.FormValue("order_id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid order ID."})
		http.Redirect(w, r, "/account/orders", http.StatusSeeOther)
		return
	}

	order, err := h.Orders.CancelOrder(orderID, h.CustomerID(r))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: transitionMessage(err, "cancel")})
		http.Redirect(w, r, "/account/orders", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Order " + order.OrderRef + " has been cancelled."})
	http.Redirect(w, r, "/account/orders", http.StatusSeeOther)
}

// ModifyOrder pulls a pending order's items back into the cart and
// cancels the original, so the customer can adjust and re-place it.
func (h *AccountHandler) ModifyOrder(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "customer-session")

	orderID, err := strconv.Atoi(r.FormValue("order_id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid order ID."})
		session.Save(r, w)
		http.Redirect(w, r, "/account/orders", http.StatusSeeOther)
		return
	}

	cartSession, _ := h.SessionStore.Get(r, "cart-session")
	c := cart.Load(cartSession)

	itemsAdded, err := h.Orders.ModifyOrder(orderID, h.CustomerID(r), c)
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: transitionMessage(err, "modify")})
		session.Save(r, w)
		http.Redirect(w, r, "/account/orders", http.StatusSeeOther)
		return
	}

	if itemsAdded {
		cart.Save(cartSession, c, w, r)
		session.AddFlash(FlashMessage{Type: "info", Message: "Your order's items are back in your cart for modification. The original order has been cancelled."})
		session.Save(r, w)
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "info", Message: "The original order has been cancelled. No items were available to add back to the cart."})
	session.Save(r, w)
	http.Redirect(w, r, "/account/orders", http.StatusSeeOther)
}

// transitionMessage turns a lifecycle error into a message safe to
// show the customer. Ownership mismatches read exactly like missing
// orders.
func transitionMessage(err error, op string) string {
	var stateErr *orders.StateError
	switch {
	case errors.Is(err, orders.ErrNotFound):
		return "Order not found or you do not have permission to " + op + " it."
	case errors.As(err, &stateErr):
		return "This order cannot be " + stateErr.Op + " as it is already " + string(stateErr.Status) + "."
	default:
		slog.Error("Order transition failed", "op", op, "error", err)
		return "Something went wrong. Please try again."
	}
}

func (h *AccountHandler) renderAccountPage(w http.ResponseWriter, r *http.Request, name string) {
	tmpl := h.Templates.Get(name)
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "customer-session")
	data := map[string]interface{}{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func registerFieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Email":
		return "Please enter a valid email address."
	case "Password":
		return "Password must be at least 8 characters."
	default:
		return fe.Field() + " is invalid."
	}
}
