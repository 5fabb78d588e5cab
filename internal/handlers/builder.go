package handlers

import (
	"net/http"
	"strconv"

	"github.com/alextreichler/pcbuilder/internal/builder"
	"github.com/alextreichler/pcbuilder/internal/cart"
	"github.com/alextreichler/pcbuilder/internal/models"
	"github.com/alextreichler/pcbuilder/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

type BuilderHandler struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

// Index shows the builder page: one dropdown per category.
func (h *BuilderHandler) Index(w http.ResponseWriter, r *http.Request) {
	available := make(map[string][]models.Component, len(builder.Categories))
	for _, category := range builder.Categories {
		components, err := h.Store.ComponentsByCategory(category)
		if err != nil {
			http.Error(w, "Error fetching components", http.StatusInternalServerError)
			return
		}
		available[category] = components
	}

	tmpl := h.Templates.Get("builder.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "cart-session")
	data := map[string]interface{}{
		"Categories": builder.Categories,
		"Available":  available,
		"CsrfField":  csrf.TemplateField(r),
		"Flashes":    GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// AddToCart resolves the submitted build and puts one of each valid
// selection into the cart. Mismatched or empty slots are skipped; a
// build with nothing valid in it is a user error, not a server fault.
func (h *BuilderHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "cart-session")

	if err := r.ParseForm(); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid form data."})
		session.Save(r, w)
		http.Redirect(w, r, "/builder", http.StatusSeeOther)
		return
	}

	selections := make(map[string]int, len(builder.Categories))
	for _, category := range builder.Categories {
		id, err := strconv.Atoi(r.FormValue("component_" + category))
		if err != nil {
			continue
		}
		selections[category] = id
	}

	resolved := builder.ResolveSelections(selections, h.Store)
	if len(resolved) == 0 {
		session.AddFlash(FlashMessage{Type: "error", Message: "Please select at least one component for your build."})
		session.Save(r, w)
		http.Redirect(w, r, "/builder", http.StatusSeeOther)
		return
	}

	c := cart.Load(session)
	for _, component := range resolved {
		c.AddItem(component, 1)
	}
	session.AddFlash(FlashMessage{Type: "success", Message: "Build added to cart successfully!"})
	cart.Save(session, c, w, r)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Price answers the running total of the submitted build as JSON so
// the page can refresh the total while the user picks parts.
func (h *BuilderHandler) Price(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	selections := make(map[string]int, len(builder.Categories))
	for _, category := range builder.Categories {
		if id, err := strconv.Atoi(r.FormValue("component_" + category)); err == nil {
			selections[category] = id
		}
	}
	totalCents := builder.TotalCents(selections, h.Store)
	writeJSON(w, map[string]interface{}{
		"success":    true,
		"totalCents": totalCents,
	})
}
