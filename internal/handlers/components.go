package handlers

import (
	"net/http"
	"strconv"

	"github.com/alextreichler/pcbuilder/internal/models"
	"github.com/alextreichler/pcbuilder/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

type ComponentHandler struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

// Index lists the catalog, optionally filtered by ?category=CPU&category=GPU.
func (h *ComponentHandler) Index(w http.ResponseWriter, r *http.Request) {
	categories := r.URL.Query()["category"]

	var components []models.Component
	var err error
	if len(categories) > 0 {
		for _, category := range categories {
			list, cerr := h.Store.ComponentsByCategory(category)
			if cerr != nil {
				err = cerr
				break
			}
			components = append(components, list...)
		}
	} else {
		components, err = h.Store.AllComponents()
	}
	if err != nil {
		http.Error(w, "Error fetching components", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("components.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "cart-session")
	data := map[string]interface{}{
		"Components":         components,
		"SelectedCategories": categories,
		"Flashes":            GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// Details shows one component's spec sheet.
func (h *ComponentHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		http.Error(w, "Invalid component ID", http.StatusBadRequest)
		return
	}

	component, err := h.Store.ComponentByID(id)
	if err != nil {
		http.Error(w, "Error fetching component", http.StatusInternalServerError)
		return
	}
	if component == nil {
		http.Error(w, "Component not found", http.StatusNotFound)
		return
	}

	tmpl := h.Templates.Get("component_details.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "cart-session")
	data := map[string]interface{}{
		"Component": component,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}
