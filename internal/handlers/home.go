package handlers

import (
	"net/http"

	"github.com/alextreichler/pcbuilder/internal/store"
	"github.com/gorilla/sessions"
)

type HomeHandler struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
	Account      *AccountHandler
}

func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	components, err := h.Store.AllComponents()
	if err != nil {
		http.Error(w, "Error fetching components", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("home.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "cart-session")

	data := map[string]interface{}{
		"Components": components,
		"Flashes":    GetFlash(session),
		"SignedIn":   h.Account.CustomerID(r) != "",
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}
