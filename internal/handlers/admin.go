package handlers

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alextreichler/pcbuilder/internal/models"
	"github.com/alextreichler/pcbuilder/internal/orders"
	"github.com/alextreichler/pcbuilder/internal/store"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/nfnt/resize"
	"golang.org/x/crypto/bcrypt"
)

type AdminHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
	Orders       *orders.Manager
	UploadDir    string
}

func (h *AdminHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("admin_login.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")

	username := r.FormValue("username")
	password := r.FormValue("password")

	admin, err := h.Store.AdminByUsername(username)
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Internal Server Error"})
		session.Save(r, w)
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	if admin == nil || bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid username or password"})
		session.Save(r, w)
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	session.Values["authenticated"] = true
	session.Values["admin_id"] = admin.ID
	session.Options.Path = "/"
	session.AddFlash(FlashMessage{Type: "success", Message: "Welcome, " + admin.Username + "!"})

	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")
	session.Values["authenticated"] = false
	session.Options.MaxAge = -1 // Expire immediately
	session.Save(r, w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// AuthMiddleware ensures an admin is logged in
func (h *AdminHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := h.SessionStore.Get(r, "admin-session")
		if auth, ok := session.Values["authenticated"].(bool); !ok || !auth {
			session.AddFlash(FlashMessage{Type: "error", Message: "You must be logged in to access this page."})
			session.Save(r, w)
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.GetDashboardStats()
	if err != nil {
		http.Error(w, "Error fetching stats", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("admin.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"Stats":   stats,
		"Flashes": GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	orderList, err := h.Store.AllOrders(limit, offset)
	if err != nil {
		http.Error(w, "Error fetching orders", http.StatusInternalServerError)
		return
	}

	totalOrders, err := h.Store.TotalOrdersCount()
	if err != nil {
		http.Error(w, "Error fetching total order count", http.StatusInternalServerError)
		return
	}
	totalPages := (totalOrders + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	tmpl := h.Templates.Get("admin_orders.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"Orders":      orderList,
		"CsrfField":   csrf.TemplateField(r),
		"Flashes":     GetFlash(session),
		"CurrentPage": page,
		"TotalPages":  totalPages,
		"Limit":       limit,
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// AdvanceOrder moves an order one step along fulfillment.
func (h *AdminHandler) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	h.transitionOrder(w, r, func(id int) (*models.Order, error) {
		return h.Orders.AdvanceOrder(id)
	})
}

// FailOrderPayment records a payment failure reported out of band.
func (h *AdminHandler) FailOrderPayment(w http.ResponseWriter, r *http.Request) {
	h.transitionOrder(w, r, func(id int) (*models.Order, error) {
		return h.Orders.MarkPaymentFailed(id)
	})
}

func (h *AdminHandler) transitionOrder(w http.ResponseWriter, r *http.Request, transition func(int) (*models.Order, error)) {
	session, _ := h.SessionStore.Get(r, "admin-session")
	defer session.Save(r, w)

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid order ID."})
		http.Redirect(w, r, "/admin/orders", http.StatusSeeOther)
		return
	}

	order, err := transition(id)
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: err.Error()})
		http.Redirect(w, r, "/admin/orders", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: fmt.Sprintf("Order %s is now %s.", order.OrderRef, order.Status)})
	http.Redirect(w, r, "/admin/orders", http.StatusSeeOther)
}

func (h *AdminHandler) ListComponents(w http.ResponseWriter, r *http.Request) {
	components, err := h.Store.AllComponents()
	if err != nil {
		http.Error(w, "Error fetching components", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("admin_components.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"Components": components,
		"Flashes":    GetFlash(session),
		"CsrfField":  csrf.TemplateField(r),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) AddComponentForm(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("admin_add_component.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) CreateComponent(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")
	defer session.Save(r, w)

	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB
		session.AddFlash(FlashMessage{Type: "error", Message: "File too large. Max 10MB."})
		http.Redirect(w, r, "/admin/components/new", http.StatusSeeOther)
		return
	}

	componentType := r.FormValue("type")
	name := r.FormValue("name")
	spec := r.FormValue("spec")
	priceStr := r.FormValue("price")

	errs := make(map[string]string)
	if componentType == "" {
		errs["type"] = "Category is required."
	}
	if name == "" {
		errs["name"] = "Name is required."
	}
	priceCents, err := parsePriceCents(priceStr)
	if err != nil {
		errs["price"] = err.Error()
	}

	file, header, fileErr := r.FormFile("image")
	if fileErr != nil {
		errs["image"] = "Image file is required."
	}

	if len(errs) > 0 {
		for _, msg := range errs {
			session.AddFlash(FlashMessage{Type: "error", Message: msg})
		}
		http.Redirect(w, r, "/admin/components/new", http.StatusSeeOther)
		return
	}
	defer file.Close()

	imageURL, err := h.saveResizedImage(file, header.Filename)
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: err.Error()})
		http.Redirect(w, r, "/admin/components/new", http.StatusSeeOther)
		return
	}

	component := &models.Component{
		Type:       componentType,
		Name:       name,
		PriceCents: priceCents,
		Spec:       spec,
		ImageURL:   imageURL,
	}
	if err := h.Store.CreateComponent(component); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Error saving component to database."})
		http.Redirect(w, r, "/admin/components/new", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Component added successfully!"})
	http.Redirect(w, r, "/admin/components", http.StatusSeeOther)
}

func (h *AdminHandler) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")
	defer session.Save(r, w)

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid ID."})
		http.Redirect(w, r, "/admin/components", http.StatusSeeOther)
		return
	}
	priceCents, err := parsePriceCents(r.FormValue("price"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: err.Error()})
		http.Redirect(w, r, "/admin/components", http.StatusSeeOther)
		return
	}

	component := &models.Component{
		ID:         id,
		Type:       r.FormValue("type"),
		Name:       r.FormValue("name"),
		PriceCents: priceCents,
		Spec:       r.FormValue("spec"),
	}
	if err := h.Store.UpdateComponent(component); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Error updating component."})
		http.Redirect(w, r, "/admin/components", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Component updated!"})
	http.Redirect(w, r, "/admin/components", http.StatusSeeOther)
}

func (h *AdminHandler) DeleteComponent(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")
	defer session.Save(r, w)

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid ID."})
		http.Redirect(w, r, "/admin/components", http.StatusSeeOther)
		return
	}

	if err := h.Store.DeleteComponent(id); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Error deleting component."})
		http.Redirect(w, r, "/admin/components", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Component deleted successfully!"})
	http.Redirect(w, r, "/admin/components", http.StatusSeeOther)
}

// saveResizedImage decodes, resizes to max width 800 and writes the
// upload as JPEG under the upload dir, returning its public URL.
func (h *AdminHandler) saveResizedImage(file io.Reader, filename string) (string, error) {
	var img image.Image
	var err error
	switch filepath.Ext(filename) {
	case ".png":
		img, err = png.Decode(file)
	case ".jpeg", ".jpg":
		img, err = jpeg.Decode(file)
	default:
		return "", fmt.Errorf("unsupported image format; only PNG, JPG, JPEG are allowed")
	}
	if err != nil {
		return "", fmt.Errorf("failed to decode image")
	}

	resized := resize.Resize(800, 0, img, resize.Lanczos3)

	name := fmt.Sprintf("%s.jpg", uuid.New().String())
	out, err := os.Create(filepath.Join(h.UploadDir, name))
	if err != nil {
		return "", fmt.Errorf("error saving image file")
	}
	defer out.Close()

	if err := jpeg.Encode(out, resized, &jpeg.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("error encoding image")
	}
	return "/static/uploads/" + name, nil
}

// parsePriceCents parses a dollar amount like "199.99" into cents.
func parsePriceCents(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("price is required")
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price format")
	}
	if price <= 0 {
		return 0, fmt.Errorf("price must be positive")
	}
	return int64(price*100 + 0.5), nil
}
