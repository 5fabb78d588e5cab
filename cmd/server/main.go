package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alextreichler/pcbuilder/internal/config"
	"github.com/alextreichler/pcbuilder/internal/handlers"
	"github.com/alextreichler/pcbuilder/internal/orders"
	"github.com/alextreichler/pcbuilder/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

func main() {
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	// TextHandler for console readability; JSONHandler may suit production better.
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Init DB
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}

	if err := db.Migrate(cfg.MigrationsDir); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 4. Init Templates
	templates := handlers.NewTemplateCache()
	if err := templates.Load("templates"); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// 5. Setup Handlers
	orderManager := orders.NewManager(db, db)

	accountHandler := &handlers.AccountHandler{
		Store:        db,
		Templates:    templates,
		SessionStore: sessionStore,
		Orders:       orderManager,
	}
	homeHandler := &handlers.HomeHandler{
		Store:        db,
		Templates:    templates,
		SessionStore: sessionStore,
		Account:      accountHandler,
	}
	componentHandler := &handlers.ComponentHandler{
		Store:        db,
		Templates:    templates,
		SessionStore: sessionStore,
	}
	builderHandler := &handlers.BuilderHandler{
		Store:        db,
		Templates:    templates,
		SessionStore: sessionStore,
	}
	cartHandler := &handlers.CartHandler{
		Store:        db,
		Templates:    templates,
		SessionStore: sessionStore,
	}
	checkoutHandler := &handlers.CheckoutHandler{
		Store:        db,
		Templates:    templates,
		SessionStore: sessionStore,
		Orders:       orderManager,
		Account:      accountHandler,
	}
	adminHandler := &handlers.AdminHandler{
		Store:        db,
		SessionStore: sessionStore,
		Templates:    templates,
		Orders:       orderManager,
		UploadDir:    cfg.UploadDir,
	}

	mux := http.NewServeMux()

	// Static Files
	fileServer := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static", fileServer))

	// Rate limiter for account endpoints
	rateLimiter := handlers.NewRateLimiter(10 * time.Second)

	// Public Routes
	mux.HandleFunc("/", homeHandler.Index)
	mux.HandleFunc("/components", componentHandler.Index)
	mux.HandleFunc("/components/details", componentHandler.Details)
	mux.HandleFunc("/builder", builderHandler.Index)
	mux.HandleFunc("POST /builder/add", builderHandler.AddToCart)
	mux.HandleFunc("POST /builder/price", builderHandler.Price)

	// Cart
	mux.HandleFunc("/cart", cartHandler.Index)
	mux.HandleFunc("/cart/status", cartHandler.Status)
	mux.HandleFunc("POST /cart/add", cartHandler.AddComponent)
	mux.HandleFunc("POST /cart/remove", cartHandler.Remove)
	mux.HandleFunc("POST /cart/clear", cartHandler.Clear)

	// Checkout (requires a signed-in customer)
	mux.HandleFunc("/checkout", accountHandler.RequireCustomer(checkoutHandler.Checkout))
	mux.HandleFunc("POST /checkout", accountHandler.RequireCustomer(checkoutHandler.PlaceOrder))
	mux.HandleFunc("/order/confirmation", checkoutHandler.Confirmation)

	// Account
	mux.HandleFunc("/account/register", accountHandler.RegisterGet)
	mux.HandleFunc("POST /account/register", rateLimiter.Middleware(accountHandler.RegisterPost))
	mux.HandleFunc("/account/login", accountHandler.LoginGet)
	mux.HandleFunc("POST /account/login", rateLimiter.Middleware(accountHandler.LoginPost))
	mux.HandleFunc("/account/logout", accountHandler.Logout)
	mux.HandleFunc("/account/orders", accountHandler.RequireCustomer(accountHandler.MyOrders))
	mux.HandleFunc("POST /account/orders/cancel", accountHandler.RequireCustomer(accountHandler.CancelOrder))
	mux.HandleFunc("POST /account/orders/modify", accountHandler.RequireCustomer(accountHandler.ModifyOrder))

	// Admin
	mux.HandleFunc("/admin/login", adminHandler.LoginGet)
	mux.HandleFunc("POST /admin/login", adminHandler.LoginPost)
	mux.HandleFunc("/admin/logout", adminHandler.Logout)
	mux.HandleFunc("/admin", adminHandler.AuthMiddleware(adminHandler.Dashboard))
	mux.HandleFunc("/admin/orders", adminHandler.AuthMiddleware(adminHandler.ListOrders))
	mux.HandleFunc("POST /admin/orders/advance", adminHandler.AuthMiddleware(adminHandler.AdvanceOrder))
	mux.HandleFunc("POST /admin/orders/payment-failed", adminHandler.AuthMiddleware(adminHandler.FailOrderPayment))
	mux.HandleFunc("/admin/components", adminHandler.AuthMiddleware(adminHandler.ListComponents))
	mux.HandleFunc("/admin/components/new", adminHandler.AuthMiddleware(adminHandler.AddComponentForm))
	mux.HandleFunc("POST /admin/components", adminHandler.AuthMiddleware(adminHandler.CreateComponent))
	mux.HandleFunc("POST /admin/components/update", adminHandler.AuthMiddleware(adminHandler.UpdateComponent))
	mux.HandleFunc("POST /admin/components/delete", adminHandler.AuthMiddleware(adminHandler.DeleteComponent))

	// 6. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: Logger -> Security Headers -> CSRF -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			CSRF(mux),
		),
	)

	// 7. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
