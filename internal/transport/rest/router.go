package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/customer-onboarding/internal/account"
	"github.com/frahmantamala/customer-onboarding/internal/auth"
	"github.com/frahmantamala/customer-onboarding/internal/customer"
	"github.com/frahmantamala/customer-onboarding/internal/refdata"
	"github.com/frahmantamala/customer-onboarding/internal/transport/middleware"
	"github.com/frahmantamala/customer-onboarding/internal/transport/swagger"
	"github.com/frahmantamala/customer-onboarding/internal/user"
)

// RegisterAllRoutes mounts the API. Every protected route declares the
// permission it needs; the guard middleware walks the decision chain
// (session, expiry, permission) before the handler runs.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, customerHandler *customer.Handler, accountHandler *account.Handler, refdataHandler *refdata.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match the OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
				sr.Get("/access-denied", authHandler.AccessDenied)
			})
		}

		// Public reference data (no auth required)
		if refdataHandler != nil {
			r.Get("/countries", refdataHandler.GetCountries)
			r.Get("/countries/{code}", refdataHandler.GetCountry)
		}

		if authHandler == nil {
			return
		}

		// Current user: any authenticated session, no permission needed
		if userHandler != nil {
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.Guard(""))
				pr.Get("/users/me", userHandler.GetCurrentUser)
			})
		}

		// Customer routes
		if customerHandler != nil {
			r.Route("/customers", func(cr chi.Router) {
				cr.Group(func(g chi.Router) {
					g.Use(authHandler.Guard(auth.PermCustomerRead))
					g.Get("/", customerHandler.GetAllCustomers)
					g.Get("/{id}", customerHandler.GetCustomer)
				})

				cr.Group(func(g chi.Router) {
					g.Use(authHandler.Guard(auth.PermCustomerWrite))
					g.Post("/", customerHandler.CreateCustomer)
					g.Put("/{id}", customerHandler.UpdateCustomer)
				})

				cr.Group(func(g chi.Router) {
					g.Use(authHandler.Guard(auth.PermCustomerReview))
					g.Patch("/{id}/approve", customerHandler.ApproveCustomer)
					g.Patch("/{id}/reject", customerHandler.RejectCustomer)
				})

				// Accounts nested under a customer
				if accountHandler != nil {
					cr.Group(func(g chi.Router) {
						g.Use(authHandler.Guard(auth.PermAccountRead))
						g.Get("/{id}/accounts", accountHandler.GetCustomerAccounts)
					})
					cr.Group(func(g chi.Router) {
						g.Use(authHandler.Guard(auth.PermAccountWrite))
						g.Post("/{id}/accounts", accountHandler.CreateAccount)
					})
				}
			})
		}

		if accountHandler != nil {
			r.Group(func(g chi.Router) {
				g.Use(authHandler.Guard(auth.PermAccountRead))
				g.Get("/accounts", accountHandler.ListAccounts)
			})
			r.Group(func(g chi.Router) {
				g.Use(authHandler.Guard(auth.PermAccountWrite))
				g.Patch("/accounts/{id}/close", accountHandler.CloseAccount)
			})
		}

		// Identity administration
		if userHandler != nil {
			r.Route("/admin", func(ar chi.Router) {
				ar.Use(authHandler.Guard(auth.PermUserManage))

				ar.Get("/users", userHandler.ListUsers)
				ar.Post("/users/{id}/roles", userHandler.AssignRole)
				ar.Delete("/users/{id}/roles/{roleId}", userHandler.RevokeRole)

				ar.Get("/roles", userHandler.ListRoles)
				ar.Post("/roles/{id}/permissions", userHandler.GrantPermission)
				ar.Delete("/roles/{id}/permissions/{permissionId}", userHandler.RevokePermission)

				ar.Get("/permissions", userHandler.ListPermissions)
			})
		}
	})
}
