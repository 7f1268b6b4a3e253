// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package server assembles the HTTP router: global middleware, the JSON API
// route table, health probes and the metrics endpoint.
package server

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/chakravya/internal/handler"
	"github.com/olegiv/chakravya/internal/handler/api"
	"github.com/olegiv/chakravya/internal/metrics"
	"github.com/olegiv/chakravya/internal/middleware"
)

// Rate limits for anonymous traffic.
const (
	apiRateLimit     = 20.0
	apiRateBurst     = 60
	contactRateLimit = 0.05 // one message every 20 seconds
	contactRateBurst = 3

	catalogMaxAge = 60
)

// Deps are the collaborators the router dispatches to.
type Deps struct {
	IsDevelopment  bool
	SessionSecret  string
	TrustedOrigins []string
	RequestTimeout time.Duration

	Users           middleware.UserLoader
	Sessions        *scs.SessionManager
	LoginProtection *middleware.LoginProtection
	API             *api.Handler
	Health          *handler.HealthHandler
	// Metrics may be nil, which disables instrumentation and /metrics.
	Metrics *metrics.Metrics
}

// NewRouter builds the application's http.Handler.
func NewRouter(d Deps) http.Handler {
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(d.Metrics.Middleware)
	r.Use(middleware.Timeout(d.RequestTimeout))

	securityConfig := middleware.DefaultSecurityHeadersConfig(d.IsDevelopment)
	securityConfig.ExcludePaths = []string{"/metrics"}
	r.Use(middleware.SecurityHeaders(securityConfig))

	r.Use(middleware.RequestPath)
	r.Use(d.Sessions.LoadAndSave)

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	// Probes and metrics
	r.Get("/health", d.Health.Health)
	r.Get("/health/live", d.Health.Liveness)
	r.Get("/health/ready", d.Health.Readiness)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}

	csrfConfig := middleware.DefaultCSRFConfig([]byte(d.SessionSecret), d.IsDevelopment, d.TrustedOrigins)
	apiLimiter := middleware.NewRateLimiter("api", apiRateLimit, apiRateBurst)
	contactLimiter := middleware.NewRateLimiter("contact", contactRateLimit, contactRateBurst)
	requireUser := middleware.RequireUser(d.Sessions, d.Users)

	h := d.API
	r.Route("/api", func(r chi.Router) {
		r.Use(apiLimiter.Middleware)
		r.Use(middleware.CSRF(csrfConfig))

		// Auth
		r.With(d.LoginProtection.Middleware).Post("/auth/login", h.Login)
		r.With(d.LoginProtection.Middleware).Post("/auth/register", h.Register)
		r.Post("/auth/logout", h.Logout)

		// Public catalog
		r.Get("/spiritual-tasks", h.ListSpiritualTasks)
		r.With(middleware.PublicCache(catalogMaxAge)).Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)

		r.With(contactLimiter.Middleware).Post("/contact", h.SubmitContact)

		// Session-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(requireUser)

			r.Get("/auth/user", h.CurrentUser)
			r.Patch("/auth/user", h.UpdateProfile)

			r.Get("/user-progress", h.ListProgress)
			r.Post("/user-progress", h.UpsertProgress)

			r.Get("/orders", h.ListOrders)
			r.Post("/orders", h.CreateOrder)
			r.Post("/orders/{orderId}/payment", h.ConfirmPayment)
			r.Post("/create-payment-intent", h.CreatePaymentIntent)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/contact-submissions", h.ListContactSubmissions)
				r.Patch("/contact-submissions/{id}", h.UpdateContactSubmission)
				r.Patch("/orders/{id}", h.UpdateOrderStatus)
				r.Patch("/products/{id}", h.SetProductActive)
			})
		})
	})

	return r
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteAPIError(w, http.StatusNotFound, "not_found", "Not found", nil)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
}
