// Finpick - Personal Finance Product Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finpick

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/finpick/internal/auth"
	"github.com/tomtom215/finpick/internal/authz"
	"github.com/tomtom215/finpick/internal/middleware"
)

// Router sets up HTTP routes using Chi router.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	authz         *authz.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil chiMiddleware uses the defaults.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware, authzMiddleware *authz.Middleware, chiMiddleware *ChiMiddleware) *Router {
	if chiMiddleware == nil {
		chiMiddleware = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		auth:          authMiddleware,
		authz:         authzMiddleware,
		chiMiddleware: chiMiddleware,
	}
}

// SetupChi configures all HTTP routes.
//
// Catalog, bank, exchange-rate and community reads are public, as are
// signup and login. Everything else requires a bearer token and passes
// the Casbin policy check.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(AccessLog())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeBadRequest, msgMethodNotAllowed)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
		r.Get("/", h.Health)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(chimiddleware.Compress(5, "application/json"))

		// Public
		r.Group(func(r chi.Router) {
			r.Get("/banks", h.Banks)
			r.Get("/products/{kind}", h.Products)
			r.Get("/products/{kind}/top-rate", h.TopRate)
			r.Get("/products/{kind}/{code}", h.Product)

			r.Get("/exchange/rates", h.ExchangeRates)
			r.Get("/exchange/rates/history", h.ExchangeHistory)
			r.Get("/exchange/rates/chart", h.ExchangeChart)

			r.Get("/community/articles", h.Articles)
			r.Get("/community/articles/{id}", h.Article)

			r.With(router.chiMiddleware.RateLimitAuth()).Post("/accounts/signup", h.Signup)
			r.With(router.chiMiddleware.RateLimitAuth()).Post("/accounts/login", h.Login)
		})

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(router.auth.Authenticate)
			r.Use(router.authz.Authorize)

			r.Post("/accounts/logout", h.Logout)
			r.Get("/accounts/profile", h.Profile)
			r.Put("/accounts/profile", h.UpdateProfile)

			r.Post("/banks/sync", h.SyncBanks)
			r.Post("/products/{kind}/sync", h.SyncProducts)

			r.Get("/subscriptions", h.Subscriptions)
			r.Post("/subscriptions", h.Subscribe)
			r.Get("/subscriptions/status", h.SubscriptionStatusMap)
			r.Get("/subscriptions/{kind}/{code}", h.SubscriptionStatus)
			r.Delete("/subscriptions/{kind}/{code}", h.Unsubscribe)

			r.Get("/wishlist", h.Wishlist)
			r.Post("/wishlist", h.AddToWishlist)
			r.Delete("/wishlist/{kind}/{code}", h.RemoveFromWishlist)

			r.Post("/preferences", h.CreatePreference)
			r.Get("/preferences/{id}/questions", h.Questions)
			r.Post("/preferences/{id}/questions", h.GenerateQuestions)
			r.Post("/questions/{id}/answers", h.Answer)

			r.Get("/recommendations", h.Recommendations)
			r.Get("/recommendations/{kind}/{code}/explanation", h.Explanation)

			r.Post("/community/articles", h.CreateArticle)
			r.Put("/community/articles/{id}", h.UpdateArticle)
			r.Delete("/community/articles/{id}", h.DeleteArticle)
			r.Post("/community/articles/{id}/comments", h.CreateComment)
			r.Put("/community/comments/{id}", h.UpdateComment)
			r.Delete("/community/comments/{id}", h.DeleteComment)
		})
	})

	return r
}
