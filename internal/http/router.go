package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vibrantgarden/almo/internal/http/auth"
	"github.com/vibrantgarden/almo/internal/http/export"
	"github.com/vibrantgarden/almo/internal/http/importcsv"
	"github.com/vibrantgarden/almo/internal/http/inventory"
	"github.com/vibrantgarden/almo/internal/http/invoice"
	"github.com/vibrantgarden/almo/internal/http/material"
	"github.com/vibrantgarden/almo/internal/http/order"
)

func New(
	authSecret string,
	materialsV1 *material.Handler,
	ordersV1 *order.Handler,
	invoicesV1 *invoice.Handler,
	inventoryV1 *inventory.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(authSecret))

		r.Route("/materials", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			materialsV1.Routes(r)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			ordersV1.Routes(r)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			invoicesV1.Routes(r)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			inventoryV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			exportV1.Routes(r)
		})
	})

	return router
}
