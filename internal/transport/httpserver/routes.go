package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"subtrack/internal/transport/httpserver/handler"
	authmw "subtrack/internal/transport/httpserver/middleware"
)

func NewRouter(handlers *handler.Handlers, auth *authmw.JWTAuth) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS([]string{"http://localhost:5173"}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/auth/register", handlers.Register)
		r.Post("/auth/login", handlers.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)
			r.Patch("/auth/me", handlers.UpdateProfile)

			r.Get("/obligations", handlers.ListObligations)
			r.Post("/obligations", handlers.CreateObligation)
			r.Put("/obligations/{id}", handlers.UpdateObligation)
			r.Delete("/obligations/{id}", handlers.DeleteObligation)
			r.Post("/obligations/{id}/favorite", handlers.ToggleObligationFavorite)
			r.Post("/obligations/{id}/share", handlers.ShareObligation)
			r.Delete("/obligations/{id}/share/{target_id}", handlers.UnshareObligation)
			r.Get("/obligations/categories", handlers.ListObligationCategories)

			r.Get("/payment-methods", handlers.ListPaymentMethods)
			r.Post("/payment-methods", handlers.CreatePaymentMethod)
			r.Put("/payment-methods/{id}", handlers.UpdatePaymentMethod)
			r.Delete("/payment-methods/{id}", handlers.DeletePaymentMethod)

			r.Get("/summary", handlers.GetSummary)
			r.Get("/goals/{kind}", handlers.GetGoal)
			r.Put("/goals/{kind}", handlers.SetGoal)
		})
	})

	return r
}
