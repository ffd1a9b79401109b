package api

import (
	"net/http"

	"ms-checkout/internal/gateway/pagbank"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func pagbankStatus(s string) pagbank.ChargeStatus {
	return pagbank.ChargeStatus(s)
}

// Routes wires every endpoint. User-facing routes sit behind the JWT
// middleware; the gateway webhook authenticates with its own shared token.
func Routes(h *Handler, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// The gateway authenticates with its shared token, not a user JWT.
		r.Post("/webhooks/pagbank", h.GatewayWebhook)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Post("/checkout", h.CreateOrder)
			r.Post("/checkout/quote", h.Quote)
			r.Post("/coupons/validate", h.ValidateCoupon)

			r.Get("/orders/{orderCode}", h.GetOrder)
			r.Get("/orders/{orderCode}/tickets", h.GetOrderTickets)
			r.Get("/me/tickets", h.GetMyTickets)

			r.Post("/events/{eventId}/checkin", h.CheckIn)
		})
	})

	return r
}
