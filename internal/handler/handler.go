package handler

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/xenking/order-pricing/internal/domain/order"
)

// Quoter prices a single order request.
type Quoter interface {
	Quote(ctx context.Context, req order.QuoteRequest) (*order.Quote, error)
}

// Handler serves the pricing API, delegating business logic to the quote
// service.
type Handler struct {
	quotes Quoter
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(quotes Quoter) *Handler {
	return &Handler{quotes: quotes}
}

// Routes registers the API endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/quote", h.PlaceQuote)
	r.Get("/tiers", h.ListTiers)
}
