package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/order-pricing/internal/domain/order"
)

// ListTiers returns the discount tier table.
func (h *Handler) ListTiers(w http.ResponseWriter, _ *http.Request) {
	tiers := order.Tiers()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, t := range tiers {
			encodeTier(e, t)
		}
		e.ArrEnd()
	})
}
