package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/order-pricing/internal/domain/order"
)

const maxBodyBytes = 1 << 16

// PlaceQuote decodes a pricing request, delegates to the quote service, and
// writes the priced order (or error) as JSON.
func (h *Handler) PlaceQuote(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	req, err := decodeQuoteRequest(body)
	if err != nil {
		var mfErr *MissingFieldError
		if errors.As(err, &mfErr) {
			writeError(w, http.StatusBadRequest, mfErr.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.quotes.Quote(r.Context(), req)
	if err != nil {
		status, message := mapQuoteError(err)
		if status == http.StatusInternalServerError {
			zctx.From(r.Context()).Error("Quote failed", zap.Error(err))
		}
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeQuote(e, q)
	})
}

// mapQuoteError converts domain errors to HTTP status codes and messages.
func mapQuoteError(err error) (int, string) {
	switch {
	case errors.Is(err, order.ErrNegativeQuantity),
		errors.Is(err, order.ErrNegativeItemPrice),
		errors.Is(err, order.ErrItemPriceOutOfRange):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
