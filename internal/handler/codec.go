package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/order-pricing/internal/domain/order"
)

// MissingFieldError indicates a required request field was absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func decodeQuoteRequest(data []byte) (order.QuoteRequest, error) {
	var (
		req      order.QuoteRequest
		hasQty   bool
		hasPrice bool
	)

	d := jx.DecodeBytes(data)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "quantity":
			v, err := d.Int64()
			if err != nil {
				return errors.Wrap(err, "quantity")
			}
			req.Quantity = v
			hasQty = true
		case "itemPrice":
			n, err := d.Num()
			if err != nil {
				return errors.Wrap(err, "itemPrice")
			}
			v, err := decimal.NewFromString(n.String())
			if err != nil {
				return errors.Wrap(err, "itemPrice")
			}
			req.ItemPrice = v
			hasPrice = true
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		return order.QuoteRequest{}, err
	}
	if err := d.Skip(); err != io.EOF {
		return order.QuoteRequest{}, errors.New("unexpected trailing data")
	}

	if !hasQty {
		return order.QuoteRequest{}, &MissingFieldError{Field: "quantity"}
	}
	if !hasPrice {
		return order.QuoteRequest{}, &MissingFieldError{Field: "itemPrice"}
	}
	return req, nil
}

func encodeDecimal(e *jx.Encoder, d decimal.Decimal) {
	e.Num(jx.Num(d.String()))
}

func encodeQuote(e *jx.Encoder, q *order.Quote) {
	o := q.Order

	e.ObjStart()
	e.FieldStart("id")
	e.Str(q.ID)
	e.FieldStart("quantity")
	e.Int64(o.Quantity())
	e.FieldStart("itemPrice")
	encodeDecimal(e, o.ItemPrice())
	e.FieldStart("total")
	encodeDecimal(e, o.Total())
	e.FieldStart("tier")
	e.Str(o.Tier().Name)
	e.FieldStart("discountRate")
	encodeDecimal(e, o.Tier().Rate)
	e.FieldStart("finalPrice")
	encodeDecimal(e, o.FinalPrice())
	e.ObjEnd()
}

func encodeTier(e *jx.Encoder, t order.Tier) {
	e.ObjStart()
	e.FieldStart("name")
	e.Str(t.Name)
	if t.Bounded() {
		e.FieldStart("maxQuantity")
		e.Int64(t.MaxQuantity)
	}
	e.FieldStart("discountRate")
	encodeDecimal(e, t.Rate)
	e.ObjEnd()
}

func encodeError(e *jx.Encoder, code int, message string) {
	e.ObjStart()
	e.FieldStart("code")
	e.Int(code)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()
}

func writeJSON(w http.ResponseWriter, status int, fn func(e *jx.Encoder)) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	fn(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		encodeError(e, status, message)
	})
}
