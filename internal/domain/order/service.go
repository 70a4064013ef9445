package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/xenking/order-pricing/internal/domain/order"

// QuoteRequest holds the input for pricing an order.
type QuoteRequest struct {
	Quantity  int64
	ItemPrice decimal.Decimal
}

// Quote is a priced order identified for the caller.
type Quote struct {
	ID        string
	Order     *Order
	CreatedAt time.Time
}

// Service validates pricing requests and produces quotes.
type Service struct {
	tracer trace.Tracer
	quotes metric.Int64Counter
	now    func() time.Time
	newID  func() string
}

// NewService creates a Service reporting spans and metrics to the given providers.
func NewService(tp trace.TracerProvider, mp metric.MeterProvider) (*Service, error) {
	quotes, err := mp.Meter(instrumentationName).Int64Counter("order.quotes",
		metric.WithDescription("Number of priced orders by discount tier"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create quotes counter")
	}

	return &Service{
		tracer: tp.Tracer(instrumentationName),
		quotes: quotes,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}, nil
}

// Quote rejects negative or out-of-range inputs, then prices the order.
// The item price is not formatted until it has passed validation.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	ctx, span := s.tracer.Start(ctx, "order.Quote",
		trace.WithAttributes(attribute.Int64("order.quantity", req.Quantity)),
	)
	defer span.End()

	cfg := Config{Quantity: req.Quantity, ItemPrice: req.ItemPrice}
	if err := cfg.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	o := New(cfg)
	span.SetAttributes(
		attribute.String("order.item_price", o.ItemPrice().String()),
		attribute.String("order.tier", o.Tier().Name),
		attribute.String("order.final_price", o.FinalPrice().String()),
	)
	s.quotes.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", o.Tier().Name)))

	return &Quote{
		ID:        s.newID(),
		Order:     o,
		CreatedAt: s.now(),
	}, nil
}
