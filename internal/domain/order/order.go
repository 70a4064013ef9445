package order

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNegativeQuantity is returned by Config.Validate for a quantity below zero.
	ErrNegativeQuantity = errors.New("quantity must not be negative")
	// ErrNegativeItemPrice is returned by Config.Validate for an item price below zero.
	ErrNegativeItemPrice = errors.New("item price must not be negative")
	// ErrItemPriceOutOfRange is returned by Config.Validate for an item price
	// whose exponent or significant digits exceed the supported range.
	ErrItemPriceOutOfRange = errors.New("item price is out of range")
)

const (
	// maxPriceExponent bounds the decimal exponent of an item price in both
	// directions, so 1e18 and 1e-18 are accepted and 1e19 is not.
	maxPriceExponent = 18
	// maxPriceDigits bounds the number of significant digits of an item price.
	maxPriceDigits = 38
)

// Config holds the inputs of a single pricing request.
type Config struct {
	Quantity  int64
	ItemPrice decimal.Decimal
}

// Validate reports whether the config holds non-negative inputs and an item
// price within range. New does not call it; callers accepting untrusted input
// should, before formatting or multiplying the price.
//
// An item price is in range when its exponent is within ±18 and its
// coefficient has at most 38 digits.
func (c Config) Validate() error {
	if c.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if c.ItemPrice.IsNegative() {
		return ErrNegativeItemPrice
	}
	if exp := c.ItemPrice.Exponent(); exp > maxPriceExponent || exp < -maxPriceExponent {
		return ErrItemPriceOutOfRange
	}
	if c.ItemPrice.NumDigits() > maxPriceDigits {
		return ErrItemPriceOutOfRange
	}
	return nil
}

// Order is one pricing request with its discounted final price.
// The final price is computed once in New and never changes.
type Order struct {
	quantity   int64
	itemPrice  decimal.Decimal
	total      decimal.Decimal
	tier       Tier
	finalPrice decimal.Decimal
}

// New creates an Order and applies the quantity tier discount:
// 5% up to and including 100 units, 10% above.
func New(cfg Config) *Order {
	total := cfg.ItemPrice.Mul(decimal.NewFromInt(cfg.Quantity))
	tier := TierFor(cfg.Quantity)

	return &Order{
		quantity:   cfg.Quantity,
		itemPrice:  cfg.ItemPrice,
		total:      total,
		tier:       tier,
		finalPrice: total.Mul(tier.Multiplier()),
	}
}

// Quantity returns the number of units ordered.
func (o *Order) Quantity() int64 { return o.quantity }

// ItemPrice returns the price of a single unit.
func (o *Order) ItemPrice() decimal.Decimal { return o.itemPrice }

// Total returns quantity * itemPrice before any discount.
func (o *Order) Total() decimal.Decimal { return o.total }

// Tier returns the discount tier the order fell into.
func (o *Order) Tier() Tier { return o.tier }

// FinalPrice returns the post-discount cost of the order.
func (o *Order) FinalPrice() decimal.Decimal { return o.finalPrice }
