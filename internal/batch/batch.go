// Package batch prices streams of orders, one order per CSV line.
package batch

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/xenking/order-pricing/internal/domain/order"
)

// LineError reports a malformed input line.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return "line " + strconv.Itoa(e.Line) + ": " + e.Err.Error()
}

func (e *LineError) Unwrap() error { return e.Err }

// Stats summarises a priced stream.
type Stats struct {
	Orders int
	Total  decimal.Decimal
}

// Price reads "quantity,itemPrice" lines from r and writes
// "quantity,itemPrice,finalPrice" lines to w. Blank lines and lines starting
// with '#' are skipped. Negative inputs are rejected.
func Price(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	stats := Stats{Total: decimal.Zero}
	out := bufio.NewWriter(w)
	scanner := bufio.NewScanner(r)

	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		cfg, err := parseLine(text)
		if err != nil {
			return stats, &LineError{Line: line, Err: err}
		}
		if err := cfg.Validate(); err != nil {
			return stats, &LineError{Line: line, Err: err}
		}

		o := order.New(cfg)
		if _, err := out.WriteString(formatLine(o)); err != nil {
			return stats, errors.Wrap(err, "write result")
		}
		stats.Orders++
		stats.Total = stats.Total.Add(o.FinalPrice())
	}
	if err := scanner.Err(); err != nil {
		return stats, errors.Wrap(err, "scan input")
	}

	if err := out.Flush(); err != nil {
		return stats, errors.Wrap(err, "flush output")
	}
	return stats, nil
}

// PriceGzip is Price over gzip-compressed input and output.
func PriceGzip(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	gr, err := pgzip.NewReader(r)
	if err != nil {
		return Stats{}, errors.Wrap(err, "create gzip reader")
	}
	defer func() { _ = gr.Close() }()

	gw := pgzip.NewWriter(w)
	stats, err := Price(ctx, gr, gw)
	if err != nil {
		_ = gw.Close()
		return stats, err
	}
	if err := gw.Close(); err != nil {
		return stats, errors.Wrap(err, "close gzip writer")
	}
	return stats, nil
}

func parseLine(text string) (order.Config, error) {
	qtyText, priceText, ok := strings.Cut(text, ",")
	if !ok {
		return order.Config{}, errors.New("expected quantity,itemPrice")
	}

	qty, err := strconv.ParseInt(strings.TrimSpace(qtyText), 10, 64)
	if err != nil {
		return order.Config{}, errors.Wrap(err, "parse quantity")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(priceText))
	if err != nil {
		return order.Config{}, errors.Wrap(err, "parse item price")
	}

	return order.Config{Quantity: qty, ItemPrice: price}, nil
}

func formatLine(o *order.Order) string {
	return strconv.FormatInt(o.Quantity(), 10) + "," +
		o.ItemPrice().String() + "," +
		o.FinalPrice().String() + "\n"
}
