package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/cristalhq/aconfig"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/order-pricing/internal/batch"
)

// config is loaded from flags or PRICING_BATCH_ environment variables.
type config struct {
	Input  string `required:"true" usage:"gzip CSV of quantity,itemPrice lines"`
	Output string `required:"true" usage:"gzip CSV destination for quantity,itemPrice,finalPrice lines"`
}

func main() {
	lg, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = lg.Sync() }()

	var cfg config
	if err := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "PRICING_BATCH",
		SkipFiles: true,
	}).Load(); err != nil {
		lg.Fatal("Load config", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, lg, cfg); err != nil {
		lg.Fatal("Batch pricing failed", zap.Error(err))
	}
}

func run(ctx context.Context, lg *zap.Logger, cfg config) error {
	in, err := os.Open(cfg.Input)
	if err != nil {
		return errors.Wrap(err, "open input")
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(cfg.Output)
	if err != nil {
		return errors.Wrap(err, "create output")
	}

	lg.Info("Pricing orders", zap.String("input", cfg.Input), zap.String("output", cfg.Output))
	stats, err := batch.PriceGzip(ctx, in, out)
	if err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "close output")
	}

	lg.Info("Pricing completed",
		zap.Int("orders", stats.Orders),
		zap.String("total", stats.Total.String()),
	)
	return nil
}
