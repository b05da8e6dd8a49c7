package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/gregLibert/thai-id-card/pkg/pcsc"
	"github.com/gregLibert/thai-id-card/pkg/thaiid"
)

// openService returns the PC/SC service, or a simulated card with --simulate.
// The returned function releases it.
func openService(cmd *cobra.Command) (thaiid.ReaderService, func(), error) {
	simulate, _ := cmd.Flags().GetBool("simulate")
	if simulate {
		sim, err := thaiid.NewSimulator(demoRecord(), thaiid.ATRLegacy)
		if err != nil {
			return nil, nil, err
		}
		return sim, func() {}, nil
	}

	ctx, err := pcsc.Establish()
	if err != nil {
		return nil, nil, err
	}
	return ctx, func() {
		if err := ctx.Release(); err != nil {
			slog.Warn("Failed to release PC/SC context", "err", err)
		}
	}, nil
}

// waitForCard blocks until a card sits in reader (the first reader when
// empty), for at most timeout. Simulated cards are always present.
func waitForCard(ctx context.Context, svc thaiid.ReaderService, reader string, timeout time.Duration) error {
	pc, ok := svc.(*pcsc.Context)
	if !ok || timeout <= 0 {
		return nil
	}

	if reader == "" {
		readers, err := pc.ListReaders()
		if err != nil {
			return err
		}
		if len(readers) == 0 {
			return thaiid.ErrNoReader
		}
		reader = readers[0]
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	slog.Info("Waiting for a card", "reader", reader, "timeout", timeout)
	if err := pc.WaitForCard(ctx, reader); err != nil {
		return fmt.Errorf("no card in %s: %w", reader, err)
	}
	return nil
}

func sessionOptions(strict bool) []thaiid.Option {
	opts := []thaiid.Option{thaiid.WithLogger(slog.Default())}
	if strict {
		opts = append(opts, thaiid.WithStrictStatus())
	}
	return opts
}
