package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/gregLibert/thai-id-card/pkg/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr   string
		reader string
		strict bool
		mdns   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve card reads over a websocket",
		Long: `Starts an HTTP server that reads the card on request.

Send {"type": "read"} on /ws to get the record and the base64 photo back, or
GET /api/v1/card. Reads are serialised, the reader is used by one request at
a time.`,
		Example: `  # Listen on the default address
  thaiid serve

  # Listen on port 9000 and announce the service with mDNS
  thaiid serve --addr :9000 --mdns`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := openService(cmd)
			if err != nil {
				return err
			}
			defer release()

			srv := server.New(svc, server.Config{Reader: reader, Strict: strict}, slog.Default())

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}

			if mdns {
				if err := srv.Advertise(ln.Addr().(*net.TCPAddr).Port); err != nil {
					ln.Close()
					return err
				}
				defer srv.Shutdown()
			}

			httpServer := &http.Server{
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Thai ID reader service available", "addr", ln.Addr().String(), "ws", "ws://"+ln.Addr().String()+"/ws")
				if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8088", "Address to listen on")
	cmd.Flags().StringVarP(&reader, "reader", "r", "", "Reader name (default: first reader listed)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on any error status word from the card")
	cmd.Flags().BoolVar(&mdns, "mdns", false, "Announce the service as "+server.ServiceType+" with mDNS")

	bindEnv(cmd, "addr", "THAIID_ADDR")
	bindEnv(cmd, "reader", "THAIID_READER")
	bindEnv(cmd, "strict", "THAIID_STRICT")

	return cmd
}
