package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/Versifine/mclink/internal/client"
	"github.com/Versifine/mclink/internal/console"
	"github.com/Versifine/mclink/internal/metrics"
	"github.com/Versifine/mclink/internal/packet"
)

func connectCmd(opts *rootOptions) *cobra.Command {
	var (
		username    string
		metricsAddr string
		noRespond   bool
		locale      string
		viewDist    int8
	)

	cmd := &cobra.Command{
		Use:   "connect [host[:port]]",
		Short: "Log in and relay chat between the terminal and the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if _, err := applyAddress(cfg, args); err != nil {
				return err
			}
			if username != "" {
				cfg.Account.Username = username
			}
			if metricsAddr != "" {
				cfg.Metrics.Listen = metricsAddr
			}
			cc, err := cfg.ClientConfig()
			if err != nil {
				return err
			}
			if noRespond {
				cc.AutoRespond = false
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var m *metrics.Metrics
			if cfg.Metrics.Listen != "" {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
				m = metrics.New(reg)
				srv := serveMetrics(cfg.Metrics.Listen, reg)
				defer shutdown(srv)
			}

			var c *client.Conn
			con := console.New(sender(func(msg packet.Message) error { return c.Send(msg) }), os.Stdin, cmd.OutOrStdout())
			c, err = client.New(cc,
				client.WithLogger(slog.Default()),
				client.WithMetrics(m),
				client.WithHandler(con),
			)
			if err != nil {
				return err
			}

			if err := c.Connect(ctx); err != nil {
				return err
			}
			defer c.Disconnect()

			if err := c.Send(&packet.ClientSettings{
				Locale:             locale,
				ViewDistance:       viewDist,
				ChatColors:         true,
				DisplayedSkinParts: 0x7F,
				MainHand:           1,
			}); err != nil {
				return err
			}

			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			go func() {
				select {
				case <-c.Done():
					cancel()
				case <-runCtx.Done():
				}
			}()
			if err := con.Run(runCtx, func() { c.Disconnect() }); err != nil {
				return err
			}

			select {
			case <-c.Done():
			case <-time.After(2 * time.Second):
			}
			if err := c.Err(); err != nil && !errors.Is(err, client.ErrKicked) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "player name (overrides config and MCLINK_USERNAME)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9100")
	cmd.Flags().BoolVar(&noRespond, "no-auto-respond", false, "do not answer keep-alives and teleports automatically")
	cmd.Flags().StringVar(&locale, "locale", "en_us", "locale sent in client settings")
	cmd.Flags().Int8Var(&viewDist, "view-distance", 8, "view distance sent in client settings")

	return cmd
}

// sender adapts a function to console.Sender.
type sender func(packet.Message) error

func (f sender) Send(m packet.Message) error { return f(m) }

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		slog.Info("Serving metrics", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "error", err)
		}
	}()
	return srv
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "metrics server shutdown: %v\n", err)
	}
}
