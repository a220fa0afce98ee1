// Command respd runs the RESP key-value server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/harfangapps/respd/addr"
	"github.com/harfangapps/respd/common"
	"github.com/harfangapps/respd/metrics"
	"github.com/harfangapps/respd/server"
	"github.com/harfangapps/respd/store"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	listenAddr  string
	metricsAddr string
	idleTimeout time.Duration
)

func init() {
	rootCmd.Flags().StringVar(&listenAddr, "addr", "0.0.0.0:6379", "address to listen for RESP connections on")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9121", "address to serve Prometheus metrics on")
	rootCmd.Flags().DurationVar(&idleTimeout, "idle-timeout", 0, "stop the server after this long with no active connection (0 disables)")
}

// rootCmd is the main command for the respd binary.
var rootCmd = &cobra.Command{
	Use:   "respd",
	Short: "respd is an in-memory RESP key-value server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func run() error {
	a, err := addr.ParseAddr(listenAddr, 6379)
	if err != nil {
		return errors.Wrap(err, "invalid --addr")
	}

	metricsServer := startMetricsServer(metricsAddr)
	defer metricsServer.Close()

	s := &server.Server{
		Addr:        a,
		Store:       store.New(),
		IdleTimeout: idleTimeout,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logrus.WithField("addr", a.String()).Info("listening")
	err = s.ListenAndServe(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func startMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.Logger.WithError(err).Error("metrics server error")
		}
	}()
	return srv
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
