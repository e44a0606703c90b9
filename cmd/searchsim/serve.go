package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aretw0/searchsim/internal/cli"
	httpAdapter "github.com/aretw0/searchsim/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored reports and metrics over HTTP",
	Long: `Exposes the report store (GET /sessions, GET and DELETE /sessions/{id})
and Prometheus metrics (/metrics). With --run, the sessions of a simulation
file are executed in the background so their metrics can be scraped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		configPath, _ := cmd.Flags().GetString("run")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		backend, err := cli.OpenStore(ctx, storeOpts)
		if err != nil {
			return err
		}
		defer backend.Close()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: httpAdapter.NewHandler(backend.Store, httpAdapter.WithGatherer(reg), httpAdapter.WithLogger(logger)),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Starting searchsim server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		if configPath != "" {
			runCtx, cancelRun := context.WithCancel(ctx)
			wait := cli.RunInBackground(runCtx, cli.RunOptions{ConfigPath: configPath, Store: storeOpts}, backend, logger, reg)
			// Runs before backend.Close: the run may still be saving reports.
			defer wait()
			defer cancelRun()
		}

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-ctx.Done():
			fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down...")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				srv.Close()
				return fmt.Errorf("graceful shutdown did not complete: %w", err)
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("run", "", "Simulation file to run in the background")
}
