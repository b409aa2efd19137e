package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/uxforge/maestro"
	httpAdapter "github.com/uxforge/maestro/internal/adapters/http"
	"github.com/uxforge/maestro/internal/logging"
	genaiAdapter "github.com/uxforge/maestro/pkg/adapters/genai"
	"github.com/uxforge/maestro/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts Maestro in server mode, exposing the interview and execution
lifecycle as a JSON API over HTTP. Prometheus metrics are served on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		idleTTL, _ := cmd.Flags().GetDuration("session-ttl")

		logger := logging.New(logging.ParseLevel(os.Getenv("LOG_LEVEL")))
		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

		opts := orchestratorOptions(cmd)
		opts = append(opts,
			maestro.WithLogger(logger),
			maestro.WithLifecycleHooks(metrics.Hooks()),
			maestro.WithIdleTTL(idleTTL),
		)

		if os.Getenv("GEMINI_API_KEY") != "" {
			backend, err := genaiAdapter.New(cmd.Context())
			if err != nil {
				fmt.Printf("Error initializing generation backend: %v\n", err)
				os.Exit(1)
			}
			opts = append(opts, maestro.WithBackend(backend))
		} else {
			logger.Warn("GEMINI_API_KEY not set, execute requests will fail")
		}

		orch, err := maestro.New(opts...)
		if err != nil {
			fmt.Printf("Error initializing maestro: %v\n", err)
			os.Exit(1)
		}

		// Background removal of idle sessions.
		sweepCtx, stopSweep := context.WithCancel(context.Background())
		defer stopSweep()
		go orch.Manager().RunExpirySweep(sweepCtx, time.Minute)

		handler := httpAdapter.NewHandler(orch.Manager(), orch.Bank(), logger)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Maestro Server on %s\n", srv.Addr)
			fmt.Printf("Question bank: %d questions\n", orch.Bank().Len())
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Maestro Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Duration("session-ttl", 30*time.Minute, "Idle window before sessions expire (0 disables expiry)")
}
