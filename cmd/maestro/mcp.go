package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/uxforge/maestro"
	"github.com/uxforge/maestro/internal/logging"
	genaiAdapter "github.com/uxforge/maestro/pkg/adapters/genai"
	"github.com/uxforge/maestro/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts Maestro as an MCP Server.
This allows AI agents (like Claude Desktop) to drive the interview and trigger
generation through tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Configure logger. Stderr only: stdout carries JSON-RPC.
		logger := logging.New(slog.LevelDebug)
		slog.SetDefault(logger)

		orchOpts := orchestratorOptions(cmd)
		orchOpts = append(orchOpts, maestro.WithLogger(logger))

		if os.Getenv("GEMINI_API_KEY") != "" {
			backend, err := genaiAdapter.New(cmd.Context())
			if err != nil {
				log.Fatalf("Error initializing generation backend: %v", err)
			}
			orchOpts = append(orchOpts, maestro.WithBackend(backend))
		}

		orch, err := maestro.New(orchOpts...)
		if err != nil {
			log.Fatalf("Error initializing maestro: %v", err)
		}

		srv := mcp.NewServer(orch.Manager(), orch.Bank())

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			slog.Info("Starting Maestro MCP Server (Stdio)...")
			if err := srv.ServeStdio(); err != nil {
				slog.Error("MCP Server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			slog.Info("Starting Maestro MCP Server (SSE)", "port", port)

			// Create a context that cancels on interrupt signal
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				// Ignore server closed error if it was caused by context cancellation
				if err != http.ErrServerClosed {
					slog.Error("MCP Server execution failed", "error", err)
					os.Exit(1)
				}
			}
			slog.Info("MCP Server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
