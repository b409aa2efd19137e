package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/uxforge/maestro"
	redisAdapter "github.com/uxforge/maestro/pkg/adapters/redis"
)

var rootCmd = &cobra.Command{
	Use:   "maestro",
	Short: "Maestro is an interview-driven frontend design orchestrator",
	Long: `Maestro interviews you about a frontend design task, scores the answers
into a generation strategy, and hands the resulting decision to a
generation backend.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Local .env files hold backend credentials during development.
	_ = godotenv.Load()

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("bank", "", "Directory containing a custom question bank (Loam markdown files)")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for persistent sessions (e.g. localhost:6379)")
	rootCmd.PersistentFlags().Int("redis-db", 0, "Redis database number")
}

// orchestratorOptions translates persistent flags into maestro options.
func orchestratorOptions(cmd *cobra.Command) []maestro.Option {
	var opts []maestro.Option

	if bankPath, _ := cmd.Flags().GetString("bank"); bankPath != "" {
		opts = append(opts, maestro.WithBankPath(bankPath))
	}

	if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
		db, _ := cmd.Flags().GetInt("redis-db")
		store := redisAdapter.New(addr, os.Getenv("REDIS_PASSWORD"), db)
		opts = append(opts,
			maestro.WithStore(store),
			maestro.WithLocker(redisAdapter.NewLocker(store.Client(), "maestro:")),
		)
	}

	return opts
}
