package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uxforge/maestro"
	"github.com/uxforge/maestro/internal/presentation/graph"
	"github.com/uxforge/maestro/pkg/flow"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect the question bank",
	Long:  `Validate, list, and visualize the question catalog driving the interview.`,
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the question bank for consistency",
	Long:  `Loads the bank and reports duplicate ids, malformed questions and broken visibility expressions.`,
	Run: func(cmd *cobra.Command, args []string) {
		orch, err := maestro.New(orchestratorOptions(cmd)...)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Question bank is valid (%d questions). ✅\n", orch.Bank().Len())
	},
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all questions",
	Run: func(cmd *cobra.Command, args []string) {
		orch, err := maestro.New(orchestratorOptions(cmd)...)
		if err != nil {
			fmt.Printf("Error loading bank: %v\n", err)
			os.Exit(1)
		}

		for _, q := range orch.Bank().All() {
			required := " "
			if q.Required {
				required = "*"
			}
			fmt.Printf("%s %-28s %-12s %s\n", required, q.ID, q.Category, q.Type)
		}
	},
}

var bankGraphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the question flow visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of questions, follow-up triggers and visibility dependencies.`,
	Run: func(cmd *cobra.Command, args []string) {
		orch, err := maestro.New(orchestratorOptions(cmd)...)
		if err != nil {
			fmt.Printf("Error loading bank: %v\n", err)
			os.Exit(1)
		}

		output := graph.GenerateMermaid(orch.Bank().All(), flow.NewController().Edges(), nil)
		fmt.Print(output)
	},
}

func init() {
	rootCmd.AddCommand(bankCmd)
	bankCmd.AddCommand(bankValidateCmd)
	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankGraphCmd)
}
