package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/uxforge/maestro"
	"github.com/uxforge/maestro/internal/presentation/tui"
	genaiAdapter "github.com/uxforge/maestro/pkg/adapters/genai"
	"github.com/uxforge/maestro/pkg/domain"
	"github.com/uxforge/maestro/pkg/session"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive interview in the terminal",
	Long: `Starts an interview session in the terminal. Answer questions until
Maestro reaches a design decision, then optionally trigger generation.

During the interview:
- choice questions accept numbers (comma-separated for multi-choice)
- 'force' ends the interview early with whatever is known
- 'quit' aborts the session`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInterview(cmd); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("context", "", "Free-text project context to seed the session")
	runCmd.Flags().String("existing", "", "Path to an existing output file to refine")
	runCmd.Flags().Bool("trifecta", false, "Request three design variants on execution")
	runCmd.Flags().String("quality", string(domain.QualityProduction), "Quality target: draft, production, premium or enterprise")

	// Make 'run' the default if no command is provided.
	rootCmd.Run = runCmd.Run
}

func runInterview(cmd *cobra.Command) error {
	ctx := cmd.Context()

	projectContext, _ := cmd.Flags().GetString("context")
	existingPath, _ := cmd.Flags().GetString("existing")
	useTrifecta, _ := cmd.Flags().GetBool("trifecta")
	quality, _ := cmd.Flags().GetString("quality")

	var existingOutput string
	if existingPath != "" {
		data, err := os.ReadFile(existingPath)
		if err != nil {
			return fmt.Errorf("failed to read existing output: %w", err)
		}
		existingOutput = string(data)
	}

	opts := orchestratorOptions(cmd)
	if os.Getenv("GEMINI_API_KEY") != "" {
		backend, err := genaiAdapter.New(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize generation backend: %w", err)
		}
		opts = append(opts, maestro.WithBackend(backend))
	}

	orch, err := maestro.New(opts...)
	if err != nil {
		return err
	}
	manager := orch.Manager()

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		tui.PrintBanner(maestro.Version)
	}
	render := tui.NewRenderer()

	turn, err := manager.StartSession(ctx, projectContext, existingOutput)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	for turn.Question != nil {
		printMarkdown(render, tui.FormatQuestion(turn.Question, turn.Progress))

		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		input := strings.TrimSpace(line)

		switch input {
		case "quit", "exit":
			if err := manager.Abort(ctx, turn.SessionID); err != nil {
				return err
			}
			fmt.Println("Session aborted.")
			return nil
		case "force":
			turn, err = manager.ForceDecision(ctx, turn.SessionID)
			if err != nil {
				return err
			}
			continue
		}

		answer, err := parseAnswer(turn.Question, input)
		if err != nil {
			fmt.Printf("  %v\n\n", err)
			continue
		}

		next, err := manager.Answer(ctx, turn.SessionID, answer)
		if err != nil {
			if domain.IsValidationError(err) {
				fmt.Printf("  %v\n\n", err)
				continue
			}
			return err
		}
		turn = next
	}

	if turn.Decision == nil {
		return fmt.Errorf("interview ended without a decision (status %s)", turn.Status)
	}

	printMarkdown(render, tui.FormatDecision(turn.Decision))

	if os.Getenv("GEMINI_API_KEY") == "" {
		fmt.Println("No generation backend configured (set GEMINI_API_KEY). Stopping here.")
		return nil
	}

	fmt.Print("Generate now? [y/N] ")
	confirm, _ := reader.ReadString('\n')
	if !strings.EqualFold(strings.TrimSpace(confirm), "y") {
		fmt.Println("Decision confirmed but not executed. Session:", turn.SessionID)
		return nil
	}

	result, err := manager.Execute(ctx, turn.SessionID, useTrifecta, domain.QualityTarget(quality))
	if err != nil {
		return err
	}
	printOutput(result)
	return nil
}

// parseAnswer maps terminal input onto the answer shape the question expects.
// Choice answers accept 1-based option numbers or raw option ids.
func parseAnswer(q *domain.Question, input string) (domain.Answer, error) {
	answer := domain.Answer{QuestionID: q.ID}

	switch q.Type {
	case domain.TypeSingleChoice, domain.TypeMultiChoice:
		if input == "" {
			return answer, fmt.Errorf("pick at least one option")
		}
		for _, part := range strings.Split(input, ",") {
			part = strings.TrimSpace(part)
			if n, err := strconv.Atoi(part); err == nil {
				if n < 1 || n > len(q.Options) {
					return answer, fmt.Errorf("option %d is out of range", n)
				}
				answer.SelectedOptions = append(answer.SelectedOptions, q.Options[n-1].ID)
			} else {
				answer.SelectedOptions = append(answer.SelectedOptions, part)
			}
		}
	case domain.TypeSlider:
		v, err := strconv.ParseFloat(input, 64)
		if err != nil {
			return answer, fmt.Errorf("enter a number between 0 and 1")
		}
		answer.SliderValue = &v
	default:
		answer.FreeText = input
	}

	return answer, nil
}

func printMarkdown(render func(string) (string, error), markdown string) {
	if out, err := render(markdown); err == nil {
		fmt.Print(out)
	} else {
		fmt.Print(markdown)
	}
}

func printOutput(result *session.ExecuteResult) {
	fmt.Printf("Generation complete (mode %s).\n\n", result.Mode)
	if result.Output.Markup != "" {
		fmt.Println("--- markup ---")
		fmt.Println(result.Output.Markup)
	}
	if result.Output.Style != "" {
		fmt.Println("--- style ---")
		fmt.Println(result.Output.Style)
	}
	if result.Output.Script != "" {
		fmt.Println("--- script ---")
		fmt.Println(result.Output.Script)
	}
	if result.Output.Notes != "" {
		fmt.Println("--- notes ---")
		fmt.Println(result.Output.Notes)
	}
}
