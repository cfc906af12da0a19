package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/optrhq/optr/internal/core"
)

var analyzeJSON bool

// Exit codes for analyze. Recommendation is signaled separately from
// failure so callers can branch on it.
const (
	exitNotRecommended = 0
	exitRecommended    = 2
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [plan-file]",
	Short: "Check whether a plan warrants isolated worktrees",
	Long: `Analyze a plan document for complexity signals: task count, work
spanning multiple modules, and explicit parallel work.

Exit code 0 means worktrees are not recommended, 2 means they are, and 1
means the analysis itself failed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}

		planText, err := readPlan(args, cwd)
		if err != nil {
			return err
		}

		rec := core.AnalyzePlan(planText)

		if analyzeJSON {
			data, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
		} else {
			fmt.Printf("Tasks: %d\n", rec.Signal.TaskCount)
			fmt.Printf("Multiple modules: %v\n", rec.Signal.HasMultipleModules)
			fmt.Printf("Parallel work: %v\n", rec.Signal.HasExplicitParallelWork)
			fmt.Printf("Recommend worktrees: %v\n", rec.Worktrees)
			fmt.Printf("Reason: %s\n", rec.Reason)
		}

		if rec.Worktrees {
			os.Exit(exitRecommended)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the analysis as JSON")
	rootCmd.AddCommand(analyzeCmd)
}
