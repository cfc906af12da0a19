package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/optrhq/optr/internal/core"
	"github.com/optrhq/optr/internal/tui"
)

var (
	discoverVerbose   bool
	discoverYes       bool
	discoverThreshold float64
	discoverDir       string
)

var discoverCmd = &cobra.Command{
	Use:   "discover [plan-file]",
	Short: "Match available tools against a plan document",
	Long: `Scan project-local and globally installed tool descriptors, rank them
against the plan's content, and optionally search the external registry.

The registry search is gated: after the local results are shown you choose
to proceed, skip the registry, or abort. --yes proceeds automatically; when
output is not a terminal the registry is skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		root := discoverDir
		if root == "" {
			root, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
		}

		planText, err := readPlan(args, root)
		if err != nil {
			return err
		}

		registry := &core.RegistryScanner{
			Command:   d.settings.RegistryCommand,
			Threshold: discoverThreshold,
			PlanText:  planText,
		}
		if registry.Threshold == 0 {
			registry.Threshold = d.settings.RelevanceThreshold
		}
		// Semantic scoring is optional; without an API key the registry
		// falls back to flat base scores.
		if oracle, err := core.NewSemanticMatcher(); err == nil {
			registry.Oracle = oracle
		}

		local := []core.Scanner{
			&core.ProjectScanner{Root: root},
			&core.GlobalScanner{},
		}
		session := core.NewSession(planText, local, registry)

		tty := isatty.IsTerminal(os.Stdout.Fd())
		renderer := &tui.Renderer{Out: os.Stdout, Plain: !tty, Verbose: discoverVerbose}

		report, err := session.Phase1(cmd.Context())
		if err != nil {
			return err
		}
		renderer.RenderPhase1(report)

		decision, err := gateDecision(tty)
		if err != nil {
			return err
		}

		switch decision {
		case core.DecisionAbort:
			fmt.Println("Aborted.")
			return nil
		case core.DecisionSkip:
			return nil
		}

		final, err := session.Phase2(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println()
		renderer.RenderFinal(final)
		return nil
	},
}

// gateDecision resolves the phase gate: --yes proceeds, non-interactive
// runs skip the registry, otherwise the user is asked.
func gateDecision(tty bool) (core.Decision, error) {
	if discoverYes {
		return core.DecisionProceed, nil
	}
	if !tty || !isatty.IsTerminal(os.Stdin.Fd()) {
		return core.DecisionSkip, nil
	}
	return tui.AskDecision("Search the registry for additional tools?")
}

// readPlan loads the plan document: an explicit argument, or PLAN.md in dir.
func readPlan(args []string, dir string) (string, error) {
	planPath := filepath.Join(dir, "PLAN.md")
	if len(args) > 0 {
		planPath = args[0]
	}

	data, err := os.ReadFile(planPath)
	if err != nil {
		return "", fmt.Errorf("reading plan %s: %w", planPath, err)
	}
	return string(data), nil
}

func init() {
	discoverCmd.Flags().BoolVarP(&discoverVerbose, "verbose", "v", false, "show descriptor paths")
	discoverCmd.Flags().BoolVarP(&discoverYes, "yes", "y", false, "search the registry without asking")
	discoverCmd.Flags().Float64Var(&discoverThreshold, "threshold", 0, "minimum registry relevance (0-1)")
	discoverCmd.Flags().StringVar(&discoverDir, "dir", "", "project directory to scan (default: current)")
	rootCmd.AddCommand(discoverCmd)
}
