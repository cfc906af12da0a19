package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/optrhq/optr/internal/core"
	"github.com/optrhq/optr/internal/worktree"
)

var (
	worktreeBase         string
	worktreeForce        bool
	eligibleTaskJSON     string
	eligibleAssignedJSON string
)

var worktreeCmd = &cobra.Command{
	Use:   "worktree",
	Short: "Manage per-task isolated worktrees",
}

func newWorktreeManager() (*worktree.Manager, error) {
	d, err := newDeps()
	if err != nil {
		return nil, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}
	return worktree.NewManager(cwd, worktree.Options{
		KeepBranches: d.settings.KeepBranchesOrDefault(),
	})
}

var worktreeCreateCmd = &cobra.Command{
	Use:   "create <task-id> <task-name>",
	Short: "Create a worktree for a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newWorktreeManager()
		if err != nil {
			return err
		}

		record, err := m.Create(cmd.Context(), args[0], args[1], worktreeBase)
		if err != nil {
			return err
		}

		fmt.Printf("%s Created worktree for task %s\n", color.GreenString("✓"), record.TaskID)
		fmt.Printf("  path:   %s\n", record.Path)
		fmt.Printf("  branch: %s\n", record.Branch)
		return nil
	},
}

var worktreeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked worktrees",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newWorktreeManager()
		if err != nil {
			return err
		}

		records := m.List()
		if len(records) == 0 {
			fmt.Println("No tracked worktrees.")
		} else {
			fmt.Printf("Tracked worktrees (%d):\n", len(records))
			for _, record := range records {
				fmt.Printf("  %s  %s [%s]\n", record.TaskID, record.Path, record.Branch)
				if record.TaskName != "" {
					fmt.Printf("    %s\n", record.TaskName)
				}
			}
		}

		// Everything git knows about, including the main checkout.
		infos, err := m.ListGit(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("\nGit worktrees (%d):\n", len(infos))
		for _, info := range infos {
			marker := ""
			if info.Path == m.Root() {
				marker = " (main)"
			}
			branch := info.Branch
			if branch == "" {
				branch = "detached"
			}
			fmt.Printf("  %s%s [%s]\n", info.Path, marker, branch)
		}
		return nil
	},
}

var worktreeRemoveCmd = &cobra.Command{
	Use:   "remove <task-id>",
	Short: "Remove a task's worktree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newWorktreeManager()
		if err != nil {
			return err
		}

		if err := m.Remove(cmd.Context(), args[0], worktreeForce); err != nil {
			if errors.Is(err, worktree.ErrDirtyWorkingTree) {
				return fmt.Errorf("%w (use --force to discard uncommitted work)", err)
			}
			return err
		}

		fmt.Printf("%s Removed worktree for task %s\n", color.GreenString("✓"), args[0])
		return nil
	},
}

var worktreeCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove all tracked worktrees",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newWorktreeManager()
		if err != nil {
			return err
		}

		removed, err := m.Cleanup(cmd.Context(), worktreeForce)
		fmt.Printf("Removed %d worktree(s)\n", removed)
		if err != nil {
			return fmt.Errorf("some worktrees could not be removed: %w", err)
		}
		return nil
	},
}

var worktreeEligibleCmd = &cobra.Command{
	Use:   "eligible --task <json>",
	Short: "Check whether a task needs its own worktree",
	Long: `Evaluate a single task against the worktree eligibility rules: an
explicit isolation flag, an estimated duration above one hour, or file
paths overlapping another task already assigned in this repository.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if eligibleTaskJSON == "" {
			return fmt.Errorf("--task is required")
		}

		var task core.TaskSpec
		if err := json.Unmarshal([]byte(eligibleTaskJSON), &task); err != nil {
			return fmt.Errorf("parsing task JSON: %w", err)
		}

		// Sibling tasks come from --assigned when provided; otherwise from
		// the tracked assignments, which carry no file lists (flags and
		// duration still apply there).
		var assigned []core.TaskSpec
		if eligibleAssignedJSON != "" {
			if err := json.Unmarshal([]byte(eligibleAssignedJSON), &assigned); err != nil {
				return fmt.Errorf("parsing assigned tasks JSON: %w", err)
			}
		} else {
			m, err := newWorktreeManager()
			if err != nil {
				return err
			}
			for taskID, a := range m.Assignments() {
				assigned = append(assigned, core.TaskSpec{ID: taskID, Name: a.TaskName})
			}
		}

		result := struct {
			TaskID   string `json:"task_id"`
			Eligible bool   `json:"eligible"`
		}{
			TaskID:   task.ID,
			Eligible: core.NeedsWorktree(task, assigned),
		}
		data, err := json.Marshal(result)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	worktreeCreateCmd.Flags().StringVar(&worktreeBase, "base", "", "base branch for the task branch (default main)")
	worktreeRemoveCmd.Flags().BoolVar(&worktreeForce, "force", false, "discard uncommitted changes")
	worktreeCleanupCmd.Flags().BoolVar(&worktreeForce, "force", false, "discard uncommitted changes")
	worktreeEligibleCmd.Flags().StringVar(&eligibleTaskJSON, "task", "", "task descriptor as JSON")
	worktreeEligibleCmd.Flags().StringVar(&eligibleAssignedJSON, "assigned", "", "sibling task descriptors as a JSON array")

	worktreeCmd.AddCommand(worktreeCreateCmd, worktreeListCmd, worktreeRemoveCmd, worktreeCleanupCmd, worktreeEligibleCmd)
	rootCmd.AddCommand(worktreeCmd)
}
