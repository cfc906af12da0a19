package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/optrhq/optr/internal/core"
)

var describeCmd = &cobra.Command{
	Use:   "describe <tool-name>",
	Short: "Show a tool's descriptor",
	Long:  `Locate a tool by name (project directories first, then the global install location) and render its TOOL.md.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}

		path, err := core.FindTool(cwd, home, args[0])
		if err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		meta, err := core.ParseToolFile(path)
		if err != nil {
			return err
		}

		fmt.Printf("%s - %s\n(%s)\n\n", meta.Name, meta.Description, path)

		body := markdownBody(string(data))
		if !isatty.IsTerminal(os.Stdout.Fd()) {
			fmt.Print(body)
			return nil
		}

		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			fmt.Print(body)
			return nil
		}
		rendered, err := r.Render(body)
		if err != nil {
			fmt.Print(body)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

// markdownBody strips the YAML frontmatter block, leaving the descriptor's
// markdown content.
func markdownBody(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return content
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[i+1:], "\n")
		}
	}
	return content
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
