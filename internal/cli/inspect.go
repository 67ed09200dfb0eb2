package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "inspect <file-or-dir>",
		Short: "Browse the packages of a lock file interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, _, err := parseSource(ctx, runner, args[0], as, false)
			if err != nil {
				return err
			}
			if res.Document.Len() == 0 {
				printInfo("No packages")
				return nil
			}

			p := tea.NewProgram(NewPackageListModel(res.Document), tea.WithContext(ctx), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("inspect: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "lock-file format (detected if empty)")
	return cmd
}
