package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/lockparse/pkg/errors"
	"github.com/matzehuels/lockparse/pkg/locate"
	"github.com/matzehuels/lockparse/pkg/lockfile"
	"github.com/matzehuels/lockparse/pkg/pipeline"
)

// detectCommand creates the detect command.
func (c *CLI) detectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file-or-dir>",
		Short: "Print the format of a lock file",
		Long: `Print the format of a lock file without parsing it.

Prints one of: npm, yarn-classic, yarn-berry, pnpm. Unrecognized text is an
error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			runner := pipeline.NewRunner(nil, nil, c.Logger)
			return runDetect(ctx, runner, args[0], cmd.OutOrStdout())
		},
	}
}

func runDetect(ctx context.Context, runner *pipeline.Runner, path string, w io.Writer) error {
	src, err := locate.Resolve(path)
	if err != nil {
		return err
	}
	format, err := runner.Detect(ctx, src.Text)
	if err != nil {
		return fmt.Errorf("%s: %w", src.Path, err)
	}
	if format == lockfile.FormatUnknown {
		return errs.New(errs.ErrCodeDetection, "%s: unable to determine lock-file format", src.Path)
	}
	loggerFromContext(ctx).Debug("detected", "path", src.Path, "format", format)
	_, err = fmt.Fprintln(w, format)
	return err
}
