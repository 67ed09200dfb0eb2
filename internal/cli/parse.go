package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/lockparse/pkg/io"
	"github.com/matzehuels/lockparse/pkg/lockfile"
	"github.com/matzehuels/lockparse/pkg/pipeline"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	as           string // lock-file format, "" to detect
	output       string // output file path (stdout if empty)
	outputFormat string // json or yaml
	refresh      bool   // bypass the document cache
}

// parseCommand creates the parse command.
func (c *CLI) parseCommand() *cobra.Command {
	opts := parseOpts{outputFormat: pkgio.FormatJSON}

	cmd := &cobra.Command{
		Use:   "parse <file-or-dir>",
		Short: "Parse a lock file into a normalized document",
		Long: `Parse a lock file into a normalized document.

The argument is a lock file or a directory containing one. In a directory,
package-lock.json is preferred over yarn.lock, and yarn.lock over
pnpm-lock.yaml.

Examples:
  lockparse parse package-lock.json
  lockparse parse . --output-format yaml
  lockparse parse yarn.lock --as yarn-classic -o deps.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			doc, err := runParse(ctx, runner, args[0], opts)
			if err != nil {
				return err
			}
			if opts.output == "" {
				return pkgio.Write(doc, cmd.OutOrStdout(), opts.outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.as, "as", "", fmt.Sprintf("lock-file format %v (detected if empty)", lockfile.Formats()))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.outputFormat, "output-format", opts.outputFormat, "output encoding: json or yaml")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")

	return cmd
}

// runParse parses path and, when opts.output is set, writes the document to
// that file. The document is returned for writing to stdout otherwise.
func runParse(ctx context.Context, runner *pipeline.Runner, path string, opts parseOpts) (*lockfile.Document, error) {
	if err := pkgio.ValidateFormat(opts.outputFormat); err != nil {
		return nil, err
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	res, src, err := parseSource(ctx, runner, path, opts.as, opts.refresh)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Parsed %s as %s", src.Path, res.Format))

	if opts.output == "" {
		return res.Document, nil
	}

	if err := pkgio.ExportFile(res.Document, opts.output, opts.outputFormat); err != nil {
		return nil, fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Parsed %s", src.Path)
	printFile(opts.output)
	printStats(res.Format.String(), res.Stats.Packages, res.Stats.Edges, res.CacheInfo.ParseHit)
	printNextStep("Draw the dependency graph", fmt.Sprintf("%s graph %s --svg", appName, path))
	return res.Document, nil
}
