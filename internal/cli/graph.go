package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lockparse/pkg/pipeline"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	as       string
	svg      bool
	kinds    string
	detailed bool
	output   string
	refresh  bool
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{kinds: "dependencies"}

	cmd := &cobra.Command{
		Use:   "graph <file-or-dir>",
		Short: "Draw the declared dependency edges as a graph",
		Long: `Draw every package and its declared dependency edges as Graphviz DOT,
or as SVG with --svg.

Edges point at "name@range" as the lock file declares them; they are not
resolved to package keys.

Examples:
  lockparse graph . > deps.dot
  lockparse graph pnpm-lock.yaml --svg -o deps.svg
  lockparse graph yarn.lock --kinds dependencies,optionalDependencies`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			if opts.output == "" {
				return runGraph(ctx, runner, args[0], opts, cmd.OutOrStdout())
			}

			f, err := os.Create(opts.output)
			if err != nil {
				return err
			}
			err = runGraph(ctx, runner, args[0], opts, f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err == nil {
				printSuccess("Graph written")
				printFile(opts.output)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&opts.as, "as", "", "lock-file format (detected if empty)")
	cmd.Flags().BoolVar(&opts.svg, "svg", false, "render SVG instead of DOT")
	cmd.Flags().StringVar(&opts.kinds, "kinds", opts.kinds, "comma-separated dependency sets to draw")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with their versions")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")

	return cmd
}

func runGraph(ctx context.Context, runner *pipeline.Runner, path string, opts graphOpts, w io.Writer) error {
	res, _, err := parseSource(ctx, runner, path, opts.as, opts.refresh)
	if err != nil {
		return err
	}

	format := pipeline.FormatDOT
	if opts.svg {
		format = pipeline.FormatSVG
	}
	artifacts, cached, err := runner.RenderWithCacheInfo(ctx, res, pipeline.Options{
		GraphFormats: []string{format},
		Kinds:        splitList(opts.kinds),
		Detailed:     opts.detailed,
		Refresh:      opts.refresh,
	})
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("graph ready", "format", format, "cached", cached, "bytes", len(artifacts[format]))

	if _, err := w.Write(artifacts[format]); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	return nil
}
