package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	errs "github.com/matzehuels/lockparse/pkg/errors"
	"github.com/matzehuels/lockparse/pkg/locate"
	"github.com/matzehuels/lockparse/pkg/pipeline"
)

// scanOpts holds the command-line flags for the scan command.
type scanOpts struct {
	concurrency int
	failFast    bool
	refresh     bool
}

// scanResult is the outcome for one scanned directory.
type scanResult struct {
	Dir      string
	Path     string
	Format   string
	Packages int
	Edges    int
	Cached   bool
	Err      error
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var opts scanOpts

	cmd := &cobra.Command{
		Use:   "scan <dir>...",
		Short: "Parse the lock files of many directories",
		Long: `Parse the lock file of each directory concurrently and print a summary.

A directory that fails is reported in the summary; the scan continues unless
--fail-fast is set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			if opts.concurrency <= 0 {
				opts.concurrency = c.Config.Scan.Concurrency
			}

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Scanning %d directories", len(args)))
			spinner.Start()
			results, err := runScan(ctx, runner, args, opts, func(done, total int) {
				spinner.SetMessage(fmt.Sprintf("Scanned %d/%d", done, total))
			})
			spinner.Stop()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderScanTable(results))
			failed := countFailed(results)
			if failed > 0 {
				printWarning("%d of %d directories failed", failed, len(results))
			} else {
				printSuccess("Scanned %d directories", len(results))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", 0, "parallel parses (default from config)")
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "stop at the first failing directory")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")

	return cmd
}

// runScan parses the lock file in each dir with at most opts.concurrency
// parses in flight. Results keep the order of dirs. Per-directory failures
// are recorded in the result unless opts.failFast is set, in which case the
// first one is returned and the remaining parses are cancelled.
func runScan(ctx context.Context, runner *pipeline.Runner, dirs []string, opts scanOpts, onProgress func(done, total int)) ([]scanResult, error) {
	results := make([]scanResult, len(dirs))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	if opts.concurrency > 0 {
		g.SetLimit(opts.concurrency)
	}

	for i, dir := range dirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = scanOne(gctx, runner, dir, opts.refresh)
			if onProgress != nil {
				onProgress(int(done.Add(1)), len(dirs))
			}
			if opts.failFast && results[i].Err != nil {
				return fmt.Errorf("%s: %w", dir, results[i].Err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func scanOne(ctx context.Context, runner *pipeline.Runner, dir string, refresh bool) scanResult {
	r := scanResult{Dir: dir}
	src, err := locate.Load(dir)
	if err != nil {
		r.Err = err
		return r
	}
	r.Path = src.Path

	res, err := runner.Parse(ctx, pipeline.Options{Text: src.Text, Source: src.Path, Refresh: refresh})
	if err != nil {
		r.Err = err
		return r
	}
	r.Format = res.Format.String()
	r.Packages = res.Stats.Packages
	r.Edges = res.Stats.Edges
	r.Cached = res.CacheInfo.ParseHit
	return r
}

func countFailed(results []scanResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// renderScanTable formats results as a bordered table, one row per directory.
func renderScanTable(results []scanResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		file := "—"
		if r.Path != "" {
			file = filepath.Base(r.Path)
		}
		if r.Err != nil {
			status := string(errs.GetCode(r.Err))
			if status == "" {
				status = "ERROR"
			}
			rows = append(rows, []string{r.Dir, file, "—", "—", "—", status})
			continue
		}
		status := iconFresh
		if r.Cached {
			status = iconCached
		}
		rows = append(rows, []string{r.Dir, file, r.Format, strconv.Itoa(r.Packages), strconv.Itoa(r.Edges), status})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Directory", "Lock file", "Format", "Packages", "Edges", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if row < len(results) && results[row].Err != nil && col == 5 {
				return cell.Foreground(colorRed)
			}
			if col == 3 || col == 4 {
				return cell.Align(lipgloss.Right)
			}
			return cell
		})

	return t.Render()
}
