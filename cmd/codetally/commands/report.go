// Package commands implements the CLI command handlers for codetally.
package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/codetally/codetally/internal/classify"
	"github.com/codetally/codetally/internal/config"
	"github.com/codetally/codetally/internal/filter"
	"github.com/codetally/codetally/internal/report"
	"github.com/codetally/codetally/internal/tally"
	"github.com/codetally/codetally/pkg/gitlib"
)

// ReportCommand holds the flag state for the contribution report.
type ReportCommand struct {
	repository string
	module     string
	since      string
	until      string

	noBot    bool
	noRoot   bool
	noUbuntu bool

	sortBy string
	order  string
	format string

	skipEmpty   bool
	noVendor    bool
	firstParent bool

	configPath string
	verbose    bool
}

// NewReportCommand creates the root command. The report runs directly on the
// root so the CLI stays a single-purpose tool.
func NewReportCommand() *cobra.Command {
	rc := &ReportCommand{}

	cmd := &cobra.Command{
		Use:   "codetally [glob...]",
		Short: "Per-author contribution statistics for a git repository",
		Long: `codetally walks a repository's commit history and reports, per author,
the commit count and the lines added and deleted, with optional time-window,
path-glob and bot/system-account filtering.

Author identities are canonicalized through the repository's .mailmap before
any filtering; the aggregation key is the canonical author name.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          rc.run,
	}

	cmd.Flags().StringVarP(&rc.repository, "repository", "r", ".", "Repository path")
	cmd.Flags().StringVarP(&rc.module, "module", "m", "", "Module label prepended to each output row")
	cmd.Flags().StringVarP(&rc.since, "since", "s", "", "Only count commits at or after this time (YYYY-MM-DD, 'YYYY-MM-DD HH:MM:SS', RFC3339, or e.g. '72h')")
	cmd.Flags().StringVarP(&rc.until, "until", "u", "", "Only count commits at or before this time (same formats as --since)")

	cmd.Flags().BoolVar(&rc.noBot, "no-bot", false, "Exclude bot accounts (canonical name containing a bot pattern)")
	cmd.Flags().BoolVar(&rc.noRoot, "no-root", false, "Exclude commits authored by 'root'")
	cmd.Flags().BoolVar(&rc.noUbuntu, "no-ubuntu", false, "Exclude commits authored by 'ubuntu'")

	cmd.Flags().StringVar(&rc.sortBy, "sort-by", "commits", "Sort field: name, email, commits, added, deleted")
	cmd.Flags().StringVar(&rc.order, "order", "desc", "Sort order: asc, desc")
	cmd.Flags().StringVar(&rc.format, "format", config.FormatText, "Output format: text, table, plot")

	cmd.Flags().BoolVar(&rc.skipEmpty, "skip-empty", false, "Skip commits with no line changes after path filtering")
	cmd.Flags().BoolVar(&rc.noVendor, "no-vendor", false, "Exclude vendored and generated paths from the stats")
	cmd.Flags().BoolVar(&rc.firstParent, "first-parent", false, "Follow only first parent of merge commits")

	cmd.Flags().StringVar(&rc.configPath, "config", "", "Config file path (default: codetally.yaml in ., ./config, /etc/codetally)")
	cmd.Flags().BoolVarP(&rc.verbose, "verbose", "v", false, "Print progress to stderr")

	return cmd
}

func (rc *ReportCommand) run(cmd *cobra.Command, globs []string) error {
	cfg, err := config.LoadConfig(rc.configPath)
	if err != nil {
		return err
	}

	rc.applyConfigDefaults(cmd, cfg)

	// All configuration errors surface before any repository access.
	filterCfg, err := rc.buildFilterConfig(cfg, globs)
	if err != nil {
		return err
	}

	sortField, err := filter.ParseSortField(rc.sortBy)
	if err != nil {
		return err
	}

	sortOrder, err := filter.ParseSortOrder(rc.order)
	if err != nil {
		return err
	}

	err = config.ValidateFormat(rc.format)
	if err != nil {
		return err
	}

	rows, err := rc.collect(cmd.ErrOrStderr(), filterCfg)
	if err != nil {
		return err
	}

	tally.SortRows(rows, sortField, sortOrder)

	return rc.render(cmd.OutOrStdout(), rows, filterCfg)
}

// applyConfigDefaults backfills flag values the user did not set from the
// config file / environment.
func (rc *ReportCommand) applyConfigDefaults(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if !flags.Changed("sort-by") {
		rc.sortBy = cfg.Report.SortBy
	}

	if !flags.Changed("order") {
		rc.order = cfg.Report.Order
	}

	if !flags.Changed("format") {
		rc.format = cfg.Report.Format
	}

	if !flags.Changed("skip-empty") {
		rc.skipEmpty = cfg.Report.SkipEmpty
	}

	if !flags.Changed("no-bot") {
		rc.noBot = cfg.Exclude.Bots
	}

	if !flags.Changed("no-root") {
		rc.noRoot = cfg.Exclude.Root
	}

	if !flags.Changed("no-ubuntu") {
		rc.noUbuntu = cfg.Exclude.Ubuntu
	}

	if !flags.Changed("no-vendor") {
		rc.noVendor = cfg.Exclude.Vendored
	}
}

func (rc *ReportCommand) buildFilterConfig(cfg *config.Config, globs []string) (*filter.Config, error) {
	filterCfg := &filter.Config{
		PathGlobs:       globs,
		ExcludeBots:     rc.noBot,
		ExcludeRoot:     rc.noRoot,
		ExcludeUbuntu:   rc.noUbuntu,
		BotPatterns:     cfg.Exclude.BotPatterns,
		SkipEmpty:       rc.skipEmpty,
		ExcludeVendored: rc.noVendor,
		FirstParent:     rc.firstParent,
		Module:          rc.module,
	}

	if rc.since != "" {
		since, err := gitlib.ParseTime(rc.since)
		if err != nil {
			return nil, fmt.Errorf("--since: %w", err)
		}

		filterCfg.Since = &since
	}

	if rc.until != "" {
		until, err := gitlib.ParseTime(rc.until)
		if err != nil {
			return nil, fmt.Errorf("--until: %w", err)
		}

		filterCfg.Until = &until
	}

	return filterCfg, nil
}

// collect runs the single-pass pipeline: walk commits, classify each one,
// fold qualifying records into the aggregator.
func (rc *ReportCommand) collect(progress io.Writer, filterCfg *filter.Config) ([]tally.Row, error) {
	start := time.Now()

	rc.progressf(progress, "scanning %s", rc.repository)

	repo, err := gitlib.LoadRepository(rc.repository)
	if err != nil {
		return nil, err
	}
	defer repo.Free()

	mailmap, err := repo.Mailmap()
	if err != nil {
		return nil, err
	}
	defer mailmap.Free()

	iter, err := repo.Log(&gitlib.LogOptions{FirstParent: filterCfg.FirstParent})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	classifier := &classify.Classifier{
		Repo:           repo,
		Mailmap:        mailmap,
		Config:         filterCfg,
		TrackLanguages: rc.format != config.FormatText,
	}

	agg := tally.NewAggregator()
	visited := 0

	err = iter.ForEach(func(commit *gitlib.Commit) error {
		visited++

		rec, ok, classifyErr := classifier.Classify(commit)
		if classifyErr != nil {
			return classifyErr
		}

		if ok {
			agg.Add(rec)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	rc.progressf(progress, "visited %d commits, %d authors in %s",
		visited, agg.Len(), time.Since(start).Round(time.Millisecond))

	return agg.Rows(), nil
}

func (rc *ReportCommand) render(w io.Writer, rows []tally.Row, filterCfg *filter.Config) error {
	opts := report.Options{
		Module:    filterCfg.Module,
		SkipEmpty: filterCfg.SkipEmpty,
	}

	switch rc.format {
	case config.FormatTable:
		return report.WriteTable(w, rows, opts)
	case config.FormatPlot:
		return report.WritePlot(w, rows, opts)
	default:
		return report.WriteText(w, rows, opts)
	}
}

func (rc *ReportCommand) progressf(w io.Writer, format string, args ...any) {
	if !rc.verbose {
		return
	}

	_, _ = fmt.Fprintf(w, "progress: "+format+"\n", args...)
}
