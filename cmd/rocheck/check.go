package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"rocheck/internal/diag"
	"rocheck/internal/diagfmt"
	"rocheck/internal/driver"
	"rocheck/internal/observ"
	"rocheck/internal/project"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [paths...]",
	Short: "Check readonly usage in tree documents",
	Long: `Check readonly usage in tree documents (*.rotree.json, *.rotree) or in every
matching document under the given directories. Without paths the current
directory is checked.`,
	RunE: runCheck,
}

// init registers CLI flags for the check command. Flags that mirror
// rocheck.toml keys override the file only when set explicitly.
func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().Int("max-diagnostics", 100, "maximum number of diagnostics to show (0 = all)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().Bool("write", false, "store rewritten trees (in place unless --out-dir)")
	checkCmd.Flags().String("out-dir", "", "directory for rewritten trees (implies --write)")
	checkCmd.Flags().Bool("cache", false, "reuse results from the disk cache")
	checkCmd.Flags().String("cache-dir", "", "disk cache directory (default $XDG_CACHE_HOME/rocheck)")
	checkCmd.Flags().String("ui", "off", "progress UI (auto|on|off)")
	checkCmd.Flags().Bool("timings", false, "show phase timings")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

type checkFlags struct {
	format    string
	maxDiags  int
	jobs      int
	write     bool
	outDir    string
	cache     bool
	cacheDir  string
	ui        uiMode
	timings   bool
	withNotes bool
	fullPath  bool
}

// readCheckFlags starts from the config and applies explicitly set flags.
func readCheckFlags(cmd *cobra.Command, cfg project.Config) (checkFlags, error) {
	f := checkFlags{
		format:   cfg.Check.Format,
		maxDiags: cfg.Check.MaxDiagnostics,
		jobs:     cfg.Check.Jobs,
		write:    cfg.Check.Write,
		cache:    cfg.Cache.Enabled,
		cacheDir: cfg.CacheDir(),
	}
	flags := cmd.Flags()
	var err error
	if flags.Changed("format") {
		if f.format, err = flags.GetString("format"); err != nil {
			return f, fmt.Errorf("failed to get format flag: %w", err)
		}
	}
	if flags.Changed("max-diagnostics") {
		if f.maxDiags, err = flags.GetInt("max-diagnostics"); err != nil {
			return f, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if flags.Changed("jobs") {
		if f.jobs, err = flags.GetInt("jobs"); err != nil {
			return f, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if flags.Changed("write") {
		if f.write, err = flags.GetBool("write"); err != nil {
			return f, fmt.Errorf("failed to get write flag: %w", err)
		}
	}
	if flags.Changed("cache") {
		if f.cache, err = flags.GetBool("cache"); err != nil {
			return f, fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	if flags.Changed("cache-dir") {
		if f.cacheDir, err = flags.GetString("cache-dir"); err != nil {
			return f, fmt.Errorf("failed to get cache-dir flag: %w", err)
		}
	}
	if f.outDir, err = flags.GetString("out-dir"); err != nil {
		return f, fmt.Errorf("failed to get out-dir flag: %w", err)
	}
	if f.outDir != "" {
		f.write = true
	}
	uiStr, err := flags.GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiStr); err != nil {
		return f, err
	}
	if f.timings, err = flags.GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if f.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.fullPath, err = flags.GetBool("fullpath"); err != nil {
		return f, fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	// проверяем итоговые значения тем же валидатором, что и файл
	merged := cfg
	merged.Check.Format = f.format
	merged.Check.MaxDiagnostics = f.maxDiags
	merged.Check.Jobs = f.jobs
	if err := merged.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

// runCheck executes the "check" command. Error diagnostics set exit status 1;
// returned errors are reserved for flag, config and IO failures of the run
// itself.
func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	cfg := cli.config
	f, err := readCheckFlags(cmd, cfg)
	if err != nil {
		return err
	}
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	opts := driver.Options{
		Jobs:    f.jobs,
		Include: cfg.Check.Include,
		Write:   f.write,
		OutDir:  f.outDir,
	}
	if f.cache {
		cache, err := driver.OpenDiskCache("rocheck", f.cacheDir)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		opts.Cache = cache
	}
	var timer *observ.Timer
	if f.timings {
		timer = observ.NewTimer()
		opts.Timer = timer
	}

	var run *driver.Run
	if shouldUseTUI(f.ui) {
		files, err := driver.ExpandPaths(paths, opts.Include)
		if err != nil {
			return err
		}
		run, err = runCheckWithUI(cmd.Context(), "rocheck check", files, paths, opts)
		if err != nil {
			return err
		}
	} else {
		run, err = driver.CheckPaths(cmd.Context(), paths, opts)
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
	}

	bag := diag.NewBag(0)
	for _, res := range run.Files {
		bag.Merge(res.Bag)
	}
	if d, ok := run.TimingDiagnostic(timer); ok && f.format == "json" {
		bag.Add(d)
	}

	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	if err := renderDiagnostics(cmd.OutOrStdout(), bag, run, f, color); err != nil {
		return err
	}

	if f.format != "json" && !quiet(cmd) {
		errOut := cmd.ErrOrStderr()
		if timer != nil {
			fmt.Fprint(errOut, timer.Summary())
		}
		printRunSummary(errOut, run)
	}

	if run.HasErrors() {
		exitCode = 1
	}
	return nil
}

func renderDiagnostics(out io.Writer, bag *diag.Bag, run *driver.Run, f checkFlags, color bool) error {
	pathMode := diagfmt.PathModeAuto
	if f.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch f.format {
	case "pretty":
		diagfmt.Pretty(out, bag, run.FileSet, diagfmt.PrettyOpts{
			Color:     color,
			Context:   2,
			PathMode:  pathMode,
			ShowNotes: f.withNotes,
			Max:       f.maxDiags,
		})
	case "short":
		items := bag.Pointers()
		if f.maxDiags > 0 && len(items) > f.maxDiags {
			items = items[:f.maxDiags]
		}
		if output := diag.FormatShortDiagnostics(items, run.FileSet, f.withNotes); output != "" {
			fmt.Fprintln(out, output)
		}
	case "json":
		if err := diagfmt.JSON(out, bag, run.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			Max:              f.maxDiags,
			IncludeNotes:     f.withNotes,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", f.format)
	}
	return nil
}

func printRunSummary(out io.Writer, run *driver.Run) {
	errs, warns := 0, 0
	written := 0
	for _, res := range run.Files {
		e, w, _ := res.Bag.CountBySeverity()
		errs += e
		warns += w
		if res.Written != "" {
			written++
		}
	}
	m := run.Metrics
	fmt.Fprintf(out, "checked %d file(s): %d error(s), %d warning(s), %d wrapper(s) inserted", m.Files, errs, warns, m.Wraps)
	if m.CacheHits > 0 {
		fmt.Fprintf(out, ", %d cached", m.CacheHits)
	}
	if written > 0 {
		fmt.Fprintf(out, ", %d written", written)
	}
	fmt.Fprintln(out)
}
