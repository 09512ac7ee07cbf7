package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"wgslfront/internal/builtin"
	"wgslfront/internal/config"
	"wgslfront/internal/diag"
	"wgslfront/internal/diagfmt"
	"wgslfront/internal/driver"
	"wgslfront/internal/fix"
	"wgslfront/internal/observ"
	"wgslfront/internal/source"
	"wgslfront/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.wgsl|directory>",
	Short: "Parse, resolve and validate WGSL sources",
	Long: `Check runs the full front end on a file or on every *.wgsl file in a
directory and prints diagnostics. The exit status is 1 if any error was found.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	checkCmd.Flags().StringSlice("enable", nil, "enable extensions in addition to the config file (e.g. f16)")
	checkCmd.Flags().Uint("max-errors", 0, "stop parsing a file after this many syntax errors (0=config default)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	checkCmd.Flags().Bool("watch", false, "re-check when sources or the config file change")
	checkCmd.Flags().String("config", "", "path to "+config.FileName+" (default: search upwards)")
	checkCmd.Flags().Bool("no-cache", false, "do not read or write the on-disk result cache")
	checkCmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("preview", false, "show before/after lines for fix suggestions")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("fix", false, "apply suggested fixes to the files, then check again")
	checkCmd.Flags().Bool("no-dialect-hints", false, "do not point out GLSL/HLSL/Metal syntax in failing files")
}

type checkFlags struct {
	format    string
	enable    []string
	maxErrors uint
	jobs      int
	ui        uiMode
	watch     bool
	config    string
	noCache   bool
	withNotes bool
	suggest   bool
	preview   bool
	fullpath  bool
	fix       bool
	noDialect bool

	quiet          bool
	timings        bool
	maxDiagnostics int
	maxDiagSet     bool
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var f checkFlags
	var err error
	flags := cmd.Flags()
	if f.format, err = flags.GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f.format {
	case "pretty", "short", "json", "sarif":
	default:
		return f, fmt.Errorf("unknown format: %s", f.format)
	}
	if f.enable, err = flags.GetStringSlice("enable"); err != nil {
		return f, fmt.Errorf("failed to get enable flag: %w", err)
	}
	if f.maxErrors, err = flags.GetUint("max-errors"); err != nil {
		return f, fmt.Errorf("failed to get max-errors flag: %w", err)
	}
	if f.jobs, err = flags.GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = parseUIMode(uiValue); err != nil {
		return f, err
	}
	if f.watch, err = flags.GetBool("watch"); err != nil {
		return f, fmt.Errorf("failed to get watch flag: %w", err)
	}
	if f.config, err = flags.GetString("config"); err != nil {
		return f, fmt.Errorf("failed to get config flag: %w", err)
	}
	if f.noCache, err = flags.GetBool("no-cache"); err != nil {
		return f, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if f.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.suggest, err = flags.GetBool("suggest"); err != nil {
		return f, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if f.preview, err = flags.GetBool("preview"); err != nil {
		return f, fmt.Errorf("failed to get preview flag: %w", err)
	}
	if f.fullpath, err = flags.GetBool("fullpath"); err != nil {
		return f, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if f.fix, err = flags.GetBool("fix"); err != nil {
		return f, fmt.Errorf("failed to get fix flag: %w", err)
	}
	if f.noDialect, err = flags.GetBool("no-dialect-hints"); err != nil {
		return f, fmt.Errorf("failed to get no-dialect-hints flag: %w", err)
	}

	root := cmd.Root().PersistentFlags()
	if f.quiet, err = root.GetBool("quiet"); err != nil {
		return f, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if f.timings, err = root.GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if f.maxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return f, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	f.maxDiagSet = root.Changed("max-diagnostics")
	return f, nil
}

// checkTarget is what one check round runs over.
type checkTarget struct {
	root  string // directory walked and watched
	files []string
	isDir bool
}

func runCheck(cmd *cobra.Command, args []string) error {
	cleanup, err := setupRuntime(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := cmd.Context()
	defer dumpTraceOnPanic(ctx)

	flags, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}

	target, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", args[0], err)
	}

	var disk *driver.DiskCache
	if !flags.noCache {
		disk, err = driver.OpenDiskCache("wgslfront")
		if err != nil && !flags.quiet {
			fmt.Fprintf(os.Stderr, "cache disabled: %v\n", err)
		}
	}

	run := &checkRun{
		cmd:    cmd,
		flags:  flags,
		target: target,
		isDir:  st.IsDir(),
		disk:   disk,
		args:   os.Args[1:],
	}
	if flags.watch {
		run.mem = driver.NewMemCache(64)
	}

	ok, err := run.once(ctx)
	if err != nil {
		return err
	}
	if !flags.watch {
		if !ok {
			exitCode = 1
		}
		return nil
	}
	return run.watch(ctx)
}

// checkRun holds what survives between rounds of --watch.
type checkRun struct {
	cmd    *cobra.Command
	flags  checkFlags
	target string
	isDir  bool
	disk   *driver.DiskCache
	mem    *driver.MemCache
	args   []string
}

func (r *checkRun) root() string {
	if r.isDir {
		return r.target
	}
	return filepath.Dir(r.target)
}

// loadSettings reads the config file and merges command-line overrides.
// Config diagnostics go to cfgBag; ok is false when they contain errors.
func (r *checkRun) loadSettings() (driver.Options, *config.Config, *source.FileSet, *diag.Bag, error) {
	var (
		cfg *config.Config
		err error
	)
	if r.flags.config != "" {
		cfg, err = config.Load(r.flags.config)
	} else {
		cfg, err = config.Discover(r.root())
	}
	if err != nil {
		return driver.Options{}, nil, nil, nil, err
	}

	cfgFS := source.NewFileSetWithBase(r.root())
	cfgBag := diag.NewBag(0)
	settings, err := cfg.Resolve(cfgFS, diag.BagReporter{Bag: cfgBag}, version.Version)
	if err != nil {
		return driver.Options{}, nil, nil, nil, err
	}

	opts := driver.Options{
		Extensions:     settings.Extensions,
		RuleSeverity:   settings.RuleSeverity,
		MaxErrors:      settings.MaxErrors,
		MaxDiagnostics: settings.MaxDiagnostics,
		Timings:        r.flags.timings,
		NoDialectHints: r.flags.noDialect,
	}
	for _, name := range r.flags.enable {
		for _, part := range strings.Split(name, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			ext := builtin.ParseExtension(part)
			if ext == builtin.ExtensionUndefined {
				return opts, nil, nil, nil, fmt.Errorf("unknown extension %q (known: %s)", part, strings.Join(builtin.ExtensionStrings(), ", "))
			}
			opts.Extensions = opts.Extensions.With(ext)
		}
	}
	if r.flags.maxErrors > 0 {
		opts.MaxErrors = r.flags.maxErrors
	}
	if r.flags.maxDiagSet {
		opts.MaxDiagnostics = r.flags.maxDiagnostics
	}
	return opts, cfg, cfgFS, cfgBag, nil
}

func (r *checkRun) listFiles(cfg *config.Config) ([]string, error) {
	if !r.isDir {
		return []string{r.target}, nil
	}
	return driver.ListFiles(r.target, cfg.Check.Selects)
}

// once runs a single check round and prints the result. ok is false when
// any error diagnostic was produced.
func (r *checkRun) once(ctx context.Context) (bool, error) {
	opts, cfg, cfgFS, cfgBag, err := r.loadSettings()
	if err != nil {
		return false, err
	}
	if cfgBag.Len() > 0 {
		cfgBag.Sort()
		if cfgBag.HasErrors() {
			return false, r.render(r.cmd.OutOrStdout(), cfgBag, cfgFS)
		}
		if !r.flags.quiet {
			diagfmt.Pretty(os.Stderr, cfgBag, cfgFS, r.prettyOpts(os.Stderr))
		}
	}

	files, err := r.listFiles(cfg)
	if err != nil {
		return false, err
	}
	if len(files) == 0 {
		if !r.flags.quiet {
			fmt.Fprintf(os.Stderr, "no %s files in %s\n", driver.Ext, r.target)
		}
		return true, nil
	}

	dirOpts := driver.DirOptions{
		Options:     opts,
		Jobs:        r.flags.jobs,
		Disk:        r.disk,
		Mem:         r.mem,
		ToolVersion: version.Version,
	}

	var (
		fileSet *source.FileSet
		results []*driver.Result
	)
	if r.isDir && r.flags.ui.progress(r.flags.format, isTerminal(os.Stdout)) {
		title := fmt.Sprintf("checking %d file(s) in %s", len(files), filepath.Base(r.target))
		fileSet, results, err = runCheckWithUI(ctx, title, r.target, files, dirOpts)
	} else {
		fileSet, results, err = driver.CheckFiles(ctx, r.root(), files, dirOpts)
	}
	if err != nil {
		return false, err
	}

	bag := diag.NewBag(0)
	reports := make([]observ.Report, 0, len(results))
	for _, res := range results {
		if res == nil {
			continue
		}
		bag.Merge(res.Bag)
		if res.Timing != nil {
			reports = append(reports, *res.Timing)
		}
	}
	bag.Sort()

	if r.flags.fix && r.applyFixes(fileSet, bag) {
		// файлы изменились, проверяем заново без повторного исправления
		r.flags.fix = false
		defer func() { r.flags.fix = true }()
		return r.once(ctx)
	}

	if err := r.render(r.cmd.OutOrStdout(), bag, fileSet); err != nil {
		return false, err
	}
	if r.flags.timings && (r.flags.format == "pretty" || r.flags.format == "short") {
		fmt.Fprint(os.Stderr, observ.Aggregate(reports...).Summary())
	}
	if !r.flags.quiet && r.flags.format == "pretty" {
		printCheckSummary(os.Stderr, bag, len(files))
	}
	return !bag.HasErrors(), nil
}

// applyFixes writes every non-conflicting fix in bag and reports whether
// any file changed.
func (r *checkRun) applyFixes(fs *source.FileSet, bag *diag.Bag) bool {
	res, err := fix.Apply(fs, bag.Items(), fix.ApplyOptions{Mode: fix.ApplyModeAll})
	if errors.Is(err, fix.ErrNoFixes) {
		return false
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "fix: %v\n", err)
	}
	if !r.flags.quiet {
		for _, a := range res.Applied {
			fmt.Fprintf(os.Stderr, "fixed %s: %s (%s)\n", a.PrimaryPath, a.Title, a.Code.ID())
		}
		for _, sk := range res.Skipped {
			fmt.Fprintf(os.Stderr, "skipped fix %q: %s\n", sk.Title, sk.Reason)
		}
	}
	return len(res.FileChanges) > 0 && err == nil
}

func (r *checkRun) pathMode() diagfmt.PathMode {
	if r.flags.fullpath {
		return diagfmt.PathModeAbsolute
	}
	return diagfmt.PathModeRelative
}

func (r *checkRun) prettyOpts(w *os.File) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:       useColor(r.cmd, w),
		Context:     2,
		PathMode:    r.pathMode(),
		ShowNotes:   r.flags.withNotes,
		ShowFixes:   r.flags.suggest,
		ShowPreview: r.flags.preview,
	}
}

// render writes bag in the selected format. Text formats leave timing
// entries out; they are summarized separately.
func (r *checkRun) render(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	switch r.flags.format {
	case "pretty", "short":
		bag.Filter(func(d *diag.Diagnostic) bool { return d.Code != diag.ObsTimings })
		if r.flags.format == "short" {
			diagfmt.Short(w, bag, fs, r.pathMode())
			return nil
		}
		diagfmt.Pretty(w, bag, fs, r.prettyOpts(os.Stdout))
		return nil
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         r.pathMode(),
			IncludeNotes:     r.flags.withNotes,
			IncludeFixes:     r.flags.suggest,
			IncludePreviews:  r.flags.preview,
		})
	case "sarif":
		return diagfmt.Sarif(w, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "wgslfront",
			ToolVersion:    version.Version,
			InvocationArgs: r.args,
			PathMode:       r.pathMode(),
		})
	}
	return fmt.Errorf("unknown format: %s", r.flags.format)
}

func printCheckSummary(w io.Writer, bag *diag.Bag, files int) {
	errs := bag.ErrorCount()
	warns := 0
	for _, d := range bag.Items() {
		if d.Severity == diag.SevWarning {
			warns++
		}
	}
	if errs == 0 && warns == 0 {
		fmt.Fprintf(w, "checked %d file(s): no problems\n", files)
		return
	}
	fmt.Fprintf(w, "checked %d file(s): %d error(s), %d warning(s)\n", files, errs, warns)
}

// watch re-runs the check on every debounced batch of changes until
// interrupted. Changed files are evicted from the in-memory cache.
func (r *checkRun) watch(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if !r.flags.quiet {
		fmt.Fprintf(os.Stderr, "watching %s (Ctrl-C to stop)\n", r.root())
	}
	return driver.Watch(ctx, r.root(), config.FileName, func(paths []string) {
		if !r.isDir && !watchHits(paths, r.target) {
			return
		}
		for _, p := range paths {
			r.mem.Forget(p)
		}
		if !r.flags.quiet {
			fmt.Fprintf(os.Stderr, "\n--- %d change(s), re-checking\n", len(paths))
		}
		if _, err := r.once(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "check failed: %v\n", err)
		}
	})
}

// watchHits: for a single file only that file and the config matter.
func watchHits(paths []string, target string) bool {
	for _, p := range paths {
		if p == target || filepath.Base(p) == config.FileName {
			return true
		}
	}
	return false
}
