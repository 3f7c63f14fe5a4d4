package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"tra-converter/internal/config"
	"tra-converter/internal/convert"
	"tra-converter/internal/diag"
	"tra-converter/internal/parser"
	"tra-converter/internal/ranges"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// exitUsage is returned for invalid invocations. Failures of individual
// conversions are logged and do not change the exit code.
const exitUsage = 2

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(exitUsage)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tra-converter",
		Short: "Convert game dialogue files between .tra and .po/.json",
		Long: `Converts indexed dialogue files (.tra) to bilingual translation catalogs (.po)
or tables (.json) and back, normalizing text encodings and reporting which
index ranges carry text.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("root", "", "Root directory of the language folders (overrides TRA_ROOT)")
	flags.String("log-level", "", "Log level: debug, info, warn, error (overrides TRA_LOG_LEVEL)")
	flags.String("target-encoding", "", "Encoding of the target-language .tra files (overrides TRA_TARGET_ENCODING)")
	flags.Bool("fix-encoding", false, "Rewrite undecodable inputs as UTF-8, keeping a .orig backup")
	flags.Bool("fallback-source", false, "Use the source text where a translation is empty")
	flags.String("compare", "", "Range comparison mode: interval or string")
	flags.Int("workers", 0, "Concurrent conversions in batch mode")

	for _, v := range verbs {
		rootCmd.AddCommand(convertCmd(v))
	}
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(rangesCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(normalizeCmd())

	return rootCmd
}

// verb names one conversion: a direction and a bilingual format.
type verb struct {
	name      string
	direction convert.Direction
	format    string
}

var verbs = []verb{
	{"tra-to-po", convert.Forward, "po"},
	{"po-to-tra", convert.Backward, "po"},
	{"tra-to-json", convert.Forward, "json"},
	{"json-to-tra", convert.Backward, "json"},
}

// parseVerb accepts verb names with hyphens or underscores.
func parseVerb(name string) (verb, error) {
	name = strings.ReplaceAll(strings.ToLower(name), "_", "-")
	for _, v := range verbs {
		if v.name == name {
			return v, nil
		}
	}
	names := make([]string, len(verbs))
	for i, v := range verbs {
		names[i] = v.name
	}
	return verb{}, fmt.Errorf("unknown conversion %q (want one of %s)", name, strings.Join(names, ", "))
}

func (v verb) describe() string {
	if v.direction == convert.Backward {
		return fmt.Sprintf("Convert a finished .%s file to a target-language .tra file", v.format)
	}
	return fmt.Sprintf("Convert a .tra pair to a working .%s file", v.format)
}

func convertCmd(v verb) *cobra.Command {
	return &cobra.Command{
		Use:     v.name + " <base-name>",
		Aliases: []string{strings.ReplaceAll(v.name, "-", "_")},
		Short:   v.describe(),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, v, args[0])
		},
	}
}

func batchCmd() *cobra.Command {
	names := make([]string, len(verbs))
	for i, v := range verbs {
		names[i] = v.name
	}
	return &cobra.Command{
		Use:       "batch <conversion>",
		Short:     "Run one conversion for every file in its input directory",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseVerb(args[0])
			if err != nil {
				return err
			}
			return runBatch(cmd, v)
		},
	}
}

func rangesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ranges <file>",
		Short: "Print the index ranges with and without text in a .tra, .po or .json file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRanges(cmd, args[0])
		},
	}
}

func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <file-a> <file-b>",
		Short: "Report index ranges with text in one file but not the other",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args[0], args[1])
		},
	}
}

func normalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize <file>",
		Short: "Detect a file's encoding and rewrite it as UTF-8",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			return runNormalize(cmd, args[0], dryRun)
		},
	}

	cmd.Flags().Bool("dry-run", false, "Only report the detected encoding")

	return cmd
}

// loadConfig reads the environment and applies the flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root, _ = flags.GetString("root")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("target-encoding") {
		cfg.TargetEncoding, _ = flags.GetString("target-encoding")
	}
	if flags.Changed("fix-encoding") {
		cfg.FixEncoding, _ = flags.GetBool("fix-encoding")
	}
	if flags.Changed("fallback-source") {
		cfg.FallbackSource, _ = flags.GetBool("fallback-source")
	}
	if flags.Changed("compare") {
		cfg.RangeCompare, _ = flags.GetString("compare")
	}
	if flags.Changed("workers") {
		cfg.WorkerCount, _ = flags.GetInt("workers")
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	return cfg, nil
}

// setupConverter loads the configuration and creates a converter. With
// ensureDirs set, the directory layout is created as well.
func setupConverter(cmd *cobra.Command, ensureDirs bool) (*config.Config, *convert.Converter, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	conv, err := convert.New(cfg, log.Logger)
	if err != nil {
		return nil, nil, err
	}
	if ensureDirs {
		if err := conv.EnsureDirs(); err != nil {
			return nil, nil, err
		}
	}
	return cfg, conv, nil
}

func codecFor(format string) (parser.Codec, error) {
	codec, ok := parser.ForFormat(format)
	if !ok {
		return nil, fmt.Errorf("no codec for format %q", format)
	}
	return codec, nil
}

// runConvert handles the single-file conversion commands.
func runConvert(cmd *cobra.Command, v verb, base string) error {
	_, conv, err := setupConverter(cmd, true)
	if err != nil {
		return err
	}
	codec, err := codecFor(v.format)
	if err != nil {
		return err
	}

	convertFn := conv.ToBilingual
	if v.direction == convert.Backward {
		convertFn = conv.FromBilingual
	}
	if _, err := convertFn(base, codec); err != nil {
		logFailure(base, err)
	}
	return nil
}

// runBatch handles the `batch` command.
func runBatch(cmd *cobra.Command, v verb) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg, conv, err := setupConverter(cmd, true)
	if err != nil {
		return err
	}
	codec, err := codecFor(v.format)
	if err != nil {
		return err
	}

	tasks, err := conv.Batch(ctx, v.direction, codec, cfg.WorkerCount)
	if err != nil {
		return err
	}

	var failed, issues int
	for _, task := range tasks {
		if task.Result != nil {
			issues += len(task.Result.Issues)
		}
		if task.Err != nil {
			failed++
			logFailure(task.Input.Path, task.Err)
		}
	}

	log.Info().
		Str("conversion", v.name).
		Int("files", len(tasks)).
		Int("failed", failed).
		Int("issues", issues).
		Msg("Batch conversion complete")
	return nil
}

// runRanges handles the `ranges` command.
func runRanges(cmd *cobra.Command, path string) error {
	_, conv, err := setupConverter(cmd, false)
	if err != nil {
		return err
	}

	doc, _ := conv.LoadDocument(path)
	rep := ranges.Compute(doc)

	out := cmd.OutOrStdout()
	printRanges(out, "present", ranges.Strings(rep.Present))
	printRanges(out, "empty", ranges.Strings(rep.Empty))
	return nil
}

// runCompare handles the `compare` command.
func runCompare(cmd *cobra.Command, pathA, pathB string) error {
	cfg, conv, err := setupConverter(cmd, false)
	if err != nil {
		return err
	}
	mode, err := ranges.ParseMode(cfg.RangeCompare)
	if err != nil {
		return err
	}

	docA, _ := conv.LoadDocument(pathA)
	docB, _ := conv.LoadDocument(pathB)
	diff := ranges.Compare(mode, ranges.Compute(docA).Present, ranges.Compute(docB).Present)

	out := cmd.OutOrStdout()
	printRanges(out, "missing", diff.Missing)
	printRanges(out, "extra", diff.Extra)
	return nil
}

// runNormalize handles the `normalize` command.
func runNormalize(cmd *cobra.Command, path string, dryRun bool) error {
	_, conv, err := setupConverter(cmd, false)
	if err != nil {
		return err
	}

	n, err := conv.NormalizeFile(path, dryRun)
	if err != nil {
		logFailure(path, err)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (confidence %d, changed %t)\n", path, n.Original, n.Confidence, n.Changed)
	return nil
}

func printRanges(w io.Writer, label string, rs []string) {
	fmt.Fprintf(w, "%s: %s\n", label, strings.Join(rs, ", "))
}

func logFailure(name string, err error) {
	log.Error().
		Err(err).
		Str("name", name).
		Str("kind", string(diag.Classify(err))).
		Msg("Conversion failed")
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
