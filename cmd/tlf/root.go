package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/tlf/internal/config"
	"github.com/jonathan/tlf/internal/endpoint"
	"github.com/jonathan/tlf/internal/observability"
	"github.com/jonathan/tlf/internal/pipeline"
	"github.com/jonathan/tlf/internal/rendering"
	"github.com/jonathan/tlf/internal/types"
)

var rootCmd = &cobra.Command{
	Use:   "tlf [query...]",
	Short: "Look up people and companies on gulesider.no",
	Long: `tlf looks up a name, company or phone number in the Norwegian directory
gulesider.no and prints names, addresses and phone numbers.

All arguments are joined into a single query:

  tlf Blå Rock Cafe
  tlf 77610020`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runLookup,
}

var (
	cfgFile    string
	origin     string
	locale     string
	timeout    time.Duration
	output     string
	color      bool
	useBrowser bool
	verbose    bool
	rateLimit  float64

	settings config.Config
	logger   *zap.Logger
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Path to config file (json, yaml or toml)")
	flags.StringVar(&origin, "origin", "", "Directory site origin (default https://www.gulesider.no)")
	flags.StringVar(&locale, "locale", "", "Locale segment of the search data path (default nb)")
	flags.DurationVar(&timeout, "timeout", 0, "Per-request timeout (default 10s)")
	flags.StringVarP(&output, "output", "o", "", "Output format: plain, table or json")
	flags.BoolVar(&color, "color", false, "Print names in bold when stdout is a terminal")
	flags.BoolVar(&useBrowser, "use-browser", false, "Render the front page in headless Chrome if the deployment token is missing")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print debug logs and lookup details to stderr")
	flags.Float64Var(&rateLimit, "rate", 0, "Maximum requests per second to the site (0 = unlimited)")
}

// setup loads configuration, applies explicit flags on top and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("origin") {
		cfg.Origin = origin
	}
	if flags.Changed("locale") {
		cfg.Locale = locale
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if flags.Changed("output") {
		cfg.Output = output
	}
	if flags.Changed("color") {
		cfg.Color = color
	}
	if flags.Changed("use-browser") {
		cfg.UseBrowser = useBrowser
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("rate") {
		cfg.RateLimit = rateLimit
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = concurrency
	}

	merged := cfg.MergeWithDefaults(config.Default())
	if err := merged.Validate(); err != nil {
		return err
	}
	settings = merged

	logger, err = observability.NewLogger(settings.Verbose)
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded",
		zap.String("origin", settings.Origin),
		zap.String("locale", settings.Locale),
		zap.Duration("timeout", settings.Timeout),
		zap.String("output", settings.Output))

	return nil
}

// newClient builds a pipeline client from the loaded settings. In verbose
// mode the resolved endpoint is printed to stderr.
func newClient(cmd *cobra.Command) *pipeline.Client {
	var onProgress pipeline.ProgressCallback
	if settings.Verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		start := time.Now()
		onProgress = func(e pipeline.ProgressEvent) {
			if ep, ok := e.Content.(*endpoint.Endpoint); ok && e.Step == pipeline.StepResolve {
				printer.PrintEndpoint(ep, time.Since(start))
			}
		}
	}

	return pipeline.New(pipeline.Options{
		Origin:     settings.Origin,
		Locale:     settings.Locale,
		Timeout:    settings.Timeout,
		UserAgent:  settings.UserAgent,
		UseBrowser: settings.UseBrowser,
		RateLimit:  settings.RateLimit,
		Logger:     logger,
		OnProgress: onProgress,
	})
}

func runLookup(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	query := strings.Join(args, " ")

	outcome, err := newClient(cmd).Lookup(cmd.Context(), query)
	if err != nil {
		return err
	}

	if settings.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintOutcome(outcome)
	}
	return writeOutcome(cmd.OutOrStdout(), outcome)
}

// renderOptions drops --color when w is not a terminal, so piped output
// stays free of escape codes.
func renderOptions(w io.Writer) rendering.Options {
	return rendering.Options{
		Format: rendering.Format(settings.Output),
		Color:  settings.Color && rendering.IsTerminal(w),
	}
}

// writeOutcome prints one query's result in the configured format.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func writeOutcome(w io.Writer, outcome *types.Outcome) error {
	opts := renderOptions(w)

	if opts.Format == rendering.FormatJSON {
		body, err := rendering.RenderWith(outcome.Results, opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, body)
		return nil
	}

	if outcome.NoResults() {
		fmt.Fprintln(w, rendering.NoResultsMessage(outcome.Query))
		return nil
	}

	body, err := rendering.RenderWith(outcome.Results, opts)
	if err != nil {
		return err
	}
	if opts.Format != rendering.FormatTable {
		fmt.Fprintln(w, rendering.Header(outcome.Query, len(outcome.Results)))
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, body)
	return nil
}
