package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/lys-lab/txt2bin/internal/config"
	"github.com/lys-lab/txt2bin/internal/convert"
	"github.com/lys-lab/txt2bin/internal/ui"
	"github.com/lys-lab/txt2bin/pkg/log"
	"github.com/spf13/cobra"
)

// globalFlags holds flags shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	logFile    string
}

var (
	flags     globalFlags
	skipBlank bool
)

// rootCmd converts a text file of hex literals when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "txt2bin [input] [output]",
	Short: "Convert a text file of hex literals into 4-byte little-endian words",
	Long: `txt2bin reads one base-16 integer literal per line and writes each value
as a 4-byte little-endian word, producing a .x program image.

The input defaults to mytest.txt and the output to mytest.x.`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(args, flags, skipBlank, cmd.Flags().Changed)
		if err != nil {
			return err
		}
		_, err = runConvert(cmd.OutOrStdout(), cfg)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError(os.Stderr, "error", err.Error())
		os.Exit(1)
	}
}

// init initializes the root command and its flags.
func init() {
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Append logs to this file instead of stderr")
	rootCmd.Flags().BoolVar(&skipBlank, "skip-blank", false, "Skip blank input lines instead of failing")
}

// resolveConfig merges defaults, the config file, and the command line.
//
// Parameters:
//   - args: Positional arguments, [input] [output].
//   - f: Global flag values.
//   - skip: Value of --skip-blank.
//   - changed: Reports whether a flag was set on the command line.
//
// Returns:
//   - *config.Config: The validated configuration.
//   - error: An error if the config file cannot be loaded or the result is invalid.
func resolveConfig(args []string, f globalFlags, skip bool, changed func(string) bool) (*config.Config, error) {
	path := f.configPath
	required := path != ""
	if path == "" {
		path = config.DefaultFile
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if len(args) > 1 {
		cfg.Output = args[1]
	}
	if changed("skip-blank") {
		cfg.SkipBlank = skip
	}
	if changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if changed("log-file") {
		cfg.Logging.Path = f.logFile
	}

	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runConvert performs one conversion and reports it on w.
func runConvert(w io.Writer, cfg *config.Config) (convert.Result, error) {
	if err := log.Init(cfg.Logging.Path, cfg.Logging.Level); err != nil {
		return convert.Result{}, fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger := slog.Default().With("run", uuid.NewString())
	logger.Info("converting", "input", cfg.Input, "output", cfg.Output, "skip_blank", cfg.SkipBlank)

	res, err := convert.ConvertFile(cfg.Input, cfg.Output, convert.Options{
		SkipBlank: cfg.SkipBlank,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("conversion failed", "error", err, "words", res.Words)
		return res, err
	}

	logger.Info("conversion finished", "lines", res.Lines, "words", res.Words, "bytes", res.Bytes())
	if skipped := res.Lines - res.Words; skipped > 0 {
		ui.PrintWarning(w, "skipped", fmt.Sprintf("%d blank line(s)", skipped))
	}
	ui.PrintSuccess(w, "converted", fmt.Sprintf("%d words -> %s", res.Words, cfg.Output))
	return res, nil
}
