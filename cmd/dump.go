package cmd

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/lys-lab/txt2bin/internal/config"
	"github.com/lys-lab/txt2bin/internal/dump"
	"github.com/lys-lab/txt2bin/pkg/log"
	"github.com/spf13/cobra"
)

var dumpFlags struct {
	format string
	base   string
	output string
}

// dumpCmd renders a .x file as text.
var dumpCmd = &cobra.Command{
	Use:   "dump [input]",
	Short: "Print the words of a .x file as hex, a memory dump, or Intel HEX",
	Long: `Reads 4-byte little-endian words and prints them. The "hex" format writes
one literal per line and can be converted back with txt2bin. The input
defaults to the configured output file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(nil, flags, false, cmd.Flags().Changed)
		if err != nil {
			return err
		}
		in := cfg.Output
		if len(args) > 0 {
			in = args[0]
		}

		opts, err := dumpOptions(cfg, cmd.Flags().Changed)
		if err != nil {
			return err
		}

		if err := log.Init(cfg.Logging.Path, cfg.Logging.Level); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		var n int
		if dumpFlags.output != "" {
			n, err = dump.DumpToFile(in, dumpFlags.output, opts)
		} else {
			n, err = dump.DumpFile(in, cmd.OutOrStdout(), opts)
		}
		if err != nil {
			return err
		}
		slog.Info("dump finished", "input", in, "format", opts.Format, "words", n)
		return nil
	},
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFlags.format, "format", "f", "", "Output format: hex, words, ihex (default from config, else words)")
	dumpCmd.Flags().StringVar(&dumpFlags.base, "base", "", "Address of the first word, e.g. 0x00400000")
	dumpCmd.Flags().StringVarP(&dumpFlags.output, "output", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(dumpCmd)
}

// dumpOptions resolves format and base from flags, falling back to cfg.
func dumpOptions(cfg *config.Config, changed func(string) bool) (dump.Options, error) {
	name := cfg.Dump.Format
	if changed("format") {
		name = dumpFlags.format
	}
	format, err := dump.ParseFormat(name)
	if err != nil {
		return dump.Options{}, err
	}

	base := dump.DefaultBase
	if cfg.Dump.Base != nil {
		base = *cfg.Dump.Base
	}
	if changed("base") {
		b, err := parseAddress(dumpFlags.base)
		if err != nil {
			return dump.Options{}, err
		}
		base = b
	}
	return dump.Options{Format: format, Base: base}, nil
}

// parseAddress accepts decimal or 0x-prefixed word-aligned addresses.
func parseAddress(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid base address %q: %w", s, err)
	}
	if v%4 != 0 {
		return 0, fmt.Errorf("base address 0x%08x is not word aligned", v)
	}
	return uint32(v), nil
}
