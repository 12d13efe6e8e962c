package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	// ANSI Colors
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
)

func init() {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		DisableColor()
	}
}

// DisableColor strips ANSI sequences from all subsequent output.
func DisableColor() {
	ColorReset, ColorRed, ColorGreen, ColorYellow = "", "", "", ""
}

func PrintSuccess(w io.Writer, label, detail string) {
	fmt.Fprintf(w, "  %s✔%s %-15s %s%s\n", ColorGreen, ColorReset, label, ColorGreen, detail+ColorReset)
}

func PrintError(w io.Writer, label, detail string) {
	fmt.Fprintf(w, "  %s✘%s %-15s %s%s\n", ColorRed, ColorReset, label, ColorRed, detail+ColorReset)
}

func PrintWarning(w io.Writer, label, detail string) {
	fmt.Fprintf(w, "  %s!%s %-15s %s%s\n", ColorYellow, ColorReset, label, ColorYellow, detail+ColorReset)
}
