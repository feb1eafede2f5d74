package main

import (
	"fmt"
	"os"
	"unicode"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// formatVersion adds 'v' prefix if version starts with a digit
func formatVersion(ver string) string {
	if len(ver) > 0 && unicode.IsDigit(rune(ver[0])) {
		return "v" + ver
	}
	return ver
}

// newRootCmd builds the base command and its subcommands
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bleread",
		Short: "Read one BLE characteristic from one device",
		Long: `Connects to a Bluetooth Low Energy peripheral, reads a single GATT
characteristic, disconnects and prints the value.

Built to be driven by test automation: the value goes to stdout, diagnostics
to stderr, and the exit code tells the failure kind apart:

  0  value read
  1  usage or configuration error
  2  BLE adapter unavailable
  3  connection to the device failed
  4  characteristic could not be read`,
		Version: fmt.Sprintf("%s (commit %s, built %s)", formatVersion(version), commit, date),
	}

	// Silence Cobra's "Error:" prefix - main() prints clean errors
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(newReadCmd())
	rootCmd.AddCommand(newConfigCmd())

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error, silent)")

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errorPrefix := color.New(color.FgRed, color.Bold).SprintFunc()
		fmt.Fprintf(os.Stderr, "%s %s\n", errorPrefix("ERROR:"), FormatUserError(err))
		os.Exit(ExitCode(err))
	}
}
