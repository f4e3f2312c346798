package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/nodel-go/nodel/archive"
	_ "github.com/nodel-go/nodel/fs"
	_ "github.com/nodel-go/nodel/kvdb"

	"github.com/nodel-go/nodel/internal/obslog"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	noColor bool
	logDir  string
)

var rootCmd = &cobra.Command{
	Use:   "nodelctl",
	Short: "Inspect and manipulate nodel trees bound to pluggable data sources",
	Long: `nodelctl reads, writes, and exports nodel trees bound via file://,
zip://, and kvdb:// URIs. It supports pointed get/set/delete, export to
a JSON or CSV file, import from a JSON or CSV file, and a breadth-first
tree view of any backend.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		return obslog.Init(obslog.Options{Enabled: logDir != "", LogDir: logDir, Level: level})
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "JSON output flag (not read by any command; get always prints JSON)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Color flag (not read by any command; output is never colored)")
	rootCmd.PersistentFlags().
		StringVar(&logDir, "log-dir", "", "Write backend diagnostics to this directory (disabled by default)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// checkArgs validates that the correct number of arguments were provided
func checkArgs(args []string, expected int, usage string) error {
	if len(args) != expected {
		return fmt.Errorf("expected %d argument(s), got %d\nUsage: %s", expected, len(args), usage)
	}
	return nil
}

// checkMinArgs validates that at least the minimum number of arguments were provided
func checkMinArgs(args []string, min int, usage string) error {
	if len(args) < min {
		return fmt.Errorf(
			"expected at least %d argument(s), got %d\nUsage: %s",
			min,
			len(args),
			usage,
		)
	}
	return nil
}
