package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rocheck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "rocheck",
	Short: "Readonly checker for Hack program trees",
	Long: `rocheck validates readonly usage in parsed Hack programs and makes
readonly sub-expressions explicit in the tree`,
	SilenceUsage:      true,
	PersistentPreRunE: setupCommand,
	PersistentPostRun: teardownCommand,
}

// exitCode is set by commands that finish normally but must fail the process
// (error diagnostics).
var exitCode int

// main registers subcommands and persistent flags, then executes the root
// command. Execution errors exit with status 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("config", "", "path to rocheck.toml (default: discovered from the working directory)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the ring tracer")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write heap profile to file")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write Go runtime trace to file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
