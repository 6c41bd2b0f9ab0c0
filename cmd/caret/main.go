package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"caret/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "caret",
	Short: "Annotated source report renderer",
	Long:  `Caret renders human-readable reports over source text: numbered lines, inline color highlighting, underline annotations and per-range hints`,
}

// main registers subcommands and persistent flags, then executes the root
// command. On error the process exits with status code 1.
func main() {
	// Версия для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
