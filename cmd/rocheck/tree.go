package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rocheck/internal/astio"
	"rocheck/internal/diag"
	"rocheck/internal/diagfmt"
	"rocheck/internal/driver"
	"rocheck/internal/source"
)

var treeCmd = &cobra.Command{
	Use:   "tree [flags] <file>",
	Short: "Print the program tree after the readonly pass",
	Long: `Print the program tree of one document. By default the readonly pass runs
first and inserted wrappers are marked; --raw prints the tree as decoded.`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().Bool("raw", false, "print the tree before the readonly pass")
	treeCmd.Flags().Bool("spans", false, "print line:col ranges")
	treeCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
}

func runTree(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	raw, err := cmd.Flags().GetBool("raw")
	if err != nil {
		return fmt.Errorf("failed to get raw flag: %w", err)
	}
	spans, err := cmd.Flags().GetBool("spans")
	if err != nil {
		return fmt.Errorf("failed to get spans flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	fs := source.NewFileSet()
	res, err := driver.CheckFile(cmd.Context(), fs, args[0], driver.Options{KeepTree: true, SkipCheck: raw})
	if err != nil {
		return err
	}

	// Диагностики идут в stderr, дерево - в stdout
	if res.Bag.Len() > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), diag.FormatShortDiagnostics(res.Bag.Pointers(), fs, true))
	}
	if res.Failed() || res.Document == nil {
		exitCode = 1
		return nil
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		err = diagfmt.FormatTree(out, res.Document, fs, res.Source, diagfmt.TreeOpts{
			PathMode:      diagfmt.PathModeAuto,
			Spans:         spans,
			MarkSynthetic: !raw,
		})
	case "json", "msgpack":
		treeFormat, perr := astio.ParseFormat(format)
		if perr != nil {
			return perr
		}
		if treeFormat == astio.FormatMsgpack && isTerminal(os.Stdout) {
			return fmt.Errorf("refusing to write msgpack to a terminal")
		}
		var data []byte
		if data, err = astio.Marshal(res.Document, treeFormat); err == nil {
			_, err = out.Write(data)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to print tree: %w", err)
	}
	if res.Bag.HasErrors() {
		exitCode = 1
	}
	return nil
}
