package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rocheck/internal/astio"
	"rocheck/internal/version"
)

type versionOptions struct {
	format      string
	showHash    bool
	showMessage bool
	showDate    bool
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Show rocheck build metadata",
	Annotations: map[string]string{skipConfig: "1"},
	RunE:        runVersion,
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("message", false, "include git commit message")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show all recorded build metadata")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func readVersionOptions(cmd *cobra.Command) (versionOptions, error) {
	var opts versionOptions
	flags := cmd.Flags()
	format, err := flags.GetString("format")
	if err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	full, err := flags.GetBool("full")
	if err != nil {
		return opts, fmt.Errorf("failed to get full flag: %w", err)
	}
	if opts.showHash, err = flags.GetBool("hash"); err != nil {
		return opts, fmt.Errorf("failed to get hash flag: %w", err)
	}
	if opts.showMessage, err = flags.GetBool("message"); err != nil {
		return opts, fmt.Errorf("failed to get message flag: %w", err)
	}
	if opts.showDate, err = flags.GetBool("date"); err != nil {
		return opts, fmt.Errorf("failed to get date flag: %w", err)
	}
	opts.format = strings.ToLower(format)
	opts.showHash = opts.showHash || full
	opts.showMessage = opts.showMessage || full
	opts.showDate = opts.showDate || full

	switch opts.format {
	case "pretty", "json":
	default:
		return opts, fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	return opts, nil
}

func runVersion(cmd *cobra.Command, _ []string) error {
	opts, err := readVersionOptions(cmd)
	if err != nil {
		return err
	}
	info := version.Current(astio.SchemaVersion)
	if opts.format == "json" {
		return renderVersionJSON(cmd.OutOrStdout(), info, opts)
	}
	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	renderVersionPretty(cmd.OutOrStdout(), info, opts, version.Colored(color))
	return nil
}

func renderVersionPretty(out io.Writer, info version.Info, opts versionOptions, shown string) {
	fmt.Fprintf(out, "rocheck %s (tree schema v%d)\n", shown, info.TreeSchema)
	if opts.showHash {
		fmt.Fprintf(out, "commit:  %s\n", valueOrUnknown(info.GitCommit))
	}
	if opts.showMessage {
		fmt.Fprintf(out, "message: %s\n", valueOrUnknown(info.GitMessage))
	}
	if opts.showDate {
		fmt.Fprintf(out, "built:   %s\n", valueOrUnknown(info.BuildDate))
	}
}

func renderVersionJSON(out io.Writer, info version.Info, opts versionOptions) error {
	payload := version.Info{Version: info.Version, TreeSchema: info.TreeSchema}
	if opts.showHash {
		payload.GitCommit = valueOrUnknown(info.GitCommit)
	}
	if opts.showMessage {
		payload.GitMessage = valueOrUnknown(info.GitMessage)
	}
	if opts.showDate {
		payload.BuildDate = valueOrUnknown(info.BuildDate)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
