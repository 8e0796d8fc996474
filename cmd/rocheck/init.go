package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rocheck/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a default rocheck.toml",
	Long: `Create a rocheck.toml with default settings in [path] or in the current
directory. A missing directory is created. An existing rocheck.toml is never
overwritten.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipConfig: "1"},
	RunE:        runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	path, err := project.WriteDefault(target)
	if err != nil {
		if errors.Is(err, project.ErrConfigExists) {
			return fmt.Errorf("already initialized: %s exists", path)
		}
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if quiet(cmd) {
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	// вложенный конфиг перекрывает родительский для всего поддерева
	if root, ok, err := project.FindProjectRoot(filepath.Dir(target)); err == nil && ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "note: %s shadows the config in %s\n", path, root)
	}
	return nil
}
