package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rocheck/internal/prof"
	"rocheck/internal/project"
)

// cli holds state prepared by the persistent pre-run hook.
var cli struct {
	config  project.Config
	found   bool
	cleanup func()
	profile *prof.Session
}

// skipConfig marks commands that must work without a valid rocheck.toml.
const skipConfig = "skip-config"

func setupCommand(cmd *cobra.Command, _ []string) error {
	cfg := project.Default()
	if cmd.Annotations[skipConfig] == "" {
		loaded, found, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg, cli.found = loaded, found
	}
	cli.config = cfg

	cleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	cli.cleanup = cleanup

	if cli.profile, err = setupProfiling(cmd); err != nil {
		teardownCommand(cmd, nil)
		return err
	}
	return nil
}

func teardownCommand(cmd *cobra.Command, _ []string) {
	if err := cli.profile.Stop(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed to write profile: %v\n", err)
	}
	cli.profile = nil
	if cli.cleanup != nil {
		cli.cleanup()
		cli.cleanup = nil
	}
}

// loadConfig reads --config or discovers rocheck.toml from the working
// directory. Without a file the defaults apply.
func loadConfig(cmd *cobra.Command) (project.Config, bool, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, false, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		cfg, err := project.Load(path)
		return cfg, err == nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return project.Config{}, false, err
	}
	return project.Discover(wd)
}

// useColor resolves --color against the terminal state of f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
}

func quiet(cmd *cobra.Command) bool {
	q, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && q
}
