package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"rocheck/internal/trace"
)

// Config is the parsed rocheck.toml. Path and Root are empty for defaults.
type Config struct {
	Path  string      `toml:"-"`
	Root  string      `toml:"-"`
	Check CheckConfig `toml:"check"`
	Trace TraceConfig `toml:"trace"`
	Cache CacheConfig `toml:"cache"`
}

type CheckConfig struct {
	Format string `toml:"format"`
	// MaxDiagnostics truncates output only; 0 prints everything.
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Jobs           int      `toml:"jobs"` // 0 = GOMAXPROCS
	Write          bool     `toml:"write"`
	Include        []string `toml:"include"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"` // "" = $XDG_CACHE_HOME/rocheck
}

var (
	// ErrCheckSectionMissing indicates that [check] is missing in rocheck.toml.
	ErrCheckSectionMissing = errors.New("missing [check]")
	// ErrUnknownKey reports keys the config does not understand.
	ErrUnknownKey = errors.New("unknown key")
	// ErrInvalidValue wraps every value that fails validation.
	ErrInvalidValue = errors.New("invalid value")
	// ErrConfigExists is returned by WriteDefault when the file is already there.
	ErrConfigExists = errors.New("config already exists")
)

// OutputFormats lists the accepted [check].format values.
var OutputFormats = []string{"pretty", "json", "short"}

// Default returns the configuration used when no rocheck.toml is found.
func Default() Config {
	return Config{
		Check: CheckConfig{
			Format:         "pretty",
			MaxDiagnostics: 100,
			Include:        []string{"*.rotree.json", "*.rotree"},
		},
		Trace: TraceConfig{Level: "off", Output: "-"},
	}
}

// Load parses path on top of Default. Keys absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("check") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrCheckSectionMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds rocheck.toml above startDir and loads it. Without a file the
// defaults are returned with ok == false.
func Discover(startDir string) (cfg Config, ok bool, err error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, false, err
	}
	if !ok {
		return Default(), false, nil
	}
	cfg, err = Load(path)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}

// Validate checks value ranges and patterns.
func (c *Config) Validate() error {
	if !slices.Contains(OutputFormats, c.Check.Format) {
		return fmt.Errorf("%w: [check].format %q (expected: %s)", ErrInvalidValue, c.Check.Format, strings.Join(OutputFormats, "|"))
	}
	if c.Check.MaxDiagnostics < 0 {
		return fmt.Errorf("%w: [check].max_diagnostics must be >= 0, got %d", ErrInvalidValue, c.Check.MaxDiagnostics)
	}
	if c.Check.Jobs < 0 {
		return fmt.Errorf("%w: [check].jobs must be >= 0, got %d", ErrInvalidValue, c.Check.Jobs)
	}
	for _, pattern := range c.Check.Include {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w: [check].include pattern %q: %w", ErrInvalidValue, pattern, err)
		}
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("%w: [trace].level: %w", ErrInvalidValue, err)
	}
	return nil
}

// Matches reports whether the base name of path matches one of the include
// patterns. An empty include list matches everything.
func (c *Config) Matches(path string) bool {
	return MatchInclude(c.Check.Include, path)
}

// MatchInclude reports whether filepath.Base(path) matches any pattern.
func MatchInclude(patterns []string, path string) bool {
	if len(patterns) == 0 {
		return true
	}
	base := filepath.Base(path)
	for _, p := range patterns {
		if ok, err := filepath.Match(p, base); err == nil && ok {
			return true
		}
	}
	return false
}

// CacheDir resolves [cache].dir relative to the project root.
func (c *Config) CacheDir() string {
	dir := strings.TrimSpace(c.Cache.Dir)
	if dir == "" || filepath.IsAbs(dir) || c.Root == "" {
		return dir
	}
	return filepath.Join(c.Root, dir)
}

// WriteDefault creates rocheck.toml in dir and returns its path.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%s: %w", path, ErrConfigExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return path, err
	}
	if err := os.WriteFile(path, []byte(DefaultConfigText()), 0o644); err != nil {
		return path, fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}

// DefaultConfigText is the commented template written by `rocheck init`.
func DefaultConfigText() string {
	return `# rocheck configuration
[check]
format = "pretty"        # pretty|json|short
max_diagnostics = 100    # output truncation only, 0 = unlimited
jobs = 0                 # 0 = GOMAXPROCS
write = false            # write rewritten trees back next to input
include = ["*.rotree.json", "*.rotree"]

[trace]
level = "off"            # off|error|phase|detail|debug
output = "-"

[cache]
enabled = false
dir = ""                 # default $XDG_CACHE_HOME/rocheck
`
}
