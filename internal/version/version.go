package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Version information for the rocheck CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Info is the machine-readable form of the build metadata.
type Info struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
	// TreeSchema is the newest tree document version the binary reads.
	TreeSchema int `json:"tree_schema"`
}

// Current collects build metadata; treeSchema comes from the caller to keep
// this package free of internal imports.
func Current(treeSchema int) Info {
	return Info{
		Version:    Version,
		GitCommit:  GitCommit,
		GitMessage: GitMessage,
		BuildDate:  BuildDate,
		TreeSchema: treeSchema,
	}
}

// Colored renders Version with major, minor and patch in their own colors.
// Versions that are not dotted triples are returned as is.
func Colored(enabled bool) string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.Split(core, ".")
	if !enabled || len(parts) != 3 {
		return Version
	}
	out := fmt.Sprintf("%s.%s.%s",
		sprint(versionMajorColor, parts[0]),
		sprint(versionMinorColor, parts[1]),
		sprint(versionPatchColor, parts[2]))
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

func sprint(c *color.Color, s string) string {
	c.EnableColor()
	return c.Sprint(s)
}
