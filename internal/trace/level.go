package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity. Each level admits every scope up to
// its ceiling; see ShouldEmit.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // driver-scope events only, enough for a crash dump
	LevelPhase               // driver + pass boundaries
	LevelDetail              // + one span per input document
	LevelDebug               // + one span per function and method
)

type levelInfo struct {
	name    string
	ceiling Scope // widest scope admitted; 0 admits nothing
}

var levels = [...]levelInfo{
	LevelOff:    {"off", 0},
	LevelError:  {"error", ScopeDriver},
	LevelPhase:  {"phase", ScopePass},
	LevelDetail: {"detail", ScopeFile},
	LevelDebug:  {"debug", ScopeDecl},
}

func levelNames() string {
	names := make([]string, len(levels))
	for i, info := range levels {
		names[i] = info.name
	}
	return strings.Join(names, "|")
}

func (l Level) String() string {
	if int(l) < len(levels) {
		return levels[l].name
	}
	return "unknown"
}

// ParseLevel accepts a level name in any case; the empty string means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for i, info := range levels {
		if info.name == s {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, levelNames())
}

// ShouldEmit reports whether events of the given scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levels) || scope == 0 {
		return false
	}
	return scope <= levels[l].ceiling
}
