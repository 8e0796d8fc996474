package diag

import (
	"fmt"
	"path/filepath"
	"strings"

	"rocheck/internal/source"
)

// FormatShortDiagnostics renders one line per diagnostic:
//
//	error SEM3001 path/to/file.hack:3:5 message
//
// Diagnostics keep their input order; notes follow their diagnostic when
// includeNotes is set. Paths are relative to the file set base directory.
func FormatShortDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		if d == nil {
			continue
		}
		lines = append(lines, shortLine(d.Severity.Label(), d.Code, fs, d.Primary, d.Message))
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			lines = append(lines, shortLine("note", d.Code, fs, note.Span, note.Msg))
		}
	}
	return strings.Join(lines, "\n")
}

func shortLine(label string, code Code, fs *source.FileSet, sp source.Span, msg string) string {
	path := "<unknown>"
	if f := fs.Get(sp.File); f != nil {
		path = normalizePath(f.FormatPath("relative", fs.BaseDir()))
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s %s %s:%d:%d %s", label, code.ID(), path, start.Line, start.Col, sanitizeMessage(msg))
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
