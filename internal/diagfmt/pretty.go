package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"rocheck/internal/diag"
	"rocheck/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info *color.Color
	note, gutter    *color.Color
	path, message   *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:     mk(color.FgRed, color.Bold),
		warn:    mk(color.FgYellow, color.Bold),
		info:    mk(color.FgCyan, color.Bold),
		note:    mk(color.FgMagenta),
		gutter:  mk(color.FgBlue),
		path:    mk(color.Bold),
		message: mk(color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() в порядке добавления. Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	items := bag.Items()
	n := limit(len(items), opts.Max)
	pal := newPalette(opts.Color)
	for i := range n {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &items[i], fs, opts, pal)
	}
	if n < len(items) {
		fmt.Fprintf(w, "\n... %d more diagnostic(s) not shown\n", len(items)-n)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	sev := pal.severity(d.Severity)
	if !located(d) || fs == nil {
		fmt.Fprintf(w, "%s %s: %s\n", sev.Sprint(d.Severity.String()), d.Code.ID(), pal.message.Sprint(d.Message))
		if opts.ShowNotes {
			for _, note := range d.Notes {
				fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("note:"), note.Msg)
			}
		}
		return
	}

	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	loc := fmt.Sprintf("%s:%d:%d", formatPath(file, fs, opts.PathMode), start.Line, start.Col)
	fmt.Fprintf(w, "%s: %s %s: %s\n", pal.path.Sprint(loc), sev.Sprint(d.Severity.String()), d.Code.ID(), pal.message.Sprint(d.Message))
	writeSnippet(w, file, start, end, opts, pal, sev)

	if !opts.ShowNotes {
		return
	}
	for _, note := range d.Notes {
		nf := fs.Get(note.Span.File)
		ns, _ := fs.Resolve(note.Span)
		nloc := fmt.Sprintf("%s:%d:%d", formatPath(nf, fs, opts.PathMode), ns.Line, ns.Col)
		fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), nloc, note.Msg)
	}
}

// writeSnippet prints the primary line (plus Context lines above it) and a
// caret underline. Spans running past the line are underlined to its end.
func writeSnippet(w io.Writer, file *source.File, start, end source.LineCol, opts PrettyOpts, pal palette, sev *color.Color) {
	if file == nil || len(file.Content) == 0 || start.Line == 0 {
		return
	}
	first := start.Line
	if ctx := uint32(max(opts.Context, 0)); ctx < first {
		first -= ctx
	} else {
		first = 1
	}

	gutter := len(strconv.FormatUint(uint64(start.Line), 10))
	blank := strings.Repeat(" ", gutter)
	bar := pal.gutter.Sprint("|")

	fmt.Fprintf(w, "%s %s\n", blank, bar)
	for ln := first; ln <= start.Line; ln++ {
		text := clip(expandTabs(file.GetLine(ln)), opts.Width)
		fmt.Fprintf(w, "%s %s %s\n", pal.gutter.Sprintf("%*d", gutter, ln), bar, text)
	}

	line := file.GetLine(start.Line)
	endCol := end.Col
	if end.Line > start.Line {
		endCol = uint32(len(line)) + 1 //nolint:gosec // строка из файла, длина влезает
	}
	pad, width := caretColumns(line, start.Col, endCol)
	if opts.Width > 0 && pad >= opts.Width {
		return
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s %s%s\n", blank, bar, strings.Repeat(" ", pad), sev.Sprint(marker))
}

// caretColumns converts 1-based byte columns into display cells.
func caretColumns(line string, startCol, endCol uint32) (pad, width int) {
	s := min(int(startCol)-1, len(line))
	s = max(s, 0)
	e := min(int(endCol)-1, len(line))
	e = max(e, s)
	pad = runewidth.StringWidth(expandTabs(line[:s]))
	width = runewidth.StringWidth(expandTabs(line[s:e]))
	return pad, max(width, 1)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func clip(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
