package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"rocheck/internal/astio"
	"rocheck/internal/source"
)

func sampleDoc() *astio.Document {
	// function f(readonly $p) { g(readonly $p); }
	return &astio.Document{
		Version: 1,
		Items: []*astio.Node{{
			Kind: "fun", Name: "f", Start: 0, End: 43,
			Params: []*astio.Node{{Kind: "param", Name: "$p", Start: 11, End: 22, Flags: []string{"readonly"}}},
			Body: &astio.Node{Kind: "block", Start: 24, End: 43, Stmts: []*astio.Node{{
				Kind: "expr", Start: 26, End: 41,
				Expr: &astio.Node{
					Kind: "call", Start: 26, End: 40,
					Target: &astio.Node{Kind: "id", Name: "g", Start: 26, End: 27},
					Args: []*astio.Node{{
						Kind: "readonly", Start: 28, End: 39, Flags: []string{"synthetic"},
						Expr: &astio.Node{Kind: "lvar", Name: "$p", Start: 37, End: 39},
					}},
				},
			}}},
		}},
	}
}

func TestFormatTree(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("f.hack", []byte("function f(readonly $p) { g(readonly $p); }"))

	var buf bytes.Buffer
	if err := FormatTree(&buf, sampleDoc(), fs, file, TreeOpts{PathMode: PathModeBasename, MarkSynthetic: true}); err != nil {
		t.Fatalf("FormatTree: %v", err)
	}
	want := strings.Join([]string{
		"f.hack (items: 1)",
		"└─ Item[0]: fun f",
		"   ├─ params[0]: param $p [readonly]",
		"   └─ body: block",
		"      └─ stmts[0]: expr",
		"         └─ expr: call",
		"            ├─ target: id g",
		"            └─ args[0]: readonly [synthetic]",
		"               └─ expr: lvar $p",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected tree:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormatTreeSpansAndHiddenSynthetic(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTree(&buf, sampleDoc(), nil, 0, TreeOpts{Spans: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "File (items: 1)\n") {
		t.Fatalf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "args[0]: readonly (span: span(28-39))") {
		t.Fatalf("synthetic flag should be hidden and spans raw:\n%s", out)
	}
}

func TestFormatTreeNil(t *testing.T) {
	if err := FormatTree(&bytes.Buffer{}, nil, nil, 0, TreeOpts{}); err == nil {
		t.Fatalf("expected error for nil document")
	}
}
