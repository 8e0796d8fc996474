package astio

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"rocheck/internal/ast"
)

// function f(readonly $p) { $x = $p; $x->prop = 1; }
const sampleJSON = `{
  "version": 1,
  "source": "sample.hack",
  "items": [
    {
      "kind": "fun", "start": 0, "end": 52, "name": "f",
      "params": [{"kind": "param", "start": 11, "end": 23, "name": "$p", "flags": ["readonly"]}],
      "body": {
        "kind": "block", "start": 25, "end": 52,
        "stmts": [
          {"kind": "expr", "start": 27, "end": 35,
           "expr": {"kind": "binary", "op": "=", "start": 27, "end": 34,
                    "left": {"kind": "lvar", "name": "$x", "start": 27, "end": 29},
                    "right": {"kind": "lvar", "name": "$p", "start": 32, "end": 34}}},
          {"kind": "expr", "start": 36, "end": 50,
           "expr": {"kind": "binary", "op": "=", "start": 36, "end": 49,
                    "left": {"kind": "obj_get", "name": "prop", "start": 36, "end": 44,
                             "target": {"kind": "lvar", "name": "$x", "start": 36, "end": 38}},
                    "right": {"kind": "lit", "lit": "int", "value": "1", "start": 47, "end": 48}}}
        ]
      }
    },
    {"kind": "return", "start": 53, "end": 60}
  ]
}`

func decodeSample(t *testing.T) (*ast.Builder, ast.FileID) {
	t.Helper()
	doc, err := Unmarshal([]byte(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	b, fileID, err := Decoder{File: 3}.Decode(doc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return b, fileID
}

func TestDecodeBuildsTree(t *testing.T) {
	b, fileID := decodeSample(t)
	file := b.Files.Get(fileID)
	if len(file.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(file.Items))
	}
	if file.Span.Start != 0 || file.Span.End != 60 || file.Span.File != 3 {
		t.Fatalf("unexpected file span %+v", file.Span)
	}

	fn, ok := b.Items.Fun(file.Items[0])
	if !ok {
		t.Fatalf("first item is not a function")
	}
	if b.Lookup(fn.Name) != "f" || len(fn.Params) != 1 {
		t.Fatalf("unexpected function %+v", fn)
	}
	if p := b.Items.Param(fn.Params[0]); !p.Readonly || b.Lookup(p.Name) != "$p" {
		t.Fatalf("unexpected param %+v", p)
	}

	block, ok := b.Stmts.Block(fn.Body)
	if !ok || len(block.Stmts) != 2 {
		t.Fatalf("unexpected body")
	}
	st, _ := b.Stmts.ExprData(block.Stmts[1])
	assign, ok := b.Exprs.Assignment(st.Expr)
	if !ok || assign.Op != ast.ExprBinaryAssign {
		t.Fatalf("second statement is not an assignment")
	}
	get, ok := b.Exprs.ObjGet(assign.Left)
	if !ok || b.Lookup(get.Member) != "prop" {
		t.Fatalf("unexpected property access")
	}
	if sp := b.Exprs.Get(assign.Right).Span; sp.Start != 47 || sp.End != 48 || sp.File != 3 {
		t.Fatalf("unexpected literal span %+v", sp)
	}

	if _, ok := b.Items.StmtItem(file.Items[1]); !ok {
		t.Fatalf("second item should be a top-level statement")
	}
}

func TestDecodeErrorsArePositioned(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    error
		path    string
		start   uint32
		wantMsg string
	}{
		{
			name:  "unknown expression",
			doc:   `{"items":[{"kind":"expr","start":0,"end":9,"expr":{"kind":"spread","start":2,"end":7}}]}`,
			want:  ErrUnknownKind,
			path:  "items[0].expr",
			start: 2,
		},
		{
			name:  "missing right operand",
			doc:   `{"items":[{"kind":"expr","start":0,"end":9,"expr":{"kind":"binary","op":"+","start":1,"end":8,"left":{"kind":"lvar","name":"$a","start":1,"end":3}}}]}`,
			want:  ErrMissingSlot,
			path:  "items[0].expr.right",
			start: 0,
		},
		{
			name:    "bad operator",
			doc:     `{"items":[{"kind":"expr","start":0,"end":9,"expr":{"kind":"binary","op":"<>","start":1,"end":8}}]}`,
			want:    ErrInvalidValue,
			path:    "items[0].expr.op",
			start:   1,
			wantMsg: `"<>"`,
		},
		{
			name:  "flag on wrong kind",
			doc:   `{"items":[{"kind":"expr","start":0,"end":9,"expr":{"kind":"lvar","name":"$a","flags":["nullsafe"],"start":4,"end":6}}]}`,
			want:  ErrInvalidValue,
			path:  "items[0].expr.flags",
			start: 4,
		},
		{
			name:  "inverted span",
			doc:   `{"items":[{"kind":"noop","start":9,"end":1}]}`,
			want:  ErrInvalidValue,
			path:  "items[0]",
			start: 9,
		},
		{
			name:  "unnamed method",
			doc:   `{"items":[{"kind":"class","name":"C","start":0,"end":9,"methods":[{"kind":"method","start":2,"end":8}]}]}`,
			want:  ErrMissingSlot,
			path:  "items[0].methods[0].name",
			start: 2,
		},
		{
			name: "future version",
			doc:  `{"version":99,"items":[]}`,
			want: ErrUnsupportedVersion,
			path: "version",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Unmarshal([]byte(tt.doc), FormatJSON)
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			_, _, err = Decode(doc)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var derr *Error
			if !errors.As(err, &derr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if derr.Path != tt.path || derr.Start != tt.start {
				t.Fatalf("position = %s@%d, want %s@%d", derr.Path, derr.Start, tt.path, tt.start)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("message %q lacks %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestUnmarshalRejectsUnknownFields(t *testing.T) {
	_, err := Unmarshal([]byte(`{"items":[],"extra":true}`), FormatJSON)
	if err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestEncodeReflectsWrappers(t *testing.T) {
	b, fileID := decodeSample(t)
	fn, _ := b.Items.Fun(b.Files.Get(fileID).Items[0])
	block, _ := b.Stmts.Block(fn.Body)
	st, _ := b.Stmts.ExprData(block.Stmts[0])
	assign, _ := b.Exprs.Assignment(st.Expr)
	if _, ok := b.Exprs.WrapReadonly(assign.Right); !ok {
		t.Fatalf("wrap failed")
	}

	doc, err := Encode(b, fileID, "sample.hack")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	right := doc.Items[0].Body.Stmts[0].Expr.Right
	if right.Kind != "readonly" || !right.HasFlag(FlagSynthetic) {
		t.Fatalf("expected synthetic readonly node, got %+v", right)
	}
	if right.Expr == nil || right.Expr.Kind != "lvar" || right.Expr.Name != "$p" {
		t.Fatalf("wrapper lost its operand: %+v", right.Expr)
	}
	if right.Start != 32 || right.End != 34 {
		t.Fatalf("wrapper span = %d..%d", right.Start, right.End)
	}
	if doc.Source != "sample.hack" || doc.Version != SchemaVersion {
		t.Fatalf("unexpected header %+v", doc)
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	b, fileID := decodeSample(t)
	doc, err := Encode(b, fileID, "sample.hack")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	data, err := Marshal(doc, FormatMsgpack)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if sniff(data) != FormatMsgpack {
		t.Fatalf("msgpack payload sniffed as json")
	}
	back, err := Unmarshal(data, FormatAuto)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	b2, file2, err := Decode(back)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	again, err := Encode(b2, file2, "sample.hack")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	j1, _ := Marshal(doc, FormatJSON)
	j2, _ := Marshal(again, FormatJSON)
	if string(j1) != string(j2) {
		t.Fatalf("round trip changed the tree:\n%s\n---\n%s", j1, j2)
	}
}

func TestWriteFileAndReadFile(t *testing.T) {
	dir := t.TempDir()
	b, fileID := decodeSample(t)
	doc, err := Encode(b, fileID, "sample.hack")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for _, name := range []string{"out.rotree.json", "out.rotree"} {
		path := filepath.Join(dir, "nested", name)
		if err := WriteFile(path, doc); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		back, raw, err := ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(raw) == 0 || len(back.Items) != len(doc.Items) {
			t.Fatalf("%s: unexpected document %+v", name, back)
		}
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"a.rotree.json": FormatJSON,
		"a.JSON":        FormatJSON,
		"a.rotree":      FormatMsgpack,
		"a.mp":          FormatMsgpack,
		"a.txt":         FormatAuto,
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %s, want %s", path, got, want)
		}
	}
	if f, err := ParseFormat("MP"); err != nil || f != FormatMsgpack {
		t.Errorf("ParseFormat(MP) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Errorf("ParseFormat(xml) should fail")
	}
}
