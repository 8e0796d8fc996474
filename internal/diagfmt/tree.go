package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"rocheck/internal/astio"
	"rocheck/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

// FormatTree печатает дерево документа с ветками ├─ / └─.
// Спаны разрешаются через fs в file; без fs выводятся байтовые смещения.
func FormatTree(w io.Writer, doc *astio.Document, fs *source.FileSet, file source.FileID, opts TreeOpts) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}
	header := "File"
	if fs != nil {
		if f := fs.Get(file); f != nil {
			header = formatPath(f, fs, opts.PathMode)
		}
	}
	root := &treeNode{label: fmt.Sprintf("%s (items: %d)", header, len(doc.Items))}
	for i, item := range doc.Items {
		root.children = append(root.children, buildNode(fmt.Sprintf("Item[%d]", i), item, fs, file, opts))
	}

	if _, err := fmt.Fprintln(w, root.label); err != nil {
		return err
	}
	return writeChildren(w, root.children, "")
}

func writeChildren(w io.Writer, children []*treeNode, prefix string) error {
	for i, child := range children {
		branch, next := "├─ ", "│  "
		if i == len(children)-1 {
			branch, next = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, branch, child.label); err != nil {
			return err
		}
		if err := writeChildren(w, child.children, prefix+next); err != nil {
			return err
		}
	}
	return nil
}

func buildNode(slot string, n *astio.Node, fs *source.FileSet, file source.FileID, opts TreeOpts) *treeNode {
	if n == nil {
		return &treeNode{label: slot + ": <nil>"}
	}
	node := &treeNode{label: slot + ": " + nodeLabel(n, fs, file, opts)}

	single := func(name string, c *astio.Node) {
		if c != nil {
			node.children = append(node.children, buildNode(name, c, fs, file, opts))
		}
	}
	list := func(name string, cs []*astio.Node) {
		for i, c := range cs {
			node.children = append(node.children, buildNode(fmt.Sprintf("%s[%d]", name, i), c, fs, file, opts))
		}
	}

	list("params", n.Params)
	single("target", n.Target)
	single("index", n.Index)
	single("expr", n.Expr)
	single("key", n.Key)
	single("val", n.Val)
	single("left", n.Left)
	single("right", n.Right)
	list("init", n.Init)
	single("cond", n.Cond)
	list("test", n.Test)
	list("step", n.Step)
	single("then", n.Then)
	single("else", n.Else)
	list("elems", n.Elems)
	list("fields", n.Fields)
	list("args", n.Args)
	list("methods", n.Methods)
	list("stmts", n.Stmts)
	list("cases", n.Cases)
	single("body", n.Body)
	list("catches", n.Catches)
	single("finally", n.Finally)
	return node
}

func nodeLabel(n *astio.Node, fs *source.FileSet, file source.FileID, opts TreeOpts) string {
	var sb strings.Builder
	sb.WriteString(n.Kind)
	if n.Op != "" {
		fmt.Fprintf(&sb, " %s", n.Op)
	}
	if n.Name != "" {
		fmt.Fprintf(&sb, " %s", n.Name)
	}
	switch {
	case n.Lit != "":
		fmt.Fprintf(&sb, " %s(%s)", n.Lit, n.Value)
	case n.Value != "":
		fmt.Fprintf(&sb, " %q", n.Value)
	}

	flags := make([]string, 0, len(n.Flags))
	for _, f := range n.Flags {
		if f == astio.FlagSynthetic && !opts.MarkSynthetic {
			continue
		}
		flags = append(flags, f)
	}
	if len(flags) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(flags, ","))
	}
	if opts.Spans {
		var set *source.FileSet
		if fs != nil && fs.Get(file) != nil {
			set = fs
		}
		fmt.Fprintf(&sb, " (span: %s)", formatSpan(source.Span{File: file, Start: n.Start, End: n.End}, set))
	}
	return sb.String()
}
