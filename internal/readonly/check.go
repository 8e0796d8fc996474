package readonly

import (
	"context"
	"strconv"

	"rocheck/internal/ast"
	"rocheck/internal/diag"
	"rocheck/internal/trace"
)

// Options configure a readonly pass over a file.
type Options struct {
	Reporter diag.Reporter
}

// Result summarises one run of the pass.
type Result struct {
	// Wraps is the number of readonly wrappers inserted into the tree.
	Wraps int
	// Scopes counts contexts opened, the program-level one included.
	Scopes int
	// Diagnostics is the number of violations reported.
	Diagnostics int
}

// Check walks every top-level declaration of fileID, reports readonly
// violations to opts.Reporter and makes readonly sub-expressions explicit in
// place. Running it again over its own output inserts nothing new and reports
// the same diagnostics.
func Check(ctx context.Context, builder *ast.Builder, fileID ast.FileID, opts Options) Result {
	var res Result
	if builder == nil || !fileID.IsValid() {
		return res
	}
	file := builder.Files.Get(fileID)
	if file == nil {
		return res
	}

	tracer := trace.FromContext(ctx)
	_, span := trace.StartSpan(ctx, trace.ScopePass, "readonly")
	defer func() {
		span.WithExtra("wraps", strconv.Itoa(res.Wraps)).
			WithExtra("scopes", strconv.Itoa(res.Scopes)).
			WithExtra("diagnostics", strconv.Itoa(res.Diagnostics)).
			End("")
	}()

	c := checker{
		builder: builder,
		exprs:   builder.Exprs,
		classifier: Classifier{
			Exprs:    builder.Exprs,
			Interner: builder.StringsInterner,
		},
		reporter: opts.Reporter,
		tracer:   tracer,
		span:     span,
		ctx:      ProgramContext(),
		result:   &res,
	}
	res.Scopes++
	for _, item := range file.Items {
		c.walkItem(item)
	}
	return res
}

// CheckProgram runs the pass with a fresh collector and returns the
// diagnostics in the order they were found. The result may be empty.
func CheckProgram(builder *ast.Builder, fileID ast.FileID) []diag.Diagnostic {
	bag := diag.NewBag(0)
	Check(context.Background(), builder, fileID, Options{Reporter: diag.BagReporter{Bag: bag}})
	return bag.Items()
}

type checker struct {
	builder    *ast.Builder
	exprs      *ast.Exprs
	classifier Classifier
	reporter   diag.Reporter
	tracer     trace.Tracer
	span       *trace.Span
	ctx        *Context
	result     *Result
}

func (c *checker) classify(id ast.ExprID) Mutability {
	return c.classifier.Classify(id, c.ctx)
}
