// Package readonly enforces readonly value semantics over a parsed program.
//
// Every expression classifies as Mutable or Readonly (see Classifier). The
// pass walks each function and method under its own Context and reports
// three kinds of violations:
//
//   - a local re-assigned with a mutability different from its first write
//     (diag.SemaMutabilityMismatch);
//   - a property written through a readonly value
//     (diag.SemaReadonlyAssignmentViolation);
//   - a readonly value returned where a mutable one is promised
//     (diag.SemaReturnMutabilityViolation).
//
// Besides reporting, the pass rewrites the tree: readonly call arguments,
// right-hand sides of property and element writes and the bases of element
// writes become explicit `readonly` wrappers (ast.Exprs.WrapReadonly), so
// later phases do not have to repeat the analysis.
//
// Closures are classified as Mutable and their bodies are not entered.
package readonly
