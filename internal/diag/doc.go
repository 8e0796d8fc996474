// Package diag defines the diagnostic model shared by the readonly pass, the
// tree decoder and the driver.
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string ID (SEM3xxx for readonly violations, IO4xxx for input problems), a
// Message, the Primary span and optional Notes. Notes should add new context
// (for example "first assigned here") rather than repeat the message.
//
// Producers emit through a Reporter, usually via ReportError(...).WithNote(...).Emit().
// BagReporter stores diagnostics in a Bag in report order; the Bag never
// deduplicates and is unbounded unless a positive limit is given.
//
// Rendering lives in internal/diagfmt; FormatShortDiagnostics is the only
// formatter kept here because tests and the driver cache use it directly.
package diag
