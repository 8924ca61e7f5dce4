package importer

import (
	"fmt"

	"github.com/centavo/centavo/internal/taxonomy"
)

// DiagnosticKind classifies per-row problems so callers can filter them
// programmatically instead of parsing message text.
type DiagnosticKind string

const (
	// KindMissingField marks a required field that is absent or invalid;
	// the row was skipped.
	KindMissingField DiagnosticKind = "missing_field"
	// KindUnresolvedReference marks a reference name that did not match an
	// existing record and could not be auto-created; the row was skipped.
	KindUnresolvedReference DiagnosticKind = "unresolved_reference"
	// KindSoftDegradation marks a row that was still imported after
	// dropping invalid optional data. It is reported alongside errors, but
	// callers must not assume its presence implies the row was skipped.
	KindSoftDegradation DiagnosticKind = "soft_degradation"
	// KindInformational marks non-error notices: defaulted currency,
	// unmatched payment method, alias rewrites, created categories.
	KindInformational DiagnosticKind = "informational"
)

// Diagnostic is one import notice tied to a file row. Row numbers are
// 1-indexed relative to the original file, counting the header row.
type Diagnostic struct {
	Kind   DiagnosticKind
	Row    int
	Field  string
	Detail string
}

// IsError reports whether the diagnostic belongs in the error list.
// Soft degradations count as errors even though their rows were imported.
func (d Diagnostic) IsError() bool {
	return d.Kind != KindInformational
}

func (d Diagnostic) String() string {
	if d.Row > 0 {
		return fmt.Sprintf("row %d: %s", d.Row, d.Detail)
	}
	return d.Detail
}

// Report is the consolidated outcome of one import batch. It is built
// fresh per call and fully returned to the caller; nothing is persisted by
// the import core.
type Report struct {
	Expenses []Expense
	Incomes  []Income

	Errors []Diagnostic
	Infos  []Diagnostic

	SkippedRows       int
	CreatedCategories []taxonomy.Category
}

// CreatedCategoryCount returns how many categories the batch materialized.
func (r *Report) CreatedCategoryCount() int {
	return len(r.CreatedCategories)
}

// ErrorStrings renders the error diagnostics as row-numbered strings for
// log sinks and user-facing summaries.
func (r *Report) ErrorStrings() []string {
	out := make([]string, len(r.Errors))
	for i, d := range r.Errors {
		out[i] = d.String()
	}
	return out
}

// Summary renders the one-line outcome shown to the user after an import.
func (r *Report) Summary() string {
	imported := len(r.Expenses) + len(r.Incomes)
	return fmt.Sprintf("%d imported, %d skipped, %d categories created",
		imported, r.SkippedRows, r.CreatedCategoryCount())
}

func (r *Report) add(d Diagnostic) {
	if d.IsError() {
		r.Errors = append(r.Errors, d)
		return
	}
	r.Infos = append(r.Infos, d)
}
