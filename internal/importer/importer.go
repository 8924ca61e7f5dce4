// Package importer turns a raw tabular grid into validated expense or
// income batches. It reconciles free-text category names against the
// user's taxonomy, auto-creating missing categories with batch-local
// visibility, and accumulates every per-row problem into one report
// instead of aborting. Only decode failures and a header missing its
// required columns reject a whole import.
package importer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/centavo/centavo/internal/importer/normalize"
	"github.com/centavo/centavo/internal/importer/suggest"
	"github.com/centavo/centavo/internal/taxonomy"
)

var (
	// ErrEmptyFile is returned when the grid has no rows at all.
	ErrEmptyFile = errors.New("importer: empty file")
	// ErrMissingColumns is returned when the header row lacks one of the
	// minimum required columns. The whole import is rejected; no rows are
	// processed.
	ErrMissingColumns = errors.New("importer: header missing required columns")
)

// Minimum required header subsets. Extra columns are ignored; order and
// casing do not matter.
var (
	expenseRequiredColumns = []string{"date", "amount", "category"}
	incomeRequiredColumns  = []string{"date", "description", "amount", "incomesourcename"}
)

// columnMap maps normalized header names to their column index. Built once
// per import from the header row, consulted per data row.
type columnMap map[string]int

func newColumnMap(header []string) columnMap {
	m := make(columnMap, len(header))
	for i, h := range header {
		key := headerKey(h)
		if key == "" {
			continue
		}
		if _, seen := m[key]; !seen {
			m[key] = i
		}
	}
	return m
}

// headerKey normalizes a header cell: "Category Group", "category_group"
// and "CategoryGroup" all map to "categorygroup".
func headerKey(h string) string {
	key := normalize.Key(h)
	for _, sep := range []string{" ", "_", "-"} {
		key = strings.ReplaceAll(key, sep, "")
	}
	return key
}

func (m columnMap) value(row []string, name string) string {
	idx, ok := m[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (m columnMap) missing(required []string) []string {
	var absent []string
	for _, name := range required {
		if _, ok := m[name]; !ok {
			absent = append(absent, name)
		}
	}
	return absent
}

// Importer orchestrates batch imports. It holds no per-batch state, so one
// Importer can serve many users' batches; each call builds its own
// taxonomy view.
type Importer struct {
	logger    *slog.Logger
	suggester *suggest.Engine
	aliases   taxonomy.AliasTable
}

// New creates an importer with the default alias table.
func New(logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		logger:  logger,
		aliases: taxonomy.DefaultAliases(),
	}
}

// WithSuggestions adds keyword-based category hints to skipped-row
// diagnostics.
func (imp *Importer) WithSuggestions(engine *suggest.Engine) *Importer {
	imp.suggester = engine
	return imp
}

// WithAliases replaces the category-group alias table.
func (imp *Importer) WithAliases(aliases taxonomy.AliasTable) *Importer {
	imp.aliases = aliases
	return imp
}

// ImportExpenses maps a raw grid to an expense batch. The first grid row
// is the header. Existing categories seed the batch-local taxonomy view;
// categories created during the run are returned on the report for the
// caller to persist along with the records.
func (imp *Importer) ImportExpenses(grid [][]string, existing []taxonomy.Category, ref *ReferenceData) (*Report, error) {
	bc, err := imp.prepare(grid, existing, ref, expenseRequiredColumns)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for i, row := range grid[1:] {
		rowNum := i + 2 // 1-indexed including the header row
		if blankRow(row) {
			continue
		}

		expense, diags := imp.mapExpenseRow(row, rowNum, bc)
		for _, d := range diags {
			report.add(d)
		}
		if expense == nil {
			report.SkippedRows++
			continue
		}
		report.Expenses = append(report.Expenses, *expense)
	}
	report.CreatedCategories = bc.batch.Created()
	noteCurrencyDefaults(report, bc)

	observeImport("expense", len(report.Expenses), report.SkippedRows, report.CreatedCategoryCount())
	imp.logger.Info("expense import mapped",
		"imported", len(report.Expenses),
		"skipped", report.SkippedRows,
		"created_categories", report.CreatedCategoryCount(),
		"errors", len(report.Errors))
	return report, nil
}

// ImportIncomes maps a raw grid to an income batch. Income sources are
// never auto-created; rows referencing unknown sources are skipped.
func (imp *Importer) ImportIncomes(grid [][]string, ref *ReferenceData) (*Report, error) {
	bc, err := imp.prepare(grid, nil, ref, incomeRequiredColumns)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for i, row := range grid[1:] {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}

		income, diags := imp.mapIncomeRow(row, rowNum, bc)
		for _, d := range diags {
			report.add(d)
		}
		if income == nil {
			report.SkippedRows++
			continue
		}
		report.Incomes = append(report.Incomes, *income)
	}
	noteCurrencyDefaults(report, bc)

	observeImport("income", len(report.Incomes), report.SkippedRows, 0)
	imp.logger.Info("income import mapped",
		"imported", len(report.Incomes),
		"skipped", report.SkippedRows,
		"errors", len(report.Errors))
	return report, nil
}

func (imp *Importer) prepare(grid [][]string, existing []taxonomy.Category, ref *ReferenceData, required []string) (*batchContext, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrEmptyFile)
	}
	if ref == nil {
		ref = &ReferenceData{}
	}

	cols := newColumnMap(grid[0])
	if absent := cols.missing(required); len(absent) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(absent, ", "))
	}

	return &batchContext{
		cols:  cols,
		ref:   ref,
		batch: taxonomy.NewBatch(existing, imp.aliases),
	}, nil
}

// noteCurrencyDefaults records, once per batch, how many rows carried no
// currency code and fell back to the base currency. Files exported without
// a currency column would otherwise drown the report in per-row notices.
func noteCurrencyDefaults(report *Report, bc *batchContext) {
	if bc.currencyDefaults == 0 {
		return
	}
	report.add(Diagnostic{
		Kind:  KindInformational,
		Field: "currency",
		Detail: fmt.Sprintf("%d rows carried no currency code and defaulted to %s",
			bc.currencyDefaults, bc.ref.BaseCurrency),
	})
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
