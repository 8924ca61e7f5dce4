package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centavo/centavo/internal/importer/normalize"
	"github.com/centavo/centavo/internal/importer/suggest"
	"github.com/centavo/centavo/internal/taxonomy"
	"github.com/centavo/centavo/pkg/money"
)

// batchContext carries the per-batch lookup state the row mapper needs:
// the header map, the live reference lists, and the mutable taxonomy view.
type batchContext struct {
	cols  columnMap
	ref   *ReferenceData
	batch *taxonomy.Batch

	// currencyDefaults counts rows that carried no currency code at all and
	// fell back to the base currency. Reported once per batch, not per row.
	currencyDefaults int
}

// mapExpenseRow validates one data row and maps it to an Expense. A nil
// expense means the row was skipped; the returned diagnostics explain why.
// A non-nil expense may still carry a soft-degradation diagnostic.
func (imp *Importer) mapExpenseRow(row []string, rowNum int, bc *batchContext) (*Expense, []Diagnostic) {
	var diags []Diagnostic

	date, ok := requireDate(bc.cols.value(row, "date"), rowNum, &diags)
	if !ok {
		return nil, diags
	}

	amount, ok := requireAmount(bc.cols.value(row, "amount"), rowNum, &diags)
	if !ok {
		return nil, diags
	}

	categoryName := bc.cols.value(row, "category")
	if categoryName == "" {
		diags = append(diags, Diagnostic{
			Kind: KindMissingField, Row: rowNum, Field: "category",
			Detail: "missing category",
		})
		imp.suggestCategory(row, rowNum, bc, &diags)
		return nil, diags
	}

	res, err := bc.batch.Resolve(bc.cols.value(row, "categorygroup"), categoryName)
	if err != nil {
		diags = append(diags, Diagnostic{
			Kind: KindMissingField, Row: rowNum, Field: "category",
			Detail: fmt.Sprintf("unusable category name %q", categoryName),
		})
		return nil, diags
	}
	if res.AliasTo != "" {
		diags = append(diags, Diagnostic{
			Kind: KindInformational, Row: rowNum, Field: "categorygroup",
			Detail: fmt.Sprintf("category group %q mapped to %q", res.AliasFrom, res.AliasTo),
		})
	}
	for _, created := range res.Created {
		diags = append(diags, Diagnostic{
			Kind: KindInformational, Row: rowNum, Field: "category",
			Detail: fmt.Sprintf("created category %q", bc.batch.Path(created)),
		})
	}

	expense := &Expense{
		Date:       date,
		Amount:     amount.Abs(), // source sign is not meaningful for expenses
		CategoryID: res.CategoryID,
	}

	expense.CurrencyID = imp.resolveCurrency(bc.cols.value(row, "currency"), "currency", rowNum, bc, &diags)

	if name := bc.cols.value(row, "account"); name != "" {
		if pm, found := bc.ref.paymentMethodByName(name); found {
			id := pm.ID
			expense.PaymentMethodID = &id
		} else {
			detail := fmt.Sprintf("payment method %q not found; left unset", name)
			if hint, found := suggest.Closest(name, bc.ref.paymentMethodNames()); found {
				detail += fmt.Sprintf(" (did you mean %q?)", hint)
			}
			diags = append(diags, Diagnostic{
				Kind: KindInformational, Row: rowNum, Field: "account", Detail: detail,
			})
		}
	}

	expense.Description = bc.cols.value(row, "note")
	if expense.Description == "" {
		expense.Description = res.DisplayName
	}

	if flag, ok := normalize.Bool(bc.cols.value(row, "issubscription")); ok && flag {
		if due, ok := normalize.Date(bc.cols.value(row, "nextduedate")); ok {
			expense.IsSubscription = true
			expense.NextDueDate = &due
		} else {
			// The row is still imported as a plain expense; the dropped flag
			// is reported in the error list all the same.
			diags = append(diags, Diagnostic{
				Kind: KindSoftDegradation, Row: rowNum, Field: "nextduedate",
				Detail: "subscription flag dropped: next due date missing or unparseable",
			})
		}
	}

	return expense, diags
}

// mapIncomeRow validates one data row and maps it to an Income. Income
// sources are a closed set: an unmatched name rejects the row.
func (imp *Importer) mapIncomeRow(row []string, rowNum int, bc *batchContext) (*Income, []Diagnostic) {
	var diags []Diagnostic

	date, ok := requireDate(bc.cols.value(row, "date"), rowNum, &diags)
	if !ok {
		return nil, diags
	}

	description := bc.cols.value(row, "description")
	if description == "" {
		diags = append(diags, Diagnostic{
			Kind: KindMissingField, Row: rowNum, Field: "description",
			Detail: "missing description",
		})
		return nil, diags
	}

	amount, ok := requireAmount(bc.cols.value(row, "amount"), rowNum, &diags)
	if !ok {
		return nil, diags
	}
	if !amount.IsPositive() {
		diags = append(diags, Diagnostic{
			Kind: KindMissingField, Row: rowNum, Field: "amount",
			Detail: fmt.Sprintf("income amount must be positive, got %s", amount),
		})
		return nil, diags
	}

	sourceName := bc.cols.value(row, "incomesourcename")
	if sourceName == "" {
		diags = append(diags, Diagnostic{
			Kind: KindMissingField, Row: rowNum, Field: "incomesourcename",
			Detail: "missing income source",
		})
		return nil, diags
	}
	source, found := bc.ref.incomeSourceByName(sourceName)
	if !found {
		detail := fmt.Sprintf("income source %q not found", sourceName)
		if hint, ok := suggest.Closest(sourceName, bc.ref.incomeSourceNames()); ok {
			detail += fmt.Sprintf(" (did you mean %q?)", hint)
		}
		diags = append(diags, Diagnostic{
			Kind: KindUnresolvedReference, Row: rowNum, Field: "incomesourcename",
			Detail: detail,
		})
		return nil, diags
	}

	income := &Income{
		Date:        date,
		Description: description,
		Amount:      amount,
		SourceID:    source.ID,
	}
	income.CurrencyID = imp.resolveCurrency(bc.cols.value(row, "currencycode"), "currencycode", rowNum, bc, &diags)

	return income, diags
}

func requireDate(raw string, rowNum int, diags *[]Diagnostic) (date time.Time, ok bool) {
	if raw == "" {
		*diags = append(*diags, Diagnostic{
			Kind: KindMissingField, Row: rowNum, Field: "date",
			Detail: "missing date",
		})
		return date, false
	}
	parsed, ok := normalize.Date(raw)
	if !ok {
		*diags = append(*diags, Diagnostic{
			Kind: KindMissingField, Row: rowNum, Field: "date",
			Detail: fmt.Sprintf("unparseable date %q", raw),
		})
		return date, false
	}
	return parsed, true
}

func requireAmount(raw string, rowNum int, diags *[]Diagnostic) (amount decimal.Decimal, ok bool) {
	if raw == "" {
		*diags = append(*diags, Diagnostic{
			Kind: KindMissingField, Row: rowNum, Field: "amount",
			Detail: "missing amount",
		})
		return amount, false
	}
	parsed, ok := normalize.Amount(raw)
	if !ok {
		*diags = append(*diags, Diagnostic{
			Kind: KindMissingField, Row: rowNum, Field: "amount",
			Detail: fmt.Sprintf("unparseable amount %q", raw),
		})
		return amount, false
	}
	return parsed, true
}

// resolveCurrency maps a currency code cell to a currency record, falling
// back to the base currency with an informational notice when the code is
// missing or unmatched.
func (imp *Importer) resolveCurrency(code, field string, rowNum int, bc *batchContext, diags *[]Diagnostic) uuid.UUID {
	if code != "" {
		if c, found := bc.ref.currencyByCode(code); found {
			return c.ID
		}
		detail := fmt.Sprintf("currency %q is not configured; using %s", code, bc.ref.BaseCurrency)
		if !money.ValidCode(code) {
			detail = fmt.Sprintf("unknown currency code %q; using %s", code, bc.ref.BaseCurrency)
		}
		*diags = append(*diags, Diagnostic{
			Kind: KindInformational, Row: rowNum, Field: field, Detail: detail,
		})
	}

	base, found := bc.ref.baseCurrency()
	if !found {
		*diags = append(*diags, Diagnostic{
			Kind: KindInformational, Row: rowNum, Field: field,
			Detail: fmt.Sprintf("base currency %s is not configured; currency left unset", bc.ref.BaseCurrency),
		})
		return uuid.Nil
	}
	if code == "" {
		bc.currencyDefaults++
	}
	return base.ID
}

// suggestCategory emits a hint for a row skipped for a missing category,
// based on keywords in its note text.
func (imp *Importer) suggestCategory(row []string, rowNum int, bc *batchContext, diags *[]Diagnostic) {
	if imp.suggester == nil {
		return
	}
	note := bc.cols.value(row, "note")
	rule, ok := imp.suggester.Category(note)
	if !ok {
		return
	}
	detail := fmt.Sprintf("note %q looks like category %q", note, rule.Category)
	if rule.Group != "" {
		detail += fmt.Sprintf(" under %q", rule.Group)
	}
	*diags = append(*diags, Diagnostic{
		Kind: KindInformational, Row: rowNum, Field: "category", Detail: detail,
	})
}
