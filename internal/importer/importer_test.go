package importer

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo/centavo/internal/importer/suggest"
	"github.com/centavo/centavo/internal/taxonomy"
)

func testImporter() *Importer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger).WithSuggestions(suggest.NewEngine(suggest.DefaultRules()))
}

// fieldInfos narrows the report's informational notices to one field, so
// assertions are not thrown off by the created-category notices that
// accompany most batches.
func fieldInfos(r *Report, field string) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Infos {
		if d.Field == field {
			out = append(out, d)
		}
	}
	return out
}

func testRef() *ReferenceData {
	return &ReferenceData{
		BaseCurrency: "EUR",
		Currencies: []Currency{
			{ID: uuid.New(), Code: "EUR"},
			{ID: uuid.New(), Code: "USD"},
		},
		PaymentMethods: []PaymentMethod{
			{ID: uuid.New(), Name: "Cash"},
			{ID: uuid.New(), Name: "Credit Card"},
		},
		IncomeSources: []IncomeSource{
			{ID: uuid.New(), Name: "Salary"},
			{ID: uuid.New(), Name: "Dividends"},
		},
	}
}

func TestImportExpenses_EndToEnd(t *testing.T) {
	grid := [][]string{
		{"Date", "Amount", "Category", "CategoryGroup"},
		{"2024-01-05", "45.00", "Fruits", "Groceries"},
		{"2024-01-06", "12,000", "Fruits", "Groceries"},
	}

	report, err := testImporter().ImportExpenses(grid, nil, testRef())
	require.NoError(t, err)

	require.Len(t, report.Expenses, 2)
	assert.Equal(t, 0, report.SkippedRows)
	assert.Empty(t, report.Errors)

	// One main and one sub category created on row 1, reused by row 2.
	assert.Equal(t, 2, report.CreatedCategoryCount())
	assert.Equal(t, report.Expenses[0].CategoryID, report.Expenses[1].CategoryID)

	assert.True(t, report.Expenses[0].Amount.Equal(decimal.RequireFromString("45.00")))
	assert.True(t, report.Expenses[1].Amount.Equal(decimal.RequireFromString("12000")))

	// Input order is preserved.
	assert.Equal(t, time.January, report.Expenses[0].Date.Month())
	assert.Equal(t, 5, report.Expenses[0].Date.Day())
	assert.Equal(t, 6, report.Expenses[1].Date.Day())
}

func TestImportExpenses_HeaderValidation(t *testing.T) {
	t.Run("missing amount column aborts the batch", func(t *testing.T) {
		grid := [][]string{
			{"Date", "Category"},
			{"2024-01-05", "Fruits"},
		}
		report, err := testImporter().ImportExpenses(grid, nil, testRef())
		assert.ErrorIs(t, err, ErrMissingColumns)
		assert.ErrorContains(t, err, "amount")
		assert.Nil(t, report)
	})

	t.Run("empty grid aborts the batch", func(t *testing.T) {
		_, err := testImporter().ImportExpenses(nil, nil, testRef())
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("header casing and spacing are irrelevant", func(t *testing.T) {
		grid := [][]string{
			{"DATE", "amount", "Category", "Category Group", "is_subscription"},
			{"2024-01-05", "9.99", "Streaming", "Entertainment", "no"},
		}
		report, err := testImporter().ImportExpenses(grid, nil, testRef())
		require.NoError(t, err)
		assert.Len(t, report.Expenses, 1)
	})
}

func TestImportExpenses_RowPolicies(t *testing.T) {
	imp := testImporter()

	t.Run("negative amounts import as absolute values", func(t *testing.T) {
		grid := [][]string{
			{"Date", "Amount", "Category"},
			{"2024-02-01", "-99.90", "Rent"},
		}
		report, err := imp.ImportExpenses(grid, nil, testRef())
		require.NoError(t, err)
		require.Len(t, report.Expenses, 1)
		assert.True(t, report.Expenses[0].Amount.Equal(decimal.RequireFromString("99.90")))
		assert.NotEqual(t, uuid.Nil, report.Expenses[0].CategoryID)
	})

	t.Run("invalid required fields skip the row, not the batch", func(t *testing.T) {
		grid := [][]string{
			{"Date", "Amount", "Category"},
			{"not-a-date", "10.00", "Fruits"},
			{"2024-02-01", "ten", "Fruits"},
			{"2024-02-02", "10.00", ""},
			{"2024-02-03", "10.00", "Fruits"},
		}
		report, err := imp.ImportExpenses(grid, nil, testRef())
		require.NoError(t, err)
		assert.Len(t, report.Expenses, 1)
		assert.Equal(t, 3, report.SkippedRows)
		require.Len(t, report.Errors, 3)
		assert.Equal(t, "row 2: unparseable date \"not-a-date\"", report.Errors[0].String())
		assert.Equal(t, 3, report.Errors[1].Row)
		assert.Equal(t, KindMissingField, report.Errors[2].Kind)
	})

	t.Run("unmatched currency defaults to base with an info notice", func(t *testing.T) {
		ref := testRef()
		grid := [][]string{
			{"Date", "Amount", "Category", "Currency"},
			{"2024-02-01", "10.00", "Fruits", "GBP"},
			{"2024-02-02", "10.00", "Fruits", "usd"},
		}
		report, err := imp.ImportExpenses(grid, nil, ref)
		require.NoError(t, err)
		require.Len(t, report.Expenses, 2)

		base, _ := ref.currencyByCode("EUR")
		assert.Equal(t, base.ID, report.Expenses[0].CurrencyID)
		usd, _ := ref.currencyByCode("USD")
		assert.Equal(t, usd.ID, report.Expenses[1].CurrencyID)

		currencyInfos := fieldInfos(report, "currency")
		require.Len(t, currencyInfos, 1)
		assert.Equal(t, KindInformational, currencyInfos[0].Kind)
		assert.Contains(t, currencyInfos[0].Detail, "GBP")

		// Creating "Fruits" is reported too, as a category notice.
		assert.NotEmpty(t, fieldInfos(report, "category"))
		assert.Empty(t, report.Errors)
	})

	t.Run("unmatched payment method stays unset with a hint", func(t *testing.T) {
		grid := [][]string{
			{"Date", "Amount", "Category", "Account"},
			{"2024-02-01", "10.00", "Fruits", "Credit Crad"},
			{"2024-02-02", "10.00", "Fruits", "cash"},
		}
		report, err := imp.ImportExpenses(grid, nil, testRef())
		require.NoError(t, err)
		require.Len(t, report.Expenses, 2)

		assert.Nil(t, report.Expenses[0].PaymentMethodID)
		require.NotNil(t, report.Expenses[1].PaymentMethodID)

		accountInfos := fieldInfos(report, "account")
		require.Len(t, accountInfos, 1)
		assert.Contains(t, accountInfos[0].Detail, "Credit Card")
	})

	t.Run("missing note falls back to the category display name", func(t *testing.T) {
		grid := [][]string{
			{"Date", "Amount", "Category", "Note"},
			{"2024-02-01", "10.00", "fruits", ""},
			{"2024-02-02", "10.00", "fruits", "Weekly shop"},
		}
		report, err := imp.ImportExpenses(grid, nil, testRef())
		require.NoError(t, err)
		require.Len(t, report.Expenses, 2)
		assert.Equal(t, "Fruits", report.Expenses[0].Description)
		assert.Equal(t, "Weekly shop", report.Expenses[1].Description)
	})

	t.Run("car group resolves to Transport", func(t *testing.T) {
		grid := [][]string{
			{"Date", "Amount", "Category", "CategoryGroup"},
			{"2024-02-01", "60.00", "Fuel", "Car"},
		}
		report, err := imp.ImportExpenses(grid, nil, testRef())
		require.NoError(t, err)
		require.Len(t, report.Expenses, 1)

		names := make([]string, 0, len(report.CreatedCategories))
		for _, c := range report.CreatedCategories {
			names = append(names, c.Name)
		}
		assert.Contains(t, names, "Transport")
		assert.NotContains(t, names, "Car")
	})
}

func TestImportExpenses_CurrencyDefaultNotice(t *testing.T) {
	imp := testImporter()

	t.Run("a file without currency codes gets one batch-level notice", func(t *testing.T) {
		grid := [][]string{
			{"Date", "Amount", "Category"},
			{"2024-02-01", "10.00", "Fruits"},
			{"2024-02-02", "20.00", "Fruits"},
		}
		report, err := imp.ImportExpenses(grid, nil, testRef())
		require.NoError(t, err)
		require.Len(t, report.Expenses, 2)

		notices := fieldInfos(report, "currency")
		require.Len(t, notices, 1)
		assert.Equal(t, KindInformational, notices[0].Kind)
		assert.Contains(t, notices[0].Detail, "2 rows")
		assert.Contains(t, notices[0].Detail, "EUR")
		assert.Zero(t, notices[0].Row)
	})

	t.Run("rows with explicit codes stay quiet", func(t *testing.T) {
		grid := [][]string{
			{"Date", "Amount", "Category", "Currency"},
			{"2024-02-01", "10.00", "Fruits", "EUR"},
			{"2024-02-02", "20.00", "Fruits", "usd"},
		}
		report, err := imp.ImportExpenses(grid, nil, testRef())
		require.NoError(t, err)
		assert.Empty(t, fieldInfos(report, "currency"))
	})
}

func TestImportExpenses_SubscriptionDegradation(t *testing.T) {
	imp := testImporter()

	t.Run("valid due date keeps the flag", func(t *testing.T) {
		grid := [][]string{
			{"Date", "Amount", "Category", "IsSubscription", "NextDueDate"},
			{"2024-02-01", "9.99", "Streaming", "yes", "2024-03-01"},
		}
		report, err := imp.ImportExpenses(grid, nil, testRef())
		require.NoError(t, err)
		require.Len(t, report.Expenses, 1)
		assert.True(t, report.Expenses[0].IsSubscription)
		require.NotNil(t, report.Expenses[0].NextDueDate)
		assert.Equal(t, time.March, report.Expenses[0].NextDueDate.Month())
	})

	t.Run("unresolvable due date drops the flag but keeps the row", func(t *testing.T) {
		grid := [][]string{
			{"Date", "Amount", "Category", "IsSubscription", "NextDueDate"},
			{"2024-02-01", "9.99", "Streaming", "yes", "someday"},
		}
		report, err := imp.ImportExpenses(grid, nil, testRef())
		require.NoError(t, err)

		require.Len(t, report.Expenses, 1)
		assert.False(t, report.Expenses[0].IsSubscription)
		assert.Nil(t, report.Expenses[0].NextDueDate)

		// Reported as an error even though the row was imported.
		require.Len(t, report.Errors, 1)
		assert.Equal(t, KindSoftDegradation, report.Errors[0].Kind)
		assert.Equal(t, 0, report.SkippedRows)
	})

	t.Run("unrecognized flag token means flag absent", func(t *testing.T) {
		grid := [][]string{
			{"Date", "Amount", "Category", "IsSubscription"},
			{"2024-02-01", "9.99", "Streaming", "maybe"},
		}
		report, err := imp.ImportExpenses(grid, nil, testRef())
		require.NoError(t, err)
		require.Len(t, report.Expenses, 1)
		assert.False(t, report.Expenses[0].IsSubscription)
		assert.Empty(t, report.Errors)
	})
}

func TestImportExpenses_ExistingTaxonomy(t *testing.T) {
	parentID := uuid.New()
	leafID := uuid.New()
	existing := []taxonomy.Category{
		{ID: parentID, Name: "Groceries"},
		{ID: leafID, Name: "Fruits", ParentID: &parentID},
	}
	grid := [][]string{
		{"Date", "Amount", "Category", "CategoryGroup"},
		{"2024-01-05", "45.00", "FRUITS", "groceries"},
	}

	report, err := testImporter().ImportExpenses(grid, existing, testRef())
	require.NoError(t, err)
	require.Len(t, report.Expenses, 1)
	assert.Equal(t, leafID, report.Expenses[0].CategoryID)
	assert.Zero(t, report.CreatedCategoryCount())
}

func TestImportExpenses_CategorySuggestion(t *testing.T) {
	grid := [][]string{
		{"Date", "Amount", "Category", "Note"},
		{"2024-02-01", "15.99", "", "NETFLIX.COM subscription"},
	}
	report, err := testImporter().ImportExpenses(grid, nil, testRef())
	require.NoError(t, err)

	assert.Empty(t, report.Expenses)
	assert.Equal(t, 1, report.SkippedRows)
	require.NotEmpty(t, report.Infos)
	assert.Contains(t, report.Infos[0].Detail, "Streaming")
}

func TestImportIncomes(t *testing.T) {
	imp := testImporter()

	t.Run("maps valid rows", func(t *testing.T) {
		ref := testRef()
		grid := [][]string{
			{"Date", "Description", "Amount", "IncomeSourceName", "CurrencyCode"},
			{"2024-01-31", "January paycheck", "2500.00", "Salary", "EUR"},
		}
		report, err := imp.ImportIncomes(grid, ref)
		require.NoError(t, err)
		require.Len(t, report.Incomes, 1)

		income := report.Incomes[0]
		assert.Equal(t, "January paycheck", income.Description)
		assert.True(t, income.Amount.Equal(decimal.RequireFromString("2500.00")))
		src, _ := ref.incomeSourceByName("salary")
		assert.Equal(t, src.ID, income.SourceID)
	})

	t.Run("unknown income source rejects the row", func(t *testing.T) {
		grid := [][]string{
			{"Date", "Description", "Amount", "IncomeSourceName"},
			{"2024-01-31", "Side gig", "300.00", "Freelance"},
		}
		report, err := imp.ImportIncomes(grid, testRef())
		require.NoError(t, err)

		assert.Empty(t, report.Incomes)
		assert.Equal(t, 1, report.SkippedRows)
		require.Len(t, report.Errors, 1)
		assert.Equal(t, KindUnresolvedReference, report.Errors[0].Kind)
		assert.Contains(t, report.Errors[0].Detail, "Freelance")
	})

	t.Run("non-positive amounts are rejected", func(t *testing.T) {
		grid := [][]string{
			{"Date", "Description", "Amount", "IncomeSourceName"},
			{"2024-01-31", "Refund gone wrong", "-300.00", "Salary"},
			{"2024-01-31", "Nothing", "0", "Salary"},
		}
		report, err := imp.ImportIncomes(grid, testRef())
		require.NoError(t, err)
		assert.Empty(t, report.Incomes)
		assert.Equal(t, 2, report.SkippedRows)
		assert.Len(t, report.Errors, 2)
	})

	t.Run("missing description rejects the row", func(t *testing.T) {
		grid := [][]string{
			{"Date", "Description", "Amount", "IncomeSourceName"},
			{"2024-01-31", "", "100.00", "Salary"},
		}
		report, err := imp.ImportIncomes(grid, testRef())
		require.NoError(t, err)
		assert.Equal(t, 1, report.SkippedRows)
	})

	t.Run("missing required header aborts", func(t *testing.T) {
		grid := [][]string{
			{"Date", "Amount", "IncomeSourceName"},
		}
		_, err := imp.ImportIncomes(grid, testRef())
		assert.ErrorIs(t, err, ErrMissingColumns)
		assert.ErrorContains(t, err, "description")
	})
}

func TestImportExpenses_Bulk(t *testing.T) {
	faker := gofakeit.New(7)
	groups := []string{"Groceries", "Transport", "Entertainment", "Home", ""}

	grid := [][]string{{"Date", "Amount", "Category", "CategoryGroup", "Note"}}
	for i := 0; i < 500; i++ {
		grid = append(grid, []string{
			faker.DateRange(
				time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			).Format("2006-01-02"),
			fmt.Sprintf("%.2f", faker.Price(1, 500)),
			fmt.Sprintf("Category %d", i%20),
			groups[i%len(groups)],
			faker.ProductName(),
		})
	}

	report, err := testImporter().ImportExpenses(grid, nil, testRef())
	require.NoError(t, err)

	assert.Len(t, report.Expenses, 500)
	assert.Zero(t, report.SkippedRows)
	assert.Empty(t, report.Errors)

	// 20 distinct leaf names across 5 group buckets (one of them empty)
	// plus the 4 named groups; every later occurrence reuses the first.
	assert.Equal(t, len(report.CreatedCategories), report.CreatedCategoryCount())
	assert.Less(t, report.CreatedCategoryCount(), 500)

	for _, e := range report.Expenses {
		assert.False(t, e.Amount.IsNegative())
		assert.NotEqual(t, uuid.Nil, e.CategoryID)
	}
}
