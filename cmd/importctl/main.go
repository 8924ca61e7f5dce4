// Command importctl imports an expense or income file from the command
// line: it reads the file, maps it through the import pipeline against
// seeded reference data, persists the result and prints the report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centavo/centavo/internal/importer"
	"github.com/centavo/centavo/internal/importer/reader"
	"github.com/centavo/centavo/internal/importer/suggest"
	"github.com/centavo/centavo/internal/storage"
	"github.com/centavo/centavo/pkg/config"
	"github.com/centavo/centavo/pkg/money"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "importctl:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		file = flag.String("file", "", "path to the CSV or Excel file to import (required)")
		kind = flag.String("kind", "expense", "record kind: expense or income")
		user = flag.String("user", "", "user ID; a fresh one is minted when empty")
	)
	flag.Parse()

	if *file == "" {
		flag.Usage()
		return fmt.Errorf("-file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Observability)

	userID := uuid.New()
	if *user != "" {
		userID, err = uuid.Parse(*user)
		if err != nil {
			return fmt.Errorf("invalid -user: %w", err)
		}
	}

	ctx := context.Background()
	store := storage.NewMemory()
	if err := storage.Seed(store, userID, cfg.Seed.Dir); err != nil {
		return err
	}

	grid, err := readFile(*file)
	if err != nil {
		return err
	}
	if cfg.Import.MaxRows > 0 && len(grid) > cfg.Import.MaxRows+1 {
		return fmt.Errorf("file has %d data rows, limit is %d", len(grid)-1, cfg.Import.MaxRows)
	}

	ref, err := storage.ReferenceData(ctx, store, userID, cfg.Import.BaseCurrency)
	if err != nil {
		return err
	}

	imp := importer.New(logger).WithSuggestions(suggest.NewEngine(suggest.DefaultRules()))

	var report *importer.Report
	switch strings.ToLower(*kind) {
	case "expense", "expenses":
		existing, err := store.Categories(ctx, userID)
		if err != nil {
			return err
		}
		report, err = imp.ImportExpenses(grid, existing, ref)
		if err != nil {
			return err
		}
	case "income", "incomes":
		report, err = imp.ImportIncomes(grid, ref)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown -kind %q", *kind)
	}

	if err := storage.PersistReport(ctx, store, userID, report); err != nil {
		return fmt.Errorf("persist: %w", err)
	}

	printReport(report, ref)
	return nil
}

func readFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return reader.Read(f, reader.DetectFormat(path))
}

func newLogger(cfg config.ObservabilityConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func printReport(report *importer.Report, ref *importer.ReferenceData) {
	fmt.Println(report.Summary())
	for _, line := range currencyTotals(report, ref) {
		fmt.Println("  total:", line)
	}
	for _, line := range report.ErrorStrings() {
		fmt.Println("  error:", line)
	}
	for _, d := range report.Infos {
		fmt.Println("  note:", d)
	}
}

// currencyTotals sums the imported records per currency and renders each
// total in its currency's display format.
func currencyTotals(report *importer.Report, ref *importer.ReferenceData) []string {
	codes := make(map[uuid.UUID]string, len(ref.Currencies))
	for _, c := range ref.Currencies {
		codes[c.ID] = strings.ToUpper(c.Code)
	}

	totals := make(map[string]*money.Money)
	var order []string
	add := func(currencyID uuid.UUID, amount decimal.Decimal) {
		code, ok := codes[currencyID]
		if !ok {
			return
		}
		sum, err := totals[code].Add(money.NewFromDecimal(amount, code))
		if err != nil {
			return
		}
		if _, seen := totals[code]; !seen {
			order = append(order, code)
		}
		totals[code] = sum
	}

	for _, e := range report.Expenses {
		add(e.CurrencyID, e.Amount)
	}
	for _, in := range report.Incomes {
		add(in.CurrencyID, in.Amount)
	}

	lines := make([]string, 0, len(order))
	for _, code := range order {
		sum := totals[code]
		if sum.IsZero() {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s", code, money.FormatDecimal(sum.ToDecimal(), code)))
	}
	return lines
}
