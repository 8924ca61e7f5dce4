package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/centavo/centavo/internal/importer"
)

// PersistReport writes one import report to the store: created categories
// first so expense rows never reference a category the store has not seen,
// then the records in their original file order. Each write is independent;
// a failed record is noted and the rest still go through. The returned
// error joins all individual failures, nil when everything landed.
func PersistReport(ctx context.Context, s Store, userID uuid.UUID, report *importer.Report) error {
	var errs []error

	for _, c := range report.CreatedCategories {
		if err := s.AppendCategory(ctx, userID, c); err != nil {
			errs = append(errs, fmt.Errorf("category %q: %w", c.Name, err))
		}
	}
	for i, e := range report.Expenses {
		if err := s.AppendExpense(ctx, userID, e); err != nil {
			errs = append(errs, fmt.Errorf("expense %d (%s): %w", i+1, e.Description, err))
		}
	}
	for i, in := range report.Incomes {
		if err := s.AppendIncome(ctx, userID, in); err != nil {
			errs = append(errs, fmt.Errorf("income %d (%s): %w", i+1, in.Description, err))
		}
	}

	return errors.Join(errs...)
}
