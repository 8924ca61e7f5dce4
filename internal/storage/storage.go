// Package storage defines the persistence contract the import pipeline
// hands its results to, plus an in-memory implementation used by the CLI
// and tests. The import core itself never writes anywhere; a Store is the
// single seam where a database-backed implementation plugs in.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/centavo/centavo/internal/importer"
	"github.com/centavo/centavo/internal/taxonomy"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store persists import results and serves the reference lists the
// importer resolves against. All methods are scoped to one user.
type Store interface {
	// Categories returns the user's full category taxonomy, both levels.
	Categories(ctx context.Context, userID uuid.UUID) ([]taxonomy.Category, error)

	// Currencies returns the user's configured currencies.
	Currencies(ctx context.Context, userID uuid.UUID) ([]importer.Currency, error)

	// PaymentMethods returns the user's configured payment methods.
	PaymentMethods(ctx context.Context, userID uuid.UUID) ([]importer.PaymentMethod, error)

	// IncomeSources returns the user's curated income sources.
	IncomeSources(ctx context.Context, userID uuid.UUID) ([]importer.IncomeSource, error)

	// AppendCategory stores one category. Appending an ID that already
	// exists is a no-op, so replaying a batch cannot duplicate taxonomy.
	AppendCategory(ctx context.Context, userID uuid.UUID, c taxonomy.Category) error

	// AppendExpense stores one expense record.
	AppendExpense(ctx context.Context, userID uuid.UUID, e importer.Expense) error

	// AppendIncome stores one income record.
	AppendIncome(ctx context.Context, userID uuid.UUID, in importer.Income) error
}

// ReferenceData assembles the importer's lookup lists from a store.
func ReferenceData(ctx context.Context, s Store, userID uuid.UUID, baseCurrency string) (*importer.ReferenceData, error) {
	currencies, err := s.Currencies(ctx, userID)
	if err != nil {
		return nil, err
	}
	methods, err := s.PaymentMethods(ctx, userID)
	if err != nil {
		return nil, err
	}
	sources, err := s.IncomeSources(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &importer.ReferenceData{
		BaseCurrency:   baseCurrency,
		Currencies:     currencies,
		PaymentMethods: methods,
		IncomeSources:  sources,
	}, nil
}
