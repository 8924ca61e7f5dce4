package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/centavo/centavo/internal/importer"
	"github.com/centavo/centavo/internal/taxonomy"
)

// Seed file rows. IDs are optional in the files; missing ones are minted
// on load so hand-written seeds stay short.
type currencyRow struct {
	ID   string `csv:"id"`
	Code string `csv:"code"`
}

type paymentMethodRow struct {
	ID   string `csv:"id"`
	Name string `csv:"name"`
}

type incomeSourceRow struct {
	ID   string `csv:"id"`
	Name string `csv:"name"`
}

type categoryRow struct {
	ID     string `csv:"id"`
	Name   string `csv:"name"`
	Parent string `csv:"parent"` // parent category name, empty for top level
}

// Seed loads reference data for one user from CSV files in dir. Each file
// is optional: currencies.csv, payment_methods.csv, income_sources.csv,
// categories.csv. Categories may reference a parent by name; parents must
// appear before their children.
func Seed(m *Memory, userID uuid.UUID, dir string) error {
	var currencies []*currencyRow
	if err := readSeedFile(filepath.Join(dir, "currencies.csv"), &currencies); err != nil {
		return err
	}
	for _, row := range currencies {
		m.AddCurrency(userID, importer.Currency{ID: seedID(row.ID), Code: row.Code})
	}

	var methods []*paymentMethodRow
	if err := readSeedFile(filepath.Join(dir, "payment_methods.csv"), &methods); err != nil {
		return err
	}
	for _, row := range methods {
		m.AddPaymentMethod(userID, importer.PaymentMethod{ID: seedID(row.ID), Name: row.Name})
	}

	var sources []*incomeSourceRow
	if err := readSeedFile(filepath.Join(dir, "income_sources.csv"), &sources); err != nil {
		return err
	}
	for _, row := range sources {
		m.AddIncomeSource(userID, importer.IncomeSource{ID: seedID(row.ID), Name: row.Name})
	}

	var categories []*categoryRow
	if err := readSeedFile(filepath.Join(dir, "categories.csv"), &categories); err != nil {
		return err
	}
	byName := make(map[string]uuid.UUID, len(categories))
	for _, row := range categories {
		c := taxonomy.Category{ID: seedID(row.ID), Name: row.Name}
		if row.Parent != "" {
			parentID, ok := byName[row.Parent]
			if !ok {
				return fmt.Errorf("storage: category %q references unknown parent %q", row.Name, row.Parent)
			}
			c.ParentID = &parentID
		}
		byName[row.Name] = c.ID
		if err := m.AppendCategory(context.Background(), userID, c); err != nil {
			return err
		}
	}

	return nil
}

func readSeedFile(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("storage: open seed file: %w", err)
	}
	defer f.Close()

	if err := gocsv.UnmarshalFile(f, out); err != nil {
		return fmt.Errorf("storage: parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func seedID(raw string) uuid.UUID {
	if id, err := uuid.Parse(raw); err == nil {
		return id
	}
	return uuid.New()
}
