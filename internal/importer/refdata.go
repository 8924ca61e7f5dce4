package importer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centavo/centavo/internal/importer/normalize"
)

// Expense is a fully validated outgoing transaction produced by the row
// mapper. Ownership transfers to the caller, which persists it.
type Expense struct {
	Date            time.Time
	Description     string
	Amount          decimal.Decimal // always >= 0
	CategoryID      uuid.UUID
	CurrencyID      uuid.UUID
	PaymentMethodID *uuid.UUID
	IsSubscription  bool
	NextDueDate     *time.Time
}

// Income is a validated incoming transaction. Unlike expenses, income
// sources are a closed, user-curated set: rows referencing an unknown
// source are rejected rather than auto-created.
type Income struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // always > 0
	SourceID    uuid.UUID
	CurrencyID  uuid.UUID
}

// Currency is a user-configured currency record.
type Currency struct {
	ID   uuid.UUID
	Code string // ISO-4217
}

// PaymentMethod is a user-configured payment method (card, cash, account).
type PaymentMethod struct {
	ID   uuid.UUID
	Name string
}

// IncomeSource is a user-curated income origin (salary, dividends, ...).
type IncomeSource struct {
	ID   uuid.UUID
	Name string
}

// ReferenceData carries the live lookup lists a batch resolves against.
// BaseCurrency names the code used when a row has no usable currency.
type ReferenceData struct {
	BaseCurrency   string
	Currencies     []Currency
	PaymentMethods []PaymentMethod
	IncomeSources  []IncomeSource
}

func (rd *ReferenceData) currencyByCode(code string) (Currency, bool) {
	key := normalize.Key(code)
	if key == "" {
		return Currency{}, false
	}
	for _, c := range rd.Currencies {
		if normalize.Key(c.Code) == key {
			return c, true
		}
	}
	return Currency{}, false
}

func (rd *ReferenceData) baseCurrency() (Currency, bool) {
	return rd.currencyByCode(rd.BaseCurrency)
}

func (rd *ReferenceData) paymentMethodByName(name string) (PaymentMethod, bool) {
	key := normalize.Key(name)
	if key == "" {
		return PaymentMethod{}, false
	}
	for _, pm := range rd.PaymentMethods {
		if normalize.Key(pm.Name) == key {
			return pm, true
		}
	}
	return PaymentMethod{}, false
}

func (rd *ReferenceData) incomeSourceByName(name string) (IncomeSource, bool) {
	key := normalize.Key(name)
	if key == "" {
		return IncomeSource{}, false
	}
	for _, src := range rd.IncomeSources {
		if normalize.Key(src.Name) == key {
			return src, true
		}
	}
	return IncomeSource{}, false
}

func (rd *ReferenceData) paymentMethodNames() []string {
	names := make([]string, len(rd.PaymentMethods))
	for i, pm := range rd.PaymentMethods {
		names[i] = pm.Name
	}
	return names
}

func (rd *ReferenceData) incomeSourceNames() []string {
	names := make([]string, len(rd.IncomeSources))
	for i, src := range rd.IncomeSources {
		names[i] = src.Name
	}
	return names
}
