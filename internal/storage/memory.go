package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/centavo/centavo/internal/importer"
	"github.com/centavo/centavo/internal/taxonomy"
)

// Memory is an in-process Store. It keeps per-user records behind one
// mutex; good enough for the CLI and for tests, not meant for servers.
type Memory struct {
	mu    sync.Mutex
	users map[uuid.UUID]*userData
}

type userData struct {
	categories     []taxonomy.Category
	categoryIDs    map[uuid.UUID]struct{}
	currencies     []importer.Currency
	paymentMethods []importer.PaymentMethod
	incomeSources  []importer.IncomeSource
	expenses       []importer.Expense
	incomes        []importer.Income
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{users: make(map[uuid.UUID]*userData)}
}

func (m *Memory) user(userID uuid.UUID) *userData {
	u, ok := m.users[userID]
	if !ok {
		u = &userData{categoryIDs: make(map[uuid.UUID]struct{})}
		m.users[userID] = u
	}
	return u
}

func (m *Memory) Categories(_ context.Context, userID uuid.UUID) ([]taxonomy.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	out := make([]taxonomy.Category, len(u.categories))
	copy(out, u.categories)
	return out, nil
}

func (m *Memory) Currencies(_ context.Context, userID uuid.UUID) ([]importer.Currency, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	out := make([]importer.Currency, len(u.currencies))
	copy(out, u.currencies)
	return out, nil
}

func (m *Memory) PaymentMethods(_ context.Context, userID uuid.UUID) ([]importer.PaymentMethod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	out := make([]importer.PaymentMethod, len(u.paymentMethods))
	copy(out, u.paymentMethods)
	return out, nil
}

func (m *Memory) IncomeSources(_ context.Context, userID uuid.UUID) ([]importer.IncomeSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	out := make([]importer.IncomeSource, len(u.incomeSources))
	copy(out, u.incomeSources)
	return out, nil
}

func (m *Memory) AppendCategory(_ context.Context, userID uuid.UUID, c taxonomy.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	if _, exists := u.categoryIDs[c.ID]; exists {
		return nil
	}
	u.categoryIDs[c.ID] = struct{}{}
	u.categories = append(u.categories, c)
	return nil
}

func (m *Memory) AppendExpense(_ context.Context, userID uuid.UUID, e importer.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user(userID).expenses = append(m.user(userID).expenses, e)
	return nil
}

func (m *Memory) AppendIncome(_ context.Context, userID uuid.UUID, in importer.Income) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user(userID).incomes = append(m.user(userID).incomes, in)
	return nil
}

// AddCurrency registers a currency in the user's reference data.
func (m *Memory) AddCurrency(userID uuid.UUID, c importer.Currency) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user(userID).currencies = append(m.user(userID).currencies, c)
}

// AddPaymentMethod registers a payment method in the user's reference data.
func (m *Memory) AddPaymentMethod(userID uuid.UUID, pm importer.PaymentMethod) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user(userID).paymentMethods = append(m.user(userID).paymentMethods, pm)
}

// AddIncomeSource registers an income source in the user's reference data.
func (m *Memory) AddIncomeSource(userID uuid.UUID, src importer.IncomeSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user(userID).incomeSources = append(m.user(userID).incomeSources, src)
}

// Expenses returns the user's stored expenses, in append order.
func (m *Memory) Expenses(userID uuid.UUID) []importer.Expense {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	out := make([]importer.Expense, len(u.expenses))
	copy(out, u.expenses)
	return out
}

// Incomes returns the user's stored incomes, in append order.
func (m *Memory) Incomes(userID uuid.UUID) []importer.Income {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	out := make([]importer.Income, len(u.incomes))
	copy(out, u.incomes)
	return out
}
