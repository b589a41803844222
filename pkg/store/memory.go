package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/iwvelando/vehicle-loan/pkg/loans"
)

// MemoryStore is an in-memory Storage implementation.
type MemoryStore struct {
	mu    sync.RWMutex
	loans map[uuid.UUID]loans.Loan
	order []uuid.UUID
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{loans: make(map[uuid.UUID]loans.Loan)}
}

// CreateLoan stores a new loan.
func (m *MemoryStore) CreateLoan(loan loans.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.loans[loan.ID]; exists {
		return fmt.Errorf("loan %s already exists", loan.ID)
	}
	m.loans[loan.ID] = copyLoan(loan)
	m.order = append(m.order, loan.ID)
	return nil
}

// GetLoan returns the loan with the given ID.
func (m *MemoryStore) GetLoan(id uuid.UUID) (loans.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	loan, ok := m.loans[id]
	if !ok {
		return loans.Loan{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return copyLoan(loan), nil
}

// ListLoans returns all loans ordered by start date, then creation order.
func (m *MemoryStore) ListLoans() ([]loans.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]loans.Loan, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, copyLoan(m.loans[id]))
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartDate.Before(result[j].StartDate)
	})
	return result, nil
}

// UpdateLoan replaces a stored loan.
func (m *MemoryStore) UpdateLoan(loan loans.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.loans[loan.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, loan.ID)
	}
	m.loans[loan.ID] = copyLoan(loan)
	return nil
}

// DeleteLoan removes a loan.
func (m *MemoryStore) DeleteLoan(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.loans[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.loans, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// AddExtraPayment appends an extra payment to a loan.
func (m *MemoryStore) AddExtraPayment(id uuid.UUID, extra loans.ExtraPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	loan, ok := m.loans[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.loans[id] = loan.WithExtraPayment(extra)
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}

func copyLoan(loan loans.Loan) loans.Loan {
	loan.ExtraPayments = append([]loans.ExtraPayment(nil), loan.ExtraPayments...)
	return loan
}
