// Package store persists loans and their extra payments.
package store

import (
	"errors"

	"github.com/google/uuid"
	"github.com/iwvelando/vehicle-loan/pkg/loans"
)

// ErrNotFound is returned when a loan does not exist.
var ErrNotFound = errors.New("loan not found")

// Storage defines the persistence operations for loans. Extra payments are
// returned in the order they were added, which is the order the first-match
// collision policy relies on.
type Storage interface {
	CreateLoan(loan loans.Loan) error
	GetLoan(id uuid.UUID) (loans.Loan, error)
	ListLoans() ([]loans.Loan, error)
	UpdateLoan(loan loans.Loan) error
	DeleteLoan(id uuid.UUID) error
	AddExtraPayment(id uuid.UUID, extra loans.ExtraPayment) error

	Close() error
}
