package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/vehicle-loan/pkg/loans"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore manages the database connection and operations for SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (or creates) the database and initializes the schema.
func NewSQLiteStore(logger *zap.Logger, dataSourceName string) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}
	logger.Debug("database connection established and schema initialized",
		zap.String("op", "store.NewSQLiteStore"),
		zap.String("dsn", dataSourceName),
	)
	return s, nil
}

// initSchema creates the tables if they don't already exist. Money is kept as
// TEXT so no precision is lost on the way through SQLite.
func (s *SQLiteStore) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS loans (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		principal TEXT NOT NULL,
		down_payment TEXT NOT NULL DEFAULT '0',
		interest_rate TEXT NOT NULL,
		term_months INTEGER NOT NULL,
		monthly_payment TEXT NOT NULL,
		start_date TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS extra_payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		loan_id TEXT NOT NULL,
		payment_date TEXT NOT NULL,
		amount TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		FOREIGN KEY(loan_id) REFERENCES loans(id) ON DELETE CASCADE
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateLoan inserts a new loan and its extra payments.
func (s *SQLiteStore) CreateLoan(loan loans.Loan) error {
	now := time.Now().UTC()
	return s.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO loans (id, name, principal, down_payment, interest_rate, term_months, monthly_payment, start_date, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			loan.ID.String(), loan.Name,
			decimal.NewFromFloat(loan.Principal), decimal.NewFromFloat(loan.DownPayment),
			decimal.NewFromFloat(loan.AnnualInterestRatePercent), loan.TermMonths,
			decimal.NewFromFloat(loan.MonthlyPayment), formatTime(loan.StartDate), now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to create loan: %w", err)
		}
		return insertExtraPayments(tx, loan.ID, loan.ExtraPayments)
	})
}

// GetLoan retrieves a loan by its ID.
func (s *SQLiteStore) GetLoan(id uuid.UUID) (loans.Loan, error) {
	row := s.db.QueryRow(
		`SELECT id, name, principal, down_payment, interest_rate, term_months, monthly_payment, start_date
		FROM loans WHERE id = ?`, id.String())

	loan, err := scanLoan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return loans.Loan{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return loans.Loan{}, fmt.Errorf("failed to get loan: %w", err)
	}

	loan.ExtraPayments, err = s.extraPayments(loan.ID)
	if err != nil {
		return loans.Loan{}, err
	}
	return loan, nil
}

// ListLoans retrieves all loans ordered by start date.
func (s *SQLiteStore) ListLoans() ([]loans.Loan, error) {
	rows, err := s.db.Query(
		`SELECT id, name, principal, down_payment, interest_rate, term_months, monthly_payment, start_date
		FROM loans ORDER BY start_date, created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var result []loans.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		result = append(result, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		result[i].ExtraPayments, err = s.extraPayments(result[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// UpdateLoan replaces a loan's fields and extra payments.
func (s *SQLiteStore) UpdateLoan(loan loans.Loan) error {
	return s.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(
			`UPDATE loans SET name = ?, principal = ?, down_payment = ?, interest_rate = ?, term_months = ?,
			monthly_payment = ?, start_date = ?, updated_at = ? WHERE id = ?`,
			loan.Name, decimal.NewFromFloat(loan.Principal), decimal.NewFromFloat(loan.DownPayment),
			decimal.NewFromFloat(loan.AnnualInterestRatePercent), loan.TermMonths,
			decimal.NewFromFloat(loan.MonthlyPayment), formatTime(loan.StartDate), time.Now().UTC(),
			loan.ID.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to update loan: %w", err)
		}
		if err := requireAffected(res, loan.ID); err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM extra_payments WHERE loan_id = ?`, loan.ID.String()); err != nil {
			return fmt.Errorf("failed to clear extra payments: %w", err)
		}
		return insertExtraPayments(tx, loan.ID, loan.ExtraPayments)
	})
}

// DeleteLoan deletes a loan and, through the cascade, its extra payments.
func (s *SQLiteStore) DeleteLoan(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM loans WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	return requireAffected(res, id)
}

// AddExtraPayment appends an extra payment to an existing loan.
func (s *SQLiteStore) AddExtraPayment(id uuid.UUID, extra loans.ExtraPayment) error {
	var exists int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM loans WHERE id = ?`, id.String()).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to look up loan: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return s.withTx(func(tx *sql.Tx) error {
		return insertExtraPayments(tx, id, []loans.ExtraPayment{extra})
	})
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) extraPayments(id uuid.UUID) ([]loans.ExtraPayment, error) {
	rows, err := s.db.Query(
		`SELECT payment_date, amount, note FROM extra_payments WHERE loan_id = ? ORDER BY id`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get extra payments: %w", err)
	}
	defer rows.Close()

	var extras []loans.ExtraPayment
	for rows.Next() {
		var (
			date   string
			amount decimal.Decimal
			extra  loans.ExtraPayment
		)
		if err := rows.Scan(&date, &amount, &extra.Note); err != nil {
			return nil, fmt.Errorf("failed to scan extra payment: %w", err)
		}
		if extra.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return nil, fmt.Errorf("invalid extra payment date %q: %w", date, err)
		}
		extra.Amount = amount.InexactFloat64()
		extras = append(extras, extra)
	}
	return extras, rows.Err()
}

func (s *SQLiteStore) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Warn("failed to roll back transaction",
				zap.String("op", "store.withTx"),
				zap.Error(rbErr),
			)
		}
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (loans.Loan, error) {
	var (
		id, startDate                                        string
		principal, downPayment, interestRate, monthlyPayment decimal.Decimal
		loan                                                 loans.Loan
	)
	err := row.Scan(&id, &loan.Name, &principal, &downPayment, &interestRate,
		&loan.TermMonths, &monthlyPayment, &startDate)
	if err != nil {
		return loans.Loan{}, err
	}

	if loan.ID, err = uuid.Parse(id); err != nil {
		return loans.Loan{}, fmt.Errorf("invalid loan id %q: %w", id, err)
	}
	if loan.StartDate, err = time.Parse(time.RFC3339Nano, startDate); err != nil {
		return loans.Loan{}, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	loan.Principal = principal.InexactFloat64()
	loan.DownPayment = downPayment.InexactFloat64()
	loan.AnnualInterestRatePercent = interestRate.InexactFloat64()
	loan.MonthlyPayment = monthlyPayment.InexactFloat64()
	return loan, nil
}

func insertExtraPayments(tx *sql.Tx, id uuid.UUID, extras []loans.ExtraPayment) error {
	for _, extra := range extras {
		_, err := tx.Exec(
			`INSERT INTO extra_payments (loan_id, payment_date, amount, note) VALUES (?, ?, ?, ?)`,
			id.String(), formatTime(extra.Date), decimal.NewFromFloat(extra.Amount), extra.Note,
		)
		if err != nil {
			return fmt.Errorf("failed to store extra payment: %w", err)
		}
	}
	return nil
}

func requireAffected(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
