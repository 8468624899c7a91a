package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mjcarver/gymledger/internal/model"
)

type PaymentStore struct {
	db *sql.DB
}

func NewPaymentStore(db *sql.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

const paymentCols = `id, member_id, reference, stripe_session_id, amount, status, paid_at, created_at`

func scanPayment(scanner interface{ Scan(...any) error }) (*model.Payment, error) {
	var p model.Payment
	err := scanner.Scan(&p.ID, &p.MemberID, &p.Reference, &p.StripeSessionID, &p.Amount, &p.Status, &p.PaidAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PaymentStore) Create(memberID int64, reference, stripeSessionID string, amount float64) (*model.Payment, error) {
	result, err := s.db.Exec(
		`INSERT INTO payments (member_id, reference, stripe_session_id, amount, status)
		 VALUES (?, ?, ?, ?, ?)`,
		memberID, reference, stripeSessionID, amount, model.PaymentPending,
	)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+paymentCols+` FROM payments WHERE id = ?`, id)
	return scanPayment(row)
}

func (s *PaymentStore) GetByReference(reference string) (*model.Payment, error) {
	row := s.db.QueryRow(`SELECT `+paymentCols+` FROM payments WHERE reference = ?`, reference)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query payment by reference: %w", err)
	}
	return p, nil
}

func (s *PaymentStore) GetByStripeSession(sessionID string) (*model.Payment, error) {
	row := s.db.QueryRow(`SELECT `+paymentCols+` FROM payments WHERE stripe_session_id = ?`, sessionID)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query payment by stripe session: %w", err)
	}
	return p, nil
}

// MarkCompleted records a successful payment. Idempotent: completing an
// already-completed payment keeps the original paid_at.
func (s *PaymentStore) MarkCompleted(id int64, paidAt time.Time) error {
	_, err := s.db.Exec(
		`UPDATE payments SET status = ?, paid_at = COALESCE(paid_at, ?) WHERE id = ?`,
		model.PaymentCompleted, paidAt.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("mark payment completed: %w", err)
	}
	return nil
}

func (s *PaymentStore) ListByMember(memberID int64) ([]model.Payment, error) {
	rows, err := s.db.Query(
		`SELECT `+paymentCols+` FROM payments WHERE member_id = ? ORDER BY created_at DESC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list payments by member: %w", err)
	}
	defer rows.Close()
	return collectPayments(rows)
}

func (s *PaymentStore) ListAll() ([]model.Payment, error) {
	rows, err := s.db.Query(`SELECT ` + paymentCols + ` FROM payments ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	return collectPayments(rows)
}

func collectPayments(rows *sql.Rows) ([]model.Payment, error) {
	var payments []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}
