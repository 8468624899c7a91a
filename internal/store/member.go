package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mjcarver/gymledger/internal/model"
)

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

const memberCols = `id, name, gender, height_cm, weight_kg, email, phone, address,
	emergency_name, emergency_phone, emergency_relation,
	membership_status, membership_fee, membership_fee_status,
	membership_start_date, membership_end_date, last_payment_date, next_payment_date,
	created_at, updated_at`

func scanMember(scanner interface{ Scan(...any) error }) (*model.Member, error) {
	var m model.Member
	err := scanner.Scan(
		&m.ID, &m.Name, &m.Gender, &m.HeightCm, &m.WeightKg, &m.Email, &m.Phone, &m.Address,
		&m.EmergencyName, &m.EmergencyPhone, &m.EmergencyRelation,
		&m.MembershipStatus, &m.MembershipFee, &m.MembershipFeeStatus,
		&m.MembershipStartDate, &m.MembershipEndDate, &m.LastPaymentDate, &m.NextPaymentDate,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MemberStore) Create(m *model.Member) (*model.Member, error) {
	result, err := s.db.Exec(
		`INSERT INTO members (name, gender, height_cm, weight_kg, email, phone, address,
			emergency_name, emergency_phone, emergency_relation,
			membership_status, membership_fee, membership_fee_status,
			membership_start_date, membership_end_date, last_payment_date, next_payment_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.Gender, m.HeightCm, m.WeightKg, m.Email, m.Phone, m.Address,
		m.EmergencyName, m.EmergencyPhone, m.EmergencyRelation,
		m.MembershipStatus, m.MembershipFee, m.MembershipFeeStatus,
		m.MembershipStartDate.UTC(), m.MembershipEndDate.UTC(), m.LastPaymentDate, m.NextPaymentDate,
	)
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// List returns every member. The renewal evaluator works over this wholesale;
// the member population of a single gym is small enough that no paging is
// needed.
func (s *MemberStore) List() ([]model.Member, error) {
	rows, err := s.db.Query(`SELECT ` + memberCols + ` FROM members ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (s *MemberStore) GetByID(id int64) (*model.Member, error) {
	row := s.db.QueryRow(`SELECT `+memberCols+` FROM members WHERE id = ?`, id)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query member: %w", err)
	}
	return m, nil
}

// Update overwrites all mutable member fields. Concurrent edits are
// last-write-wins.
func (s *MemberStore) Update(id int64, m *model.Member) (*model.Member, error) {
	_, err := s.db.Exec(
		`UPDATE members SET name = ?, gender = ?, height_cm = ?, weight_kg = ?,
			email = ?, phone = ?, address = ?,
			emergency_name = ?, emergency_phone = ?, emergency_relation = ?,
			membership_status = ?, membership_fee = ?, membership_fee_status = ?,
			membership_start_date = ?, membership_end_date = ?,
			last_payment_date = ?, next_payment_date = ?,
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		m.Name, m.Gender, m.HeightCm, m.WeightKg,
		m.Email, m.Phone, m.Address,
		m.EmergencyName, m.EmergencyPhone, m.EmergencyRelation,
		m.MembershipStatus, m.MembershipFee, m.MembershipFeeStatus,
		m.MembershipStartDate.UTC(), m.MembershipEndDate.UTC(),
		m.LastPaymentDate, m.NextPaymentDate,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	return s.GetByID(id)
}

func (s *MemberStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

// RecordPayment marks the membership fee paid and extends the membership end
// date by the given period, measured from whichever is later: now or the
// current end date.
func (s *MemberStore) RecordPayment(id int64, paidAt time.Time, period time.Duration) (*model.Member, error) {
	m, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("record payment: member %d not found", id)
	}

	newEnd := paidAt.UTC().Add(period)
	if m.MembershipEndDate.After(paidAt) {
		newEnd = m.MembershipEndDate.Add(period)
	}

	_, err = s.db.Exec(
		`UPDATE members SET membership_status = ?, membership_fee_status = ?,
			membership_end_date = ?, last_payment_date = ?, next_payment_date = ?,
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		model.MembershipActive, model.FeePaid,
		newEnd, paidAt.UTC(), newEnd,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}
	return s.GetByID(id)
}
