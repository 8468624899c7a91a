package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ReminderStore tracks which renewal reminders have already been sent, keyed
// by member, window, and the membership end date the reminder was for.
// Extending a membership changes the end date, which re-arms every window.
type ReminderStore struct {
	db *sql.DB
}

func NewReminderStore(db *sql.DB) *ReminderStore {
	return &ReminderStore{db: db}
}

func (s *ReminderStore) WasSent(memberID int64, windowDays int, endDate time.Time) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM renewal_reminders
		 WHERE member_id = ? AND window_days = ? AND membership_end_date = ?`,
		memberID, windowDays, endDate.UTC(),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check renewal reminder: %w", err)
	}
	return count > 0, nil
}

func (s *ReminderStore) RecordSent(memberID int64, windowDays int, endDate time.Time) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO renewal_reminders (member_id, window_days, membership_end_date)
		 VALUES (?, ?, ?)`,
		memberID, windowDays, endDate.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record renewal reminder: %w", err)
	}
	return nil
}

// CleanupBefore deletes reminder records for end dates older than the given
// time. They can no longer match any live membership.
func (s *ReminderStore) CleanupBefore(before time.Time) (int64, error) {
	result, err := s.db.Exec(
		`DELETE FROM renewal_reminders WHERE membership_end_date < ?`, before.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("cleanup renewal reminders: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
