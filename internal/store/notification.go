package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mjcarver/gymledger/internal/model"
)

type NotificationStore struct {
	db *sql.DB
}

func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

const notificationCols = `id, member_id, title, message, type, is_read, data, created_at`

func scanNotification(scanner interface{ Scan(...any) error }) (*model.Notification, error) {
	var n model.Notification
	var isReadInt int
	var data sql.NullString
	err := scanner.Scan(&n.ID, &n.MemberID, &n.Title, &n.Message, &n.Type, &isReadInt, &data, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	n.IsRead = isReadInt != 0
	if data.Valid && data.String != "" {
		var d model.NotificationData
		if err := json.Unmarshal([]byte(data.String), &d); err != nil {
			return nil, fmt.Errorf("decode notification data: %w", err)
		}
		n.Data = &d
	}
	return &n, nil
}

func (s *NotificationStore) Create(n *model.Notification) (*model.Notification, error) {
	var data any
	if n.Data != nil {
		encoded, err := json.Marshal(n.Data)
		if err != nil {
			return nil, fmt.Errorf("encode notification data: %w", err)
		}
		data = string(encoded)
	}

	result, err := s.db.Exec(
		`INSERT INTO notifications (member_id, title, message, type, is_read, data)
		 VALUES (?, ?, ?, ?, 0, ?)`,
		n.MemberID, n.Title, n.Message, n.Type, data,
	)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *NotificationStore) GetByID(id int64) (*model.Notification, error) {
	row := s.db.QueryRow(`SELECT `+notificationCols+` FROM notifications WHERE id = ?`, id)
	n, err := scanNotification(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query notification: %w", err)
	}
	return n, nil
}

// ListByMember returns a member's notifications, newest first.
func (s *NotificationStore) ListByMember(memberID int64) ([]model.Notification, error) {
	rows, err := s.db.Query(
		`SELECT `+notificationCols+` FROM notifications WHERE member_id = ? ORDER BY created_at DESC, id DESC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications by member: %w", err)
	}
	defer rows.Close()
	return collectNotifications(rows)
}

func (s *NotificationStore) ListAll() ([]model.Notification, error) {
	rows, err := s.db.Query(`SELECT ` + notificationCols + ` FROM notifications ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	return collectNotifications(rows)
}

// MarkRead flips a notification to read. Marking an already-read notification
// again is a no-op.
func (s *NotificationStore) MarkRead(id int64) error {
	_, err := s.db.Exec(`UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *NotificationStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

// CountUnread returns the number of unread notifications for a member.
func (s *NotificationStore) CountUnread(memberID int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE member_id = ? AND is_read = 0`, memberID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func collectNotifications(rows *sql.Rows) ([]model.Notification, error) {
	var out []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}
