package contact

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/contact"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

const messageColumns = `id, name, email, message, admin_notes, status, created_at`

// GetByID retrieves a message by ID.
// PRE: id is non-empty
// POST: Returns the entity or sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Message, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM contact_messages WHERE id = ?`, id)
	return scanMessage(row.Scan)
}

// Create inserts a new message.
// PRE: entity has been validated and its id is unused
// POST: Entity is persisted
func (s *SQLiteStore) Create(ctx context.Context, m domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_messages (`+messageColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Message, nullableString(m.AdminNotes), m.Status,
		m.CreatedAt.UTC().Format(timeLayout))
	return err
}

// UpdateStatus writes only the status column.
// POST: admin_notes untouched; sql.ErrNoRows when no message has the id
func (s *SQLiteStore) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE contact_messages SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// UpdateNotes writes only the admin_notes column. Empty notes are stored as NULL.
// POST: status untouched; sql.ErrNoRows when no message has the id
func (s *SQLiteStore) UpdateNotes(ctx context.Context, id, notes string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE contact_messages SET admin_notes = ? WHERE id = ?`, nullableString(notes), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes a message by ID.
// POST: sql.ErrNoRows when no message has the id
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// List returns messages newest first.
// PRE: filter has valid parameters
// POST: Returns matching messages ordered by created_at DESC
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Message, error) {
	query, args := whereClause(`SELECT `+messageColumns+` FROM contact_messages`, filter)
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// Count returns the number of messages matching the filter, ignoring Limit and Offset.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	query, args := whereClause(`SELECT COUNT(*) FROM contact_messages`, filter)
	var n int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

func whereClause(base string, filter ListFilter) (string, []any) {
	if filter.Status == "" {
		return base, nil
	}
	return base + ` WHERE status = ?`, []any{filter.Status}
}

// scanMessage extracts a Message from a row scanner function.
func scanMessage(scan func(dest ...any) error) (domain.Message, error) {
	var m domain.Message
	var notes sql.NullString
	var createdAt string
	if err := scan(&m.ID, &m.Name, &m.Email, &m.Message, &notes, &m.Status, &createdAt); err != nil {
		return domain.Message{}, err
	}
	m.AdminNotes = notes.String
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		slog.Warn("contact: failed to parse time", "field", "created_at", "message_id", m.ID, "raw", createdAt, "error", err)
	}
	m.CreatedAt = t.UTC()
	return m, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
