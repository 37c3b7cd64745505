package membership

import (
	"context"
	"log/slog"
	"time"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/membership"
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

// Create inserts an application.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Create(ctx context.Context, a domain.Application) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO membership_applications (id, name, email, phone, location, age_group, motivation, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Email, a.Phone, a.Location, a.AgeGroup, a.Motivation,
		a.CreatedAt.UTC().Format(timeLayout))
	return err
}

// List returns applications newest first. Limit 0 returns all.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Application, error) {
	query := `SELECT id, name, email, phone, location, age_group, motivation, created_at
		 FROM membership_applications ORDER BY created_at DESC, id DESC`
	var args []any
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		var a domain.Application
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Location, &a.AgeGroup, &a.Motivation, &createdAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			slog.Warn("membership: failed to parse time", "application_id", a.ID, "raw", createdAt, "error", err)
		}
		a.CreatedAt = t.UTC()
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// Count returns the total number of applications.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM membership_applications`).Scan(&n)
	return n, err
}
