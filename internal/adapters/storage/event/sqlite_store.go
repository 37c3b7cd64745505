package event

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/event"
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

const eventColumns = `id, title, description, event_date, location, status, image_url, image_aspect,
		ticket_price, tickets_url, festival, created_at, updated_at`

// GetByID retrieves an event by ID.
// PRE: id is non-empty
// POST: Returns the entity or sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	return scanEvent(row.Scan)
}

// Save inserts or updates an event.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update); created_at is never overwritten
func (s *SQLiteStore) Save(ctx context.Context, e domain.Event) error {
	aspect := e.ImageAspect
	if aspect == "" {
		aspect = domain.AspectStandard
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, description=excluded.description, event_date=excluded.event_date,
		   location=excluded.location, status=excluded.status, image_url=excluded.image_url,
		   image_aspect=excluded.image_aspect, ticket_price=excluded.ticket_price,
		   tickets_url=excluded.tickets_url, festival=excluded.festival, updated_at=excluded.updated_at`,
		e.ID, e.Title, e.Description, e.EventDate.UTC().Format(timeLayout), e.Location, e.Status,
		e.ImageURL, string(aspect), nullablePrice(e.TicketPrice), e.TicketsURL, nullableString(e.Festival),
		e.CreatedAt.UTC().Format(timeLayout), e.UpdatedAt.UTC().Format(timeLayout))
	return err
}

// UpdateStatus sets only the status column.
// PRE: status is valid
// POST: Returns sql.ErrNoRows when no event has the id
func (s *SQLiteStore) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE events SET status = ?, updated_at = ? WHERE id = ?`,
		status, updatedAt.UTC().Format(timeLayout), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes an event by ID.
// PRE: id is non-empty
// POST: Returns sql.ErrNoRows when no event has the id
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// List returns events matching the filter ordered by event_date ascending.
// PRE: filter has valid parameters
// POST: Returns matching events, nil slice when none match
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	args := []any{}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.Festival != "" {
		query += ` AND festival = ?`
		args = append(args, filter.Festival)
	}
	if !filter.From.IsZero() {
		query += ` AND event_date >= ?`
		args = append(args, filter.From.UTC().Format(timeLayout))
	}
	query += ` ORDER BY event_date ASC, title ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListFestivals returns the distinct festival tags of published events, sorted.
func (s *SQLiteStore) ListFestivals(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT festival FROM events
		 WHERE festival IS NOT NULL AND festival != '' AND status = ?
		 ORDER BY festival`, domain.StatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// scanEvent extracts an Event from a row scanner function.
func scanEvent(scan func(dest ...any) error) (domain.Event, error) {
	var e domain.Event
	var eventDate, aspect, createdAt, updatedAt string
	var price, festival sql.NullString

	err := scan(&e.ID, &e.Title, &e.Description, &eventDate, &e.Location, &e.Status,
		&e.ImageURL, &aspect, &price, &e.TicketsURL, &festival, &createdAt, &updatedAt)
	if err != nil {
		return domain.Event{}, err
	}

	e.EventDate = parseTime(eventDate, "event_date", e.ID)
	e.CreatedAt = parseTime(createdAt, "created_at", e.ID)
	e.UpdatedAt = parseTime(updatedAt, "updated_at", e.ID)
	e.ImageAspect = domain.ParseAspect(aspect)
	e.Festival = festival.String
	if price.Valid && price.String != "" {
		d, err := decimal.NewFromString(price.String)
		if err != nil {
			slog.Warn("event: failed to parse ticket price", "event_id", e.ID, "raw", price.String, "error", err)
		} else {
			e.TicketPrice = decimal.NewNullDecimal(d)
		}
	}
	return e, nil
}

// parseTime parses a stored time string, logging a warning on failure.
func parseTime(raw, field, eventID string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		slog.Warn("event: failed to parse time", "field", field, "event_id", eventID, "raw", raw, "error", err)
	}
	return t.UTC()
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

func nullablePrice(p decimal.NullDecimal) any {
	if !p.Valid {
		return nil
	}
	return p.Decimal.String()
}
