package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/almazbisenbaev/tbilingo-app/internal/domain"
	"github.com/almazbisenbaev/tbilingo-app/internal/store"
)

// PostgresItemStore implements store.ItemStore on PostgreSQL.
type PostgresItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresItemStore creates a PostgreSQL ItemStore.
func NewPostgresItemStore(db store.DBTX, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

var _ store.ItemStore = (*PostgresItemStore)(nil)

// ListByCourse implements store.ItemStore.ListByCourse. Item IDs are
// normalized to their canonical string form at this boundary, and the
// result is sorted in the canonical ascending order regardless of how
// the backend returns rows.
func (s *PostgresItemStore) ListByCourse(ctx context.Context, courseID string) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, course_id, type, payload
		 FROM course_items
		 WHERE course_id = $1`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query course items: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close item rows", "error", closeErr)
		}
	}()

	items := make([]domain.Item, 0)
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.CourseID, &item.Type, &item.Payload); err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		item.ID = domain.NormalizeItemID(item.ID)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item rows: %w", err)
	}

	domain.SortItems(items)
	return items, nil
}
