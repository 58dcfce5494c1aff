package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/almazbisenbaev/tbilingo-app/internal/domain"
	"github.com/almazbisenbaev/tbilingo-app/internal/store"
)

type progressKey struct {
	userID   uuid.UUID
	courseID string
}

// MockProgressStore implements store.ProgressStore for testing with an
// in-memory map default. Save follows the real store's merge semantics:
// CreatedAt is assigned once and LastUpdated refreshed on every write.
type MockProgressStore struct {
	// Function fields for customizable behavior
	GetFn  func(ctx context.Context, userID uuid.UUID, courseID string) (*domain.ProgressRecord, error)
	SaveFn func(ctx context.Context, record *domain.ProgressRecord) error

	// Errors returned by the default implementation when set
	GetError  error
	SaveError error

	mu      sync.Mutex
	records map[progressKey]*domain.ProgressRecord

	// SaveCount tracks how many default saves succeeded
	SaveCount int
}

// NewMockProgressStore creates a new mock store with initialized defaults
func NewMockProgressStore() *MockProgressStore {
	return &MockProgressStore{
		records: make(map[progressKey]*domain.ProgressRecord),
	}
}

var _ store.ProgressStore = (*MockProgressStore)(nil)

// Seed places a record in the store, assigning timestamps if unset.
func (m *MockProgressStore) Seed(record *domain.ProgressRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if record.LastUpdated.IsZero() {
		record.LastUpdated = record.CreatedAt
	}
	m.records[progressKey{record.UserID, record.CourseID}] = clone(record)
}

// Stored returns a copy of the stored record, or nil when absent.
func (m *MockProgressStore) Stored(userID uuid.UUID, courseID string) *domain.ProgressRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[progressKey{userID, courseID}]
	if !ok {
		return nil
	}
	return clone(record)
}

// Get implements the store.ProgressStore interface
func (m *MockProgressStore) Get(ctx context.Context, userID uuid.UUID, courseID string) (*domain.ProgressRecord, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, courseID)
	}
	if m.GetError != nil {
		return nil, m.GetError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[progressKey{userID, courseID}]
	if !ok {
		return nil, store.ErrProgressNotFound
	}

	// The real store folds legacy ID forms to canonical on read.
	copied := clone(record)
	copied.NormalizeIDs()
	return copied, nil
}

// Save implements the store.ProgressStore interface
func (m *MockProgressStore) Save(ctx context.Context, record *domain.ProgressRecord) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, record)
	}
	if m.SaveError != nil {
		return m.SaveError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := progressKey{record.UserID, record.CourseID}
	saved := clone(record)
	now := time.Now().UTC()
	if existing, ok := m.records[key]; ok {
		saved.CreatedAt = existing.CreatedAt
	} else {
		saved.CreatedAt = now
	}
	saved.LastUpdated = now
	m.records[key] = saved
	m.SaveCount++
	return nil
}

// WithTx implements the store.ProgressStore interface. The mock has no
// real transactions, so it returns itself.
func (m *MockProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return m
}

func clone(record *domain.ProgressRecord) *domain.ProgressRecord {
	copied := *record
	copied.LearnedItemIDs = append([]string{}, record.LearnedItemIDs...)
	copied.ItemProgress = make(map[string]int, len(record.ItemProgress))
	for id, counter := range record.ItemProgress {
		copied.ItemProgress[id] = counter
	}
	return &copied
}

// MockProgressTxRunner implements store.ProgressTxRunner by invoking the
// callback directly against the given ProgressStore, without a database.
type MockProgressTxRunner struct {
	Progress store.ProgressStore

	// RunErr, when set, is returned without invoking the callback
	RunErr error
}

// NewMockProgressTxRunner creates a runner over the given store.
func NewMockProgressTxRunner(progress store.ProgressStore) *MockProgressTxRunner {
	return &MockProgressTxRunner{Progress: progress}
}

var _ store.ProgressTxRunner = (*MockProgressTxRunner)(nil)

// RunProgressTx implements the store.ProgressTxRunner interface
func (m *MockProgressTxRunner) RunProgressTx(ctx context.Context, fn func(ctx context.Context, progress store.ProgressStore) error) error {
	if m.RunErr != nil {
		return m.RunErr
	}
	return fn(ctx, m.Progress)
}
