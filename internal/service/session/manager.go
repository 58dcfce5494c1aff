package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/almazbisenbaev/tbilingo-app/internal/domain"
	"github.com/almazbisenbaev/tbilingo-app/internal/events"
	"github.com/almazbisenbaev/tbilingo-app/internal/store"
)

// Manager errors.
var (
	// ErrSessionNotFound is returned when no live session has the given ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionNotOwned is returned when a session belongs to another user.
	ErrSessionNotOwned = errors.New("session not owned by user")
)

// sessionIdleTTL bounds how long an abandoned session stays resident.
// A session untouched this long is reaped the next time one starts.
const sessionIdleTTL = 30 * time.Minute

// ProgressReader is the read-side slice of the progress service the
// manager needs to seed a session.
type ProgressReader interface {
	Read(ctx context.Context, userID uuid.UUID, courseID string) *domain.ProgressRecord
}

// liveSession pairs a session with the time of its last operation.
type liveSession struct {
	sess    *Session
	touched time.Time
}

// Manager owns all live sessions, keyed by session ID. It serializes
// access to each session, checks ownership, and turns recorded outcomes
// into progress events for asynchronous persistence. One logical thread
// of control per session; the manager's lock is the implementation of that.
//
// Sessions are evicted the moment they finish or abort; abandoned ones
// fall to the idle reaper. The map never holds dead entries longer than
// the idle TTL plus one session start.
type Manager struct {
	courses  store.CourseStore
	items    store.ItemStore
	progress ProgressReader
	emitter  events.Emitter
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*liveSession
	rnd      *rand.Rand
}

// NewManager creates a session Manager. The random source drives session
// shuffling and is guarded by the manager's lock; tests inject a seeded one.
func NewManager(courses store.CourseStore, items store.ItemStore, progress ProgressReader, emitter events.Emitter, rnd *rand.Rand, log *slog.Logger) *Manager {
	if courses == nil {
		panic("courses cannot be nil")
	}
	if items == nil {
		panic("items cannot be nil")
	}
	if progress == nil {
		panic("progress cannot be nil")
	}
	if emitter == nil {
		panic("emitter cannot be nil")
	}
	if rnd == nil {
		panic("rnd cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		courses:  courses,
		items:    items,
		progress: progress,
		emitter:  emitter,
		logger:   log.With(slog.String("component", "session_manager")),
		now:      time.Now,
		sessions: make(map[uuid.UUID]*liveSession),
		rnd:      rnd,
	}
}

// StartSession fetches the course, its items, and the user's progress,
// then builds a session. With review=false an all-learned course returns
// ErrCourseComplete instead of a session. Any previous session the user
// holds for the same course is discarded; starting a new run supersedes it.
func (m *Manager) StartSession(ctx context.Context, userID uuid.UUID, courseID string, review bool) (*Session, error) {
	course, err := m.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	items, err := m.items.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch course items: %w", err)
	}

	record := m.progress.Read(ctx, userID, courseID)

	m.mu.Lock()
	defer m.mu.Unlock()

	var sess *Session
	if review {
		sess, err = StartReview(userID, course, items, record, m.rnd)
	} else {
		sess, err = Start(userID, course, items, record, m.rnd)
	}
	if err != nil {
		return nil, err
	}

	m.reapIdleLocked()
	m.dropCourseSessionLocked(userID, courseID)
	m.sessions[sess.ID] = &liveSession{sess: sess, touched: m.now()}

	m.logger.Debug("session started",
		"session_id", sess.ID,
		"user_id", userID,
		"course_id", courseID,
		"variant", sess.Variant,
		"review", review,
		"size", sess.Len())
	return sess, nil
}

// Get returns the session with the given ID if it belongs to the user.
func (m *Manager) Get(id, userID uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(id, userID)
}

// Advance moves the session's cursor forward. A session that finishes
// here is evicted; the returned pointer stays valid for the response.
func (m *Manager) Advance(id, userID uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.getLocked(id, userID)
	if err != nil {
		return nil, err
	}
	if err := sess.Advance(); err != nil {
		return nil, err
	}
	m.evictFinishedLocked(id, sess)
	return sess, nil
}

// RecordLearned marks the session's current item learned, advances, and
// dispatches the persistence event. The session state is updated first;
// the write completes in the background regardless of what the user does
// next. Learning the last item finishes and evicts the session.
func (m *Manager) RecordLearned(ctx context.Context, id, userID uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.getLocked(id, userID)
	if err != nil {
		return nil, err
	}

	itemID, _, err := sess.RecordLearned()
	if err != nil {
		return nil, err
	}

	m.emit(ctx, events.NewProgressEvent(events.KindItemLearned, userID, sess.CourseID, itemID, 0))
	m.evictFinishedLocked(id, sess)
	return sess, nil
}

// RecordAnswer checks a phrase answer against the current item, applies
// the mastery transition locally, and dispatches the matching ±1 delta.
func (m *Manager) RecordAnswer(ctx context.Context, id, userID uuid.UUID, answer string) (*Session, *AnswerResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.getLocked(id, userID)
	if err != nil {
		return nil, nil, err
	}

	result, err := sess.RecordAnswer(answer)
	if err != nil {
		return nil, nil, err
	}

	delta := 1
	if !result.Correct {
		delta = -1
	}
	m.emit(ctx, events.NewProgressEvent(events.KindMasteryDelta, userID, sess.CourseID, result.ItemID, delta))
	return sess, result, nil
}

// Abort exits the session and discards it. In-flight writes are not
// cancelled; whatever was recorded stays persisted.
func (m *Manager) Abort(id, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.getLocked(id, userID)
	if err != nil {
		return err
	}
	sess.Abort()
	delete(m.sessions, id)
	return nil
}

func (m *Manager) getLocked(id, userID uuid.UUID) (*Session, error) {
	live, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if live.sess.UserID != userID {
		return nil, ErrSessionNotOwned
	}
	live.touched = m.now()
	return live.sess, nil
}

// evictFinishedLocked drops a session that just reached its terminal
// state. The caller still holds the pointer for building its response;
// any later lookup reports ErrSessionNotFound.
func (m *Manager) evictFinishedLocked(id uuid.UUID, sess *Session) {
	if sess.State() == StateFinished {
		delete(m.sessions, id)
	}
}

// dropCourseSessionLocked discards the user's existing session for a
// course, whatever state it is in.
func (m *Manager) dropCourseSessionLocked(userID uuid.UUID, courseID string) {
	for id, live := range m.sessions {
		if live.sess.UserID == userID && live.sess.CourseID == courseID {
			delete(m.sessions, id)
		}
	}
}

// reapIdleLocked removes sessions untouched for longer than the idle
// TTL. Runs before every insert, so abandoned sessions cannot pile up
// while the server keeps taking traffic.
func (m *Manager) reapIdleLocked() {
	cutoff := m.now().Add(-sessionIdleTTL)
	for id, live := range m.sessions {
		if live.touched.Before(cutoff) {
			m.logger.Debug("reaping idle session",
				"session_id", id,
				"user_id", live.sess.UserID,
				"course_id", live.sess.CourseID)
			delete(m.sessions, id)
		}
	}
}

func (m *Manager) emit(ctx context.Context, event *events.ProgressEvent) {
	if err := m.emitter.Emit(ctx, event); err != nil {
		// Persistence is best-effort; the session state already moved on.
		m.logger.Error("failed to emit progress event",
			"error", err,
			"event_id", event.ID,
			"event_kind", event.Kind)
	}
}
