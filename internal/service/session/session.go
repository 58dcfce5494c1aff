// Package session implements the review-session state machine: selecting
// a working set of items, advancing through them, recording per-item
// outcomes, and deciding when a session ends. Sessions are ephemeral and
// live only in memory; persistence happens through progress events.
package session

import (
	"errors"
	"math/rand"

	"github.com/google/uuid"

	"github.com/almazbisenbaev/tbilingo-app/internal/domain"
	"github.com/almazbisenbaev/tbilingo-app/internal/phrasetext"
)

// MaxSessionItems caps how many items one session works through.
const MaxSessionItems = 10

// Session-level errors.
var (
	// ErrCourseComplete signals that every item is already learned.
	// No session is created; the caller decides whether to start a
	// review session instead. A checkpoint, not a failure.
	ErrCourseComplete = errors.New("course complete: no unlearned items")

	// ErrNoItems is returned when a review session is requested for a
	// course with no items at all.
	ErrNoItems = errors.New("course has no items")

	// ErrSessionNotActive is returned when an operation requires an
	// active session but it has finished or been aborted.
	ErrSessionNotActive = errors.New("session is not active")

	// ErrWrongVariant is returned when an outcome operation does not
	// match the session's course variant.
	ErrWrongVariant = errors.New("operation does not apply to this course variant")
)

// State is the lifecycle position of a session.
type State int

// Session states. A session is created Active; Advance past the last
// item moves it to Finished, Abort back to Idle. Both are terminal for
// the instance: a new start creates a fresh session.
const (
	StateIdle State = iota
	StateActive
	StateFinished
)

// Session is one bounded run through up to MaxSessionItems items.
// It owns its state exclusively; all access goes through the Manager,
// which serializes calls.
type Session struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	CourseID string
	Variant  domain.LevelType
	Review   bool

	items []domain.Item
	total int
	idx   int
	state State

	// Accumulated during the session, discarded with it.
	sessionLearned  map[string]struct{}
	sessionReviewed map[string]struct{}

	// Optimistic local mirrors of persisted progress. Seeded at start,
	// updated synchronously as outcomes are recorded; never read back
	// for the write path.
	learned map[string]struct{}
	mastery map[string]int
}

// Start builds a session over the unlearned items of a course.
// Items already in the record's learned set are excluded (compared as
// canonical strings); the remainder is shuffled with a fair permutation
// and capped at MaxSessionItems. Returns ErrCourseComplete when nothing
// is left to learn.
func Start(userID uuid.UUID, course *domain.Course, items []domain.Item, record *domain.ProgressRecord, rnd *rand.Rand) (*Session, error) {
	learned := learnedSet(record)

	unlearned := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if _, ok := learned[domain.NormalizeItemID(item.ID)]; !ok {
			unlearned = append(unlearned, item)
		}
	}

	if len(unlearned) == 0 {
		return nil, ErrCourseComplete
	}

	return newSession(userID, course, unlearned, len(items), record, learned, rnd, false), nil
}

// StartReview builds a session sampled from the full item set, learned
// items included. Used once a course is fully learned, or whenever the
// user explicitly asks to practice. Returns ErrNoItems for an empty course.
func StartReview(userID uuid.UUID, course *domain.Course, items []domain.Item, record *domain.ProgressRecord, rnd *rand.Rand) (*Session, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	pool := make([]domain.Item, len(items))
	copy(pool, items)
	return newSession(userID, course, pool, len(items), record, learnedSet(record), rnd, true), nil
}

func newSession(userID uuid.UUID, course *domain.Course, pool []domain.Item, total int, record *domain.ProgressRecord, learned map[string]struct{}, rnd *rand.Rand, review bool) *Session {
	// Fisher-Yates: every permutation equiprobable.
	rnd.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if len(pool) > MaxSessionItems {
		pool = pool[:MaxSessionItems]
	}

	mastery := make(map[string]int, len(record.ItemProgress))
	for id, counter := range record.ItemProgress {
		mastery[domain.NormalizeItemID(id)] = domain.ClampMastery(counter)
	}
	// A learned phrase item is at the cap even if its counter was never stored.
	for id := range learned {
		if mastery[id] < domain.MasteryMax {
			mastery[id] = domain.MasteryMax
		}
	}

	return &Session{
		ID:              uuid.New(),
		UserID:          userID,
		CourseID:        course.ID,
		Variant:         course.Type,
		Review:          review,
		items:           pool,
		total:           total,
		state:           StateActive,
		sessionLearned:  make(map[string]struct{}),
		sessionReviewed: make(map[string]struct{}),
		learned:         learned,
		mastery:         mastery,
	}
}

func learnedSet(record *domain.ProgressRecord) map[string]struct{} {
	set := make(map[string]struct{}, len(record.LearnedItemIDs))
	for _, id := range record.LearnedItemIDs {
		set[domain.NormalizeItemID(id)] = struct{}{}
	}
	return set
}

// State returns the session's lifecycle state.
func (s *Session) State() State { return s.state }

// Current returns the item under the cursor.
func (s *Session) Current() (*domain.Item, error) {
	if s.state != StateActive {
		return nil, ErrSessionNotActive
	}
	return &s.items[s.idx], nil
}

// Index returns the 0-based cursor position.
func (s *Session) Index() int { return s.idx }

// Len returns the session size.
func (s *Session) Len() int { return len(s.items) }

// TotalItems returns the full item count of the course the session was
// built from, for course-level progress display.
func (s *Session) TotalItems() int { return s.total }

// SessionLearnedCount returns how many items were learned this session.
func (s *Session) SessionLearnedCount() int { return len(s.sessionLearned) }

// LearnedCount returns the optimistic course-level learned count.
func (s *Session) LearnedCount() int { return len(s.learned) }

// Advance marks the current item reviewed and moves the cursor forward,
// finishing the session when it was on the last item.
func (s *Session) Advance() error {
	if s.state != StateActive {
		return ErrSessionNotActive
	}

	s.sessionReviewed[domain.NormalizeItemID(s.items[s.idx].ID)] = struct{}{}

	if s.idx >= len(s.items)-1 {
		s.state = StateFinished
		return nil
	}
	s.idx++
	return nil
}

// RecordLearned marks the current item learned and advances. This is the
// one-way, per-session action of the characters/numbers/words variants;
// phrases go through RecordAnswer instead. Returns the item ID and
// whether it was newly learned at the course level (re-learning during a
// review session is a no-op on the mirror, but still persisted
// idempotently by the caller).
func (s *Session) RecordLearned() (itemID string, newly bool, err error) {
	if s.state != StateActive {
		return "", false, ErrSessionNotActive
	}
	if s.Variant == domain.LevelTypePhrases {
		return "", false, ErrWrongVariant
	}

	itemID = domain.NormalizeItemID(s.items[s.idx].ID)
	s.sessionLearned[itemID] = struct{}{}
	_, already := s.learned[itemID]
	s.learned[itemID] = struct{}{}

	if err := s.Advance(); err != nil {
		return "", false, err
	}
	return itemID, !already, nil
}

// AnswerResult is the outcome of one phrase answer submission.
type AnswerResult struct {
	ItemID  string `json:"item_id"`
	Correct bool   `json:"correct"`
	Counter int    `json:"counter"`
	Learned bool   `json:"learned"`

	// Promoted and Demoted report a learned-set membership change:
	// crossing the mastery cap from below, or dropping back under it.
	Promoted bool `json:"promoted"`
	Demoted  bool `json:"demoted"`
}

// RecordAnswer checks a constructed sentence against the current phrase
// item and moves its mastery counter: +1 on a correct answer, -1 on a
// wrong one, clamped to the mastery bounds. Crossing the cap promotes
// the item into the learned set; dropping back below demotes it, since
// phrase mastery is reversible, unlike RecordLearned. The cursor stays
// put so the caller can show feedback before advancing.
func (s *Session) RecordAnswer(answer string) (*AnswerResult, error) {
	if s.state != StateActive {
		return nil, ErrSessionNotActive
	}
	if s.Variant != domain.LevelTypePhrases {
		return nil, ErrWrongVariant
	}

	item := s.items[s.idx]
	payload, err := item.Phrase()
	if err != nil {
		return nil, err
	}

	itemID := domain.NormalizeItemID(item.ID)
	correct := phrasetext.Equivalent(answer, payload.Georgian)

	counter := s.mastery[itemID]
	if correct {
		counter = domain.ClampMastery(counter + 1)
	} else {
		counter = domain.ClampMastery(counter - 1)
	}
	s.mastery[itemID] = counter

	_, wasLearned := s.learned[itemID]
	nowLearned := counter >= domain.MasteryMax
	if nowLearned && !wasLearned {
		s.learned[itemID] = struct{}{}
		s.sessionLearned[itemID] = struct{}{}
	}
	if !nowLearned && wasLearned {
		delete(s.learned, itemID)
		delete(s.sessionLearned, itemID)
	}

	s.sessionReviewed[itemID] = struct{}{}

	return &AnswerResult{
		ItemID:   itemID,
		Correct:  correct,
		Counter:  counter,
		Learned:  nowLearned,
		Promoted: nowLearned && !wasLearned,
		Demoted:  !nowLearned && wasLearned,
	}, nil
}

// Abort exits the session mid-run with no penalty. Outcomes already
// recorded stay persisted; they were written item by item, not batched.
func (s *Session) Abort() {
	if s.state == StateActive {
		s.state = StateIdle
	}
}
