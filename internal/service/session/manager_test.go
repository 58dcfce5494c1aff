package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almazbisenbaev/tbilingo-app/internal/domain"
	"github.com/almazbisenbaev/tbilingo-app/internal/events"
	"github.com/almazbisenbaev/tbilingo-app/internal/mocks"
	"github.com/almazbisenbaev/tbilingo-app/internal/store"
)

// fakeProgressReader returns a fixed record per (user, course) pair,
// falling back to an empty one.
type fakeProgressReader struct {
	records map[string]*domain.ProgressRecord
}

func (f *fakeProgressReader) Read(ctx context.Context, userID uuid.UUID, courseID string) *domain.ProgressRecord {
	if record, ok := f.records[courseID]; ok && record.UserID == userID {
		return record
	}
	return domain.NewProgressRecord(userID, courseID)
}

type managerFixture struct {
	manager *Manager
	courses *mocks.MockCourseStore
	items   *mocks.MockItemStore
	reader  *fakeProgressReader
	emitter *mocks.MockEmitter
}

func newManagerFixture(t *testing.T) *managerFixture {
	t.Helper()
	f := &managerFixture{
		courses: mocks.NewMockCourseStore(),
		items:   mocks.NewMockItemStore(),
		reader:  &fakeProgressReader{records: map[string]*domain.ProgressRecord{}},
		emitter: &mocks.MockEmitter{},
	}
	f.manager = NewManager(f.courses, f.items, f.reader, f.emitter, seededRand(), nil)
	return f
}

func (f *managerFixture) addCourse(course *domain.Course, items []domain.Item) {
	f.courses.Courses[course.ID] = course
	f.items.Items[course.ID] = items
}

func TestManagerStartSession(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	course := testCourse("alphabet", domain.LevelTypeCharacters)
	f.addCourse(course, wordItems(course.ID, 5))
	userID := uuid.New()

	sess, err := f.manager.StartSession(context.Background(), userID, course.ID, false)
	require.NoError(t, err)
	assert.Equal(t, userID, sess.UserID)
	assert.Equal(t, course.ID, sess.CourseID)
	assert.Equal(t, 5, sess.Len())

	got, err := f.manager.Get(sess.ID, userID)
	require.NoError(t, err)
	assert.Same(t, sess, got)
}

func TestManagerStartSessionUnknownCourse(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	_, err := f.manager.StartSession(context.Background(), uuid.New(), "missing", false)
	assert.ErrorIs(t, err, store.ErrCourseNotFound)
}

func TestManagerStartSessionCourseComplete(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	course := testCourse("numbers", domain.LevelTypeNumbers)
	f.addCourse(course, wordItems(course.ID, 2))
	userID := uuid.New()

	record := domain.NewProgressRecord(userID, course.ID)
	record.Learn("1")
	record.Learn("2")
	f.reader.records[course.ID] = record

	_, err := f.manager.StartSession(context.Background(), userID, course.ID, false)
	assert.ErrorIs(t, err, ErrCourseComplete)

	// The review flag turns the refusal into a full-set session.
	sess, err := f.manager.StartSession(context.Background(), userID, course.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, sess.Len())
}

func TestManagerOwnershipCheck(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	course := testCourse("alphabet", domain.LevelTypeCharacters)
	f.addCourse(course, wordItems(course.ID, 3))
	owner := uuid.New()

	sess, err := f.manager.StartSession(context.Background(), owner, course.ID, false)
	require.NoError(t, err)

	_, err = f.manager.Get(sess.ID, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotOwned)

	_, err = f.manager.Get(uuid.New(), owner)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerRecordLearnedEmitsEvent(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	course := testCourse("alphabet", domain.LevelTypeCharacters)
	f.addCourse(course, wordItems(course.ID, 3))
	userID := uuid.New()

	sess, err := f.manager.StartSession(context.Background(), userID, course.ID, false)
	require.NoError(t, err)

	_, err = f.manager.RecordLearned(context.Background(), sess.ID, userID)
	require.NoError(t, err)

	emitted := f.emitter.Emitted()
	require.Len(t, emitted, 1)
	assert.Equal(t, events.KindItemLearned, emitted[0].Kind)
	assert.Equal(t, userID, emitted[0].UserID)
	assert.Equal(t, course.ID, emitted[0].CourseID)
	assert.NotEmpty(t, emitted[0].ItemID)
}

func TestManagerRecordAnswerEmitsDelta(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	course := testCourse("phrases-essential", domain.LevelTypePhrases)
	f.addCourse(course, phraseItems(course.ID, "გამარჯობა"))
	userID := uuid.New()

	sess, err := f.manager.StartSession(context.Background(), userID, course.ID, false)
	require.NoError(t, err)

	_, result, err := f.manager.RecordAnswer(context.Background(), sess.ID, userID, "გამარჯობა")
	require.NoError(t, err)
	assert.True(t, result.Correct)

	_, _, err = f.manager.RecordAnswer(context.Background(), sess.ID, userID, "wrong")
	require.NoError(t, err)

	emitted := f.emitter.Emitted()
	require.Len(t, emitted, 2)
	assert.Equal(t, events.KindMasteryDelta, emitted[0].Kind)
	assert.Equal(t, 1, emitted[0].Delta)
	assert.Equal(t, -1, emitted[1].Delta)
}

func TestManagerEmitterFailureDoesNotFailOperation(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	f.emitter.Err = assert.AnError
	course := testCourse("alphabet", domain.LevelTypeCharacters)
	f.addCourse(course, wordItems(course.ID, 2))
	userID := uuid.New()

	sess, err := f.manager.StartSession(context.Background(), userID, course.ID, false)
	require.NoError(t, err)

	// The in-memory transition already happened; a failed emit is logged,
	// not surfaced.
	got, err := f.manager.RecordLearned(context.Background(), sess.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SessionLearnedCount())
}

func TestManagerAbortRemovesSession(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	course := testCourse("alphabet", domain.LevelTypeCharacters)
	f.addCourse(course, wordItems(course.ID, 2))
	userID := uuid.New()

	sess, err := f.manager.StartSession(context.Background(), userID, course.ID, false)
	require.NoError(t, err)

	require.NoError(t, f.manager.Abort(sess.ID, userID))
	_, err = f.manager.Get(sess.ID, userID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerEvictsSessionOnFinish(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	course := testCourse("alphabet", domain.LevelTypeCharacters)
	f.addCourse(course, wordItems(course.ID, 1))
	userID := uuid.New()

	first, err := f.manager.StartSession(context.Background(), userID, course.ID, false)
	require.NoError(t, err)

	// Advancing past the single item finishes the session; the returned
	// pointer carries the final state but the manager lets go of it.
	got, err := f.manager.Advance(first.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, StateFinished, got.State())

	_, err = f.manager.Get(first.ID, userID)
	assert.ErrorIs(t, err, ErrSessionNotFound, "finished session was discarded")
}

func TestManagerHoldsNoFinishedSessions(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	course := testCourse("alphabet", domain.LevelTypeCharacters)
	f.addCourse(course, wordItems(course.ID, 1))

	// Many users finishing sessions must leave nothing resident.
	for i := 0; i < 50; i++ {
		userID := uuid.New()
		sess, err := f.manager.StartSession(context.Background(), userID, course.ID, false)
		require.NoError(t, err)
		_, err = f.manager.RecordLearned(context.Background(), sess.ID, userID)
		require.NoError(t, err)
	}

	f.manager.mu.Lock()
	resident := len(f.manager.sessions)
	f.manager.mu.Unlock()
	assert.Zero(t, resident)
}

func TestManagerReapsIdleSessions(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	course := testCourse("alphabet", domain.LevelTypeCharacters)
	other := testCourse("numbers", domain.LevelTypeNumbers)
	f.addCourse(course, wordItems(course.ID, 3))
	f.addCourse(other, wordItems(other.ID, 3))

	clock := time.Now()
	f.manager.now = func() time.Time { return clock }

	abandoner := uuid.New()
	abandoned, err := f.manager.StartSession(context.Background(), abandoner, course.ID, false)
	require.NoError(t, err)

	// Another user starting after the TTL elapses triggers the reap.
	clock = clock.Add(sessionIdleTTL + time.Minute)
	_, err = f.manager.StartSession(context.Background(), uuid.New(), other.ID, false)
	require.NoError(t, err)

	_, err = f.manager.Get(abandoned.ID, abandoner)
	assert.ErrorIs(t, err, ErrSessionNotFound, "abandoned session was reaped")
}

func TestManagerTouchKeepsSessionAlive(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	course := testCourse("alphabet", domain.LevelTypeCharacters)
	other := testCourse("numbers", domain.LevelTypeNumbers)
	f.addCourse(course, wordItems(course.ID, 3))
	f.addCourse(other, wordItems(other.ID, 3))

	clock := time.Now()
	f.manager.now = func() time.Time { return clock }

	userID := uuid.New()
	sess, err := f.manager.StartSession(context.Background(), userID, course.ID, false)
	require.NoError(t, err)

	// Activity short of the TTL resets the idle window each time.
	clock = clock.Add(sessionIdleTTL - time.Minute)
	_, err = f.manager.Advance(sess.ID, userID)
	require.NoError(t, err)

	clock = clock.Add(sessionIdleTTL - time.Minute)
	_, err = f.manager.StartSession(context.Background(), uuid.New(), other.ID, false)
	require.NoError(t, err)

	_, err = f.manager.Get(sess.ID, userID)
	assert.NoError(t, err)
}

func TestManagerStartSupersedesExistingSession(t *testing.T) {
	t.Parallel()

	f := newManagerFixture(t)
	course := testCourse("alphabet", domain.LevelTypeCharacters)
	f.addCourse(course, wordItems(course.ID, 3))
	userID := uuid.New()

	first, err := f.manager.StartSession(context.Background(), userID, course.ID, false)
	require.NoError(t, err)

	second, err := f.manager.StartSession(context.Background(), userID, course.ID, false)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	_, err = f.manager.Get(first.ID, userID)
	assert.ErrorIs(t, err, ErrSessionNotFound, "restart discards the previous run")
}
