package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestProgressRecordLearn(t *testing.T) {
	t.Parallel()

	record := NewProgressRecord(uuid.New(), "alphabet")
	assert.False(t, record.IsLearned("1"))

	assert.True(t, record.Learn("1"), "first learn changes the set")
	assert.True(t, record.IsLearned("1"))

	assert.False(t, record.Learn("1"), "re-learning is a no-op")
	assert.Equal(t, []string{"1"}, record.LearnedItemIDs)
}

func TestProgressRecordUnlearn(t *testing.T) {
	t.Parallel()

	record := NewProgressRecord(uuid.New(), "phrases-essential")
	record.Learn("1")
	record.Learn("2")

	assert.True(t, record.Unlearn("1"))
	assert.False(t, record.IsLearned("1"))
	assert.True(t, record.IsLearned("2"))

	assert.False(t, record.Unlearn("1"), "unlearning an absent item reports false")
}

func TestSetMasterySyncsLearnedSet(t *testing.T) {
	t.Parallel()

	record := NewProgressRecord(uuid.New(), "phrases-essential")

	// Counter below the cap keeps the item out of the learned set.
	record.SetMastery("5", 2)
	assert.Equal(t, 2, record.Mastery("5"))
	assert.False(t, record.IsLearned("5"))

	// Reaching the cap promotes the item.
	record.SetMastery("5", MasteryMax)
	assert.True(t, record.IsLearned("5"))

	// Dropping back below demotes it again.
	record.SetMastery("5", 2)
	assert.False(t, record.IsLearned("5"))
}

func TestSetMasteryClamps(t *testing.T) {
	t.Parallel()

	record := NewProgressRecord(uuid.New(), "phrases-essential")

	record.SetMastery("1", 99)
	assert.Equal(t, MasteryMax, record.Mastery("1"))
	assert.True(t, record.IsLearned("1"))

	record.SetMastery("1", -5)
	assert.Equal(t, MasteryMin, record.Mastery("1"))
	assert.False(t, record.IsLearned("1"))
}

func TestMasteryOnNilMap(t *testing.T) {
	t.Parallel()

	record := &ProgressRecord{UserID: uuid.New(), CourseID: "phrases-essential"}
	assert.Equal(t, MasteryMin, record.Mastery("1"))

	record.SetMastery("1", 1)
	assert.Equal(t, 1, record.Mastery("1"))
}

func TestRecomputeFinished(t *testing.T) {
	t.Parallel()

	record := NewProgressRecord(uuid.New(), "numbers")
	record.Learn("1")
	record.Learn("2")

	record.RecomputeFinished(3)
	assert.False(t, record.IsFinished)

	record.Learn("3")
	record.RecomputeFinished(3)
	assert.True(t, record.IsFinished)
}

func TestRecomputeFinishedNeverRegresses(t *testing.T) {
	t.Parallel()

	// A record finished against an earlier, smaller item set stays
	// finished after the course grows.
	record := NewProgressRecord(uuid.New(), "numbers")
	record.Learn("1")
	record.IsFinished = true

	record.RecomputeFinished(10)
	assert.True(t, record.IsFinished)
}

func TestNormalizeIDs(t *testing.T) {
	t.Parallel()

	record := NewProgressRecord(uuid.New(), "phrases-essential")
	record.LearnedItemIDs = []string{"01", "1", "abc", "007"}
	record.ItemProgress = map[string]int{"01": 2, "1": 1, "003": 3}

	record.NormalizeIDs()

	assert.Equal(t, []string{"1", "abc", "7"}, record.LearnedItemIDs,
		"legacy forms fold into canonical IDs without duplicates")
	assert.Equal(t, map[string]int{"1": 2, "3": 3}, record.ItemProgress,
		"colliding mastery keys keep the higher counter")
}

func TestNormalizeIDsOnEmptyRecord(t *testing.T) {
	t.Parallel()

	record := NewProgressRecord(uuid.New(), "alphabet")
	record.NormalizeIDs()
	assert.Empty(t, record.LearnedItemIDs)
	assert.Empty(t, record.ItemProgress)
}

func TestCompleted(t *testing.T) {
	t.Parallel()

	assert.False(t, Completed(0, 0), "empty course is never complete")
	assert.False(t, Completed(5, 0))
	assert.False(t, Completed(2, 3))
	assert.True(t, Completed(3, 3))
	assert.True(t, Completed(4, 3), "stale extra learned IDs still count complete")
}

func TestClampMastery(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MasteryMin, ClampMastery(-1))
	assert.Equal(t, 0, ClampMastery(0))
	assert.Equal(t, 2, ClampMastery(2))
	assert.Equal(t, MasteryMax, ClampMastery(3))
	assert.Equal(t, MasteryMax, ClampMastery(4))
}

func TestProgressRecordValidate(t *testing.T) {
	t.Parallel()

	valid := NewProgressRecord(uuid.New(), "alphabet")
	assert.NoError(t, valid.Validate())

	noUser := NewProgressRecord(uuid.Nil, "alphabet")
	assert.ErrorIs(t, noUser.Validate(), ErrProgressUserIDEmpty)

	noCourse := NewProgressRecord(uuid.New(), "")
	assert.ErrorIs(t, noCourse.Validate(), ErrProgressCourseIDEmpty)
}
