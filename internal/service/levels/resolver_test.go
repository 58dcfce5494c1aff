package levels

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/almazbisenbaev/tbilingo-app/internal/domain"
)

func TestIsLocked(t *testing.T) {
	t.Parallel()

	finished := domain.NewProgressRecord(uuid.New(), "alphabet")
	finished.IsFinished = true
	unfinished := domain.NewProgressRecord(uuid.New(), "alphabet")
	allLearned := domain.NewProgressRecord(uuid.New(), "alphabet")
	allLearned.Learn("1")
	allLearned.Learn("2")

	noPrereq := &domain.Level{ID: "1", CourseID: "alphabet"}
	gated := &domain.Level{ID: "2", CourseID: "words-basic", RequiredLevelID: "1"}

	tests := []struct {
		name     string
		level    *domain.Level
		progress map[string]*domain.ProgressRecord
		totals   map[string]int
		want     bool
	}{
		{
			name:     "no prerequisite is never locked",
			level:    noPrereq,
			progress: map[string]*domain.ProgressRecord{},
			want:     false,
		},
		{
			name:     "prerequisite finished unlocks",
			level:    gated,
			progress: map[string]*domain.ProgressRecord{"1": finished},
			want:     false,
		},
		{
			name:     "prerequisite unfinished locks",
			level:    gated,
			progress: map[string]*domain.ProgressRecord{"1": unfinished},
			totals:   map[string]int{"1": 2},
			want:     true,
		},
		{
			name:     "prerequisite fully learned with stale flag unlocks",
			level:    gated,
			progress: map[string]*domain.ProgressRecord{"1": allLearned},
			totals:   map[string]int{"1": 2},
			want:     false,
		},
		{
			name:     "fully learned set against unknown total stays locked",
			level:    gated,
			progress: map[string]*domain.ProgressRecord{"1": allLearned},
			want:     true,
		},
		{
			name:     "absent prerequisite record fails safe to locked",
			level:    gated,
			progress: map[string]*domain.ProgressRecord{},
			want:     true,
		},
		{
			name:     "nil prerequisite record fails safe to locked",
			level:    gated,
			progress: map[string]*domain.ProgressRecord{"1": nil},
			want:     true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, IsLocked(tc.level, tc.progress, tc.totals))
		})
	}
}

func TestDefaultRegistryChain(t *testing.T) {
	t.Parallel()

	registry := DefaultRegistry()
	assert.Len(t, registry, 10)

	// The first level is the entry point; every later level names an
	// existing predecessor.
	assert.False(t, registry[0].Requires())
	for _, level := range registry[1:] {
		assert.True(t, level.Requires(), "level %s should have a prerequisite", level.ID)
		_, ok := registry.ByID(level.RequiredLevelID)
		assert.True(t, ok, "level %s requires unknown level %s", level.ID, level.RequiredLevelID)
	}

	_, ok := registry.ByID("missing")
	assert.False(t, ok)
}
