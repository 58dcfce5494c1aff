package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Mastery counter bounds for the phrases variant. An item counts as
// learned exactly when its counter reaches MasteryMax.
const (
	MasteryMin = 0
	MasteryMax = 3
)

// Progress-specific validation errors.
var (
	// ErrProgressUserIDEmpty is returned when a progress record has no user ID.
	ErrProgressUserIDEmpty = errors.New("progress user ID cannot be empty")

	// ErrProgressCourseIDEmpty is returned when a progress record has no course ID.
	ErrProgressCourseIDEmpty = errors.New("progress course ID cannot be empty")
)

// ProgressRecord tracks one user's progress through one course.
// LearnedItemIDs holds canonical item IDs; insertion order is preserved
// for storage stability but carries no meaning. ItemProgress holds the
// bounded mastery counters used only by the phrases variant.
type ProgressRecord struct {
	UserID         uuid.UUID      `json:"user_id"`
	CourseID       string         `json:"course_id"`
	LearnedItemIDs []string       `json:"learned_item_ids"`
	ItemProgress   map[string]int `json:"item_progress,omitempty"`
	IsFinished     bool           `json:"is_finished"`
	CreatedAt      time.Time      `json:"created_at"`
	LastUpdated    time.Time      `json:"last_updated"`
}

// NewProgressRecord creates an empty progress record for the given user
// and course. An absent stored record is treated as exactly this value.
func NewProgressRecord(userID uuid.UUID, courseID string) *ProgressRecord {
	return &ProgressRecord{
		UserID:         userID,
		CourseID:       courseID,
		LearnedItemIDs: []string{},
		ItemProgress:   map[string]int{},
	}
}

// Validate checks if the ProgressRecord has valid data.
func (p *ProgressRecord) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrProgressUserIDEmpty
	}
	if p.CourseID == "" {
		return ErrProgressCourseIDEmpty
	}
	return nil
}

// IsLearned reports whether the given item ID is in the learned set.
func (p *ProgressRecord) IsLearned(itemID string) bool {
	for _, id := range p.LearnedItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

// Learn adds the item to the learned set. Adding an already-present ID is
// a no-op; the returned bool reports whether the set actually changed.
func (p *ProgressRecord) Learn(itemID string) bool {
	if p.IsLearned(itemID) {
		return false
	}
	p.LearnedItemIDs = append(p.LearnedItemIDs, itemID)
	return true
}

// Unlearn removes the item from the learned set, reporting whether it was
// present. Used by the phrases variant when a counter drops back below the cap.
func (p *ProgressRecord) Unlearn(itemID string) bool {
	for i, id := range p.LearnedItemIDs {
		if id == itemID {
			p.LearnedItemIDs = append(p.LearnedItemIDs[:i], p.LearnedItemIDs[i+1:]...)
			return true
		}
	}
	return false
}

// Mastery returns the bounded counter for the item, zero when untracked.
func (p *ProgressRecord) Mastery(itemID string) int {
	if p.ItemProgress == nil {
		return MasteryMin
	}
	return p.ItemProgress[itemID]
}

// SetMastery stores the counter clamped to [MasteryMin, MasteryMax] and
// synchronizes learned-set membership with the counter-at-cap rule.
func (p *ProgressRecord) SetMastery(itemID string, counter int) {
	counter = ClampMastery(counter)
	if p.ItemProgress == nil {
		p.ItemProgress = map[string]int{}
	}
	p.ItemProgress[itemID] = counter
	if counter >= MasteryMax {
		p.Learn(itemID)
	} else {
		p.Unlearn(itemID)
	}
}

// NormalizeIDs rewrites the learned set and mastery keys to canonical
// item ID form. Stored records may predate normalization at the storage
// boundary ("01" next to "1"); folding happens on read so the rest of
// the core only ever compares canonical IDs. Duplicate learned entries
// collapse to one; colliding mastery keys keep the higher counter.
func (p *ProgressRecord) NormalizeIDs() {
	if len(p.LearnedItemIDs) > 0 {
		seen := make(map[string]struct{}, len(p.LearnedItemIDs))
		learned := p.LearnedItemIDs[:0]
		for _, id := range p.LearnedItemIDs {
			id = NormalizeItemID(id)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			learned = append(learned, id)
		}
		p.LearnedItemIDs = learned
	}
	if len(p.ItemProgress) > 0 {
		progress := make(map[string]int, len(p.ItemProgress))
		for id, counter := range p.ItemProgress {
			id = NormalizeItemID(id)
			if counter > progress[id] {
				progress[id] = counter
			}
		}
		p.ItemProgress = progress
	}
}

// RecomputeFinished updates IsFinished from the learned count against the
// course's item total. Completion requires a non-empty course; a finished
// flag already set stays set (completion never regresses on a learn write).
func (p *ProgressRecord) RecomputeFinished(totalItems int) {
	p.IsFinished = p.IsFinished || Completed(len(p.LearnedItemIDs), totalItems)
}

// Completed reports the course-completion rule: a vacuously complete empty
// course is explicitly rejected.
func Completed(learned, total int) bool {
	return total > 0 && learned >= total
}

// ClampMastery bounds a counter to [MasteryMin, MasteryMax].
func ClampMastery(counter int) int {
	if counter < MasteryMin {
		return MasteryMin
	}
	if counter > MasteryMax {
		return MasteryMax
	}
	return counter
}
