package domain

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"
)

// Item-specific validation errors.
var (
	// ErrItemIDEmpty is returned when an item ID is empty.
	ErrItemIDEmpty = errors.New("item ID cannot be empty")

	// ErrItemCourseIDEmpty is returned when an item's course ID is empty.
	ErrItemCourseIDEmpty = errors.New("item course ID cannot be empty")

	// ErrItemPayloadEmpty is returned when an item's payload is empty.
	ErrItemPayloadEmpty = errors.New("item payload cannot be empty")

	// ErrItemPayloadInvalid is returned when an item's payload is not valid JSON.
	ErrItemPayloadInvalid = errors.New("item payload must be valid JSON")

	// ErrItemWrongVariant is returned when a variant accessor is called on an
	// item of a different type.
	ErrItemWrongVariant = errors.New("item is not of the requested variant")
)

// Item is one learnable unit of a course. The payload is stored as a
// JSONB structure whose shape depends on the course variant; the core
// only interprets it where a variant demands it (phrase answer checking).
//
// IDs are canonically strings. Backends may hand back numeric document
// IDs; they are normalized to their decimal string form at the storage
// boundary so the rest of the core never compares across types.
type Item struct {
	ID       string          `json:"id"`
	CourseID string          `json:"course_id"`
	Type     LevelType       `json:"type"`
	Payload  json.RawMessage `json:"payload"`
}

// CharacterPayload is the payload shape for the characters variant.
type CharacterPayload struct {
	Character     string `json:"character"`
	Name          string `json:"name"`
	Pronunciation string `json:"pronunciation"`
	AudioURL      string `json:"audioUrl,omitempty"`
}

// NumberPayload is the payload shape for the numbers variant.
type NumberPayload struct {
	Number           string `json:"number"`
	Translation      string `json:"translation"`
	TranslationLatin string `json:"translationLatin"`
	AudioURL         string `json:"audioUrl,omitempty"`
}

// WordPayload is the payload shape for the words variant.
type WordPayload struct {
	English  string `json:"english"`
	Georgian string `json:"georgian"`
	Latin    string `json:"latin"`
	AudioURL string `json:"audioUrl,omitempty"`
}

// PhrasePayload is the payload shape for the phrases variant.
// FakeWords are distractors mixed into the word bank alongside the
// words of the canonical sentence.
type PhrasePayload struct {
	English   string   `json:"english"`
	Georgian  string   `json:"georgian"`
	Latin     string   `json:"latin"`
	FakeWords []string `json:"fakeWords"`
	AudioURL  string   `json:"audioUrl,omitempty"`
}

// StoryPayload is the payload shape for the story variant. Each item is
// one slide of the story.
type StoryPayload struct {
	Illustration string `json:"illustration"`
	Text         string `json:"text"`
	Translation  string `json:"translation"`
}

// Validate checks if the Item has valid data.
func (i *Item) Validate() error {
	if i.ID == "" {
		return ErrItemIDEmpty
	}
	if i.CourseID == "" {
		return ErrItemCourseIDEmpty
	}
	if !i.Type.Valid() {
		return ErrCourseTypeInvalid
	}
	if len(i.Payload) == 0 {
		return ErrItemPayloadEmpty
	}
	var js json.RawMessage
	if err := json.Unmarshal(i.Payload, &js); err != nil {
		return ErrItemPayloadInvalid
	}
	return nil
}

// Phrase decodes the item's payload as a PhrasePayload.
// Returns ErrItemWrongVariant if the item is not a phrase item.
func (i *Item) Phrase() (*PhrasePayload, error) {
	if i.Type != LevelTypePhrases {
		return nil, ErrItemWrongVariant
	}
	var p PhrasePayload
	if err := json.Unmarshal(i.Payload, &p); err != nil {
		return nil, ErrItemPayloadInvalid
	}
	return &p, nil
}

// NormalizeItemID converts a backend document ID to the canonical string
// representation: numeric-looking IDs lose leading zeros and whitespace is
// not tolerated, everything else passes through unchanged.
func NormalizeItemID(id string) string {
	if n, err := strconv.Atoi(id); err == nil {
		return strconv.Itoa(n)
	}
	return id
}

// CompareItemIDs orders two canonical item IDs: numeric IDs compare
// numerically, everything else lexicographically, numerics before
// non-numerics. This gives the stable ascending enumeration the session
// selection and progress comparisons depend on.
func CompareItemIDs(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
}

// SortItems sorts items in place in the canonical ascending ID order.
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return CompareItemIDs(items[i].ID, items[j].ID) < 0
	})
}
