package domain

import "errors"

// LevelType selects the variant-specific behavior of a course:
// how its items are shaped, rendered, and answered.
type LevelType string

// Supported course variants.
const (
	LevelTypeCharacters LevelType = "characters"
	LevelTypeNumbers    LevelType = "numbers"
	LevelTypeWords      LevelType = "words"
	LevelTypePhrases    LevelType = "phrases"
	LevelTypeStory      LevelType = "story"
)

// Course-specific validation errors.
var (
	// ErrCourseIDEmpty is returned when a course ID is empty.
	ErrCourseIDEmpty = errors.New("course ID cannot be empty")

	// ErrCourseTypeInvalid is returned when a course declares an unknown variant type.
	ErrCourseTypeInvalid = errors.New("course type must be one of characters, numbers, words, phrases, story")
)

// Course is a named collection of learnable items. Title, description and
// icon may override the static level registry when present.
type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Type        LevelType `json:"type"`
}

// Validate checks if the Course has valid data.
func (c *Course) Validate() error {
	if c.ID == "" {
		return ErrCourseIDEmpty
	}
	if !c.Type.Valid() {
		return ErrCourseTypeInvalid
	}
	return nil
}

// Valid reports whether t is one of the supported course variants.
func (t LevelType) Valid() bool {
	switch t {
	case LevelTypeCharacters, LevelTypeNumbers, LevelTypeWords, LevelTypePhrases, LevelTypeStory:
		return true
	default:
		return false
	}
}
