// Package levels resolves the learning path: the ordered set of levels,
// each wrapping a course, and the prerequisite gating that decides which
// of them a user may enter.
package levels

import "github.com/almazbisenbaev/tbilingo-app/internal/domain"

// Registry is the declared learning path. Order matters for display;
// gating comes only from each level's RequiredLevelID. Course documents
// may override title, description, icon, and type at read time.
type Registry []domain.Level

// DefaultRegistry returns the configured Georgian learning path.
func DefaultRegistry() Registry {
	return Registry{
		{
			ID:       "1",
			CourseID: "alphabet",
			Label:    "Flashcards",
			Title:    "Alphabet",
			Icon:     "/images/icon-alphabet.svg",
			Type:     domain.LevelTypeCharacters,
		},
		{
			ID:                 "2",
			CourseID:           "words-basic",
			Label:              "Flashcards",
			Title:              "Basic Words",
			Icon:               "/images/icon-phrases.svg",
			Type:               domain.LevelTypeWords,
			RequiredLevelID:    "1",
			RequiredLevelTitle: "Learn Alphabet",
		},
		{
			ID:                 "3",
			CourseID:           "phrases-essential",
			Label:              "Phrases",
			Title:              "Essential Phrases",
			Icon:               "/images/icon-phrases.svg",
			Type:               domain.LevelTypePhrases,
			RequiredLevelID:    "2",
			RequiredLevelTitle: "Learn Basic Words",
		},
		{
			ID:                 "4",
			CourseID:           "story-1",
			Label:              "Story",
			Title:              "Story: My name is Nino",
			Icon:               "/images/icon-phrases.svg",
			Type:               domain.LevelTypeStory,
			RequiredLevelID:    "3",
			RequiredLevelTitle: "Learn Essential Phrases",
		},
		{
			ID:                 "5",
			CourseID:           "numbers",
			Label:              "Flashcards",
			Title:              "Numbers",
			Icon:               "/images/icon-numbers.svg",
			Type:               domain.LevelTypeNumbers,
			RequiredLevelID:    "4",
			RequiredLevelTitle: "Read the story",
		},
		{
			ID:                 "6",
			CourseID:           "greetings",
			Label:              "Phrases",
			Title:              "Greetings",
			Icon:               "/images/icon-phrases.svg",
			Type:               domain.LevelTypePhrases,
			RequiredLevelID:    "5",
			RequiredLevelTitle: "Learn Numbers",
		},
		{
			ID:                 "7",
			CourseID:           "pronouns",
			Label:              "Flashcards",
			Title:              "Pronouns",
			Icon:               "/images/icon-phrases.svg",
			Type:               domain.LevelTypeWords,
			RequiredLevelID:    "6",
			RequiredLevelTitle: "Learn Greetings",
		},
		{
			ID:                 "8",
			CourseID:           "pronouns-2",
			Label:              "Phrases",
			Title:              "Pronouns 2",
			Icon:               "/images/icon-phrases.svg",
			Type:               domain.LevelTypePhrases,
			RequiredLevelID:    "7",
			RequiredLevelTitle: "Learn Pronouns",
		},
		{
			ID:                 "9",
			CourseID:           "family-friends",
			Label:              "Flashcards",
			Title:              "Family & Friends",
			Icon:               "/images/icon-phrases.svg",
			Type:               domain.LevelTypeWords,
			RequiredLevelID:    "8",
			RequiredLevelTitle: "Learn Pronouns 2",
		},
		{
			ID:                 "10",
			CourseID:           "family-friends-2",
			Label:              "Phrases",
			Title:              "Family & Friends 2",
			Icon:               "/images/icon-phrases.svg",
			Type:               domain.LevelTypePhrases,
			RequiredLevelID:    "9",
			RequiredLevelTitle: "Learn Family & Friends",
		},
	}
}

// ByID returns the level with the given ID.
func (r Registry) ByID(id string) (*domain.Level, bool) {
	for i := range r {
		if r[i].ID == id {
			return &r[i], true
		}
	}
	return nil, false
}
