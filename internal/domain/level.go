package domain

// Level is a UI-facing node wrapping a course plus prerequisite-gating
// metadata. Locked status is derived by the levels service, never stored.
type Level struct {
	ID       string    `json:"id"`
	CourseID string    `json:"course_id"`
	Label    string    `json:"label,omitempty"`
	Title    string    `json:"title"`
	Icon     string    `json:"icon,omitempty"`
	Type     LevelType `json:"type"`

	// RequiredLevelID names the single prerequisite level, if any.
	// The configured chain is linear but nothing here assumes that;
	// any level may reference any one predecessor.
	RequiredLevelID    string `json:"required_level_id,omitempty"`
	RequiredLevelTitle string `json:"required_level_title,omitempty"`
}

// Requires reports whether the level declares a prerequisite.
func (l *Level) Requires() bool {
	return l.RequiredLevelID != ""
}
