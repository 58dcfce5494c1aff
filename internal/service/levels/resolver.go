package levels

import "github.com/almazbisenbaev/tbilingo-app/internal/domain"

// IsLocked computes a level's gate from the prerequisite's progress.
// A level with no prerequisite is never locked. A level with one is
// locked unless that prerequisite is effectively complete: absent
// progress data fails safe to locked, never to an error.
//
// Both maps are keyed by level ID (not course ID). Each level is
// evaluated independently; the resolver tolerates any level referencing
// any single predecessor, a forest of chains rather than one line.
func IsLocked(level *domain.Level, progressByLevelID map[string]*domain.ProgressRecord, totalsByLevelID map[string]int) bool {
	if !level.Requires() {
		return false
	}
	record, ok := progressByLevelID[level.RequiredLevelID]
	if !ok || record == nil {
		return true
	}
	return !effectivelyComplete(record, totalsByLevelID[level.RequiredLevelID])
}

// effectivelyComplete is the one completion predicate shared by the
// overview badge and the gate: an explicit finished flag, or a learned
// set covering every item of a non-empty course. A record whose final
// finish write was lost still counts as complete once everything in it
// is learned.
func effectivelyComplete(record *domain.ProgressRecord, totalItems int) bool {
	return record.IsFinished || domain.Completed(len(record.LearnedItemIDs), totalItems)
}
