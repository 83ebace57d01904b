package task

import "sort"

// NextAvailable picks the next workable task from a snapshot: the Todo
// top-level task with the lowest rank. Checklist items and tasks already
// in progress or done are never candidates. The second return value is
// false when no task qualifies; that is a defined empty result, not an
// error. The query is pure, so repeated calls over the same snapshot
// return the same task until a caller transitions it.
func NextAvailable(snapshot []Task) (Task, bool) {
	var best Task
	found := false
	for _, t := range snapshot {
		if t.IsChecklistItem() || t.Status != StatusTodo {
			continue
		}
		if !found || t.Rank < best.Rank {
			best = t
			found = true
		}
	}
	return best, found
}

// NextUnchecked picks the first unchecked checklist item from a parent's
// children: the lowest-rank item whose status is not Done. Returns false
// when the parent has no children or all are checked.
func NextUnchecked(children []Task) (Task, bool) {
	var best Task
	found := false
	for _, t := range children {
		if t.Checked() {
			continue
		}
		if !found || t.Rank < best.Rank {
			best = t
			found = true
		}
	}
	return best, found
}

// SortByRank orders tasks by ascending rank (creation order) in place.
func SortByRank(tasks []Task) {
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].Rank < tasks[j].Rank
	})
}
