package pipeline

import "os"

// PlanPhases decides whether this run indexes (walks + enriches) or
// only executes the final query, and whether an indexing run resumes
// (skipping already-indexed files) or starts clean. Per spec.md §4.5:
// both phases run when the database file does not yet exist, the
// store is ":memory:", or update was requested; otherwise only the
// final query runs. ":memory:" always re-indexes since an in-memory
// database can never carry pre-existing rows.
func PlanPhases(dbURL string, update bool) (runBothPhases, resume bool) {
	memory := dbURL == ":memory:"
	firstRun := memory
	if !memory {
		if _, err := os.Stat(dbURL); os.IsNotExist(err) {
			firstRun = true
		}
	}
	runBothPhases = firstRun || update
	resume = update && !firstRun
	return runBothPhases, resume
}
