package importer

import (
	"time"
)

// Run records one export-file import for diagnostics and rule-drift
// auditing: the ruleset version is stamped on every run so downstream
// consumers can tell which rules produced which records.
type Run struct {
	ID               string     `json:"id"`
	Source           string     `json:"source"`
	Status           string     `json:"status"` // RUNNING, COMPLETED, FAILED
	RulesetVersion   string     `json:"ruleset_version"`
	StartedAt        time.Time  `json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at"`
	RowsSeen         int        `json:"rows_seen"`
	RowsEmitted      int        `json:"rows_emitted"`
	RowsSkipped      int        `json:"rows_skipped"`
	ClassifierErrors int        `json:"classifier_errors"`
	BooksUpserted    int        `json:"books_upserted"`
	Error            string     `json:"error,omitempty"`
}
