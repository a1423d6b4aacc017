package models

import "fmt"

// WeekRecord is one entry of the externally maintained study catalog.
// The catalog is ordered chronologically and start dates are unique;
// week selection relies on an exact start-date match.
type WeekRecord struct {
	Week            int    `json:"week"`
	Title           string `json:"title"`
	StartDate       string `json:"start_date"` // YYYY-MM-DD
	EndDate         string `json:"end_date"`   // YYYY-MM-DD
	ScriptureBlocks string `json:"scripture_blocks"`
	URL             string `json:"url"`
}

// Tag returns the stable identifier for this week's publication cycle,
// e.g. "week-2026-01-05".
func (w *WeekRecord) Tag() string {
	return "week-" + w.StartDate
}

// Label returns the human-readable date range, e.g. "2026-01-05 to 2026-01-11".
func (w *WeekRecord) Label() string {
	return w.StartDate + " to " + w.EndDate
}

// FolderName returns the Drive folder name for this week's artifacts.
func (w *WeekRecord) FolderName() string {
	return fmt.Sprintf("Week %02d - %s", w.Week, w.Title)
}
