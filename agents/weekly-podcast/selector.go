package weeklypodcast

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bur98022/cfm-personal-podcast/internal/models"
)

// ErrCatalogExhausted signals that no catalog entry matches the upcoming
// release date. Selection is an exact start-date match on purpose: silently
// picking an adjacent week would publish the wrong content.
var ErrCatalogExhausted = errors.New("catalog exhausted")

// LoadCatalog reads the ordered week catalog from a JSON index file.
func LoadCatalog(path string) ([]models.WeekRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	var catalog []models.WeekRecord
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("catalog %s is empty", path)
	}

	return catalog, nil
}

// SelectWeek finds the catalog entry whose start date is the next occurrence
// of weekday strictly after now. When now itself falls on weekday, the
// following week is chosen; the current week is never re-selected.
func SelectWeek(catalog []models.WeekRecord, now time.Time, weekday time.Weekday) (*models.WeekRecord, error) {
	daysAhead := (int(weekday) - int(now.Weekday()) + 7) % 7
	if daysAhead == 0 {
		daysAhead = 7
	}
	target := now.AddDate(0, 0, daysAhead).Format("2006-01-02")

	for i := range catalog {
		if catalog[i].StartDate == target {
			return &catalog[i], nil
		}
	}

	return nil, fmt.Errorf("%w: no week starts on %s, extend the catalog", ErrCatalogExhausted, target)
}
