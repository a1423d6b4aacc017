package weeklypodcast

import (
	"errors"
	"testing"
	"time"

	"github.com/bur98022/cfm-personal-podcast/internal/models"
)

var testCatalog = []models.WeekRecord{
	{Week: 1, Title: "Moses 1", StartDate: "2025-12-29", EndDate: "2026-01-04"},
	{Week: 2, Title: "Genesis 1-2", StartDate: "2026-01-05", EndDate: "2026-01-11"},
	{Week: 3, Title: "Genesis 3-4", StartDate: "2026-01-12", EndDate: "2026-01-18"},
}

func TestSelectWeek(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		expectWeek int
		expectErr  bool
	}{
		{
			name:       "Midweek selects next Monday",
			now:        time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC), // Thursday
			expectWeek: 2,
		},
		{
			name:       "Saturday before release",
			now:        time.Date(2026, 1, 3, 6, 0, 0, 0, time.UTC),
			expectWeek: 2,
		},
		{
			name:       "On the release weekday the current week is never re-selected",
			now:        time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), // Monday
			expectWeek: 3,
		},
		{
			name:      "Past the end of the catalog",
			now:       time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC),
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			week, err := SelectWeek(testCatalog, tt.now, time.Monday)

			if tt.expectErr {
				if err == nil {
					t.Fatalf("Expected error, got week %d", week.Week)
				}
				if !errors.Is(err, ErrCatalogExhausted) {
					t.Errorf("Expected ErrCatalogExhausted, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if week.Week != tt.expectWeek {
				t.Errorf("Expected week %d, got %d", tt.expectWeek, week.Week)
			}
		})
	}
}

func TestSelectWeekNeverApproximates(t *testing.T) {
	// A catalog with a gap: the computed date falls between entries and must
	// not resolve to a neighbor.
	gappy := []models.WeekRecord{
		{Week: 1, StartDate: "2026-01-05"},
		{Week: 3, StartDate: "2026-01-19"},
	}

	// Next Monday is 2026-01-12, which is missing.
	now := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
	if week, err := SelectWeek(gappy, now, time.Monday); err == nil {
		t.Fatalf("Expected ErrCatalogExhausted, got week %d", week.Week)
	} else if !errors.Is(err, ErrCatalogExhausted) {
		t.Errorf("Expected ErrCatalogExhausted, got %v", err)
	}
}
