package orchestrator

import (
	"fmt"
	"time"
)

// Date format
const (
	DateFormatISO = "2006-01-02"
)

// timeContext creates a temporal context string for the model so that
// scheduling language in briefs ("post tomorrow", "this week's campaign")
// resolves to concrete dates.
func (o *Orchestrator) timeContext(now time.Time) string {
	loc, err := time.LoadLocation(o.timezone)
	if err != nil {
		loc = time.UTC
	}

	now = now.In(loc)

	// Calculate week boundaries (Monday-Sunday)
	weekday := int(now.Weekday())
	if weekday == 0 { // Sunday
		weekday = 7
	}
	weekStart := now.AddDate(0, 0, -(weekday - 1)) // Monday
	weekEnd := weekStart.AddDate(0, 0, 6)          // Sunday
	tomorrow := now.AddDate(0, 0, 1)

	return fmt.Sprintf(
		TimeContextTemplate,
		now.Format(DateFormatISO),
		now.Weekday().String(),
		weekStart.Format(DateFormatISO),
		weekEnd.Format(DateFormatISO),
		tomorrow.Format(DateFormatISO),
	)
}
