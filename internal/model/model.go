package model

import "time"

// Occurrence is a single concrete instance of a calendar item, after
// recurrence expansion. Timed occurrences carry Start/End in the
// display timezone; all-day occurrences keep the feed's native date
// untouched, since they have no time-of-day to convert.
type Occurrence struct {
	SourceName string
	UID        string

	Summary     string
	Description string
	Location    string

	AllDay bool

	Start time.Time
	End   time.Time
}

// Entry is one normalized report item: fields trimmed, name fallback
// applied, ready for formatting. Description and Location are empty
// strings when absent. Start is meaningful for timed entries only.
type Entry struct {
	AllDay      bool
	Name        string
	Description string
	Location    string
	Start       time.Time
}
