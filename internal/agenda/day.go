// Package agenda selects a single day's calendar items and renders
// them as a fixed-width text report.
package agenda

import (
	"strings"
	"time"

	"agendaslip/internal/ics"
	"agendaslip/internal/model"
)

// noTitle is the display name for items with a blank or missing summary.
const noTitle = "No Title"

// DayEntries expands and filters parsed events down to the target date
// and classifies them into timed events and all-day tasks.
//
// Inclusion is decided by date equality alone: a timed event is kept
// when its start instant, converted into loc, falls on the target date;
// an all-day task is kept when its native date matches, with no
// timezone conversion. Classification follows the feed's all-day flag,
// independently of the filter. Everything else in the feed is dropped.
func DayEntries(events []ics.ParsedEvent, day time.Time, loc *time.Location) (timed, allDay []model.Entry) {
	occs := ics.DayOccurrences(events, ics.ExpandConfig{
		Day:             day,
		DisplayLocation: loc,
	})

	for _, occ := range occs {
		if !sameDate(occ.Start, day) {
			continue
		}

		e := model.Entry{
			AllDay:      occ.AllDay,
			Name:        strings.TrimSpace(occ.Summary),
			Description: strings.TrimSpace(occ.Description),
			Location:    strings.TrimSpace(occ.Location),
			Start:       occ.Start,
		}
		if e.Name == "" {
			e.Name = noTitle
		}

		if occ.AllDay {
			allDay = append(allDay, e)
		} else {
			timed = append(timed, e)
		}
	}
	return timed, allDay
}

func sameDate(t, day time.Time) bool {
	return t.Year() == day.Year() && t.Month() == day.Month() && t.Day() == day.Day()
}
