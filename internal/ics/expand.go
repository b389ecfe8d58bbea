package ics

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	appLog "agendaslip/internal/log"
	"agendaslip/internal/model"
)

const defaultMaxOccurrencesPerEvent = 1000

// ExpandConfig controls recurrence expansion for a single target day.
type ExpandConfig struct {
	// Day is the target date; only its year/month/day are used.
	Day time.Time

	// DisplayLocation is the timezone timed occurrences are converted
	// into. If nil, time.Local is used.
	DisplayLocation *time.Location

	// MaxOccurrencesPerEvent caps runaway rules (e.g. secondly
	// frequency). Zero means defaultMaxOccurrencesPerEvent.
	MaxOccurrencesPerEvent int
}

// DayOccurrences turns parsed events into concrete occurrences:
//
//   - Non-recurring events pass through with their own start/end.
//   - RRULE-based events are expanded within the target day only, so
//     occurrences on other days are never materialized.
//   - EXDATE removes instances; RECURRENCE-ID overrides replace them.
//
// Timed occurrences come out in the display timezone; all-day ones keep
// their native date. Date filtering itself is the agenda layer's job.
func DayOccurrences(events []ParsedEvent, cfg ExpandConfig) []model.Occurrence {
	if cfg.DisplayLocation == nil {
		cfg.DisplayLocation = time.Local
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	// Group base events and overrides by UID. Events without a UID can
	// never be overridden, so they always count as base.
	baseEvents := make([]ParsedEvent, 0, len(events))
	overridesByUID := make(map[string][]ParsedEvent)

	for _, ev := range events {
		if ev.IsOverride && ev.Recurrence != nil && ev.UID != "" {
			overridesByUID[ev.UID] = append(overridesByUID[ev.UID], ev)
		} else {
			baseEvents = append(baseEvents, ev)
		}
	}

	out := make([]model.Occurrence, 0, len(baseEvents))
	for _, ev := range baseEvents {
		if ev.RawRRule == "" {
			out = append(out, expandSingle(ev, overridesByUID[ev.UID], cfg))
			continue
		}
		out = append(out, expandRecurring(ev, overridesByUID[ev.UID], cfg)...)
	}
	return out
}

func expandSingle(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) model.Occurrence {
	start, end := ev.Start, ev.End
	if o, ok := findOverrideForStart(overrides, start); ok {
		start, end = o.Start, o.End
		ev = o
	}
	return makeOccurrence(ev, start, end, cfg.DisplayLocation)
}

func expandRecurring(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) []model.Occurrence {
	out := make([]model.Occurrence, 0)

	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Error("failed to parse RRULE, skipping recurring event", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return out
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		// Align EXDATE location with the event's start.
		set.ExDate(ex.In(ev.Start.Location()))
	}

	// Expansion window is the target day. Timed events use the display
	// zone (inclusion is decided on the timezone-converted date);
	// all-day events use their native location, unconverted.
	windowLoc := cfg.DisplayLocation
	if ev.AllDay {
		windowLoc = ev.Start.Location()
	}
	dayStart := time.Date(cfg.Day.Year(), cfg.Day.Month(), cfg.Day.Day(), 0, 0, 0, 0, windowLoc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	// Between operates in the rule's own location.
	occTimes := set.Between(dayStart.In(ev.Start.Location()), dayEnd.In(ev.Start.Location()), true)
	if len(occTimes) > cfg.MaxOccurrencesPerEvent {
		appLog.Error("recurrence expansion truncated", errors.New("max occurrences reached"), "uid", ev.UID, "cap", cfg.MaxOccurrencesPerEvent)
		occTimes = occTimes[:cfg.MaxOccurrencesPerEvent]
	}

	dur := ev.End.Sub(ev.Start)
	for _, occStart := range occTimes {
		var occEnd time.Time
		if ev.AllDay {
			// All-day: [date 00:00, next day 00:00) in the event's zone.
			occStart = time.Date(occStart.Year(), occStart.Month(), occStart.Day(), 0, 0, 0, 0, occStart.Location())
			occEnd = occStart.Add(24 * time.Hour)
		} else {
			occEnd = occStart.Add(dur)
		}

		occEv := ev
		if o, ok := findOverrideForStart(overrides, occStart); ok {
			occStart, occEnd = o.Start, o.End
			occEv = o
		}
		out = append(out, makeOccurrence(occEv, occStart, occEnd, cfg.DisplayLocation))
	}

	return out
}

// findOverrideForStart finds an override whose RECURRENCE-ID matches
// the given instance start with exact time equality.
func findOverrideForStart(overrides []ParsedEvent, start time.Time) (ParsedEvent, bool) {
	for _, ov := range overrides {
		if ov.Recurrence == nil {
			continue
		}
		if ov.Recurrence.In(start.Location()).Equal(start) {
			return ov, true
		}
	}
	return ParsedEvent{}, false
}

func makeOccurrence(ev ParsedEvent, start, end time.Time, displayLoc *time.Location) model.Occurrence {
	if !ev.AllDay {
		start = start.In(displayLoc)
		end = end.In(displayLoc)
	}
	return model.Occurrence{
		SourceName:  ev.Source.Name,
		UID:         ev.UID,
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		AllDay:      ev.AllDay,
		Start:       start,
		End:         end,
	}
}
