package agenda

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"agendaslip/internal/config"
	"agendaslip/internal/ics"
	appLog "agendaslip/internal/log"
)

// Fetcher retrieves the raw body of one feed. *ics.Fetcher satisfies
// this; tests substitute failures directly.
type Fetcher interface {
	Fetch(ctx context.Context, src ics.Source) ([]byte, error)
}

// BuildReport produces the full report, one element per output line.
//
// Sources are processed strictly in configuration order, one at a time.
// A source is skipped, with a diagnostic, when its config entry is
// incomplete, its fetch or parse fails, or it has no items on the
// target day; no per-source failure ever aborts the run. When no source
// contributes a block, the report collapses to a single "no events"
// line with no header.
func BuildReport(ctx context.Context, cfg *config.Config, day time.Time, loc *time.Location, fetcher Fetcher) []string {
	lines := FormatHeader(day)
	lines = append(lines, "")

	hasContent := false

	for _, cal := range cfg.Calendars {
		if cal.Name == "" || cal.URL == "" {
			appLog.Error("skipping calendar entry", errors.New("missing name or url"), "name", cal.Name)
			continue
		}

		src := ics.Source{Name: cal.Name, URL: cal.URL}

		body, err := fetcher.Fetch(ctx, src)
		if err != nil {
			appLog.Error("feed fetch failed, skipping source", err, "name", cal.Name)
			continue
		}

		events, err := ics.Parse(src, body)
		if err != nil {
			appLog.Error("feed parse failed, skipping source", err, "name", cal.Name)
			continue
		}

		timed, allDay := DayEntries(events, day, loc)
		if len(timed) == 0 && len(allDay) == 0 {
			continue
		}

		// HH:MM is zero-padded, so string order is chronological order.
		sort.SliceStable(timed, func(i, j int) bool {
			return timed[i].Start.Format(timeLayout) < timed[j].Start.Format(timeLayout)
		})
		sort.SliceStable(allDay, func(i, j int) bool {
			return allDay[i].Name < allDay[j].Name
		})

		lines = append(lines, cal.Name+":")
		lines = append(lines, strings.Repeat("-", utf8.RuneCountInString(cal.Name)))

		for _, e := range timed {
			lines = append(lines, FormatEntry(e, cal.ShowDescription, cal.ShowLocation)...)
		}
		if len(timed) > 0 && len(allDay) > 0 {
			lines = append(lines, "")
		}
		for _, e := range allDay {
			lines = append(lines, FormatEntry(e, cal.ShowDescription, cal.ShowLocation)...)
		}
		lines = append(lines, "")

		hasContent = true
	}

	if !hasContent {
		return []string{"No events or tasks found for " + day.Format(headerDateLayout) + "."}
	}
	return lines
}
