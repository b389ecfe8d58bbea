package agenda

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"agendaslip/internal/config"
	"agendaslip/internal/ics"
	appLog "agendaslip/internal/log"
)

func TestMain(m *testing.M) {
	appLog.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// fakeFetcher serves canned bodies or errors keyed by URL.
type fakeFetcher struct {
	bodies map[string][]byte
	errs   map[string]error
}

func (f *fakeFetcher) Fetch(_ context.Context, src ics.Source) ([]byte, error) {
	if err, ok := f.errs[src.URL]; ok {
		return nil, err
	}
	if body, ok := f.bodies[src.URL]; ok {
		return body, nil
	}
	return nil, errors.New("no response configured")
}

func icsFeed(veventBlocks ...[]string) []byte {
	lines := []string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//agendaslip//test//EN"}
	for _, block := range veventBlocks {
		lines = append(lines, "BEGIN:VEVENT")
		lines = append(lines, block...)
		lines = append(lines, "END:VEVENT")
	}
	lines = append(lines, "END:VCALENDAR")
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

var testDay = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func TestBuildReportOrdersTimedEvents(t *testing.T) {
	cfg := &config.Config{Calendars: []config.Calendar{
		{Name: "Work", URL: "https://example.com/work.ics"},
	}}
	fetcher := &fakeFetcher{bodies: map[string][]byte{
		"https://example.com/work.ics": icsFeed(
			[]string{"UID:2", "SUMMARY:Review", "DTSTART:20260314T143000Z", "DTEND:20260314T153000Z"},
			[]string{"UID:1", "SUMMARY:Standup", "DTSTART:20260314T090000Z", "DTEND:20260314T091500Z"},
		),
	}}

	got := BuildReport(context.Background(), cfg, testDay, time.UTC, fetcher)
	want := []string{
		"Agenda for March 14, 2026",
		"=========================",
		"",
		"Work:",
		"----",
		"  ☐ 09:00 - Standup",
		"  ☐ 14:30 - Review",
		"",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildReportSeparatesTimedAndAllDay(t *testing.T) {
	cfg := &config.Config{Calendars: []config.Calendar{
		{Name: "Home", URL: "https://example.com/home.ics"},
	}}
	fetcher := &fakeFetcher{bodies: map[string][]byte{
		"https://example.com/home.ics": icsFeed(
			[]string{"UID:1", "SUMMARY:Dentist", "DTSTART:20260314T100000Z", "DTEND:20260314T110000Z"},
			[]string{"UID:2", "SUMMARY:Laundry", "DTSTART;VALUE=DATE:20260314"},
			[]string{"UID:3", "SUMMARY:Groceries", "DTSTART;VALUE=DATE:20260314"},
		),
	}}

	got := BuildReport(context.Background(), cfg, testDay, time.UTC, fetcher)
	want := []string{
		"Agenda for March 14, 2026",
		"=========================",
		"",
		"Home:",
		"----",
		"  ☐ 10:00 - Dentist",
		"",
		"  ☐ Groceries",
		"  ☐ Laundry",
		"",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildReportSkipsFailedSource(t *testing.T) {
	cfg := &config.Config{Calendars: []config.Calendar{
		{Name: "Broken", URL: "https://example.com/broken.ics"},
		{Name: "Work", URL: "https://example.com/work.ics"},
	}}
	fetcher := &fakeFetcher{
		errs: map[string]error{"https://example.com/broken.ics": errors.New("connection refused")},
		bodies: map[string][]byte{
			"https://example.com/work.ics": icsFeed(
				[]string{"UID:1", "SUMMARY:Standup", "DTSTART:20260314T090000Z", "DTEND:20260314T091500Z"},
			),
		},
	}

	got := BuildReport(context.Background(), cfg, testDay, time.UTC, fetcher)
	for _, line := range got {
		if strings.Contains(line, "Broken") {
			t.Fatalf("failed source leaked into the report: %q", line)
		}
	}
	if !containsLine(got, "Work:") || !containsLine(got, "  ☐ 09:00 - Standup") {
		t.Fatalf("surviving source missing from report:\n%s", strings.Join(got, "\n"))
	}
}

func TestBuildReportSkipsUnparseableSource(t *testing.T) {
	cfg := &config.Config{Calendars: []config.Calendar{
		{Name: "Garbage", URL: "https://example.com/garbage.ics"},
	}}
	fetcher := &fakeFetcher{bodies: map[string][]byte{
		"https://example.com/garbage.ics": []byte("not an ics feed"),
	}}

	got := BuildReport(context.Background(), cfg, testDay, time.UTC, fetcher)
	want := []string{"No events or tasks found for March 14, 2026."}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildReportSkipsIncompleteEntries(t *testing.T) {
	cfg := &config.Config{Calendars: []config.Calendar{
		{Name: "", URL: "https://example.com/unnamed.ics"},
		{Name: "No URL"},
		{Name: "Work", URL: "https://example.com/work.ics"},
	}}
	fetcher := &fakeFetcher{bodies: map[string][]byte{
		"https://example.com/work.ics": icsFeed(
			[]string{"UID:1", "SUMMARY:Standup", "DTSTART:20260314T090000Z", "DTEND:20260314T091500Z"},
		),
	}}

	got := BuildReport(context.Background(), cfg, testDay, time.UTC, fetcher)
	if containsLine(got, "No URL:") {
		t.Fatal("incomplete entry rendered a block")
	}
	if !containsLine(got, "Work:") {
		t.Fatalf("valid source missing:\n%s", strings.Join(got, "\n"))
	}
}

func TestBuildReportOmitsEmptySource(t *testing.T) {
	cfg := &config.Config{Calendars: []config.Calendar{
		{Name: "Quiet", URL: "https://example.com/quiet.ics"},
		{Name: "Work", URL: "https://example.com/work.ics"},
	}}
	fetcher := &fakeFetcher{bodies: map[string][]byte{
		// Only events outside the target date.
		"https://example.com/quiet.ics": icsFeed(
			[]string{"UID:1", "SUMMARY:Elsewhere", "DTSTART:20260320T090000Z", "DTEND:20260320T100000Z"},
		),
		"https://example.com/work.ics": icsFeed(
			[]string{"UID:2", "SUMMARY:Standup", "DTSTART:20260314T090000Z", "DTEND:20260314T091500Z"},
		),
	}}

	got := BuildReport(context.Background(), cfg, testDay, time.UTC, fetcher)
	if containsLine(got, "Quiet:") {
		t.Fatalf("empty source contributed lines:\n%s", strings.Join(got, "\n"))
	}
}

func TestBuildReportNoMatchesAnywhere(t *testing.T) {
	cfg := &config.Config{Calendars: []config.Calendar{
		{Name: "Work", URL: "https://example.com/work.ics"},
	}}
	fetcher := &fakeFetcher{bodies: map[string][]byte{
		"https://example.com/work.ics": icsFeed(
			[]string{"UID:1", "SUMMARY:Elsewhere", "DTSTART:20260320T090000Z", "DTEND:20260320T100000Z"},
		),
	}}

	got := BuildReport(context.Background(), cfg, testDay, time.UTC, fetcher)
	want := []string{"No events or tasks found for March 14, 2026."}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildReportHonorsDisplayFlags(t *testing.T) {
	feed := icsFeed(
		[]string{
			"UID:1",
			"SUMMARY:Standup",
			"DESCRIPTION:Daily sync",
			"LOCATION:Room 42",
			"DTSTART:20260314T090000Z",
			"DTEND:20260314T091500Z",
		},
	)

	cfg := &config.Config{Calendars: []config.Calendar{
		{Name: "Work", URL: "https://example.com/work.ics", ShowLocation: true},
	}}
	fetcher := &fakeFetcher{bodies: map[string][]byte{"https://example.com/work.ics": feed}}

	got := BuildReport(context.Background(), cfg, testDay, time.UTC, fetcher)
	for _, line := range got {
		if strings.HasPrefix(strings.TrimLeft(line, " "), "Description:") {
			t.Fatalf("description rendered with show_description=false: %q", line)
		}
	}
	if !containsLine(got, "    Location: Room 42") {
		t.Fatalf("location missing with show_location=true:\n%s", strings.Join(got, "\n"))
	}
}

func TestBuildReportTreatsBlankDescriptionAsAbsent(t *testing.T) {
	feed := icsFeed(
		[]string{
			"UID:1",
			"SUMMARY:Laundry",
			"DESCRIPTION:   ",
			"DTSTART;VALUE=DATE:20260314",
		},
	)

	cfg := &config.Config{Calendars: []config.Calendar{
		{Name: "Home", URL: "https://example.com/home.ics", ShowDescription: true},
	}}
	fetcher := &fakeFetcher{bodies: map[string][]byte{"https://example.com/home.ics": feed}}

	got := BuildReport(context.Background(), cfg, testDay, time.UTC, fetcher)
	for _, line := range got {
		if strings.Contains(line, "Description:") {
			t.Fatalf("blank description rendered: %q", line)
		}
	}
	if !containsLine(got, "  ☐ Laundry") {
		t.Fatalf("task line missing:\n%s", strings.Join(got, "\n"))
	}
}

func containsLine(lines []string, want string) bool {
	for _, line := range lines {
		if line == want {
			return true
		}
	}
	return false
}
