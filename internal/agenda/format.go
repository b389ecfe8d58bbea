package agenda

import (
	"strings"
	"time"
	"unicode/utf8"

	"agendaslip/internal/model"
)

// EmptyCheckbox is the glyph printed before every item, left unchecked
// so the slip can be ticked off with a pen.
const EmptyCheckbox = "☐"

// MaxLineWidth is the column count of the target receipt printer.
// It documents the layout the indents were chosen for; rendered lines
// are not wrapped or truncated to it.
const MaxLineWidth = 40

const (
	entryIndent  = "  "
	detailIndent = "    "

	timeLayout       = "15:04"
	headerDateLayout = "January 02, 2006"
)

// FormatEntry renders one event or task into 1-3 report lines.
func FormatEntry(e model.Entry, showDescription, showLocation bool) []string {
	var lines []string

	if e.AllDay {
		lines = append(lines, entryIndent+EmptyCheckbox+" "+e.Name)
	} else {
		lines = append(lines, entryIndent+EmptyCheckbox+" "+e.Start.Format(timeLayout)+" - "+e.Name)
	}

	if showDescription && e.Description != "" {
		lines = append(lines, detailIndent+"Description: "+e.Description)
	}
	if showLocation && e.Location != "" {
		lines = append(lines, detailIndent+"Location: "+e.Location)
	}

	return lines
}

// FormatHeader renders the report title and its underline.
func FormatHeader(day time.Time) []string {
	title := "Agenda for " + day.Format(headerDateLayout)
	return []string{title, strings.Repeat("=", utf8.RuneCountInString(title))}
}
