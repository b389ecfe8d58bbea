// Package tzone resolves the single display timezone for a run.
package tzone

import (
	"fmt"
	"os"
	"time"

	appLog "agendaslip/internal/log"
)

// Resolve picks the timezone every event time is interpreted and
// displayed in. Resolution is an ordered chain:
//
//  1. configured: an explicitly configured IANA name must resolve, or
//     the run aborts (a misspelled zone silently shifting every event
//     is worse than a hard failure).
//  2. the TZ environment variable, if set and loadable.
//  3. the host zone (time.Local).
//  4. UTC.
//
// Steps 2 and 3 failing is not an error; a wrong-but-present zone beats
// aborting during setup.
func Resolve(configured string) (*time.Location, error) {
	if configured != "" {
		loc, err := time.LoadLocation(configured)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", configured, err)
		}
		return loc, nil
	}

	if tz := os.Getenv("TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err == nil {
			return loc, nil
		}
		appLog.Error("cannot load TZ environment zone, trying host zone", err, "tz", tz)
	}

	if time.Local != nil {
		return time.Local, nil
	}

	appLog.Info("host timezone unavailable, falling back to UTC")
	return time.UTC, nil
}
