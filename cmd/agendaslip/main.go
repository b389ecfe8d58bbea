package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"agendaslip/internal/agenda"
	"agendaslip/internal/config"
	"agendaslip/internal/ics"
	appLog "agendaslip/internal/log"
	"agendaslip/internal/tzone"
)

type flagConfig struct {
	configPath string
	date       string
	cacheDir   string
	verbose    bool
}

func main() {
	os.Exit(run())
}

func run() int {
	flags := parseFlags()

	if flags.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		return 1
	}
	if err := conf.Validate(); err != nil {
		appLog.Error("invalid config", err, "config_path", flags.configPath)
		return 1
	}

	loc, err := tzone.Resolve(conf.Timezone)
	if err != nil {
		appLog.Error("failed to resolve timezone", err)
		return 1
	}

	// Target date defaults to today in the display zone.
	day := time.Now().In(loc)
	if flags.date != "" {
		day, err = time.ParseInLocation("2006-01-02", flags.date, loc)
		if err != nil {
			appLog.Error("invalid date, expected YYYY-MM-DD", err, "date", flags.date)
			return 1
		}
	}

	cacheDir := conf.CacheDir
	if flags.cacheDir != "" {
		cacheDir = flags.cacheDir
	}
	fetcher := ics.NewFetcher(cacheDir)

	// Per-source fetch and parse failures are handled inside the
	// report loop and never reach the exit code.
	lines := agenda.BuildReport(context.Background(), conf, day, loc, fetcher)
	for _, line := range lines {
		fmt.Println(line)
	}

	return 0
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "calendars.yaml", "Path to YAML configuration file")
	flag.StringVar(&cfg.date, "date", "", "Date to fetch events for (YYYY-MM-DD); defaults to today")
	flag.StringVar(&cfg.cacheDir, "cache-dir", "", "Directory for the conditional feed cache (overrides config)")
	flag.BoolVar(&cfg.verbose, "verbose", false, "Enable debug diagnostics on stderr")

	flag.Parse()

	return cfg
}
