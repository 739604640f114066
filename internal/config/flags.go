package config

import (
	"flag"
	"os"
)

// ParseFlags reads command-line flags into a partial [StructuredConfig].
// Unset flags leave their fields at zero so lower-priority sources can fill
// them during the merge. A dedicated FlagSet keeps tests free of global flag
// state.
func ParseFlags() *StructuredConfig {
	return parseFlags(os.Args[1:])
}

func parseFlags(args []string) *StructuredConfig {
	cfg := &StructuredConfig{}

	fs := flag.NewFlagSet("offlinekit", flag.ContinueOnError)
	fs.StringVar(&cfg.API.BaseURL, "api-url", "", "base URL of the remote API")
	fs.StringVar(&cfg.API.HealthURL, "health-url", "", "connectivity probe URL")
	fs.DurationVar(&cfg.API.RequestTimeout, "request-timeout", 0, "outbound request timeout")
	fs.StringVar(&cfg.Storage.DSN, "db-path", "", "path to the local SQLite database")
	fs.IntVar(&cfg.Sync.PageSize, "sync-page-size", 0, "page size for paginated item pulls")
	fs.DurationVar(&cfg.Sync.MaxAge, "sync-max-age", 0, "staleness bound for cached scopes")
	fs.DurationVar(&cfg.Sync.ResyncInterval, "resync-interval", 0, "background resync check interval")
	fs.DurationVar(&cfg.Probe.Interval, "probe-interval", 0, "connectivity probe interval")

	_ = fs.Parse(args)

	return cfg
}
