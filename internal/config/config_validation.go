package config

import "errors"

var (
	ErrNoAPIBaseURL     = errors.New("remote API base URL is required")
	ErrNoDSN            = errors.New("local database path is required")
	ErrBadPageSize      = errors.New("sync page size must be positive")
	ErrBadProbeInterval = errors.New("probe interval must be positive")
)

func (c *StructuredConfig) validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, ErrNoAPIBaseURL)
	}
	if c.Storage.DSN == "" {
		errs = append(errs, ErrNoDSN)
	}
	if c.Sync.PageSize <= 0 {
		errs = append(errs, ErrBadPageSize)
	}
	if c.Probe.Interval <= 0 {
		errs = append(errs, ErrBadProbeInterval)
	}

	if c.API.HealthURL == "" && c.API.BaseURL != "" {
		c.HealthURLFromBase()
	}

	return errors.Join(errs...)
}

// HealthURLFromBase derives the probe endpoint from the API base URL when no
// explicit health URL was configured.
func (c *StructuredConfig) HealthURLFromBase() {
	c.API.HealthURL = c.API.BaseURL + "/health"
}
