package audit

import (
	"fmt"
	"time"
)

// Config holds the settings of one audit run.
type Config struct {
	URL      string        // data origin, http(s):// or file://
	BasePath string        // "" or "/WTStats"
	Workers  int           // concurrent comparison fetches
	Timeout  time.Duration // per-request timeout
	Verbose  bool          // log every comparison, not only failures
}

// Validate checks that the run can start.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidConfig)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
