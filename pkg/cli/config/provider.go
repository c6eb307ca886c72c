package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/dosecal/dosecal/pkg/domain/interfaces"
	"github.com/dosecal/dosecal/pkg/service/gcal"
	"github.com/dosecal/dosecal/pkg/service/memcal"
	"github.com/dosecal/dosecal/pkg/utils/logging"
)

// Provider holds CLI flags for the calendar provider configuration
type Provider struct {
	backend string
	timeout time.Duration
}

// Flags returns CLI flags for provider configuration
func (p *Provider) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "calendar-provider",
			Usage:       "Calendar provider backend (gcal or memory)",
			Value:       "gcal",
			Category:    "Calendar",
			Sources:     cli.EnvVars("DOSECAL_CALENDAR_PROVIDER"),
			Destination: &p.backend,
		},
		&cli.DurationFlag{
			Name:        "calendar-timeout",
			Usage:       "Per-request timeout for calendar provider calls",
			Value:       10 * time.Second,
			Category:    "Calendar",
			Sources:     cli.EnvVars("DOSECAL_CALENDAR_TIMEOUT"),
			Destination: &p.timeout,
		},
	}
}

// Configure initializes the calendar provider client
func (p *Provider) Configure() (interfaces.EventProvider, error) {
	switch p.backend {
	case "gcal":
		logging.Default().Info("Using Google Calendar provider", "timeout", p.timeout)
		return gcal.New(gcal.WithTimeout(p.timeout)), nil

	case "memory":
		logging.Default().Info("Using in-memory calendar provider (development mode)")
		return memcal.New(), nil

	default:
		return nil, goerr.New("invalid calendar provider", goerr.V("provider", p.backend))
	}
}
