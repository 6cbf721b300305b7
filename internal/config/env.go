package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	_ "time/tzdata"
)

// Env holds the process-level settings read from environment
// variables. Everything behavioral lives in the profile; the
// environment only carries deployment wiring and secrets.
type Env struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	DBPath          string        `env:"DB_PATH" envDefault:"panelworker.db"`
	ProfilePath     string        `env:"PROFILE_PATH" envDefault:"profile.yaml"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"INFO"`
	SessionSecret   string        `env:"SESSION_SECRET,required"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"30s"`
}

// ParseEnv loads the process settings from environment variables.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// timeZoneLocation resolves an IANA zone name. The tzdata import above
// embeds the zone database so containers without one still resolve.
func timeZoneLocation(name string) (*time.Location, error) {
	return time.LoadLocation(name)
}

// Location returns the profile's expiry time zone. Validate has
// already checked it resolves.
func (p *Profile) Location() *time.Location {
	loc, err := timeZoneLocation(p.Expiry.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
