// Package config is the on-disk configuration of ratemyclass.
package config

import (
	"os"
	"ratemyclass/internal/components/telemetry"
	"ratemyclass/internal/ratings"
	"ratemyclass/internal/relay"
	"ratemyclass/internal/scanner"
	"ratemyclass/internal/scheduler"
	"ratemyclass/pkg/configutil"
	"time"
)

const (
	DEFAULT_FILE        = "ratemyclass.json5"
	DEFAULT_SCHOOL_ID   = 1232
	DEFAULT_SCHOOL_NAME = "The University of North Carolina at Chapel Hill"
	DEFAULT_DATABASE    = "ratemyclass.db"
	DEFAULT_RELAY_PORT  = 8210
)

type SchoolConfig struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type PageConfig struct {
	// Url is the class search page opened by watch.
	Url            string `json:"url"`
	Headless       bool   `json:"headless"`
	PollIntervalMs int    `json:"poll_interval_ms"`
	WaitIntervalMs int    `json:"wait_interval_ms"`
	WaitAttempts   int    `json:"wait_attempts"`
	// MaxRows caps the rows read per pass, 0 uses the scanner's default.
	MaxRows        int    `json:"max_rows"`
}

type UpstreamConfig struct {
	Endpoint          string  `json:"endpoint"`
	UserAgent         string  `json:"user_agent"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
}

type RelayConfig struct {
	// Url points at a running `relay serve`, requests go out directly when
	// it is empty.
	Url  string `json:"url"`
	Port int    `json:"port"`
}

type Config struct {
	School    SchoolConfig        `json:"school"`
	Page      PageConfig          `json:"page"`
	Upstream  UpstreamConfig      `json:"upstream"`
	Relay     RelayConfig         `json:"relay"`
	Database  configutil.Database `json:"database"`
	Telemetry telemetry.Config    `json:"telemetry"`
}

// Default returns cfg with every zero value replaced by its default.
func Default(cfg Config) Config {
	if cfg.School.ID == 0 {
		cfg.School.ID = DEFAULT_SCHOOL_ID
		if cfg.School.Name == "" {
			cfg.School.Name = DEFAULT_SCHOOL_NAME
		}
	}
	if cfg.Page.PollIntervalMs <= 0 {
		cfg.Page.PollIntervalMs = int(scheduler.DEFAULT_POLL_INTERVAL / time.Millisecond)
	}
	if cfg.Page.WaitIntervalMs <= 0 {
		cfg.Page.WaitIntervalMs = 100
	}
	if cfg.Page.WaitAttempts <= 0 {
		cfg.Page.WaitAttempts = 50
	}
	if cfg.Upstream.Endpoint == "" {
		cfg.Upstream.Endpoint = ratings.DEFAULT_ENDPOINT
	}
	if cfg.Upstream.UserAgent == "" {
		cfg.Upstream.UserAgent = ratings.DEFAULT_USER_AGENT
	}
	if cfg.Upstream.RequestsPerSecond == 0 {
		cfg.Upstream.RequestsPerSecond = 2
	}
	if cfg.Upstream.TimeoutSeconds <= 0 {
		cfg.Upstream.TimeoutSeconds = 30
	}
	if cfg.Relay.Port == 0 {
		cfg.Relay.Port = DEFAULT_RELAY_PORT
	}
	if cfg.Database.File == "" && cfg.Database.Url == "" {
		cfg.Database.File = DEFAULT_DATABASE
	}
	return cfg
}

// Read reads the config file (and its .local override) and applies the
// defaults. A missing file is the same as an empty one.
func Read(name string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](name)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}
	return Default(cfg), nil
}

func (c Config) TargetSchool() ratings.School {
	return ratings.School{ID: c.School.ID, Name: c.School.Name}
}

func (c Config) ScannerOptions() scanner.Options {
	return scanner.Options{
		WaitAttempts: c.Page.WaitAttempts,
		WaitInterval: time.Duration(c.Page.WaitIntervalMs) * time.Millisecond,
		MaxRows:      c.Page.MaxRows,
	}
}

func (c Config) SchedulerOptions() scheduler.Options {
	return scheduler.Options{
		PollInterval: time.Duration(c.Page.PollIntervalMs) * time.Millisecond,
	}
}

func (c Config) ResolverOptions() ratings.Options {
	return ratings.Options{
		Endpoint:  c.Upstream.Endpoint,
		UserAgent: c.Upstream.UserAgent,
	}
}

func (c Config) timeout() time.Duration {
	return time.Duration(c.Upstream.TimeoutSeconds) * time.Second
}

// DirectRelay sends requests to the upstream from this process.
func (c Config) DirectRelay(tel telemetry.API) relay.Direct {
	return relay.NewDirect(relay.DirectOptions{
		Timeout:           c.timeout(),
		RequestsPerSecond: c.Upstream.RequestsPerSecond,
	}, tel)
}

// NewRelay returns the relay the resolver should use, a remote one when a relay
// server is configured.
func (c Config) NewRelay(tel telemetry.API) relay.Relay {
	if c.Relay.Url != "" {
		return relay.NewRemote(c.Relay.Url, c.timeout(), tel)
	}
	return c.DirectRelay(tel)
}
