// Package config loads the YAML configuration shared by the server and
// the local clients.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vladimirvolkov/courtside/internal/game"
	"github.com/vladimirvolkov/courtside/internal/input"
	"github.com/vladimirvolkov/courtside/internal/logging"
)

// ErrInvalid wraps every Validate failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  logging.Config `yaml:"logging"`
	Match    game.Settings  `yaml:"match"`
	Tuning   game.Tuning    `yaml:"tuning"`
	Store    StoreConfig    `yaml:"store"`
	Controls input.Bindings `yaml:"controls"`
	Client   ClientConfig   `yaml:"client"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	StaticDir      string   `yaml:"static_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxSessions    int      `yaml:"max_sessions"`
	MaxConnsPerIP  int      `yaml:"max_conns_per_ip"`
	MsgRate        int      `yaml:"msg_rate"`
}

// StoreConfig locates the results database. An empty path disables it.
type StoreConfig struct {
	Path string `yaml:"path"`
}

type ClientConfig struct {
	Sound bool `yaml:"sound"`
	Scale int  `yaml:"scale"`

	// Terminal key hold windows.
	FirstHold  time.Duration `yaml:"first_hold"`
	RepeatHold time.Duration `yaml:"repeat_hold"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          ":8080",
			StaticDir:     "./web",
			MaxSessions:   100,
			MaxConnsPerIP: 4,
			MsgRate:       120,
		},
		Logging:  logging.DefaultConfig(),
		Match:    game.DefaultSettings(),
		Tuning:   game.DefaultTuning(),
		Store:    StoreConfig{Path: filepath.Join("data", "results.db")},
		Controls: input.DefaultBindings(),
		Client: ClientConfig{
			Sound:      true,
			Scale:      1,
			FirstHold:  input.DefaultFirstHold,
			RepeatHold: input.DefaultRepeatHold,
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		c.Server.StaticDir = dir
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, o)
			}
		}
	}
	if path := os.Getenv("COURTSIDE_DB"); path != "" {
		c.Store.Path = path
	}
	if level := os.Getenv("COURTSIDE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate reports every problem at once, each wrapped in ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Server.MaxSessions >= 0, "server.max_sessions must not be negative")
	check(c.Server.MaxConnsPerIP > 0, "server.max_conns_per_ip must be positive")
	check(c.Server.MsgRate > 0, "server.msg_rate must be positive")

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		check(false, "logging.level: %v", err)
	}

	m := c.Match
	check(m.Opponents >= 1 && m.Opponents <= game.MaxOpponents,
		"match.opponents must be between 1 and %d, got %d", game.MaxOpponents, m.Opponents)
	check(m.DurationSecs >= 0, "match.duration_secs must not be negative")
	check(m.CountdownSecs >= 0, "match.countdown_secs must not be negative")

	t := c.Tuning
	check(t.Gravity > 0, "tuning.gravity must be positive")
	check(t.FloorY > 0 && t.FloorY < t.CourtHeight, "tuning.floor_y must lie inside the court")
	check(t.HoopX > 0 && t.HoopX < t.CourtWidth, "tuning.hoop_x must lie inside the court")
	check(t.RimY > 0 && t.RimY < t.FloorY, "tuning.rim_y must lie above the floor")
	check(t.MoveSpeed > 0, "tuning.move_speed must be positive")
	check(t.BallRadius > 0, "tuning.ball_radius must be positive")
	check(t.RimHalfWidth > t.RimRadius, "tuning.rim_half_width must exceed rim_radius")
	check(t.ExitGap >= 2*t.BallRadius, "tuning.exit_gap must be at least the ball diameter")
	check(t.ShotPace > 0, "tuning.shot_pace must be positive")
	check(t.ShotMinFlightTime > 0 && t.ShotMinFlightTime <= t.ShotMaxFlightTime,
		"tuning.shot_min_flight_time must be positive and at most shot_max_flight_time")
	check(t.PassFlightTime > 0, "tuning.pass_flight_time must be positive")
	check(t.PerfectShort <= t.GoodShort && t.PerfectLong <= t.GoodLong,
		"tuning: perfect thresholds must not exceed good thresholds")
	check(t.GoodJitter >= 0 && t.GoodJitter <= t.OKJitter, "tuning: jitter must grow from good to ok")
	check(t.DunkMinSpeed > 0 && t.DunkMinSpeed <= t.DunkMaxSpeed, "tuning: dunk speeds out of order")
	check(t.DunkApproachTime > 0, "tuning.dunk_approach_time must be positive")
	check(t.StealChance >= 0 && t.StealChance <= 1, "tuning.steal_chance must be a probability")
	check(t.AIShootChance >= 0 && t.AIShootChance <= 1, "tuning.ai_shoot_chance must be a probability")
	check(t.AIStealIntent >= 0 && t.AIStealIntent <= 1, "tuning.ai_steal_intent must be a probability")
	check(t.ShootPickupCooldown >= 0 && t.PassPickupCooldown >= 0 && t.LoosePickupCooldown >= 0 &&
		t.StealFailCooldown >= 0 && t.StealSuccessCooldown >= 0 && t.ShoveCooldown >= 0,
		"tuning: cooldowns must not be negative")
	check(t.LooseImpulseMinY <= t.LooseImpulseMaxY, "tuning: loose impulse y range out of order")

	if err := c.Controls.Validate(); err != nil {
		check(false, "controls: %v", err)
	}
	check(c.Client.Scale >= 1, "client.scale must be at least 1")
	check(c.Client.FirstHold > 0 && c.Client.RepeatHold > 0, "client hold windows must be positive")

	return errors.Join(errs...)
}
