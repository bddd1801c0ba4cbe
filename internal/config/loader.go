package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Thibisault/Intimacy-Coach/internal/plan"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "coach.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// Save writes cfg as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := validate(c); err != nil {
		return fmt.Errorf("config validate: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Participants.P1, "COACH_P1")
	setString(&cfg.Participants.P2, "COACH_P2")
	setInt(&cfg.CooldownSec, "COACH_COOLDOWN_SEC")
	if v := os.Getenv("COACH_ACTOR_MODE"); v != "" {
		cfg.ActorMode = plan.ActorMode(v)
	}
	setString(&cfg.Lang, "COACH_LANG")

	// Filters
	setBool(&cfg.Filters.Anal, "COACH_FILTER_ANAL")
	setBool(&cfg.Filters.Hard, "COACH_FILTER_HARD")
	setBool(&cfg.Filters.Clothed, "COACH_FILTER_CLOTHED")

	// Narration
	setString(&cfg.Voices.Primary, "COACH_VOICE_PRIMARY")
	setString(&cfg.Voices.Secondary, "COACH_VOICE_SECONDARY")
	setBool(&cfg.Narration.Enabled, "COACH_NARRATION_ENABLED")
	setString(&cfg.Narration.Command, "COACH_NARRATION_COMMAND")

	setString(&cfg.Content.Path, "COACH_CONTENT_PATH")
	setString(&cfg.Store.Path, "COACH_STORE_PATH")
	setInt(&cfg.Player.BackThreshold, "COACH_BACK_THRESHOLD")
	setBool(&cfg.Remote.Enabled, "COACH_REMOTE_ENABLED")
	setString(&cfg.Remote.Socket, "COACH_REMOTE_SOCKET")

	setString(&cfg.Logging.Level, "COACH_LOG_LEVEL")
	setString(&cfg.Logging.File, "COACH_LOG_FILE")
}

// validate checks ranges, sequence and enumerations.
func validate(cfg *Config) error {
	if _, err := plan.ParseActorMode(string(cfg.ActorMode)); err != nil {
		return err
	}
	if cfg.CooldownSec < 0 {
		return errors.New("cooldown_sec must be >= 0")
	}
	if cfg.Player.BackThreshold < 1 {
		return errors.New("player.back_threshold must be >= 1")
	}
	switch strings.ToLower(cfg.Lang) {
	case "fr", "zh":
	default:
		return fmt.Errorf("lang must be fr or zh, got %q", cfg.Lang)
	}
	for seg, r := range cfg.Ranges {
		if !seg.Valid() {
			return fmt.Errorf("ranges: unknown segment %q", seg)
		}
		if err := r.Validate(); err != nil {
			return fmt.Errorf("ranges.%s: %w", seg, err)
		}
	}
	for i, st := range cfg.Sequence {
		if !st.Segment.Valid() {
			return fmt.Errorf("sequence[%d]: unknown segment %q", i, st.Segment)
		}
		if st.Minutes <= 0 {
			return fmt.Errorf("sequence[%d]: minutes must be > 0", i)
		}
		if _, ok := cfg.Ranges[st.Segment]; !ok {
			return fmt.Errorf("sequence[%d]: %w for %s", i, plan.ErrMissingRange, st.Segment)
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
