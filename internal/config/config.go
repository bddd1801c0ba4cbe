// Package config provides hierarchical configuration loading for the coach.
// Precedence: defaults < YAML file < environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/Thibisault/Intimacy-Coach/internal/content"
	"github.com/Thibisault/Intimacy-Coach/internal/narration"
	"github.com/Thibisault/Intimacy-Coach/internal/plan"
)

// Config holds all runtime configuration.
type Config struct {
	Participants plan.Participants              `yaml:"participants"`
	Sequence     plan.Sequence                  `yaml:"sequence"`
	Ranges       map[content.Segment]plan.Range `yaml:"ranges"`
	CooldownSec  int                            `yaml:"cooldown_sec"`
	ActorMode    plan.ActorMode                 `yaml:"actor_mode"`
	Filters      content.Filters                `yaml:"filters"`
	Lang         string                         `yaml:"lang"` // "fr" | "zh"
	Voices       Voices                         `yaml:"voices"`
	Narration    Narration                      `yaml:"narration"`
	Content      Content                        `yaml:"content"`
	Store        Store                          `yaml:"store"`
	Player       Player                         `yaml:"player"`
	Remote       Remote                         `yaml:"remote"`
	Logging      Logging                        `yaml:"logging"`
}

// Voices holds voice preferences. Primary speaks the French text,
// secondary the Chinese one.
type Voices struct {
	Primary       string            `yaml:"primary"`
	Secondary     string            `yaml:"secondary"`
	PrimaryLang   string            `yaml:"primary_lang"`
	SecondaryLang string            `yaml:"secondary_lang"`
	Available     []narration.Voice `yaml:"available"`
}

// Narration selects the TTS program.
type Narration struct {
	Enabled bool     `yaml:"enabled"`
	Command string   `yaml:"command"` // empty: espeak-ng, or say on macOS
	Args    []string `yaml:"args"`
}

// Content locates the action library.
type Content struct {
	Path string `yaml:"path"`
}

// Store locates the SQLite history database.
type Store struct {
	Path string `yaml:"path"`
}

// Player holds playback tuning.
type Player struct {
	BackThreshold int `yaml:"back_threshold"` // seconds
}

// Remote holds the control socket configuration.
type Remote struct {
	Enabled bool   `yaml:"enabled"`
	Socket  string `yaml:"socket"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	File    string `yaml:"file"` // empty discards logs
}

// Defaults returns a Config with the stock sequence and ranges.
func Defaults() Config {
	dir := DataDir()
	return Config{
		Participants: plan.Participants{P1: "Homme", P2: "Femme"},
		Sequence: plan.Sequence{
			{Segment: content.Level1, Minutes: 3},
			{Segment: content.Level2, Minutes: 3},
			{Segment: content.Level3, Minutes: 3},
			{Segment: content.Level4, Minutes: 3},
			{Segment: content.Level5, Minutes: 3},
			{Segment: content.Climax, Minutes: 4},
		},
		Ranges: map[content.Segment]plan.Range{
			content.Level1: {Min: 15, Max: 30},
			content.Level2: {Min: 20, Max: 35},
			content.Level3: {Min: 20, Max: 40},
			content.Level4: {Min: 25, Max: 45},
			content.Level5: {Min: 25, Max: 50},
			content.Climax: {Min: 30, Max: 60},
		},
		CooldownSec: 1,
		ActorMode:   plan.ModeRandom,
		Filters:     content.Filters{Anal: true, Hard: true, Clothed: true},
		Lang:        "fr",
		Voices: Voices{
			PrimaryLang:   "fr-FR",
			SecondaryLang: "zh-CN",
		},
		Narration: Narration{Enabled: true},
		Content:   Content{Path: "data.json"},
		Store:     Store{Path: filepath.Join(dir, "history.db")},
		Player:    Player{BackThreshold: 3},
		Remote:    Remote{Enabled: true, Socket: filepath.Join(dir, "coach.sock")},
		Logging: Logging{
			Level:   "info",
			Service: "coach",
			File:    filepath.Join(dir, "coach.log"),
		},
	}
}

// DataDir is where the history, socket and log live by default.
func DataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "intimacy-coach")
}

// Settings converts the playback-relevant fields for the plan builder.
func (c *Config) Settings() plan.Settings {
	ranges := make(map[content.Segment]plan.Range, len(c.Ranges))
	for k, v := range c.Ranges {
		ranges[k] = v
	}
	seq := make(plan.Sequence, len(c.Sequence))
	copy(seq, c.Sequence)
	return plan.Settings{
		Participants: c.Participants,
		Sequence:     seq,
		Ranges:       ranges,
		ActorMode:    c.ActorMode,
		Filters:      c.Filters,
	}
}

// Apply copies edited builder settings back into the config.
func (c *Config) Apply(s plan.Settings) {
	c.Participants = s.Participants
	c.Sequence = s.Sequence
	c.Ranges = s.Ranges
	c.ActorMode = s.ActorMode
	c.Filters = s.Filters
}
