// Package content models the static content document (leveled action groups
// and terminal positions) and resolves eligible templates for a segment.
package content

import (
	"strconv"
	"strings"
)

// Segment identifies one intensity level of a session.
type Segment string

// Ordinary levels and the terminal segment.
const (
	Level1 Segment = "L1"
	Level2 Segment = "L2"
	Level3 Segment = "L3"
	Level4 Segment = "L4"
	Level5 Segment = "L5"
	Climax Segment = "SEXE"
)

// Segments lists every segment in canonical order.
var Segments = []Segment{Level1, Level2, Level3, Level4, Level5, Climax}

// IsTerminal reports whether s is the terminal segment.
func (s Segment) IsTerminal() bool { return s == Climax }

// Level returns the numeric level of an ordinary segment, or 0.
func (s Segment) Level() int {
	if s.IsTerminal() {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(string(s), "L"))
	if err != nil {
		return 0
	}
	return n
}

// Valid reports whether s is one of the known segments.
func (s Segment) Valid() bool {
	for _, known := range Segments {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSegment accepts "L1".."L5", "SEXE" and the bare level numbers "1".."5".
func ParseSegment(v string) (Segment, bool) {
	v = strings.ToUpper(strings.TrimSpace(v))
	if _, err := strconv.Atoi(v); err == nil {
		v = "L" + v
	}
	s := Segment(v)
	return s, s.Valid()
}

// Actor is a participant role.
type Actor string

// Roles. AnyActor only ever appears as an expected actor, never on content.
const (
	ActorP1  Actor = "P1"
	ActorP2  Actor = "P2"
	Both     Actor = "both"
	AnyActor Actor = "any"
)

func (a Actor) valid() bool {
	return a == ActorP1 || a == ActorP2 || a == Both
}

// Template is one unit of textual content with {P1}/{P2} placeholders.
type Template struct {
	Text         string   `yaml:"text" json:"text"`
	TextZH       string   `yaml:"text_zh,omitempty" json:"text_zh,omitempty"`
	Tags         []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Image        string   `yaml:"image,omitempty" json:"image,omitempty"`
	Illustration string   `yaml:"illustration,omitempty" json:"illustration,omitempty"`
	Img          string   `yaml:"img,omitempty" json:"img,omitempty"`
	Picture      string   `yaml:"picture,omitempty" json:"picture,omitempty"`
}

// Visual returns the first image alias set on the template.
func (t Template) Visual() string {
	for _, v := range []string{t.Image, t.Illustration, t.Img, t.Picture} {
		if v != "" {
			return v
		}
	}
	return ""
}

// HasTag reports whether the template carries tag.
func (t Template) HasTag(tag string) bool {
	for _, v := range t.Tags {
		if v == tag {
			return true
		}
	}
	return false
}

// ActionGroup is a family of templates sharing an actor and a target. A
// group without an actor suits any expected actor.
type ActionGroup struct {
	ID        string     `yaml:"id" json:"id"`
	Actor     Actor      `yaml:"actor" json:"actor"`
	Target    Actor      `yaml:"target" json:"target"`
	Image     string     `yaml:"image,omitempty" json:"image,omitempty"`
	Templates []Template `yaml:"templates" json:"templates"`
}

// Level holds the action groups of one ordinary segment.
type Level struct {
	Level   int           `yaml:"niveau" json:"niveau"`
	Actions []ActionGroup `yaml:"actions" json:"actions"`
}

// Position is a terminal-segment group of templates.
type Position struct {
	ID        string     `yaml:"id" json:"id"`
	Image     string     `yaml:"image,omitempty" json:"image,omitempty"`
	Templates []Template `yaml:"templates" json:"templates"`
}

// Data is the whole content document.
type Data struct {
	Levels    []Level    `yaml:"preliminaires_levels" json:"preliminaires_levels"`
	Positions []Position `yaml:"sexe_positions" json:"sexe_positions"`
}

// level returns the level record numbered n, if any.
func (d *Data) level(n int) (Level, bool) {
	for _, l := range d.Levels {
		if l.Level == n {
			return l, true
		}
	}
	return Level{}, false
}
