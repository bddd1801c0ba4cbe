package content

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure of a content document.
var ErrInvalid = errors.New("invalid content")

// LoadFile reads and parses a JSON or YAML content document.
func LoadFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", path, err)
	}
	d, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("content %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes a content document. JSON documents are accepted because
// JSON is a subset of YAML.
func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks ids, actor roles and template texts.
func (d *Data) Validate() error {
	if len(d.Levels) == 0 && len(d.Positions) == 0 {
		return fmt.Errorf("%w: document has no levels and no positions", ErrInvalid)
	}
	for _, l := range d.Levels {
		if l.Level < 1 {
			return fmt.Errorf("%w: level number %d", ErrInvalid, l.Level)
		}
		for _, g := range l.Actions {
			if g.ID == "" {
				return fmt.Errorf("%w: level %d has an action without id", ErrInvalid, l.Level)
			}
			if g.Actor != "" && !g.Actor.valid() {
				return fmt.Errorf("%w: action %s has actor %q", ErrInvalid, g.ID, g.Actor)
			}
			if g.Target != "" && !g.Target.valid() {
				return fmt.Errorf("%w: action %s has target %q", ErrInvalid, g.ID, g.Target)
			}
			if err := validateTemplates(g.ID, g.Templates); err != nil {
				return err
			}
		}
	}
	for _, p := range d.Positions {
		if p.ID == "" {
			return fmt.Errorf("%w: position without id", ErrInvalid)
		}
		if err := validateTemplates(p.ID, p.Templates); err != nil {
			return err
		}
	}
	return nil
}

func validateTemplates(owner string, tpls []Template) error {
	for i, t := range tpls {
		if t.Text == "" {
			return fmt.Errorf("%w: %s template %d has no text", ErrInvalid, owner, i)
		}
	}
	return nil
}
