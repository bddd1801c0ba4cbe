package content

import (
	"errors"
	"path/filepath"
	"testing"
)

func loadSample(t *testing.T) *Data {
	t.Helper()
	d, err := LoadFile(filepath.Join("testdata", "sample.json"))
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	return d
}

func TestLoadSample(t *testing.T) {
	d := loadSample(t)
	if len(d.Levels) != 2 {
		t.Fatalf("levels = %d, want 2", len(d.Levels))
	}
	if len(d.Positions) != 2 {
		t.Fatalf("positions = %d, want 2", len(d.Positions))
	}
	if d.Levels[0].Actions[0].Templates[0].TextZH == "" {
		t.Error("text_zh should be decoded")
	}
}

func TestParseYAML(t *testing.T) {
	raw := []byte(`
preliminaires_levels:
  - niveau: 3
    actions:
      - id: a
        actor: P2
        target: P1
        templates:
          - text: hello
`)
	d, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Levels[0].Level != 3 {
		t.Errorf("level = %d, want 3", d.Levels[0].Level)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"empty":        `{}`,
		"bad actor":    `{"preliminaires_levels":[{"niveau":1,"actions":[{"id":"a","actor":"X","templates":[{"text":"t"}]}]}]}`,
		"missing id":   `{"preliminaires_levels":[{"niveau":1,"actions":[{"actor":"P1","templates":[{"text":"t"}]}]}]}`,
		"empty text":   `{"sexe_positions":[{"id":"p","templates":[{"text":""}]}]}`,
		"level number": `{"preliminaires_levels":[{"niveau":0,"actions":[]}]}`,
	}
	for name, raw := range cases {
		if _, err := Parse([]byte(raw)); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: err = %v, want ErrInvalid", name, err)
		}
	}
}

func TestSegmentHelpers(t *testing.T) {
	if Level3.Level() != 3 {
		t.Errorf("L3 level = %d", Level3.Level())
	}
	if Climax.Level() != 0 || !Climax.IsTerminal() {
		t.Error("SEXE should be terminal with level 0")
	}
	if s, ok := ParseSegment("2"); !ok || s != Level2 {
		t.Errorf("ParseSegment(2) = %q, %v", s, ok)
	}
	if s, ok := ParseSegment("sexe"); !ok || s != Climax {
		t.Errorf("ParseSegment(sexe) = %q, %v", s, ok)
	}
	if _, ok := ParseSegment("L9"); ok {
		t.Error("L9 should not parse")
	}
}

func TestCandidatesFiltersBeforeActor(t *testing.T) {
	r := NewResolver(loadSample(t))
	defer r.Close()

	all := r.All(Level1, Filters{Anal: true, Hard: true, Clothed: true})
	if len(all) != 3 {
		t.Fatalf("filtered pool = %d, want 3", len(all))
	}
	for _, c := range all {
		if c.Template.HasTag(TagHard) || c.Template.HasTag(TagClothed) {
			t.Errorf("candidate %q should have been filtered", c.Template.Text)
		}
	}

	open := r.All(Level1, Filters{})
	if len(open) != 5 {
		t.Fatalf("unfiltered pool = %d, want 5", len(open))
	}
}

func TestCandidatesActorConstraint(t *testing.T) {
	r := NewResolver(loadSample(t))
	defer r.Close()

	got := r.Candidates(Level1, Filters{}, ActorP2)
	if len(got) != 2 {
		t.Fatalf("P2 pool = %d, want 2", len(got))
	}
	for _, c := range got {
		if c.Actor != ActorP2 {
			t.Errorf("actor = %q, want P2", c.Actor)
		}
	}
}

func TestCandidatesActorFallback(t *testing.T) {
	r := NewResolver(loadSample(t))
	defer r.Close()

	// Level 2 has only a P1 group; asking for P2 falls back to everything.
	got := r.Candidates(Level2, Filters{}, ActorP2)
	if len(got) != 1 {
		t.Fatalf("fallback pool = %d, want 1", len(got))
	}
	if got[0].Actor != ActorP1 {
		t.Errorf("actor = %q, want P1", got[0].Actor)
	}
}

func TestCandidatesGroupWithoutActor(t *testing.T) {
	raw := []byte(`{"preliminaires_levels":[{"niveau":1,"actions":[
		{"id":"free","templates":[{"text":"open"}]},
		{"id":"p1","actor":"P1","target":"P2","templates":[{"text":"mine"}]}
	]}]}`)
	d, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r := NewResolver(d)
	defer r.Close()

	p2 := r.Candidates(Level1, Filters{}, ActorP2)
	if len(p2) != 1 || p2[0].SourceID != "free" {
		t.Fatalf("P2 pool = %+v, want only the actorless group", p2)
	}
	p1 := r.Candidates(Level1, Filters{}, ActorP1)
	if len(p1) != 2 {
		t.Errorf("P1 pool = %d, want 2", len(p1))
	}
}

func TestCandidatesTerminal(t *testing.T) {
	r := NewResolver(loadSample(t))
	defer r.Close()

	got := r.Candidates(Climax, Filters{Anal: true}, ActorP1)
	if len(got) != 2 {
		t.Fatalf("terminal pool = %d, want 2", len(got))
	}
	for _, c := range got {
		if c.Actor != Both || c.Target != Both {
			t.Errorf("terminal candidate actor/target = %q/%q", c.Actor, c.Target)
		}
	}
	if got[0].Image != "face.png" {
		t.Errorf("image = %q, want position image", got[0].Image)
	}
}

func TestCandidateKeysAndImages(t *testing.T) {
	r := NewResolver(loadSample(t))
	defer r.Close()

	seen := map[string]bool{}
	for _, c := range r.All(Level1, Filters{}) {
		if seen[c.Key] {
			t.Errorf("duplicate key %q", c.Key)
		}
		seen[c.Key] = true
	}
	if !seen["L1|kiss|{P1} kisses {P2} on the neck"] {
		t.Error("key should be segment|source|text")
	}

	for _, c := range r.Candidates(Level1, Filters{}, ActorP2) {
		if c.Template.Text == "{P2} massages {P1}'s shoulders" && c.Image != "massage.png" {
			t.Errorf("template image should win, got %q", c.Image)
		}
	}
}

func TestUnknownLevel(t *testing.T) {
	r := NewResolver(loadSample(t))
	defer r.Close()
	if got := r.All(Level5, Filters{}); len(got) != 0 {
		t.Errorf("L5 pool = %d, want 0", len(got))
	}
}

func TestNilDataResolver(t *testing.T) {
	r := NewResolver(nil)
	defer r.Close()
	if got := r.All(Climax, Filters{}); len(got) != 0 {
		t.Errorf("pool = %d, want 0", len(got))
	}
}
