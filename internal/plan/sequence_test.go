package plan

import (
	"testing"

	"github.com/Thibisault/Intimacy-Coach/internal/content"
)

func TestSequenceEdits(t *testing.T) {
	q := Sequence{}.Add(content.Level1, 3).Add(content.Level2, 0).Add(content.Climax, 4)
	if len(q) != 3 {
		t.Fatalf("len = %d, want 3", len(q))
	}
	if q[1].Minutes != 1 {
		t.Errorf("minutes clamp = %v, want 1", q[1].Minutes)
	}
	if q.Minutes() != 8 {
		t.Errorf("total minutes = %v, want 8", q.Minutes())
	}

	moved := q.Move(2, 0)
	if moved[0].Segment != content.Climax || moved[1].Segment != content.Level1 || moved[2].Segment != content.Level2 {
		t.Errorf("move result = %+v", moved)
	}
	if q[0].Segment != content.Level1 {
		t.Error("Move should not modify the receiver")
	}

	removed := q.Remove(1)
	if len(removed) != 2 || removed[1].Segment != content.Climax {
		t.Errorf("remove result = %+v", removed)
	}
	if len(q.Remove(9)) != 3 {
		t.Error("out-of-range remove should be a no-op")
	}

	set := q.SetMinutes(0, -4)
	if set[0].Minutes != 1 {
		t.Errorf("SetMinutes clamp = %v, want 1", set[0].Minutes)
	}
	if q[0].Minutes != 3 {
		t.Error("SetMinutes should not modify the receiver")
	}
}

func TestStepSecondsFloors(t *testing.T) {
	tests := []struct {
		minutes float64
		want    int
	}{
		{3, 180},
		{1.5, 90},
		{0.26, 15},
		{0.999, 59},
		{0, 0},
		{-2, 0},
	}
	for _, tt := range tests {
		if got := (Step{Segment: content.Level1, Minutes: tt.minutes}).Seconds(); got != tt.want {
			t.Errorf("Seconds(%v min) = %d, want %d", tt.minutes, got, tt.want)
		}
	}
	if got := (Sequence{{Minutes: 1.5}, {Minutes: 2}}).Minutes(); got != 3.5 {
		t.Errorf("total minutes = %v, want 3.5", got)
	}
}

func TestActorModes(t *testing.T) {
	want := []content.Actor{content.ActorP2, content.ActorP1, content.Both, content.ActorP2}
	for i, w := range want {
		if got := ModeFemaleMaleBoth.Expected(i); got != w {
			t.Errorf("rotation[%d] = %s, want %s", i, got, w)
		}
	}
	if ModeRandom.Expected(5) != content.AnyActor {
		t.Error("random mode should not constrain")
	}
	if ModeJustBoth.Expected(1) != content.Both {
		t.Error("just-both should expect both")
	}
	if ModeJustBoth.Next() != ModeRandom {
		t.Error("Next should wrap around")
	}
	if _, err := ParseActorMode("sideways"); err == nil {
		t.Error("unknown mode should fail to parse")
	}
}

func TestRangeValidate(t *testing.T) {
	if err := (Range{Min: 5, Max: 5}).Validate(); err != nil {
		t.Errorf("5-5 should be valid: %v", err)
	}
	if err := (Range{Min: 4, Max: 10}).Validate(); err == nil {
		t.Error("min below floor should fail")
	}
}
