package plan

import (
	"math"

	"github.com/Thibisault/Intimacy-Coach/internal/content"
)

// Step pairs a segment with a target duration in minutes. Fractional
// minutes are allowed.
type Step struct {
	Segment content.Segment `yaml:"segment" json:"segment"`
	Minutes float64         `yaml:"minutes" json:"minutes"`
}

// Seconds is the step's time budget, rounded down to whole seconds.
func (s Step) Seconds() int {
	if s.Minutes <= 0 {
		return 0
	}
	return int(math.Floor(s.Minutes * 60))
}

// Sequence is the ordered, repeatable list of steps. Edits return a new
// slice and leave the receiver untouched.
type Sequence []Step

// Add appends a step. Minutes below 1 are raised to 1.
func (q Sequence) Add(seg content.Segment, minutes float64) Sequence {
	out := q.clone()
	return append(out, Step{Segment: seg, Minutes: max(1, minutes)})
}

// Remove drops the step at i. Out-of-range indexes are ignored.
func (q Sequence) Remove(i int) Sequence {
	if i < 0 || i >= len(q) {
		return q.clone()
	}
	out := make(Sequence, 0, len(q)-1)
	out = append(out, q[:i]...)
	return append(out, q[i+1:]...)
}

// Move relocates the step at from to index to.
func (q Sequence) Move(from, to int) Sequence {
	out := q.clone()
	if from < 0 || from >= len(q) || to < 0 || to >= len(q) || from == to {
		return out
	}
	step := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append(Sequence{step}, out[to:]...)...)
	return out
}

// SetMinutes changes the minutes of step i, clamped to at least 1.
func (q Sequence) SetMinutes(i int, minutes float64) Sequence {
	out := q.clone()
	if i >= 0 && i < len(out) {
		out[i].Minutes = max(1, minutes)
	}
	return out
}

// Minutes is the total configured time.
func (q Sequence) Minutes() float64 {
	var total float64
	for _, s := range q {
		total += s.Minutes
	}
	return total
}

func (q Sequence) clone() Sequence {
	out := make(Sequence, len(q))
	copy(out, q)
	return out
}
