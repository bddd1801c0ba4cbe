package plan

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/Thibisault/Intimacy-Coach/internal/content"
)

// maxDrawsPerSegment bounds the sampling loop of one segment.
const maxDrawsPerSegment = 2000

// Builder samples plans. It is safe for concurrent use.
type Builder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewBuilder returns a builder drawing from rng. A nil rng uses a randomly
// seeded generator.
func NewBuilder(rng *rand.Rand) *Builder {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Builder{rng: rng}
}

// NewSeededBuilder returns a deterministic builder.
func NewSeededBuilder(seed uint64) *Builder {
	return NewBuilder(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Build produces a fresh plan. Sampling is without replacement across the
// whole plan; once a segment's eligible pool is used up, repeats are drawn
// from the full pool instead of ending the segment.
func (b *Builder) Build(s Settings, r *content.Resolver) (*Plan, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	used := make(map[string]bool)
	p := &Plan{Segments: make([]SegmentPlan, 0, len(s.Sequence))}
	cycle := 0

	for i, step := range s.Sequence {
		rng, ok := s.Ranges[step.Segment]
		if !ok {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Segment, ErrMissingRange)
		}
		if err := rng.Validate(); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Segment, err)
		}

		seg := SegmentPlan{Segment: step.Segment, Actions: []Action{}}
		remaining := step.Seconds()
		for draws := 0; remaining >= rng.Min && draws < maxDrawsPerSegment; draws++ {
			eligible := r.Candidates(step.Segment, s.Filters, s.ActorMode.Expected(cycle))
			pool := unused(eligible, used)
			if len(pool) == 0 {
				pool = eligible
			}
			if len(pool) == 0 {
				break
			}

			pick := pool[b.rng.IntN(len(pool))]
			a := resolve(pick, s.Participants)
			a.Duration = rng.Min + b.rng.IntN(rng.Max-rng.Min+1)
			seg.Actions = append(seg.Actions, a)

			used[pick.Key] = true
			remaining -= a.Duration
			cycle++
		}
		p.Segments = append(p.Segments, seg)
	}
	return p, nil
}

// DrawOne picks one filter-eligible candidate of seg uniformly at random,
// ignoring actors and previous draws. The returned action has no duration.
func (b *Builder) DrawOne(s Settings, r *content.Resolver, seg content.Segment, f content.Filters) (Action, bool) {
	pool := r.All(seg, f)
	if len(pool) == 0 {
		return Action{}, false
	}
	b.mu.Lock()
	pick := pool[b.rng.IntN(len(pool))]
	b.mu.Unlock()
	return resolve(pick, s.Participants), true
}

func unused(pool []content.Candidate, used map[string]bool) []content.Candidate {
	out := make([]content.Candidate, 0, len(pool))
	for _, c := range pool {
		if !used[c.Key] {
			out = append(out, c)
		}
	}
	return out
}

func resolve(c content.Candidate, names Participants) Action {
	return Action{
		Segment: c.Segment,
		Actor:   c.Actor,
		Target:  c.Target,
		Text:    names.Substitute(c.Template.Text),
		TextZH:  names.Substitute(c.Template.TextZH),
		Image:   c.Image,
	}
}
