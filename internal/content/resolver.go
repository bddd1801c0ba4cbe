package content

import (
	"github.com/dgraph-io/ristretto/v2"
)

// Candidate is one eligible template for a segment, with the actor and
// target of its source group.
type Candidate struct {
	// Key identifies (segment, source item, template text) and drives the
	// no-repeat rule of the plan builder.
	Key      string
	Segment  Segment
	SourceID string
	Template Template
	Actor    Actor
	Target   Actor
	Image    string
}

// Resolver maps a segment, filters and an expected actor to candidates.
// Pools are memoised; the underlying Data must not change after NewResolver.
type Resolver struct {
	data  *Data
	pools *ristretto.Cache[string, []Candidate]
}

// NewResolver builds a resolver over d. A nil d yields empty pools.
func NewResolver(d *Data) *Resolver {
	if d == nil {
		d = &Data{}
	}
	pools, err := ristretto.NewCache(&ristretto.Config[string, []Candidate]{
		NumCounters: 1 << 12,
		MaxCost:     1 << 10,
		BufferItems: 64,
	})
	if err != nil {
		pools = nil
	}
	return &Resolver{data: d, pools: pools}
}

// Data returns the document the resolver reads.
func (r *Resolver) Data() *Data { return r.data }

// Close releases the pool cache.
func (r *Resolver) Close() {
	if r.pools != nil {
		r.pools.Close()
	}
}

// Candidates returns the filter-eligible pool for segment, narrowed to groups
// whose actor equals expected or is unset. When that narrowing leaves nothing, the
// unconstrained pool is returned instead. The returned slice is shared and
// must not be modified.
func (r *Resolver) Candidates(seg Segment, f Filters, expected Actor) []Candidate {
	key := string(seg) + "|" + f.key() + "|" + string(expected)
	if r.pools != nil {
		if pool, ok := r.pools.Get(key); ok {
			return pool
		}
	}
	pool := r.resolve(seg, f, expected)
	if r.pools != nil {
		r.pools.Set(key, pool, 1)
	}
	return pool
}

// All returns every filter-eligible candidate for segment, ignoring actors.
func (r *Resolver) All(seg Segment, f Filters) []Candidate {
	return r.Candidates(seg, f, AnyActor)
}

func (r *Resolver) resolve(seg Segment, f Filters, expected Actor) []Candidate {
	if seg.IsTerminal() {
		var out []Candidate
		for _, p := range r.data.Positions {
			for _, t := range f.Apply(p.Templates) {
				out = append(out, newCandidate(seg, p.ID, t, Both, Both, p.Image))
			}
		}
		return out
	}

	lvl, ok := r.data.level(seg.Level())
	if !ok {
		return nil
	}
	constrained := expected != "" && expected != AnyActor
	out := collect(seg, lvl, f, expected, constrained)
	if constrained && len(out) == 0 {
		out = collect(seg, lvl, f, AnyActor, false)
	}
	return out
}

func collect(seg Segment, lvl Level, f Filters, expected Actor, constrained bool) []Candidate {
	var out []Candidate
	for _, g := range lvl.Actions {
		if constrained && g.Actor != "" && g.Actor != expected {
			continue
		}
		for _, t := range f.Apply(g.Templates) {
			out = append(out, newCandidate(seg, g.ID, t, g.Actor, g.Target, g.Image))
		}
	}
	return out
}

func newCandidate(seg Segment, sourceID string, t Template, actor, target Actor, groupImage string) Candidate {
	img := t.Visual()
	if img == "" {
		img = groupImage
	}
	return Candidate{
		Key:      string(seg) + "|" + sourceID + "|" + t.Text,
		Segment:  seg,
		SourceID: sourceID,
		Template: t,
		Actor:    actor,
		Target:   target,
		Image:    img,
	}
}
