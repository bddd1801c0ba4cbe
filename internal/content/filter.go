package content

// Exclusion tags recognised by Filters.
const (
	TagAnal    = "anal"
	TagHard    = "hard"
	TagClothed = "clothed"
)

// Filters are the three independent exclusion switches. A true field drops
// every template carrying the matching tag.
type Filters struct {
	Anal    bool `yaml:"anal" json:"anal"`
	Hard    bool `yaml:"hard" json:"hard"`
	Clothed bool `yaml:"clothed" json:"clothed"`
}

// Allows reports whether t survives the enabled exclusions.
func (f Filters) Allows(t Template) bool {
	if f.Anal && t.HasTag(TagAnal) {
		return false
	}
	if f.Hard && t.HasTag(TagHard) {
		return false
	}
	if f.Clothed && t.HasTag(TagClothed) {
		return false
	}
	return true
}

// Apply keeps the templates allowed by f, preserving order.
func (f Filters) Apply(tpls []Template) []Template {
	out := make([]Template, 0, len(tpls))
	for _, t := range tpls {
		if f.Allows(t) {
			out = append(out, t)
		}
	}
	return out
}

func (f Filters) key() string {
	b := []byte("---")
	if f.Anal {
		b[0] = 'a'
	}
	if f.Hard {
		b[1] = 'h'
	}
	if f.Clothed {
		b[2] = 'c'
	}
	return string(b)
}
