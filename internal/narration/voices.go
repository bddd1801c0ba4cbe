package narration

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/Thibisault/Intimacy-Coach/internal/session"
)

// Voice is an installed TTS voice.
type Voice struct {
	Name string `yaml:"name" json:"name"`
	Lang string `yaml:"lang" json:"lang"`
}

// PickVoice returns the voice named preferred, else the best language
// match for want, else the first voice. It reports false only when
// voices is empty.
func PickVoice(voices []Voice, preferred string, want language.Tag) (Voice, bool) {
	if len(voices) == 0 {
		return Voice{}, false
	}
	if preferred != "" {
		for _, v := range voices {
			if strings.EqualFold(v.Name, preferred) {
				return v, true
			}
		}
	}

	var (
		tags []language.Tag
		idx  []int
	)
	for i, v := range voices {
		t, err := language.Parse(v.Lang)
		if err != nil {
			continue
		}
		tags = append(tags, t)
		idx = append(idx, i)
	}
	if len(tags) > 0 {
		_, i, conf := language.NewMatcher(tags).Match(want)
		if conf != language.No {
			return voices[idx[i]], true
		}
	}
	return voices[0], true
}

// Resolve picks the primary and secondary voice handles. Without a match
// the preference, or failing that the language tag, is passed through as
// the handle.
func Resolve(available []Voice, primaryPref, secondaryPref string, primary, secondary language.Tag) session.Voices {
	pick := func(pref string, want language.Tag) string {
		if v, ok := PickVoice(available, pref, want); ok {
			return v.Name
		}
		if pref != "" {
			return pref
		}
		base, _ := want.Base()
		return base.String()
	}
	return session.Voices{
		Primary:   pick(primaryPref, primary),
		Secondary: pick(secondaryPref, secondary),
	}
}
