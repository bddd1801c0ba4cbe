package plan

import (
	"fmt"

	"github.com/Thibisault/Intimacy-Coach/internal/content"
)

// ActorMode selects who is expected to perform each successive action.
type ActorMode string

// Rotation modes. P2 is the female participant, P1 the male one.
const (
	ModeRandom         ActorMode = "random"
	ModeFemaleMaleBoth ActorMode = "female-male-both"
	ModeJustFemale     ActorMode = "just-female"
	ModeJustMale       ActorMode = "just-male"
	ModeJustBoth       ActorMode = "just-both"
)

// ActorModes lists the modes in display order.
var ActorModes = []ActorMode{ModeRandom, ModeFemaleMaleBoth, ModeJustFemale, ModeJustMale, ModeJustBoth}

var rotation = [...]content.Actor{content.ActorP2, content.ActorP1, content.Both}

// Expected returns the actor expected for the draw at cycle index idx.
func (m ActorMode) Expected(idx int) content.Actor {
	switch m {
	case ModeFemaleMaleBoth:
		return rotation[idx%len(rotation)]
	case ModeJustFemale:
		return content.ActorP2
	case ModeJustMale:
		return content.ActorP1
	case ModeJustBoth:
		return content.Both
	default:
		return content.AnyActor
	}
}

// Next returns the mode following m in ActorModes, wrapping around.
func (m ActorMode) Next() ActorMode {
	for i, v := range ActorModes {
		if v == m {
			return ActorModes[(i+1)%len(ActorModes)]
		}
	}
	return ModeRandom
}

// ParseActorMode validates a mode name.
func ParseActorMode(v string) (ActorMode, error) {
	for _, m := range ActorModes {
		if string(m) == v {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown actor mode %q", v)
}
