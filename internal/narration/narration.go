// Package narration speaks action texts through an external TTS program.
package narration

import (
	"context"

	"github.com/Thibisault/Intimacy-Coach/internal/session"
)

// Utterance is one piece of text spoken with one voice.
type Utterance struct {
	Text  string
	Voice string
}

// Speaker produces audio for a single utterance. Speak blocks until the
// utterance is finished or ctx is cancelled.
type Speaker interface {
	Speak(ctx context.Context, u Utterance) error
	Ready() bool
}

// Silent is an always-ready narrator that says nothing.
type Silent struct{}

func (Silent) Ready() bool                              { return true }
func (Silent) SpeakPair(string, string, session.Voices) {}
func (Silent) Cancel()                                  {}
func (Silent) Pause()                                   {}
func (Silent) Resume()                                  {}

var (
	_ session.Narrator = Silent{}
	_ session.Narrator = (*Queue)(nil)
)
