package session

// Voices are opaque voice handles passed through to the narrator.
type Voices struct {
	Primary   string
	Secondary string
}

// Narrator speaks action texts. SpeakPair enqueues the secondary then the
// primary text; they are spoken in sequence, never overlapped.
type Narrator interface {
	Ready() bool
	SpeakPair(secondary, primary string, v Voices)
	// Cancel flushes the queue and stops the current utterance.
	Cancel()
	// Pause suspends speech without losing queued items.
	Pause()
	Resume()
}
