// Package remote exposes the player over a Unix socket using NDJSON, and
// provides the matching client.
package remote

// Command names accepted by the server.
const (
	CmdStatus    = "status"
	CmdStart     = "start"
	CmdPause     = "pause"
	CmdResume    = "resume"
	CmdSkip      = "skip"
	CmdPrev      = "prev"
	CmdNext      = "next"
	CmdStop      = "stop"
	CmdSubscribe = "subscribe"
)

// Event names streamed to subscribers.
const (
	EventTick    = "tick"
	EventAction  = "action"
	EventSegment = "segment"
	EventState   = "state"
)

// Command is sent from a client to the player.
type Command struct {
	Cmd    string   `json:"cmd"`
	Events []string `json:"events,omitempty"`
}

// Response is returned by the player after processing a command.
type Response struct {
	OK           bool   `json:"ok"`
	State        string `json:"state,omitempty"`
	Segment      string `json:"segment,omitempty"`
	SegmentIndex *int   `json:"segmentIndex,omitempty"`
	ActionIndex  *int   `json:"actionIndex,omitempty"`
	Text         string `json:"text,omitempty"`
	Remaining    *int   `json:"remaining,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Event is streamed from the player to subscribed clients.
type Event struct {
	Event            string `json:"event"`
	Remaining        *int   `json:"remaining,omitempty"`
	Total            *int   `json:"total,omitempty"`
	SegmentRemaining *int   `json:"segmentRemaining,omitempty"`
	SegmentTotal     *int   `json:"segmentTotal,omitempty"`
	Cooldown         *bool  `json:"cooldown,omitempty"`
	Segment          string `json:"segment,omitempty"`
	SegmentIndex     *int   `json:"segmentIndex,omitempty"`
	ActionIndex      *int   `json:"actionIndex,omitempty"`
	ActionCount      *int   `json:"actionCount,omitempty"`
	Text             string `json:"text,omitempty"`
	TextZH           string `json:"textZh,omitempty"`
	Actor            string `json:"actor,omitempty"`
	State            string `json:"state,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

// BoolPtr returns a pointer to a bool value. Convenience for building events.
func BoolPtr(b bool) *bool { return &b }

// IntPtr returns a pointer to an int value.
func IntPtr(n int) *int { return &n }
