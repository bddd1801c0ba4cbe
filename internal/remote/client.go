package remote

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/Thibisault/Intimacy-Coach/internal/content"
	"github.com/Thibisault/Intimacy-Coach/internal/session"
)

// ErrClosed is returned when the player hangs up mid-exchange.
var ErrClosed = errors.New("player closed the connection")

// CommandError is a command the player refused. Status is the position it
// reported alongside the refusal.
type CommandError struct {
	Cmd    string
	Msg    string
	Status Status
}

func (e *CommandError) Error() string { return e.Cmd + ": " + e.Msg }

// Status is a decoded command reply.
type Status struct {
	State session.State
	// Active is false when no action is playing; the fields below are zero.
	Active       bool
	Segment      content.Segment
	SegmentIndex int
	ActionIndex  int
	Remaining    int
	Text         string
}

// Status decodes the position carried by r.
func (r Response) Status() Status {
	st, _ := session.ParseState(r.State)
	s := Status{State: st, Segment: content.Segment(r.Segment), Text: r.Text}
	if r.SegmentIndex != nil && r.ActionIndex != nil {
		s.Active = true
		s.SegmentIndex = *r.SegmentIndex
		s.ActionIndex = *r.ActionIndex
	}
	if r.Remaining != nil {
		s.Remaining = *r.Remaining
	}
	return s
}

// intentCommands maps navigation intents to their wire commands.
var intentCommands = map[session.Intent]string{
	session.SkipAction:  CmdSkip,
	session.PrevAction:  CmdPrev,
	session.NextSegment: CmdNext,
	session.StopSession: CmdStop,
}

// Client talks to a running player over its Unix socket. Use one client
// for commands and a separate one for Watch.
type Client struct {
	conn  net.Conn
	lines *bufio.Scanner
	enc   *json.Encoder
	mu    sync.Mutex
}

// Dial connects to the player socket, giving up when ctx ends.
func Dial(ctx context.Context, socketPath string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect to player: %w", err)
	}
	lines := bufio.NewScanner(conn)
	lines.Buffer(make([]byte, 16*1024), 256*1024)
	return &Client{conn: conn, lines: lines, enc: json.NewEncoder(conn)}, nil
}

// Close shuts down the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Send writes cmd and reads one response line. Cancelling ctx aborts the
// exchange and leaves the connection unusable.
func (c *Client) Send(ctx context.Context, cmd Command) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.bind(ctx)()

	if err := c.enc.Encode(cmd); err != nil {
		return Response{}, c.fail(ctx, "write command", err)
	}
	var resp Response
	if err := c.next(&resp); err != nil {
		return Response{}, c.fail(ctx, "read response", err)
	}
	return resp, nil
}

// Do runs a named command. A refusal comes back as a *CommandError.
func (c *Client) Do(ctx context.Context, name string) (Status, error) {
	resp, err := c.Send(ctx, Command{Cmd: name})
	if err != nil {
		return Status{}, err
	}
	if resp.Error != "" || !resp.OK {
		return resp.Status(), &CommandError{Cmd: name, Msg: resp.Error, Status: resp.Status()}
	}
	return resp.Status(), nil
}

// Status asks where the player is.
func (c *Client) Status(ctx context.Context) (Status, error) {
	return c.Do(ctx, CmdStatus)
}

// Signal sends a navigation intent.
func (c *Client) Signal(ctx context.Context, i session.Intent) (Status, error) {
	name, ok := intentCommands[i]
	if !ok {
		return Status{}, fmt.Errorf("intent %s has no remote command", i)
	}
	return c.Do(ctx, name)
}

// Subscribe asks for the named events (all when none are given). Use
// ReadEvent afterwards.
func (c *Client) Subscribe(ctx context.Context, events ...string) error {
	resp, err := c.Send(ctx, Command{Cmd: CmdSubscribe, Events: events})
	if err != nil {
		return err
	}
	if !resp.OK {
		return &CommandError{Cmd: CmdSubscribe, Msg: resp.Error}
	}
	return nil
}

// ReadEvent blocks for the next event line.
func (c *Client) ReadEvent() (Event, error) {
	var ev Event
	if err := c.next(&ev); err != nil {
		return Event{}, fmt.Errorf("read event: %w", err)
	}
	return ev, nil
}

// Watch subscribes and hands every event to fn until ctx ends, fn fails
// or the player hangs up. Ending through ctx returns nil.
func (c *Client) Watch(ctx context.Context, fn func(Event) error, events ...string) error {
	if err := c.Subscribe(ctx, events...); err != nil {
		return err
	}
	defer c.bind(ctx)()
	for {
		ev, err := c.ReadEvent()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
}

// bind expires the connection deadline when ctx ends. The returned func
// detaches it.
func (c *Client) bind(ctx context.Context) func() {
	stop := context.AfterFunc(ctx, func() {
		c.conn.SetDeadline(time.Unix(1, 0))
	})
	return func() { stop() }
}

func (c *Client) next(v any) error {
	if !c.lines.Scan() {
		if err := c.lines.Err(); err != nil {
			return err
		}
		return ErrClosed
	}
	if err := json.Unmarshal(c.lines.Bytes(), v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func (c *Client) fail(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
	return fmt.Errorf("%s: %w", op, err)
}
