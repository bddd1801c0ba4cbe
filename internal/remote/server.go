package remote

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/Thibisault/Intimacy-Coach/internal/session"
)

// Player is the part of the player controller the server drives.
type Player interface {
	Start(ctx context.Context) error
	Pause()
	Resume()
	Stop()
	Signal(session.Intent)
	State() session.State
	HasNextSegment() bool
}

// subscriberBuffer bounds how far a slow subscriber may lag before ticks
// are dropped for it.
const subscriberBuffer = 64

type subscriber struct {
	events chan Event
	filter map[string]bool
}

func (s *subscriber) wants(name string) bool {
	return len(s.filter) == 0 || s.filter[name]
}

// Server answers commands on a Unix socket and streams engine events to
// subscribers. Register it as a session.Observer.
type Server struct {
	player Player
	log    *slog.Logger

	mu        sync.Mutex
	subs      map[*subscriber]struct{}
	action    session.ActionChanged
	hasAction bool
	tick      session.Tick
}

// NewServer returns a server driving p.
func NewServer(p Player, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{
		player: p,
		log:    log.With("component", "remote"),
		subs:   make(map[*subscriber]struct{}),
	}
}

// Serve listens on socketPath until ctx is cancelled. A stale socket file
// is replaced.
func (s *Server) Serve(ctx context.Context, socketPath string) error {
	if err := os.MkdirAll(filepath.Dir(socketPath), 0o755); err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}
	if err := os.Remove(socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket: %w", err)
	}
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	s.log.Info("remote listening", "socket", socketPath)

	var wg sync.WaitGroup
	defer func() {
		wg.Wait()
		os.Remove(socketPath)
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handle(ctx, conn)
		}()
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	var wmu sync.Mutex
	write := func(v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		wmu.Lock()
		defer wmu.Unlock()
		_, err = conn.Write(append(data, '\n'))
		return err
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var cmd Command
		if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
			if write(Response{Error: "malformed command"}) != nil {
				return
			}
			continue
		}

		if cmd.Cmd == CmdSubscribe {
			sub := s.subscribe(cmd.Events)
			defer s.unsubscribe(sub)
			if write(s.status(true)) != nil {
				return
			}
			go func() {
				for ev := range sub.events {
					if write(ev) != nil {
						return
					}
				}
			}()
			continue
		}

		if write(s.exec(ctx, cmd)) != nil {
			return
		}
	}
}

func (s *Server) exec(ctx context.Context, cmd Command) Response {
	s.log.Debug("remote command", "cmd", cmd.Cmd)
	switch cmd.Cmd {
	case CmdStatus:
	case CmdStart:
		if err := s.player.Start(ctx); err != nil {
			resp := s.status(false)
			resp.Error = err.Error()
			return resp
		}
	case CmdPause:
		s.player.Pause()
	case CmdResume:
		s.player.Resume()
	case CmdStop:
		s.player.Stop()
	case CmdSkip:
		s.player.Signal(session.SkipAction)
	case CmdPrev:
		s.player.Signal(session.PrevAction)
	case CmdNext:
		if !s.player.HasNextSegment() {
			resp := s.status(false)
			resp.Error = "no next segment"
			return resp
		}
		s.player.Signal(session.NextSegment)
	default:
		return Response{Error: fmt.Sprintf("unknown command %q", cmd.Cmd)}
	}
	return s.status(true)
}

func (s *Server) status(ok bool) Response {
	state := s.player.State()
	resp := Response{OK: ok, State: state.String()}

	s.mu.Lock()
	defer s.mu.Unlock()
	if state != session.Idle && s.hasAction {
		resp.Segment = string(s.action.Segment)
		resp.SegmentIndex = IntPtr(s.action.SegmentIndex)
		resp.ActionIndex = IntPtr(s.action.ActionIndex)
		resp.Text = s.action.Text
		resp.Remaining = IntPtr(s.tick.Remaining)
	}
	return resp
}

func (s *Server) subscribe(events []string) *subscriber {
	sub := &subscriber{events: make(chan Event, subscriberBuffer)}
	if len(events) > 0 {
		sub.filter = make(map[string]bool, len(events))
		for _, e := range events {
			sub.filter[e] = true
		}
	}
	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()
	return sub
}

func (s *Server) unsubscribe(sub *subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub]; ok {
		delete(s.subs, sub)
		close(sub.events)
	}
}

// broadcast must be called with mu held.
func (s *Server) broadcast(ev Event) {
	for sub := range s.subs {
		if !sub.wants(ev.Event) {
			continue
		}
		select {
		case sub.events <- ev:
		default:
			s.log.Debug("subscriber lagging, event dropped", "event", ev.Event)
		}
	}
}

func (s *Server) OnTick(t session.Tick) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick = t
	s.broadcast(Event{
		Event:            EventTick,
		Remaining:        IntPtr(t.Remaining),
		Total:            IntPtr(t.Total),
		SegmentRemaining: IntPtr(t.SegmentRemaining),
		SegmentTotal:     IntPtr(t.SegmentTotal),
		Cooldown:         BoolPtr(t.Cooldown),
	})
}

func (s *Server) OnAction(a session.ActionChanged) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.action, s.hasAction = a, true
	s.broadcast(Event{
		Event:        EventAction,
		Segment:      string(a.Segment),
		SegmentIndex: IntPtr(a.SegmentIndex),
		ActionIndex:  IntPtr(a.ActionIndex),
		ActionCount:  IntPtr(a.ActionCount),
		Text:         a.Text,
		TextZH:       a.TextZH,
		Actor:        string(a.Actor),
		Total:        IntPtr(a.Duration),
	})
}

func (s *Server) OnSegment(v session.SegmentChanged) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcast(Event{
		Event:        EventSegment,
		Segment:      string(v.Segment),
		SegmentIndex: IntPtr(v.SegmentIndex),
	})
}

func (s *Server) OnState(v session.StateChanged) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.State == session.Idle {
		s.hasAction = false
		s.tick = session.Tick{}
	}
	s.broadcast(Event{Event: EventState, State: v.State.String(), Reason: string(v.Reason)})
}

var _ session.Observer = (*Server)(nil)
