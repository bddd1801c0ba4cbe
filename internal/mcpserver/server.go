// Package mcpserver exposes plan building, draws and session history as MCP
// tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Thibisault/Intimacy-Coach/internal/content"
	"github.com/Thibisault/Intimacy-Coach/internal/db"
	"github.com/Thibisault/Intimacy-Coach/internal/plan"
)

// Planner builds plans and draws single actions. *player.Controller
// implements it.
type Planner interface {
	Rebuild() (*plan.Plan, error)
	BuildSeeded(seed uint64) (*plan.Plan, error)
	Draw(seg content.Segment) (plan.Action, bool, error)
}

// HistoryReader lists past sessions. *db.Store implements it.
type HistoryReader interface {
	RecentSessions(limit int) ([]db.Session, error)
}

// Deps are the collaborators behind the tools. Nil deps make their tools
// report an error.
type Deps struct {
	Planner Planner
	History HistoryReader
}

// Server wraps the MCP server and its tools.
type Server struct {
	mcpServer *mcpserver.MCPServer
	deps      Deps
}

// New registers every tool on a fresh MCP server.
func New(name, version string, deps Deps) *Server {
	s := &Server{
		mcpServer: mcpserver.NewMCPServer(name, version, mcpserver.WithToolCapabilities(false)),
		deps:      deps,
	}
	s.mcpServer.AddTools(
		s.buildPlanTool(),
		s.drawActionTool(),
		s.recentSessionsTool(),
	)
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *mcpserver.MCPServer { return s.mcpServer }

// ServeStdio blocks serving MCP on stdin/stdout.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcpServer)
}

func (s *Server) buildPlanTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("build_plan",
		mcplib.WithDescription("Build a session plan from the configured sequence"),
		mcplib.WithNumber("seed",
			mcplib.Description("Optional seed for a reproducible plan"),
		),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleBuildPlan}
}

func (s *Server) drawActionTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("draw_action",
		mcplib.WithDescription("Draw one random action for a segment"),
		mcplib.WithString("segment",
			mcplib.Required(),
			mcplib.Description("Segment: L1 to L5, or SEXE"),
		),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleDrawAction}
}

func (s *Server) recentSessionsTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("recent_sessions",
		mcplib.WithDescription("List recently played sessions, newest first"),
		mcplib.WithNumber("limit",
			mcplib.Description("Maximum number of sessions (default 10)"),
		),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleRecentSessions}
}

func (s *Server) handleBuildPlan(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.deps.Planner == nil {
		return mcplib.NewToolResultError("planner not configured"), nil
	}
	var (
		p   *plan.Plan
		err error
	)
	if seed, ok := req.GetArguments()["seed"].(float64); ok {
		p, err = s.deps.Planner.BuildSeeded(uint64(seed))
	} else {
		p, err = s.deps.Planner.Rebuild()
	}
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to build plan", err), nil
	}
	return jsonResult(planView{Plan: p, Actions: p.ActionCount(), Seconds: p.Duration()}, "plan")
}

func (s *Server) handleDrawAction(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.deps.Planner == nil {
		return mcplib.NewToolResultError("planner not configured"), nil
	}
	raw, _ := req.GetArguments()["segment"].(string)
	seg, ok := content.ParseSegment(raw)
	if !ok {
		return mcplib.NewToolResultError(fmt.Sprintf("unknown segment %q", raw)), nil
	}
	a, ok, err := s.deps.Planner.Draw(seg)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to draw", err), nil
	}
	if !ok {
		return mcplib.NewToolResultError(fmt.Sprintf("no eligible action for %s", seg)), nil
	}
	return jsonResult(a, "action")
}

func (s *Server) handleRecentSessions(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if s.deps.History == nil {
		return mcplib.NewToolResultError("history not configured"), nil
	}
	limit := 10
	if v, ok := req.GetArguments()["limit"].(float64); ok && v >= 1 {
		limit = int(v)
	}
	rows, err := s.deps.History.RecentSessions(limit)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to list sessions", err), nil
	}
	out := make([]sessionView, 0, len(rows))
	for _, r := range rows {
		out = append(out, newSessionView(r))
	}
	return jsonResult(out, "sessions")
}

type planView struct {
	Plan    *plan.Plan `json:"plan"`
	Actions int        `json:"actions"`
	Seconds int        `json:"seconds"`
}

type sessionView struct {
	ID              string     `json:"id"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	Status          string     `json:"status"`
	SegmentsTotal   int        `json:"segments_total"`
	SegmentsReached int        `json:"segments_reached"`
	ActionsPlayed   int        `json:"actions_played"`
	PlannedSeconds  int        `json:"planned_seconds"`
}

func newSessionView(s db.Session) sessionView {
	return sessionView{
		ID:              s.ID,
		StartedAt:       s.StartedAt.UTC(),
		EndedAt:         s.EndedAt,
		Status:          s.Status,
		SegmentsTotal:   s.SegmentsTotal,
		SegmentsReached: s.SegmentsReached,
		ActionsPlayed:   s.ActionsPlayed,
		PlannedSeconds:  s.PlannedSeconds,
	}
}

func jsonResult(v any, what string) (*mcplib.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal "+what, err), nil
	}
	return mcplib.NewToolResultText(string(data)), nil
}
