package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Thibisault/Intimacy-Coach/internal/content"
	"github.com/Thibisault/Intimacy-Coach/internal/i18n"
	"github.com/Thibisault/Intimacy-Coach/internal/plan"
	"github.com/Thibisault/Intimacy-Coach/internal/session"
	"github.com/Thibisault/Intimacy-Coach/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// Player is the part of player.Controller the TUI drives.
type Player interface {
	Toggle(ctx context.Context) error
	Pause()
	Stop()
	Signal(i session.Intent)
	State() session.State
	HasNextSegment() bool
	Settings() plan.Settings
	Plan() *plan.Plan
	Rebuild() (*plan.Plan, error)
	UpdateSettings(fn func(*plan.Settings)) (*plan.Plan, error)
	Draw(seg content.Segment) (plan.Action, bool, error)
}

// Tab is one screen of the TUI.
type Tab int

const (
	TabPlay Tab = iota
	TabSequence
	TabDraw
	tabCount
)

// Options configure a Model.
type Options struct {
	Player Player
	// Events carries engine notifications, usually session.Stream.Events().
	Events <-chan any
	// Save persists settings; nil disables the save key.
	Save func(plan.Settings) error
	Lang i18n.Lang
	// Context bounds sessions started from the TUI.
	Context context.Context
}

// Model is the root bubbletea model.
type Model struct {
	player Player
	events <-chan any
	save   func(plan.Settings) error
	ctx    context.Context

	// Playback
	state        session.State
	segment      content.Segment
	segmentIndex int
	segmentCount int
	actionIndex  int
	actionCount  int
	text         string
	textZH       string
	remaining    int
	total        int
	segRemaining int
	segTotal     int
	cooldown     bool
	finished     bool

	// Sequence tab
	selectedStep int
	addSegment   content.Segment

	// Draw tab
	drawSegment content.Segment
	drawn       *plan.Action
	drawEmpty   bool

	// UI state
	tab    Tab
	lang   i18n.Lang
	width  int
	height int

	errorMessage string
	notice       string
}

// New creates a Model in the Play tab.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	lang := opts.Lang
	if lang == "" {
		lang = i18n.FR
	}
	return Model{
		player:      opts.Player,
		events:      opts.Events,
		save:        opts.Save,
		ctx:         ctx,
		lang:        lang,
		addSegment:  content.Level1,
		drawSegment: content.Level1,
	}
}

// Init starts listening for engine notifications.
func (m Model) Init() tea.Cmd {
	return readEventCmd(m.events)
}

// readEventCmd reads the next engine notification.
func readEventCmd(events <-chan any) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return EventsClosedMsg{}
		}
		return EngineEventMsg{Event: ev}
	}
}

// toggleCmd starts, pauses or resumes playback.
func toggleCmd(ctx context.Context, p Player) tea.Cmd {
	return func() tea.Msg {
		return ToggleResultMsg{Err: p.Toggle(ctx)}
	}
}

// drawCmd draws one action of seg.
func drawCmd(p Player, seg content.Segment) tea.Cmd {
	return func() tea.Msg {
		a, ok, err := p.Draw(seg)
		return DrawResultMsg{Action: a, OK: ok, Err: err}
	}
}

// saveCmd persists the current settings.
func saveCmd(save func(plan.Settings) error, s plan.Settings) tea.Cmd {
	return func() tea.Msg {
		return SavedMsg{Err: save(s)}
	}
}

// clearNoticeCmd fires after a delay to clear the notice line.
func clearNoticeCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return ClearNoticeMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case EngineEventMsg:
		m.handleEvent(msg.Event)
		return m, readEventCmd(m.events)

	case EventsClosedMsg:
		m.events = nil
		return m, nil

	case ToggleResultMsg:
		if msg.Err != nil {
			m.errorMessage = msg.Err.Error()
		} else {
			m.errorMessage = ""
		}
		return m, nil

	case DrawResultMsg:
		switch {
		case msg.Err != nil:
			m.errorMessage = msg.Err.Error()
		case !msg.OK:
			m.drawn = nil
			m.drawEmpty = true
		default:
			a := msg.Action
			m.drawn = &a
			m.drawEmpty = false
			m.errorMessage = ""
		}
		return m, nil

	case SavedMsg:
		if msg.Err != nil {
			m.errorMessage = msg.Err.Error()
			return m, nil
		}
		m.notice = i18n.T(m.lang, "saved")
		return m, clearNoticeCmd()

	case ClearNoticeMsg:
		m.notice = ""
		return m, nil
	}

	return m, nil
}

// handleEvent folds an engine notification into the model.
func (m *Model) handleEvent(ev any) {
	switch ev := ev.(type) {
	case session.Tick:
		m.remaining = ev.Remaining
		m.total = ev.Total
		m.segRemaining = ev.SegmentRemaining
		m.segTotal = ev.SegmentTotal
		m.cooldown = ev.Cooldown

	case session.ActionChanged:
		m.segment = ev.Segment
		m.segmentIndex = ev.SegmentIndex
		m.actionIndex = ev.ActionIndex
		m.actionCount = ev.ActionCount
		m.text = ev.Text
		m.textZH = ev.TextZH
		m.cooldown = false

	case session.SegmentChanged:
		m.segment = ev.Segment
		m.segmentIndex = ev.SegmentIndex
		m.segmentCount = ev.SegmentCount

	case session.StateChanged:
		m.state = ev.State
		switch ev.Reason {
		case session.ReasonStarted:
			m.finished = false
			m.errorMessage = ""
		case session.ReasonFinished:
			m.finished = true
		}
		if ev.State == session.Idle {
			m.text, m.textZH = "", ""
			m.remaining, m.total, m.segRemaining, m.segTotal = 0, 0, 0, 0
			m.cooldown = false
		}
	}
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC:
		return m, tea.Quit

	case KeyTab:
		return m.switchTab((m.tab + 1) % tabCount), nil

	case KeyShiftTab:
		return m.switchTab((m.tab + tabCount - 1) % tabCount), nil

	case KeyLang:
		m.lang = m.lang.Toggle()
		return m, nil
	}

	if m.player == nil {
		return m, nil
	}
	switch m.tab {
	case TabSequence:
		return m.handleSequenceKey(msg)
	case TabDraw:
		return m.handleDrawKey(msg)
	default:
		return m.handlePlayKey(msg)
	}
}

// switchTab pauses a running session when leaving the Play tab.
func (m Model) switchTab(t Tab) Model {
	if m.tab == TabPlay && t != TabPlay && m.player != nil && m.player.State() == session.Running {
		m.player.Pause()
	}
	m.tab = t
	return m
}

func (m Model) handlePlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeySpace:
		return m, toggleCmd(m.ctx, m.player)

	case KeyStop:
		m.player.Stop()

	case KeyRight, KeyL:
		m.player.Signal(session.SkipAction)

	case KeyLeft, KeyH:
		m.player.Signal(session.PrevAction)

	case KeyNext:
		if m.hasNextSegment() {
			m.player.Signal(session.NextSegment)
		}

	case KeyNewPreview:
		if m.player.State() == session.Idle {
			if _, err := m.player.Rebuild(); err != nil {
				m.errorMessage = err.Error()
			}
		}
	}
	return m, nil
}

// hasNextSegment reports whether NextSegment would land on a segment.
func (m Model) hasNextSegment() bool {
	return m.state != session.Idle && m.segmentIndex < m.segmentCount-1 && m.player.HasNextSegment()
}

func (m Model) handleSequenceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	steps := len(m.player.Settings().Sequence)

	if seg, ok := segmentKey(key); ok {
		m.addSegment = seg
		return m, nil
	}

	switch key {
	case KeyDown, KeyJ:
		if m.selectedStep < steps-1 {
			m.selectedStep++
		}
		return m, nil

	case KeyUp, KeyK:
		if m.selectedStep > 0 {
			m.selectedStep--
		}
		return m, nil

	case KeyPlus, KeyEquals:
		i := m.selectedStep
		return m.edit(func(s *plan.Settings) {
			if i < len(s.Sequence) {
				s.Sequence = s.Sequence.SetMinutes(i, s.Sequence[i].Minutes+1)
			}
		}), nil

	case KeyMinus:
		i := m.selectedStep
		return m.edit(func(s *plan.Settings) {
			if i < len(s.Sequence) {
				s.Sequence = s.Sequence.SetMinutes(i, s.Sequence[i].Minutes-1)
			}
		}), nil

	case KeyAdd:
		seg := m.addSegment
		m = m.edit(func(s *plan.Settings) { s.Sequence = s.Sequence.Add(seg, 1) })
		m.selectedStep = len(m.player.Settings().Sequence) - 1
		return m, nil

	case KeyDelete:
		i := m.selectedStep
		m = m.edit(func(s *plan.Settings) { s.Sequence = s.Sequence.Remove(i) })
		if n := len(m.player.Settings().Sequence); m.selectedStep >= n {
			m.selectedStep = max(0, n-1)
		}
		return m, nil

	case KeyMoveDown:
		i := m.selectedStep
		if i < steps-1 {
			m = m.edit(func(s *plan.Settings) { s.Sequence = s.Sequence.Move(i, i+1) })
			m.selectedStep++
		}
		return m, nil

	case KeyMoveUp:
		i := m.selectedStep
		if i > 0 {
			m = m.edit(func(s *plan.Settings) { s.Sequence = s.Sequence.Move(i, i-1) })
			m.selectedStep--
		}
		return m, nil

	case KeyActorMode:
		return m.edit(func(s *plan.Settings) { s.ActorMode = s.ActorMode.Next() }), nil

	case KeyAnal:
		return m.edit(func(s *plan.Settings) { s.Filters.Anal = !s.Filters.Anal }), nil

	case KeyHard:
		return m.edit(func(s *plan.Settings) { s.Filters.Hard = !s.Filters.Hard }), nil

	case KeyClothed:
		return m.edit(func(s *plan.Settings) { s.Filters.Clothed = !s.Filters.Clothed }), nil

	case KeySave:
		if m.save == nil {
			return m, nil
		}
		return m, saveCmd(m.save, m.player.Settings())
	}
	return m, nil
}

// edit applies fn to the settings and rebuilds the preview plan.
func (m Model) edit(fn func(*plan.Settings)) Model {
	if _, err := m.player.UpdateSettings(fn); err != nil {
		m.errorMessage = err.Error()
	} else {
		m.errorMessage = ""
	}
	return m
}

func (m Model) handleDrawKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if seg, ok := segmentKey(key); ok {
		m.drawSegment = seg
		return m, nil
	}
	if key == KeyEnter || key == KeySpace {
		return m, drawCmd(m.player, m.drawSegment)
	}
	return m, nil
}

// segmentKey maps "1".."6" to the segments in order.
func segmentKey(key string) (content.Segment, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '6' {
		return "", false
	}
	return content.Segments[key[0]-'1'], true
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	switch m.tab {
	case TabSequence:
		sections = append(sections, m.renderSequence())
	case TabDraw:
		sections = append(sections, m.renderDraw())
	default:
		sections = append(sections, m.renderPlay())
	}

	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}
	if m.notice != "" {
		sections = append(sections, ui.NoticeStyle.Render(m.notice))
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render(i18n.T(m.lang, "title"))
	names := []string{"tab_play", "tab_sequence", "tab_draw"}
	var tabs []string
	for i, key := range names {
		label := i18n.T(m.lang, key)
		if Tab(i) == m.tab {
			tabs = append(tabs, ui.TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, ui.TabStyle.Render(label))
		}
	}
	return title + "  " + strings.Join(tabs, "") + "  " + ui.DimStyle.Render(strings.ToUpper(string(m.lang)))
}

func (m Model) renderState() string {
	switch m.state {
	case session.Running:
		return ui.RunningDotStyle.Render("● " + i18n.T(m.lang, "state_running"))
	case session.Paused:
		return ui.PausedDotStyle.Render("‖ " + i18n.T(m.lang, "state_paused"))
	default:
		return ui.IdleDotStyle.Render("○ " + i18n.T(m.lang, "state_idle"))
	}
}

func (m Model) renderPlay() string {
	if m.state == session.Idle {
		return m.renderPreview()
	}

	var lines []string
	badge := ui.SegmentBadge(m.segment, i18n.SegmentName(m.segment, m.lang))
	progress := ui.DimStyle.Render(i18n.T(m.lang, "action_of", m.actionIndex+1, m.actionCount))
	lines = append(lines, badge+"  "+progress+"  "+m.renderState())
	lines = append(lines, "")

	width := max(20, m.width-4)
	if m.cooldown {
		lines = append(lines, "  "+ui.CooldownStyle.Render(i18n.T(m.lang, "cooldown")))
	} else {
		primary, secondary := m.text, m.textZH
		if m.lang == i18n.ZH && m.textZH != "" {
			primary, secondary = m.textZH, m.text
		}
		for _, l := range wrapText(primary, width) {
			lines = append(lines, "  "+ui.ActionTextStyle.Render(l))
		}
		if secondary != "" {
			for _, l := range wrapText(secondary, width) {
				lines = append(lines, "  "+ui.SecondaryTextStyle.Render(l))
			}
		}
	}
	lines = append(lines, "")

	barWidth := max(10, min(40, m.width-30))
	lines = append(lines, fmt.Sprintf("  %s / %s  %s  %s",
		formatClock(m.segRemaining),
		formatClock(m.segTotal),
		ui.ProgressBar(m.segment, m.segTotal-m.segRemaining, m.segTotal, barWidth),
		ui.DimStyle.Render(fmt.Sprintf("%d/%ds", m.remaining, m.total)),
	))
	return strings.Join(lines, "\n")
}

func (m Model) renderPreview() string {
	var lines []string
	lines = append(lines, m.renderState())
	if m.finished {
		lines = append(lines, ui.NoticeStyle.Render(i18n.T(m.lang, "finished")))
	}
	lines = append(lines, "")

	p := m.player.Plan()
	if p == nil {
		lines = append(lines, ui.DimStyle.Render("  "+i18n.T(m.lang, "no_content")))
		return strings.Join(lines, "\n")
	}
	for _, sp := range p.Segments {
		name := ui.SegmentBadge(sp.Segment, i18n.SegmentName(sp.Segment, m.lang))
		lines = append(lines, fmt.Sprintf("  %s  %d × %s", name, len(sp.Actions), formatClock(sp.Duration())))
	}
	lines = append(lines, "")
	lines = append(lines, ui.DimStyle.Render("  "+i18n.T(m.lang, "press_start")))
	return strings.Join(lines, "\n")
}

func (m Model) renderSequence() string {
	s := m.player.Settings()
	var lines []string
	lines = append(lines, ui.TitleStyle.Render(i18n.T(m.lang, "sequence")))
	for i, step := range s.Sequence {
		label := fmt.Sprintf("%d. %s (%s)  %v %s", i+1,
			i18n.SegmentName(step.Segment, m.lang), step.Segment, step.Minutes, i18n.T(m.lang, "unit_min"))
		if i == m.selectedStep {
			lines = append(lines, ui.SelectedStyle.Render("> "+label))
		} else {
			lines = append(lines, "  "+label)
		}
	}
	lines = append(lines, ui.DimStyle.Render(i18n.T(m.lang, "total_min", s.Sequence.Minutes())))
	lines = append(lines, "")
	lines = append(lines, i18n.T(m.lang, "add_step")+": "+ui.SegmentBadge(m.addSegment, i18n.SegmentName(m.addSegment, m.lang)))
	lines = append(lines, i18n.T(m.lang, "actor_cycle")+": "+i18n.ActorModeLabel(s.ActorMode, m.lang))
	lines = append(lines, i18n.T(m.lang, "filters_title")+":")
	lines = append(lines, "  "+checkbox(s.Filters.Anal)+" "+i18n.T(m.lang, "filter_anal"))
	lines = append(lines, "  "+checkbox(s.Filters.Hard)+" "+i18n.T(m.lang, "filter_hard"))
	lines = append(lines, "  "+checkbox(s.Filters.Clothed)+" "+i18n.T(m.lang, "filter_clothed"))
	return strings.Join(lines, "\n")
}

func (m Model) renderDraw() string {
	var chips []string
	for i, seg := range content.Segments {
		label := fmt.Sprintf("%d %s", i+1, i18n.SegmentName(seg, m.lang))
		if seg == m.drawSegment {
			chips = append(chips, ui.SegmentBadge(seg, label))
		} else {
			chips = append(chips, ui.TabStyle.Render(label))
		}
	}

	lines := []string{strings.Join(chips, " "), ""}
	switch {
	case m.drawEmpty:
		lines = append(lines, ui.DimStyle.Render("  "+i18n.T(m.lang, "nothing_eligible")))
	case m.drawn != nil:
		width := max(20, m.width-4)
		for _, l := range wrapText(m.drawn.Text, width) {
			lines = append(lines, "  "+ui.ActionTextStyle.Render(l))
		}
		if m.drawn.TextZH != "" {
			for _, l := range wrapText(m.drawn.TextZH, width) {
				lines = append(lines, "  "+ui.SecondaryTextStyle.Render(l))
			}
		}
	default:
		lines = append(lines, ui.DimStyle.Render("  "+i18n.T(m.lang, "draw_hint")))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderErrorBar() string {
	return ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.errorMessage)
}

func (m Model) renderFooter() string {
	key := func(k, desc string) string {
		return ui.FooterKeyStyle.Render(k) + ui.FooterDescStyle.Render(" "+i18n.T(m.lang, desc))
	}

	var parts []string
	switch m.tab {
	case TabSequence:
		parts = append(parts,
			key("j/k", "move"),
			key("+/-", "minutes"),
			key("1-6 a", "add_step"),
			key("x", "delete"),
			key("m", "actor_cycle"),
			key("f/r/c", "filters_title"),
		)
		if m.save != nil {
			parts = append(parts, key("w", "save"))
		}
	case TabDraw:
		parts = append(parts, key("1-6", "sequence"), key("Enter", "draw"))
	default:
		switch m.state {
		case session.Running:
			parts = append(parts, key("Space", "pause"))
		case session.Paused:
			parts = append(parts, key("Space", "resume"))
		default:
			parts = append(parts, key("Space", "start"), key("p", "shuffle"))
		}
		if m.state != session.Idle {
			parts = append(parts, key("←", "back"), key("→", "skip"))
			if m.hasNextSegment() {
				parts = append(parts, key("n", "next_segment"))
			}
			parts = append(parts, key("s", "stop"))
		}
	}
	parts = append(parts, key("L", "language"), key("q", "quit"))
	return strings.Join(parts, "  ")
}

// Helpers

func formatClock(seconds int) string {
	seconds = max(0, seconds)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if lipgloss.Width(current)+1+lipgloss.Width(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
