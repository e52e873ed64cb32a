// Package blokfall hosts an engine.Game inside a bubbletea program.
package blokfall

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/golang-cz/ringbuf"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/ghthor/webtris/engine"
	"github.com/ghthor/webtris/render"
	"github.com/ghthor/webtris/render/termview"
	"github.com/ghthor/webtris/scorelog"
)

type Options struct {
	Config engine.Config
	// Renderer styles the view; SSH sessions pass one bound to their pty.
	Renderer *lipgloss.Renderer
	Logger   *log.Logger
	// Recorder, if set, receives a Result for every finished game.
	Recorder *scorelog.SqliteRecorder
}

type tableView struct {
	board string
	side  string
}

var _ table.Data = tableView{}

func (t tableView) At(row, col int) string {
	switch col {
	case 0:
		return t.board
	case 1:
		return t.side
	default:
		return ""
	}
}

func (t tableView) Rows() int    { return 1 }
func (t tableView) Columns() int { return 2 }

// staticView adapts a rendered string to tea.Model for the overlay.
type staticView string

func (v staticView) Init() tea.Cmd                       { return nil }
func (v staticView) Update(tea.Msg) (tea.Model, tea.Cmd) { return v, nil }
func (v staticView) View() string                        { return string(v) }

type Model struct {
	game  *engine.Game
	scene *render.Scene
	board *termview.Board
	log   *log.Logger

	keys keyMap
	help help.Model

	table *table.Table
	tableView
	overlay *overlay.Model
	banner  lipgloss.Style
	dim     lipgloss.Style

	tick int64

	b      strings.Builder
	render bool
	debug  bool

	// Done reports the end of the results follower after ctx is canceled.
	Done func() error
}

var _ tea.Model = &Model{}

func New(ctx context.Context, opts Options) (*Model, error) {
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.DefaultRenderer()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	scene := render.NewScene()
	gameOpts := []engine.Option{engine.WithLogger(opts.Logger)}

	done := func() error { return nil }
	if opts.Recorder != nil {
		events := ringbuf.New[engine.Event](256)
		context.AfterFunc(ctx, events.Close)
		done = opts.Recorder.Follow(ctx, events, opts.Logger)
		gameOpts = append(gameOpts, engine.WithEvents(events))
	}

	game, err := engine.New(scene, opts.Config, gameOpts...)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	r := opts.Renderer
	return &Model{
		game:    game,
		scene:   scene,
		board:   termview.NewBoard(r),
		log:     opts.Logger,
		keys:    defaultKeyMap(),
		help:    help.New(),
		table:   table.New().Border(lipgloss.RoundedBorder()).BorderStyle(r.NewStyle().Foreground(lipgloss.ANSIColor(240))),
		overlay: overlay.New(nil, nil, overlay.Center, overlay.Center, 0, 0),
		banner:  r.NewStyle().Bold(true).Padding(1, 2).Border(lipgloss.DoubleBorder()),
		dim:     r.NewStyle().Faint(true),
		render:  true,
		Done:    done,
	}, nil
}

func (m *Model) Game() *engine.Game { return m.game }

type TickMsg struct {
	time.Time
	Tick int64
}

func NewTick(d time.Duration, tick int64) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return TickMsg{t, tick} })
}

// NewTick schedules the next frame and cancels any frame already scheduled.
func (m *Model) NewTick() tea.Cmd {
	m.tick++
	return NewTick(m.game.Config().FrameInterval(), m.tick)
}

func (m *Model) Init() tea.Cmd {
	return m.NewTick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.render = true

	case tea.KeyMsg:
		return m, m.HandleKey(msg)

	case TickMsg:
		if msg.Tick != m.tick {
			// Tick was canceled
			return m, nil
		}
		if m.game.State() == engine.Playing {
			m.game.Tick()
			m.render = true
		}
		return m, m.NewTick()
	}
	return m, nil
}

func (m *Model) HandleKey(msg tea.KeyMsg) tea.Cmd {
	g := m.game
	m.render = true

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Debug):
		m.debug = !m.debug
		if m.debug {
			m.board.Filled = termview.DebugBlock
		} else {
			m.board.Filled = termview.DefaultBlock
		}

	case key.Matches(msg, m.keys.Start):
		switch g.State() {
		case engine.Idle, engine.GameOver:
			m.report("start", g.Start())
			return m.NewTick()
		case engine.Paused:
			m.report("resume", g.Resume())
		}

	case key.Matches(msg, m.keys.Pause):
		switch g.State() {
		case engine.Playing:
			m.report("pause", g.Pause())
		case engine.Paused:
			return m.quit()
		}

	case g.State() != engine.Playing:
		m.render = false

	case key.Matches(msg, m.keys.Left):
		m.report(g.Move(engine.Left))
	case key.Matches(msg, m.keys.Right):
		m.report(g.Move(engine.Right))
	case key.Matches(msg, m.keys.SoftDrop):
		m.report(g.Move(engine.Down))
	case key.Matches(msg, m.keys.RotateCCW):
		m.report(g.Rotate(engine.CCW))
	case key.Matches(msg, m.keys.RotateCW):
		m.report(g.Rotate(engine.CW))
	case key.Matches(msg, m.keys.HardDrop):
		m.report(g.HardDrop())

	default:
		m.render = false
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	if err := m.game.Close(); err != nil {
		m.log.Warn("closing game", "err", err)
	}
	return tea.Quit
}

// report logs failures other than input arriving between figures.
func (m *Model) report(result any, err error) {
	if err == nil || errors.Is(err, engine.ErrNoFigure) {
		return
	}
	m.log.Warn("input failed", "result", result, "err", err)
}

func (m *Model) View() string {
	if !m.render {
		return m.b.String()
	}
	m.render = false

	m.b.Reset()
	m.board.Print(&m.b, m.scene)
	m.tableView.board = m.b.String()

	m.b.Reset()
	m.viewSide(&m.b)
	m.tableView.side = m.b.String()

	m.b.Reset()
	m.table.Data(m.tableView)
	view := m.table.Render()

	if msg := m.bannerText(); msg != "" {
		m.overlay.Foreground = staticView(m.banner.Render(msg))
		m.overlay.Background = staticView(view)
		view = m.overlay.View()
	}

	m.b.WriteString(view)
	m.b.WriteString("\n")
	m.b.WriteString(m.help.View(m.keys))
	return m.b.String()
}

func (m *Model) bannerText() string {
	switch m.game.State() {
	case engine.Idle:
		return "BLOKFALL\n\npress enter"
	case engine.Paused:
		return "PAUSED\n\nenter resumes\nesc quits"
	case engine.GameOver:
		return fmt.Sprintf("GAME OVER\n\n%s\n\nenter restarts", FormatScore(m.game.Score()))
	}
	return ""
}

// FormatScore pads a score to six digits.
func FormatScore(score uint64) string {
	return fmt.Sprintf("%06d", score)
}

func (m *Model) viewSide(b *strings.Builder) {
	g := m.game
	fmt.Fprintf(b, "SCORE\n%s\n\n", FormatScore(g.Score()))
	fmt.Fprintf(b, "LINES %d\n", g.Lines())
	fmt.Fprintf(b, "SPEED %.2f\n\n", g.Speed().Multiplier())
	fmt.Fprintln(b, m.dim.Render(g.State().String()))
	fmt.Fprintln(b)
	fmt.Fprintln(b, "NEXT")
	for _, id := range g.Preview() {
		m.board.PrintShape(b, id)
		fmt.Fprintln(b)
		fmt.Fprintln(b)
	}
}
