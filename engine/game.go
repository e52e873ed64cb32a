package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/golang-cz/ringbuf"

	"github.com/ghthor/webtris/figure"
	"github.com/ghthor/webtris/grid"
	"github.com/ghthor/webtris/render"
)

var (
	ErrNotPlaying = errors.New("game is not playing")
	ErrNoFigure   = errors.New("no falling figure")
	ErrClosed     = errors.New("game is closed")
)

type State uint8

const (
	Idle State = iota
	Playing
	Paused
	GameOver
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case GameOver:
		return "game over"
	}
	return "unknown"
}

type Direction uint8

const (
	Left Direction = iota
	Right
	Down
)

func (d Direction) delta() figure.Delta {
	switch d {
	case Left:
		return figure.MoveLeft
	case Right:
		return figure.MoveRight
	}
	return figure.MoveDown
}

type Rotation uint8

const (
	CCW Rotation = iota
	CW
)

func (r Rotation) delta() figure.Delta {
	if r == CW {
		return figure.TurnCW
	}
	return figure.TurnCCW
}

type Game struct {
	cfg    Config
	r      render.Renderer
	clock  Clock
	log    *log.Logger
	events *ringbuf.RingBuffer[Event]
	rng    *rand.Rand

	state  State
	sess   *Session
	closed bool
}

type Option func(*Game)

func WithLogger(l *log.Logger) Option { return func(g *Game) { g.log = l } }
func WithClock(c Clock) Option        { return func(g *Game) { g.clock = c } }

// WithEvents publishes every game event to rb.
func WithEvents(rb *ringbuf.RingBuffer[Event]) Option { return func(g *Game) { g.events = rb } }

func New(r render.Renderer, cfg Config, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Game{
		cfg:   cfg,
		r:     r,
		clock: SystemClock{},
		log:   log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if cfg.Player != "" {
		g.log = g.log.With("player", cfg.Player)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	g.sess = g.newSession()
	return g, nil
}

func (g *Game) newSession() *Session {
	return &Session{
		grid:    grid.New(),
		spawner: figure.NewSpawner(g.r, g.rng, g.cfg.Preview),
		speed:   newSpeed(g.cfg),
	}
}

func (g *Game) Config() Config            { return g.cfg }
func (g *Game) State() State              { return g.state }
func (g *Game) Session() *Session         { return g.sess }
func (g *Game) Grid() *grid.Grid          { return g.sess.grid }
func (g *Game) Score() uint64             { return g.sess.score }
func (g *Game) Lines() int                { return g.sess.lines }
func (g *Game) Speed() Speed              { return g.sess.speed }
func (g *Game) Preview() []figure.ShapeID { return g.sess.Preview() }
func (g *Game) IsGameOver() bool          { return g.state == GameOver }
func (g *Game) Active() *figure.Figure    { return g.sess.active }
func (g *Game) TicksPerDrop() int         { return g.sess.speed.TicksPerDrop(g.cfg.BaseTicks) }
func (g *Game) Renderer() render.Renderer { return g.r }

func (g *Game) publish(ev Event) {
	if g.events == nil {
		return
	}
	ev.At = g.clock.Now()
	ev.Player = g.cfg.Player
	g.events.Write(ev)
}

// Start begins play from Idle, or restarts after GameOver with a fresh
// session. Starting from Idle keeps whatever the grid already holds.
func (g *Game) Start() error {
	if g.closed {
		return ErrClosed
	}
	switch g.state {
	case Playing, Paused:
		return fmt.Errorf("start: game is %s", g.state)
	case GameOver:
		if err := g.sess.teardown(g.r); err != nil {
			g.log.Warn("teardown", "err", err)
		}
		g.sess = g.newSession()
	}
	g.sess.started = g.clock.Now()
	g.state = Playing
	g.log.Info("game started")
	g.spawn()
	return nil
}

func (g *Game) Pause() error {
	if g.closed {
		return ErrClosed
	}
	if g.state != Playing {
		return fmt.Errorf("pause: %w", ErrNotPlaying)
	}
	g.state = Paused
	g.publish(Event{Kind: EventPaused, Score: g.sess.score})
	return nil
}

func (g *Game) Resume() error {
	if g.closed {
		return ErrClosed
	}
	if g.state != Paused {
		return fmt.Errorf("resume: game is %s", g.state)
	}
	g.state = Playing
	g.publish(Event{Kind: EventResumed, Score: g.sess.score})
	return nil
}

// spawn ends the game if the spawn area is held, otherwise sweeps complete
// rows and brings in the next figure.
func (g *Game) spawn() {
	s := g.sess
	if s.active != nil || g.state != Playing {
		return
	}
	if s.grid.IsOccupied(SpawnCheck) {
		g.gameOver()
		return
	}

	if clears := s.Sweep(g.r, g.log); len(clears) > 0 {
		g.log.Info("lines cleared", "count", len(clears), "score", s.score, "lines", s.lines)
		g.publish(Event{Kind: EventLinesCleared, Clears: clears, Score: s.score, Lines: s.lines})
		for _, lc := range clears {
			if lc.SpeedChanged {
				g.log.Info("speed changed", "multiplier", s.speed.Multiplier())
				g.publish(Event{Kind: EventSpeedChanged, Speed: s.speed.Multiplier(), Lines: s.lines})
			}
		}
	}

	shape := s.spawner.PeekShape()
	for _, c := range s.spawner.Cells(shape) {
		if s.grid.IsOccupied(c) {
			g.gameOver()
			return
		}
	}
	f, err := s.spawner.Spawn(nil)
	if err != nil {
		// the next frame tries again
		g.log.Warn("spawn", "shape", shape.Name, "err", err)
		return
	}
	s.active = f
	s.counter = 0
	g.log.Debug("spawned", "shape", shape.Name, "shader", f.Shader)
	g.publish(Event{Kind: EventSpawned, Shape: shape.ID})
}

func (g *Game) gameOver() {
	s := g.sess
	g.state = GameOver
	g.log.Info("game over", "score", s.score, "lines", s.lines)
	g.publish(Event{
		Kind:    EventGameOver,
		Score:   s.score,
		Lines:   s.lines,
		Speed:   s.speed.Multiplier(),
		Started: s.started,
	})
}

func (g *Game) lock() {
	s := g.sess
	f := s.active
	if err := f.Lock(s.grid); err != nil {
		g.log.Warn("lock", "figure", f.ID, "err", err)
	}
	s.active = nil
	s.counter = 0
	g.log.Debug("locked", "shape", f.Shape.Name, "cells", f.Cells())
	g.publish(Event{Kind: EventLocked, Shape: f.Shape.ID})
}

// try validates d against the grid and applies it when allowed. A drop that
// is blocked locks the figure. Renderer failures reject the move.
func (g *Game) try(d figure.Delta) (Verdict, error) {
	if g.closed {
		return BlockedHorizontal, ErrClosed
	}
	if g.state != Playing {
		return BlockedHorizontal, ErrNotPlaying
	}
	f := g.sess.active
	if f == nil {
		return BlockedHorizontal, ErrNoFigure
	}

	v := Validate(g.sess.grid, grid.Well, f, d)
	switch v {
	case Allowed:
		if err := f.ApplyTransform(d); err != nil {
			g.log.Warn("move rejected by renderer", "delta", d, "err", err)
			return BlockedHorizontal, err
		}
	case BlockedVertical:
		g.lock()
	}
	return v, nil
}

func (g *Game) Move(dir Direction) (Verdict, error) {
	return g.try(dir.delta())
}

func (g *Game) Rotate(rot Rotation) (Verdict, error) {
	return g.try(rot.delta())
}

// HardDrop drops the figure until it locks and returns the number of rows
// it fell.
func (g *Game) HardDrop() (int, error) {
	for i := range g.cfg.HardDropCap {
		v, err := g.try(figure.MoveDown)
		if err != nil || v != Allowed {
			return i, err
		}
	}
	g.log.Warn("hard drop hit its cap", "cap", g.cfg.HardDropCap)
	return g.cfg.HardDropCap, nil
}

// Tick advances the game one frame.
func (g *Game) Tick() {
	if g.closed || g.state != Playing {
		return
	}
	s := g.sess
	if s.active == nil {
		g.spawn()
		return
	}
	s.counter++
	if s.counter >= g.TicksPerDrop() {
		s.counter = 0
		if _, err := g.try(figure.MoveDown); err != nil {
			g.log.Warn("gravity", "err", err)
		}
	}
}

// Run ticks the game once per frame until it is paused, over, closed or ctx
// is done. The renderer's PumpEvents runs before every frame.
func (g *Game) Run(ctx context.Context) error {
	if g.closed {
		return ErrClosed
	}
	if g.state != Playing {
		return ErrNotPlaying
	}

	t := g.clock.NewTicker(g.cfg.FrameInterval())
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case <-t.C():
		}

		g.r.PumpEvents()
		if g.closed {
			return ErrClosed
		}
		if g.state != Playing {
			return nil
		}
		g.Tick()
		if g.state != Playing {
			return nil
		}
	}
}

// Close removes everything the game has put on the renderer. A running Run
// returns at its next frame and every later call except the accessors is
// refused with ErrClosed or ignored.
func (g *Game) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	return g.sess.teardown(g.r)
}
