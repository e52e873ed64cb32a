// Package tstea serves a bubbletea model per connection, over SSH with wish
// or in the browser through gotty, naming each player from their tailnet
// identity when one is available.
package tstea

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/creack/pty"
	"github.com/ghthor/gotty/v2/server"
	"github.com/gorilla/websocket"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"
	"tailscale.com/client/local"
)

// Player describes who a new model is for.
type Player struct {
	Name   string
	Addr   net.Addr
	Term   string
	Width  int
	Height int
}

// NewModel builds the model for one connection. r renders for that
// connection's terminal.
type NewModel func(ctx context.Context, p Player, r *lipgloss.Renderer) (tea.Model, error)

// Identify names the player connecting from addr. fallback is the name the
// transport itself offers, such as the SSH user.
type Identify func(ctx context.Context, addr, fallback string) (string, error)

// Anonymous trusts the transport's name.
func Anonymous(_ context.Context, _, fallback string) (string, error) {
	return fallback, nil
}

// Tailnet names players by their tailscale login.
func Tailnet(lc *local.Client) Identify {
	return func(ctx context.Context, addr, _ string) (string, error) {
		who, err := lc.WhoIs(ctx, addr)
		if err != nil {
			return "", fmt.Errorf("tailscale WhoIs %s: %w", addr, err)
		}
		return who.UserProfile.LoginName, nil
	}
}

// joinContext is canceled as soon as either parent is.
func joinContext(ctx1, ctx2 context.Context) (context.Context, context.CancelCauseFunc) {
	ctx, cancel := context.WithCancelCause(ctx1)
	stop := context.AfterFunc(ctx2, func() { cancel(context.Cause(ctx2)) })
	return ctx, func(cause error) {
		stop()
		cancel(cause)
	}
}

func WishMiddleware(ctx context.Context, identify Identify, newModel NewModel) wish.Middleware {
	teaHandler := func(s ssh.Session) *tea.Program {
		name, err := identify(s.Context(), s.RemoteAddr().String(), s.User())
		if err != nil {
			wish.Fatalln(s, "identity error: ", err)
			return nil
		}

		pty, _, active := s.Pty()
		if !active {
			wish.Fatalln(s, "no active terminal, skipping")
			return nil
		}

		progCtx, cancel := joinContext(ctx, s.Context())
		m, err := newModel(progCtx, Player{
			Name:   name,
			Addr:   s.RemoteAddr(),
			Term:   pty.Term,
			Width:  pty.Window.Width,
			Height: pty.Window.Height,
		}, bubbletea.MakeRenderer(s))
		if err != nil {
			cancel(err)
			wish.Fatalln(s, "failed to start game: ", err)
			return nil
		}

		opts := append(bubbletea.MakeOptions(s), tea.WithContext(progCtx), tea.WithAltScreen())
		return tea.NewProgram(m, opts...)
	}
	return bubbletea.MiddlewareWithProgramHandler(teaHandler, termenv.ANSI256)
}

type TeaTYFactory struct {
	ctx      context.Context
	identify Identify
	newModel NewModel
}

func NewTeaTYFactory(ctx context.Context, identify Identify, newModel NewModel) *TeaTYFactory {
	return &TeaTYFactory{
		ctx:      ctx,
		identify: identify,
		newModel: newModel,
	}
}

var _ server.Factory = &TeaTYFactory{}

func (*TeaTYFactory) Name() string { return "TeaTYFactory" }

func (f *TeaTYFactory) New(ctx context.Context, params map[string][]string, conn *websocket.Conn) (server.Slave, error) {
	ctx, cancel := joinContext(f.ctx, ctx)

	addr := conn.RemoteAddr().String()
	name, err := f.identify(ctx, addr, addr)
	if err != nil {
		cancel(err)
		return nil, err
	}

	p, t, err := pty.Open()
	if err != nil {
		cancel(err)
		return nil, fmt.Errorf("failed to pty.Open(): %w", err)
	}

	r := lipgloss.NewRenderer(t)
	r.SetColorProfile(termenv.TrueColor)

	m, err := f.newModel(ctx, Player{
		Name:   name,
		Addr:   conn.RemoteAddr(),
		Term:   "xterm-256color",
		Width:  80,
		Height: 40,
	}, r)
	if err != nil {
		cancel(err)
		return nil, errors.Join(err, t.Close(), p.Close())
	}

	prog := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(t),
		tea.WithOutput(t),
		tea.WithAltScreen(),
	)

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		defer func() {
			t.Close()
			p.Close()
			conn.Close()
		}()

		_, err := prog.Run()
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, tea.ErrProgramKilled) {
			cancel(err)
			return err
		}
		cancel(nil)
		return nil
	})

	return &TeaTYProgram{
		ctx: grpCtx,
		pty: p,
		tty: t,

		grp:     grp,
		program: prog,
	}, nil
}

type TeaTYProgram struct {
	ctx context.Context

	pty, tty *os.File

	grp     *errgroup.Group
	program *tea.Program
}

var _ server.Slave = &TeaTYProgram{}

func (t *TeaTYProgram) Read(p []byte) (n int, err error) {
	return t.pty.Read(p)
}

func (t *TeaTYProgram) Write(p []byte) (n int, err error) {
	return t.pty.Write(p)
}

func (t *TeaTYProgram) Close() error {
	t.tty.Close()
	t.pty.Close()
	t.program.Quit()
	return t.grp.Wait()
}

func (t *TeaTYProgram) WindowTitleVariables() map[string]any {
	return map[string]any{"command": "webtris"}
}

func (t *TeaTYProgram) ResizeTerminal(width, height int) error {
	size := &pty.Winsize{Cols: uint16(width), Rows: uint16(height)}
	exp := &backoff.ExponentialBackOff{
		InitialInterval:     10 * time.Millisecond,
		RandomizationFactor: 0.0,
		Multiplier:          1.1,
		MaxInterval:         500 * time.Millisecond,
	}
	_, err := backoff.Retry(t.ctx, func() (struct{}, error) {
		return struct{}{}, errors.Join(pty.Setsize(t.pty, size), pty.Setsize(t.tty, size))
	},
		backoff.WithBackOff(exp),
		backoff.WithMaxElapsedTime(2*time.Second),
		backoff.WithNotify(func(err error, d time.Duration) {
			log.Warn("pty resize", "error", err, "retrying", d)
		}),
	)
	if err != nil {
		log.Warn("pty resize retry exhausted", "error", err)
		return err
	}
	t.program.Send(tea.WindowSizeMsg{
		Width:  width,
		Height: height,
	})
	return nil
}
