// Package webtris hosts blokfall games over SSH with wish and in the browser
// with gotty. Every connection plays its own game.
package webtris

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/ghthor/gotty/v2/server"
	"github.com/ghthor/gotty/v2/utils"
	"golang.org/x/sync/errgroup"
)

// NewSSHServer builds a wish server that requires an interactive terminal
// and logs every session with l. game is the middleware that serves the
// game itself.
func NewSSHServer(hostKeyPath string, l *log.Logger, game wish.Middleware) (*ssh.Server, error) {
	s, err := wish.NewServer(
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(30*time.Minute),
		wish.WithMiddleware(
			game,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(l, log.InfoLevel),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create ssh server: %w", err)
	}
	return s, nil
}

func RunSSH(ctx context.Context, grp *errgroup.Group, cancel context.CancelCauseFunc, l net.Listener, s *ssh.Server) error {
	grp.Go(func() error {
		if err := s.Serve(l); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			cancel(err)
			return err
		}
		return nil
	})

	return nil
}

func ShutdownSSH(s *ssh.Server, timeout time.Duration) error {
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		if errors.Is(err, context.DeadlineExceeded) {
			return s.Close()
		}
		return err
	}
	return nil
}

// HTTPOptions returns gotty's defaults with writes permitted, titled for
// the game.
func HTTPOptions(title string) (*server.Options, error) {
	opts := &server.Options{}
	if err := utils.ApplyDefaultValues(opts); err != nil {
		return nil, fmt.Errorf("gotty default options failure: %w", err)
	}
	opts.Preferences = &server.HtermPrefernces{}
	if err := utils.ApplyDefaultValues(opts.Preferences); err != nil {
		return nil, fmt.Errorf("gotty default hterm preferences failure: %w", err)
	}
	opts.Preferences.EnableWebGL = true
	opts.PermitWrite = true
	if title != "" {
		opts.TitleFormat = title
	}

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("gotty options validation failure: %w", err)
	}
	return opts, nil
}

func RunHTTP(ctx context.Context, grp *errgroup.Group, cancel context.CancelCauseFunc, l net.Listener, fact server.Factory, title string) error {
	opts, err := HTTPOptions(title)
	if err != nil {
		return err
	}

	gottySrv, err := server.New(fact, opts)
	if err != nil {
		return fmt.Errorf("error creating gotty server: %w", err)
	}

	grp.Go(func() error {
		if serr := gottySrv.Run(ctx, server.WithListener(l)); serr != nil && !errors.Is(serr, context.Canceled) {
			cancel(serr)
			return serr
		}
		return nil
	})

	return nil
}
