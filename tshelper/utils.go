// Package tshelper opens the ssh and http listeners, either on a tsnet node
// joined to the tailnet or on the local network stack.
package tshelper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/charmbracelet/log"
	"tailscale.com/client/local"
	"tailscale.com/tsnet"
)

var ErrNoTailnet = errors.New("listeners are not on a tailnet")

type Listeners struct {
	ts *tsnet.Server

	Ssh, Http net.Listener

	// Client is nil for local listeners.
	Client *local.Client
}

// NewListeners joins the tailnet as hostname, storing node state in dir
// when it is set.
func NewListeners(hostname, dir string, sshPort, httpPort int) (Listeners, error) {
	l := Listeners{}
	l.ts = &tsnet.Server{Hostname: hostname, Dir: dir}
	l.ts.Logf = func(format string, args ...any) {
		log.Debug(fmt.Sprintf(format, args...), "component", "tsnet")
	}

	listen := func(port int) (net.Listener, error) {
		return l.ts.Listen("tcp", net.JoinHostPort("", fmt.Sprint(port)))
	}
	if err := l.open(listen, sshPort, httpPort); err != nil {
		return l, err
	}

	var err error
	l.Client, err = l.ts.LocalClient()
	if err != nil {
		return l, errors.Join(
			fmt.Errorf("failed to create tsnet LocalClient(): %w", err),
			l.Close(),
		)
	}

	return l, nil
}

// NewLocalListeners listens on host without tailscale.
func NewLocalListeners(host string, sshPort, httpPort int) (Listeners, error) {
	l := Listeners{}
	listen := func(port int) (net.Listener, error) {
		return net.Listen("tcp", net.JoinHostPort(host, fmt.Sprint(port)))
	}
	err := l.open(listen, sshPort, httpPort)
	return l, err
}

func (l *Listeners) open(listen func(int) (net.Listener, error), sshPort, httpPort int) error {
	var err error
	l.Ssh, err = listen(sshPort)
	if err != nil {
		return errors.Join(
			fmt.Errorf("failed to start ssh listener: %w", err),
			l.Close(),
		)
	}

	l.Http, err = listen(httpPort)
	if err != nil {
		return errors.Join(
			fmt.Errorf("failed to start http listener: %w", err),
			l.Close(),
		)
	}
	return nil
}

func (l Listeners) Tailnet() bool { return l.ts != nil }

func (l Listeners) WaitForTailscaleIP(ctx context.Context) (v4, v6 netip.Addr, err error) {
	if l.ts == nil {
		return v4, v6, ErrNoTailnet
	}

	var (
		t    = time.NewTicker(time.Second)
		done = ctx.Done()
	)
	defer t.Stop()

	for {
		select {
		case <-done:
			return v4, v6, ctx.Err()

		case <-t.C:
			v4, v6 = l.ts.TailscaleIPs()
			if v4.IsValid() {
				return v4, v6, nil
			}
			log.Info("Waiting for tailscale IP")
		}
	}
}

func (l Listeners) Close() error {
	errs := make([]error, 0, 3)
	if l.Ssh != nil {
		errs = append(errs, l.Ssh.Close())
	}
	if l.Http != nil {
		errs = append(errs, l.Http.Close())
	}
	if l.ts != nil {
		errs = append(errs, l.ts.Close())
	}

	return errors.Join(errs...)
}
