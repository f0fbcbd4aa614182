package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/client/api"
	"github.com/dmitrijs2005/sessionkeeper/internal/client/config"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// authAPI is the part of api.Client the App depends on.
type authAPI interface {
	Register(ctx context.Context, req api.RegisterRequest) error
	Login(ctx context.Context, email, password string) (*api.User, error)
	WhoAmI(ctx context.Context) (*api.User, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	HasSession() bool
}

type App struct {
	config *config.Config
	api    authAPI
	reader *bufio.Reader
	out    io.Writer

	mu   sync.Mutex
	user *api.User
	mode Mode
}

func NewApp(c *config.Config) (*App, error) {
	client, err := api.New(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return newApp(c, client, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, client authAPI, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		api:    client,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run starts the connectivity watcher and blocks in the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.printf("Welcome to sessionkeeper CLI (type 'help' for commands)\n")

	a.checkOnline(ctx)
	if a.config.OnlineCheckInterval > 0 {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user != nil
}

func (a *App) setUser(u *api.User) {
	a.mu.Lock()
	a.user = u
	a.mu.Unlock()
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.printf("Switched to %s mode\n", mode)
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.user != nil {
		s = a.user.Email + " "
	}
	s += string(a.mode)
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	err := a.api.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
	} else {
		a.setMode(ModeOnline)
	}
}

// StartOnlineStatusWatcher pings the server every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
