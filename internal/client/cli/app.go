package cli

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/maya-cli/internal/client/client"
	"github.com/dmitrijs2005/maya-cli/internal/client/config"
	"github.com/dmitrijs2005/maya-cli/internal/client/repositories/session"
	"github.com/dmitrijs2005/maya-cli/internal/client/services"
	"github.com/dmitrijs2005/maya-cli/internal/client/token"
	"github.com/dmitrijs2005/maya-cli/internal/filex"
	"github.com/dmitrijs2005/maya-cli/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config       *config.Config
	authService  services.AuthService
	userName     string
	pendingEmail string
	Mode         Mode
	reader       *bufio.Reader
	log          logging.Logger
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()
	log := logging.NewDefault()

	dbPath := resolveDBPath(c.SessionDBPath)
	db, err := client.InitDatabase(ctx, dbPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", dbPath, "error", err)
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(c.ServerURL, client.WithLogger(log))
	if err != nil {
		return nil, err
	}

	as := services.NewAuthService(apiClient, session.NewSQLiteRepository(db), log)

	app := &App{config: c, authService: as, reader: bufio.NewReader(os.Stdin), log: log}
	app.restoreSession(ctx)
	return app, nil
}

// resolveDBPath places relative database paths under the per-user config
// directory so the CLI behaves the same from any working directory.
func resolveDBPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	dir, err := filex.AppConfigDir("maya")
	if err != nil {
		return path
	}
	return filepath.Join(dir, path)
}

// restoreSession picks up a previously stored user record so the prompt
// shows who is logged in across restarts.
func (a *App) restoreSession(ctx context.Context) {
	rec, err := a.authService.CurrentUser(ctx)
	if err != nil {
		a.log.Warn(ctx, "stored user record unreadable", "error", err)
		return
	}
	if accessToken := rec.AccessToken(); accessToken != "" {
		if claims, err := token.Decode(accessToken); err == nil && claims.Email() != "" {
			a.userName = claims.Email()
		}
	}
}

func (app *App) setMode(mode Mode) {
	if app.Mode != mode {
		app.Mode = mode
		app.log.Info(context.Background(), "connectivity mode changed", "mode", string(mode))
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.authService.Close(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

// StartOnlineStatusWatcher periodically pings the server and flips the
// connectivity mode shown in the prompt. Blocks until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				if a.Mode == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.Mode != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
