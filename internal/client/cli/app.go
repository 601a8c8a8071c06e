// Package cli is the interactive terminal front end of the FieldTrack
// client: capture commands write to the local store, sync commands push and
// pull.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/fieldtrack/internal/client/client"
	"github.com/dmitrijs2005/fieldtrack/internal/client/config"
	"github.com/dmitrijs2005/fieldtrack/internal/client/services"
	"github.com/dmitrijs2005/fieldtrack/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger
	reader *bufio.Reader

	repos   *client.Repositories
	remote  client.Remote
	session services.SessionService
	refdata services.ReferenceService
	reports services.TimeReportService
	notes   services.NoteService
	media   services.MediaService
	engine  *services.SyncEngine
	watcher *services.OnlineWatcher
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	repos, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local store: %w", err)
	}

	// the token provider closes over the session service created right
	// after, so a re-login is picked up without rebuilding the client
	var session services.SessionService
	remote := client.NewHTTPRemote(c.ServerEndpointAddr, func(ctx context.Context) (string, error) {
		return session.Token(ctx)
	}, logger)
	session = services.NewSessionService(remote, repos.Metadata)

	watcher := services.NewOnlineWatcher(remote, c.OnlineCheckInterval, logger)
	engine := services.NewSyncEngine(remote, repos.TimeReports, repos.Notes,
		repos.Metadata, watcher.Online, logger)

	return &App{
		config:  c,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		repos:   repos,
		remote:  remote,
		session: session,
		refdata: services.NewReferenceService(remote, repos.Reference, c.ReferenceCacheTTL, logger),
		reports: services.NewTimeReportService(repos.TimeReports),
		notes:   services.NewNoteService(repos.Notes, c.MediaDir),
		media:   services.NewMediaService(repos.Notes, logger),
		engine:  engine,
		watcher: watcher,
	}, nil
}

// Run starts the online watcher and enters the command loop. It returns when
// the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.repos.Close()
	defer a.remote.Close()

	go a.watcher.Run(ctx)

	a.Root(ctx)
}

// currentSession fetches the stored session and nags about a stale token.
func (a *App) currentSession(ctx context.Context) (*services.Session, bool) {
	sess, err := a.session.Current(ctx)
	if err != nil {
		fmt.Println("Not logged in. Use 'login' first.")
		return nil, false
	}
	if !a.session.Valid(ctx) {
		fmt.Println("Session expired. Use 'login' to refresh it.")
	}
	return sess, true
}
