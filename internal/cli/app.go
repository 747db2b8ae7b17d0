package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fckoffmw/replay-service/internal/cache"
	"github.com/fckoffmw/replay-service/internal/config"
	"github.com/fckoffmw/replay-service/internal/gateway"
	"github.com/fckoffmw/replay-service/internal/media"
	"github.com/fckoffmw/replay-service/internal/replayapi"
	"github.com/fckoffmw/replay-service/internal/session"
	"github.com/fckoffmw/replay-service/internal/view"
	pkghttp "github.com/fckoffmw/replay-service/pkg/http"
	"github.com/fckoffmw/replay-service/pkg/log"
	pkgsql "github.com/fckoffmw/replay-service/pkg/sql"

	sqlcache "github.com/fckoffmw/replay-service/data/sql/cache"
)

const replayListLimit = 100

// App wires the client: one session store constructed at startup and passed
// to every collaborator, no ambient globals.
type App struct {
	Config  *config.Config
	Logger  log.Logger
	Session *session.Store
	Guard   view.Guard
	Gateway *gateway.Gateway
	Auth    *replayapi.AuthService
	Games   *replayapi.GameService
	Replays *replayapi.ReplayService
	Browser *view.Browser
	Media   media.Adapter
	Cache   *cache.Storage
}

func NewApp(ctx context.Context, cfg *config.Config, logger log.Logger) (*App, error) {
	sessionStore := session.NewStore(
		session.NewFileStorage(cfg.CredentialPath),
		cfg.IdentityMode,
		session.WithLogger(logger),
	)

	clientFactory := pkghttp.NewClientFactory(
		pkghttp.WithRequestTimeout(cfg.RequestTimeout),
		pkghttp.WithRequestLogging(logger),
	)
	client := clientFactory.InitClient(config.DestinationReplayService, cfg.APIBaseURL)

	gw := gateway.New(client, sessionStore, gateway.WithLogger(logger))
	replayService := replayapi.NewReplayService(gw)

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Session: sessionStore,
		Guard:   view.NewGuard(sessionStore),
		Gateway: gw,
		Auth:    replayapi.NewAuthService(gw, cfg.IdentityMode),
		Games:   replayapi.NewGameService(gw),
		Replays: replayService,
		Browser: view.NewBrowser(replayService, replayListLimit),
		Media:   media.NewAdapter(cfg.APIBaseURL),
	}

	app.Cache = openListingCache(ctx, cfg, logger)
	return app, nil
}

// openListingCache never fails the app: the cache is a convenience fallback,
// a broken local database only disables it.
func openListingCache(ctx context.Context, cfg *config.Config, logger log.Logger) *cache.Storage {
	db, err := pkgsql.NewDatabase(&pkgsql.Config{Path: cfg.CachePath})
	if err != nil {
		logger.WithError(err).Warn(ctx, "listing cache unavailable")
		return nil
	}

	err = pkgsql.NewMigrator(db, logger).Execute(ctx, sqlcache.Migrations)
	if err != nil {
		logger.WithError(err).Warn(ctx, "listing cache migration failed")
		return nil
	}

	return cache.NewStorage(db)
}

// requireAuth is the explicit entry guard of every protected command.
func (a *App) requireAuth() error {
	decision := a.Guard.Check()
	if decision.Allowed {
		return nil
	}
	return fmt.Errorf("not authenticated, run 'replay %s' first", decision.Redirect)
}

// PresentError maps the error taxonomy to what the user should see.
func PresentError(err error) string {
	if decision, redirect := view.OnCallError(err); redirect {
		return fmt.Sprintf("session expired, run 'replay %s' to sign in again", decision.Redirect)
	}

	var requestErr *gateway.RequestError
	if errors.As(err, &requestErr) {
		return requestErr.Message
	}

	var networkErr *gateway.NetworkError
	if errors.As(err, &networkErr) {
		return "cannot reach the replay service, check the connection and try again"
	}

	return err.Error()
}
