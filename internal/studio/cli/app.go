// Package cli implements the interactive studio shell: a small REPL over
// the session manager, the library engine and the generation providers.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/ecank/nebula/internal/logging"
	"github.com/ecank/nebula/internal/studio/config"
	"github.com/ecank/nebula/internal/studio/genai"
	"github.com/ecank/nebula/internal/studio/library"
	"github.com/ecank/nebula/internal/studio/localstore"
	"github.com/ecank/nebula/internal/studio/models"
	"github.com/ecank/nebula/internal/studio/provider"
	"github.com/ecank/nebula/internal/studio/repositories/files"
	"github.com/ecank/nebula/internal/studio/repositories/folders"
	"github.com/ecank/nebula/internal/studio/repositories/logs"
	"github.com/ecank/nebula/internal/studio/session"
	"github.com/ecank/nebula/internal/studio/toolkit"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	session *session.Manager
	engine  *library.Engine
	logger  logging.Logger
	reader  *bufio.Reader
	db      *sql.DB

	chatHistory []provider.ChatMessage
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewDefault()

	db, err := localstore.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	engine := library.NewEngine(
		files.NewSQLiteRepository(db),
		folders.NewSQLiteRepository(db),
		logs.NewSQLiteRepository(db),
		logger,
	)
	sess := session.NewManager(db, engine, session.DefaultFactory(logger), logger)

	return &App{
		config:  c,
		session: sess,
		engine:  engine,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		db:      db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	defer a.db.Close()

	if err := a.session.Start(ctx); err != nil {
		return err
	}
	a.Root(ctx)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.session.User() != nil
}

// apiKey resolves the generation key: the session user's key wins over the
// one from the environment/config.
func (a *App) apiKey() string {
	if u := a.session.User(); u != nil && u.APIKey != "" {
		return u.APIKey
	}
	return a.config.GenAIAPIKey
}

// generator builds a generation client for the current session.
func (a *App) generator() provider.Generator {
	var opts []genai.Option
	if a.config.GenAIBaseURL != "" {
		opts = append(opts, genai.WithBaseURL(a.config.GenAIBaseURL))
	}
	return genai.NewClient(a.apiKey(), a.logger, opts...)
}

// mediaJobs builds a toolkit client from the current cloud settings.
func (a *App) mediaJobs() provider.MediaJobs {
	cloud := a.session.Settings().Cloud
	var fix toolkit.URLFixer
	if objects := a.session.Objects(); objects != nil {
		fix = objects.FixPublicURL
	}
	return toolkit.NewClient(cloud.ToolkitURL, cloud.ToolkitKey, fix, a.logger)
}

// logOp records the outcome of a provider call in the audit log and bumps
// the quota counter on success.
func (a *App) logOp(ctx context.Context, tool models.ToolType, started time.Time, details string, err error) {
	status := models.LogSuccess
	if err != nil {
		status = models.LogError
		details = details + ": " + err.Error()
	}
	entry := models.LogEntry{
		Tool:      tool,
		Status:    status,
		Details:   details,
		LatencyMs: time.Since(started).Milliseconds(),
	}
	if logErr := a.engine.AddLog(ctx, entry); logErr != nil {
		a.logger.Warn(ctx, "failed to record log entry", "error", logErr)
	}
	if err == nil {
		if qErr := a.session.BumpQuota(ctx, 1); qErr != nil {
			a.logger.Warn(ctx, "failed to bump quota", "error", qErr)
		}
	}
}
