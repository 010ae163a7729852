// Package session holds the authenticated user and the application settings
// behind an explicit service object, and wires the remote adapters whenever
// the cloud connection settings change.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ecank/nebula/internal/common"
	"github.com/ecank/nebula/internal/dbx"
	"github.com/ecank/nebula/internal/logging"
	"github.com/ecank/nebula/internal/studio/library"
	"github.com/ecank/nebula/internal/studio/models"
	"github.com/ecank/nebula/internal/studio/objstore"
	"github.com/ecank/nebula/internal/studio/record"
	"github.com/ecank/nebula/internal/studio/repositories/settings"
)

// AccountStore extends the engine's record store view with the profile
// operations the session needs.
type AccountStore interface {
	library.RecordStore
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	RegisterUser(ctx context.Context, name, email, password string) (*models.User, error)
	LoginUser(ctx context.Context, email, password string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, user *models.User, settings *models.AppSettings) error
}

// AdapterFactory builds the remote adapters for a connection config. The
// default factory constructs the real HTTP and S3 clients; tests substitute
// fakes.
type AdapterFactory func(ctx context.Context, cfg models.CloudConfig) (AccountStore, library.ObjectStore)

// DefaultFactory returns the production adapter factory.
func DefaultFactory(logger logging.Logger) AdapterFactory {
	return func(ctx context.Context, cfg models.CloudConfig) (AccountStore, library.ObjectStore) {
		var objects *objstore.Client
		if cfg.ObjectStoreValid() {
			c, err := objstore.NewClient(ctx, cfg, logger)
			if err != nil {
				logger.Warn(ctx, "object store unavailable", "error", err)
			} else {
				objects = c
			}
		}
		var fix record.URLFixer
		if objects != nil {
			fix = objects.FixPublicURL
		}
		return record.NewClient(cfg, fix, logger), objects
	}
}

// Manager is the session service. It is safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	user     *models.User
	settings models.AppSettings

	db      *sql.DB
	repo    settings.Repository
	engine  *library.Engine
	factory AdapterFactory
	records AccountStore
	objects library.ObjectStore
	logger  logging.Logger
}

func NewManager(db *sql.DB, engine *library.Engine, factory AdapterFactory, logger logging.Logger) *Manager {
	return &Manager{
		db:       db,
		repo:     settings.NewSQLiteRepository(db),
		engine:   engine,
		factory:  factory,
		settings: models.DefaultSettings(),
		logger:   logger,
	}
}

// User returns a copy of the current user, or nil when logged out.
func (m *Manager) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Settings returns the current settings snapshot.
func (m *Manager) Settings() models.AppSettings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// Records exposes the current record store adapter.
func (m *Manager) Records() AccountStore {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records
}

// Objects exposes the current object storage adapter.
func (m *Manager) Objects() library.ObjectStore {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objects
}

// Start restores persisted settings and the saved session, paints the
// library from local storage and, for a cloud session with a valid
// connection, refreshes from the remote stores. Sync failures are logged
// and tolerated: the app starts local-first.
func (m *Manager) Start(ctx context.Context) error {
	s := models.DefaultSettings()
	if raw, err := m.repo.Get(ctx, settings.KeyAppSettings); err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	} else if raw != nil {
		// unmarshal over the defaults: absent fields keep their default
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("failed to decode settings: %w", err)
		}
	}

	var user *models.User
	if raw, err := m.repo.Get(ctx, settings.KeySessionUser); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	} else if raw != nil {
		user = &models.User{}
		if err := json.Unmarshal(raw, user); err != nil {
			m.logger.Warn(ctx, "discarding corrupt saved session", "error", err)
			user = nil
		}
	}

	m.mu.Lock()
	m.settings = s
	m.user = user
	m.mu.Unlock()
	m.rebuildAdapters(ctx)

	if user != nil {
		m.engine.SetOwner(user.Email)
	}
	if err := m.engine.LoadLocal(ctx); err != nil {
		return err
	}

	if user != nil && user.Provider == models.ProviderCloud && s.Cloud.RecordStoreValid() {
		m.refresh(ctx)
	}
	return nil
}

// refresh pulls the remote library and community feed, best effort.
func (m *Manager) refresh(ctx context.Context) {
	if err := m.engine.SyncRemote(ctx); err != nil {
		m.logger.Warn(ctx, "remote sync failed", "error", err)
	}
	if err := m.engine.SyncCommunity(ctx); err != nil {
		m.logger.Warn(ctx, "community sync failed", "error", err)
	}
}

func (m *Manager) rebuildAdapters(ctx context.Context) {
	m.mu.Lock()
	cfg := m.settings.Cloud
	m.mu.Unlock()

	records, objects := m.factory(ctx, cfg)

	m.mu.Lock()
	m.records = records
	m.objects = objects
	m.mu.Unlock()
	m.engine.SetRemotes(records, objects)
}

// Login authenticates against the record store. Settings saved in the
// remote profile are restored, except the cloud connection config, which
// always stays the local one: the remote copy may describe a network the
// machine cannot reach.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	m.mu.RLock()
	records := m.records
	m.mu.RUnlock()
	if records == nil || !records.Configured() {
		return nil, common.ErrConfigMissing
	}

	user, err := records.LoginUser(ctx, email, password)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	s := m.settings
	m.mu.RUnlock()
	if user.SavedSettings != nil {
		restored := *user.SavedSettings
		restored.Cloud = s.Cloud
		s = restored
	}

	// Expose the session only after it has been persisted.
	if err := m.persistSession(ctx, user, s); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.settings = s
	m.user = user
	m.mu.Unlock()

	m.engine.SetOwner(user.Email)
	m.refresh(ctx)
	m.logger.Info(ctx, "logged in", "email", email)
	return user, nil
}

// Register creates a cloud account and starts a session with it.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	m.mu.RLock()
	records := m.records
	m.mu.RUnlock()
	if records == nil || !records.Configured() {
		return nil, common.ErrConfigMissing
	}

	user, err := records.RegisterUser(ctx, name, email, password)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	s := m.settings
	m.mu.RUnlock()

	if err := m.persistSession(ctx, user, s); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	m.engine.SetOwner(user.Email)
	m.refresh(ctx)
	return user, nil
}

// LoginDeveloper starts a local-only session keyed by a generation API key.
// Nothing is synced for developer sessions.
func (m *Manager) LoginDeveloper(ctx context.Context, name, apiKey string) (*models.User, error) {
	if name == "" {
		name = "Developer"
	}
	user := &models.User{
		ID:       "developer",
		Name:     name,
		APIKey:   apiKey,
		Provider: models.ProviderDeveloper,
	}

	m.mu.RLock()
	s := m.settings
	m.mu.RUnlock()

	if err := m.persistSession(ctx, user, s); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return user, nil
}

// persistSession writes the user and the settings snapshot atomically.
func (m *Manager) persistSession(ctx context.Context, user *models.User, s models.AppSettings) error {
	userRaw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	settingsRaw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := settings.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, settings.KeySessionUser, userRaw); err != nil {
			return err
		}
		return repo.Set(ctx, settings.KeyAppSettings, settingsRaw)
	})
}

// Logout clears the session and the in-memory library. Local storage and
// the remote stores are untouched; logging back in restores everything.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.repo.Delete(ctx, settings.KeySessionUser); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()
	m.engine.Reset()
	return nil
}

// UpdateSettings applies a partial update. The result is persisted locally,
// pushed to the remote profile for cloud sessions (best effort) and, when
// the connection config changed, the remote adapters are rebuilt.
func (m *Manager) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.AppSettings, error) {
	m.mu.Lock()
	oldCloud := m.settings.Cloud
	updated := patch.Apply(m.settings)
	m.settings = updated
	user := m.user
	m.mu.Unlock()

	raw, err := json.Marshal(updated)
	if err != nil {
		return models.AppSettings{}, fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := m.repo.Set(ctx, settings.KeyAppSettings, raw); err != nil {
		return models.AppSettings{}, err
	}

	if updated.Cloud != oldCloud {
		m.rebuildAdapters(ctx)
	}

	if user != nil && user.Provider == models.ProviderCloud {
		m.mu.RLock()
		records := m.records
		m.mu.RUnlock()
		if records != nil && records.Configured() {
			if err := records.UpdateUserProfile(ctx, user, &updated); err != nil {
				m.logger.Warn(ctx, "failed to push settings to profile", "error", err)
			}
		}
	}
	return updated, nil
}

// BumpQuota adds n to the usage counter and persists the result.
func (m *Manager) BumpQuota(ctx context.Context, n int64) error {
	m.mu.Lock()
	m.settings.QuotaUsed += n
	s := m.settings
	m.mu.Unlock()

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return m.repo.Set(ctx, settings.KeyAppSettings, raw)
}
