package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/HavvokLab/solix-setup/api/solix"
	"github.com/HavvokLab/solix-setup/config"
	"github.com/HavvokLab/solix-setup/flow"
	"github.com/HavvokLab/solix-setup/infra"
	"github.com/HavvokLab/solix-setup/model"
	"github.com/HavvokLab/solix-setup/reconcile"
	"github.com/HavvokLab/solix-setup/reload"
	"github.com/HavvokLab/solix-setup/repo"
	"github.com/HavvokLab/solix-setup/schema"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// App holds the stores and services shared by the binaries.
type App struct {
	Config         *config.Config
	DB             *gorm.DB
	Redis          *redis.Client
	EntryRepo      repo.ConfigEntryRepo
	DeviceRepo     repo.DeviceRegistryRepo
	AuditRepo      repo.AuditRepo
	SessionCache   repo.SessionCacheRepo
	ExampleFolders repo.ExampleFolderRepo
	Builder        *schema.Builder
	Reconciler     *reconcile.Reconciler
}

// New opens the entry store and connects the optional session cache and
// audit index. Redis and elasticsearch failures only disable those features.
func New(conf *config.Config) (*App, error) {
	db, err := infra.NewGormDB(conf.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := infra.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	examplesFolder, err := filepath.Abs(conf.Setup.ExamplesFolder)
	if err != nil {
		return nil, fmt.Errorf("resolve examples folder: %w", err)
	}
	if err := os.MkdirAll(examplesFolder, 0o755); err != nil {
		return nil, fmt.Errorf("create examples folder: %w", err)
	}

	a := &App{
		Config:         conf,
		DB:             db,
		EntryRepo:      repo.NewConfigEntryRepo(db),
		DeviceRepo:     repo.NewDeviceRegistryRepo(db),
		AuditRepo:      repo.NewAuditMockRepo(),
		ExampleFolders: repo.NewExampleFolderRepo(examplesFolder),
	}

	if conf.Redis.Host != "" {
		rdb, err := infra.NewRedis(conf.Redis)
		if err != nil {
			log.Warn().Err(err).Str("host", conf.Redis.Host).Msg("App::New() - redis unavailable, sessions are not cached")
		} else {
			a.Redis = rdb
			a.SessionCache = repo.NewSessionCacheRepo(rdb)
		}
	}

	if conf.Elastic.Enabled {
		client, err := infra.NewElasticClient(conf.Elastic)
		if err != nil {
			log.Warn().Err(err).Str("host", conf.Elastic.Host).Msg("App::New() - elasticsearch unavailable, audit events are kept in memory")
		} else {
			a.AuditRepo = repo.NewAuditRepo(client)
		}
	}

	a.Builder = schema.NewBuilder(conf.Setup.AllowTestMode, a.ExampleFolders)
	a.Reconciler = reconcile.NewReconciler(conf.Setup.Domain, a.EntryRepo, a.DeviceRepo, a.AuditRepo)
	return a, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// SolixOptions are the cloud client options from config.
func (a *App) SolixOptions() []solix.Option {
	conf := a.Config.Solix
	opts := []solix.Option{
		solix.WithRetryCount(conf.RetryCount),
		solix.WithTimeout(time.Duration(conf.Timeout) * time.Second),
		solix.WithServer(conf.Server),
		solix.WithSceneWorkers(conf.SceneWorkers),
	}
	if a.SessionCache != nil {
		ttl := time.Duration(a.Config.Redis.SessionTTL) * time.Second
		opts = append(opts, solix.WithSessionCache(a.SessionCache, ttl))
	}
	return opts
}

func (a *App) ConfigFlow() *flow.ConfigFlow {
	return flow.NewConfigFlow(
		flow.SettingsFromConfig(a.Config, a.ExampleFolders.Path()),
		a.Builder,
		a.EntryRepo,
		a.Reconciler,
		flow.NewClientAuthenticator(a.SolixOptions()...),
		a.AuditRepo,
	)
}

func (a *App) OptionsFlow(entry *model.ConfigEntry) *flow.OptionsFlow {
	return flow.NewOptionsFlow(entry, a.Builder, a.EntryRepo, a.AuditRepo)
}

func (a *App) ReloadService() *reload.Service {
	return reload.NewService(
		a.Config.Setup.Domain,
		a.EntryRepo,
		a.DeviceRepo,
		a.Reconciler,
		reload.NewClientFetcher(a.SolixOptions()...),
	)
}
