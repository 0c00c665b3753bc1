// Package container wires the engine from a core.Config.
package container

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core"
	"github.com/Shakso89/pokeayman-16-sub001/core/assignment"
	"github.com/Shakso89/pokeayman-16-sub001/core/catalog"
	"github.com/Shakso89/pokeayman-16-sub001/core/ledger"
	"github.com/Shakso89/pokeayman-16-sub001/core/organization"
	"github.com/Shakso89/pokeayman-16-sub001/core/pool"
	"github.com/Shakso89/pokeayman-16-sub001/core/reward"
	"github.com/Shakso89/pokeayman-16-sub001/core/wheel"
	cachesvc "github.com/Shakso89/pokeayman-16-sub001/services/cache"
	logsvc "github.com/Shakso89/pokeayman-16-sub001/services/logger"
	notifysvc "github.com/Shakso89/pokeayman-16-sub001/services/notify"
	"github.com/Shakso89/pokeayman-16-sub001/storage/database"
	inmemdb "github.com/Shakso89/pokeayman-16-sub001/storage/database/inmem"
	boiledrepos "github.com/Shakso89/pokeayman-16-sub001/storage/database/sqlboiler"
	sqlxrepos "github.com/Shakso89/pokeayman-16-sub001/storage/database/sqlx"
)

type Options struct {
	LogPrefix string // e.g. "API : "
	// Migrate creates the database and runs pending migrations on start.
	Migrate bool
}

// Container holds every dependency of the engine.
type Container struct {
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	Metrics    *notifysvc.PrometheusSink

	SQL     *sql.DB // nil on the in-memory engine
	Cache   core.Cache
	Catalog catalog.Store

	OrgSvc        *organization.Service
	PoolSvc       *pool.Service
	LedgerSvc     *ledger.Service
	AssignmentSvc *assignment.Service
	WheelSvc      *wheel.Service
	RewardSvc     *reward.Service

	closers []func() error
}

type repositories struct {
	tx         core.Transactor
	orgs       organization.Repository
	pool       pool.Repository
	ledger     ledger.Repository
	assignment assignment.Repository
	wheel      wheel.Repository
	reward     reward.Repository
	catalog    catalog.Store
}

func New(conf *core.Config, opts Options) (*Container, error) {
	if err := conf.Economy.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid economy config")
	}
	c := &Container{
		Conf:       conf,
		Logger:     newLogger(conf, opts.LogPrefix),
		Validate:   validator.New(),
		Translator: core.NewTranslator(),
		Metrics:    notifysvc.NewPrometheusSink(),
	}
	core.InitValidators(c.Validate, c.Translator)
	catalog.InitValidators(c.Validate, c.Translator)

	repos, err := c.newRepositories(opts.Migrate)
	if err != nil {
		return nil, err
	}
	c.Catalog = repos.catalog

	if c.Cache, err = c.newCache(); err != nil {
		_ = c.Close()
		return nil, err
	}

	svcOpts := []core.Option{
		core.WithLogger(c.Logger),
		core.WithEvents(core.MultiSink{notifysvc.NewLogSink(c.Logger), c.Metrics}),
		core.WithCache(c.Cache, conf.Redis.TTL),
	}
	// the imported catalog table wins over the JSON file once it has rows
	src := catalog.FirstNonEmpty(repos.catalog, catalog.NewFileSource(conf.Catalog.Path))

	c.OrgSvc = organization.NewService(repos.orgs, svcOpts...)
	c.PoolSvc = pool.NewService(repos.pool, c.OrgSvc, src, repos.tx, conf.Economy, svcOpts...)
	c.LedgerSvc = ledger.NewService(repos.ledger, repos.tx, svcOpts...)
	c.AssignmentSvc = assignment.NewService(repos.assignment, c.PoolSvc, c.LedgerSvc, repos.tx, svcOpts...)
	c.WheelSvc = wheel.NewService(repos.wheel, c.PoolSvc, c.AssignmentSvc, c.LedgerSvc, repos.tx, conf.Economy, svcOpts...)
	c.RewardSvc = reward.NewService(repos.reward, c.LedgerSvc, repos.tx, svcOpts...)
	return c, nil
}

// Close releases the database and cache connections.
func (c *Container) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}

func newLogger(conf *core.Config, prefix string) core.Logger {
	stdLogger := log.New(os.Stdout, prefix, log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func (c *Container) newRepositories(migrate bool) (repositories, error) {
	if c.Conf.Database.IsInMemory() {
		c.Logger.Warn("using the in-memory store; nothing survives a restart")
		db := inmemdb.NewDB()
		return repositories{
			tx:         db,
			orgs:       inmemdb.NewOrganizationRepository(db),
			pool:       inmemdb.NewPoolRepository(db),
			ledger:     inmemdb.NewLedgerRepository(db),
			assignment: inmemdb.NewAssignmentRepository(db),
			wheel:      inmemdb.NewWheelRepository(db),
			reward:     inmemdb.NewRewardRepository(db),
			catalog:    inmemdb.NewCatalogTable(db),
		}, nil
	}

	sqlDB, err := setUpDB(c.Conf, migrate)
	if err != nil {
		return repositories{}, errors.Wrap(err, "setting up database")
	}
	c.SQL = sqlDB
	c.closers = append(c.closers, sqlDB.Close)

	db := database.NewDB(sqlDB)
	return repositories{
		tx:         db,
		orgs:       sqlxrepos.NewOrganizationRepository(db),
		pool:       sqlxrepos.NewPoolRepository(db),
		ledger:     sqlxrepos.NewLedgerRepository(db),
		assignment: sqlxrepos.NewAssignmentRepository(db),
		wheel:      sqlxrepos.NewWheelRepository(db),
		reward:     sqlxrepos.NewRewardRepository(db),
		catalog:    boiledrepos.NewCatalogTable(db),
	}, nil
}

func setUpDB(conf *core.Config, migrate bool) (*sql.DB, error) {
	if migrate {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if migrate {
		if err = database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

// newCache uses redis when an address is configured, an in-process cache otherwise.
func (c *Container) newCache() (core.Cache, error) {
	if c.Conf.Redis.Addr == "" {
		return cachesvc.NewMemoryCache(), nil
	}

	rc := cachesvc.NewRedisCache(c.Conf.Redis, c.Conf.AppName+":")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		_ = rc.Close()
		return nil, err
	}
	c.closers = append(c.closers, rc.Close)
	return rc, nil
}
