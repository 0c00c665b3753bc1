package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Shakso89/pokeayman-16-sub001/core"
	"github.com/Shakso89/pokeayman-16-sub001/core/assignment"
	"github.com/Shakso89/pokeayman-16-sub001/core/catalog"
	"github.com/Shakso89/pokeayman-16-sub001/core/ledger"
	"github.com/Shakso89/pokeayman-16-sub001/core/organization"
	"github.com/Shakso89/pokeayman-16-sub001/core/pool"
	"github.com/Shakso89/pokeayman-16-sub001/core/reward"
	"github.com/Shakso89/pokeayman-16-sub001/core/wheel"
	cachesvc "github.com/Shakso89/pokeayman-16-sub001/services/cache"
	inmemdb "github.com/Shakso89/pokeayman-16-sub001/storage/database/inmem"
)

// Stack is the whole engine wired on the in-memory store.
type Stack struct {
	DB         *inmemdb.DB
	Cache      *cachesvc.MemoryCache
	Events     *EventRecorder
	Clock      *Clock
	Economy    core.EconomyConfig
	Orgs       *organization.Service
	Pool       *pool.Service
	Ledger     *ledger.Service
	Assignment *assignment.Service
	Wheel      *wheel.Service
	Reward     *reward.Service
}

type stackConf struct {
	source  catalog.Source
	economy core.EconomyConfig
	seed    int64
}

type StackOption func(*stackConf)

func WithCatalog(creatures ...catalog.Creature) StackOption {
	return func(c *stackConf) { c.source = catalog.StaticSource(creatures) }
}

func WithSource(src catalog.Source) StackOption {
	return func(c *stackConf) { c.source = src }
}

func WithEconomy(conf core.EconomyConfig) StackOption {
	return func(c *stackConf) { c.economy = conf }
}

func WithSeed(seed int64) StackOption {
	return func(c *stackConf) { c.seed = seed }
}

func NewStack(t *testing.T, opts ...StackOption) *Stack {
	t.Helper()

	conf := stackConf{
		source:  catalog.NewFileSource(""),
		economy: core.DefaultEconomy(),
		seed:    1,
	}
	for _, opt := range opts {
		opt(&conf)
	}

	s := &Stack{
		DB:      inmemdb.NewDB(),
		Cache:   cachesvc.NewMemoryCache(),
		Events:  new(EventRecorder),
		Clock:   NewClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)),
		Economy: conf.economy,
	}
	svcOpts := []core.Option{
		core.WithRandomizer(core.NewSeededRandomizer(conf.seed)),
		core.WithEvents(s.Events),
		core.WithClock(s.Clock.Now),
		core.WithCache(s.Cache, time.Minute),
	}

	s.Orgs = organization.NewService(inmemdb.NewOrganizationRepository(s.DB), svcOpts...)
	s.Pool = pool.NewService(inmemdb.NewPoolRepository(s.DB), s.Orgs, conf.source, s.DB, conf.economy, svcOpts...)
	s.Ledger = ledger.NewService(inmemdb.NewLedgerRepository(s.DB), s.DB, svcOpts...)
	s.Assignment = assignment.NewService(inmemdb.NewAssignmentRepository(s.DB), s.Pool, s.Ledger, s.DB, svcOpts...)
	s.Wheel = wheel.NewService(inmemdb.NewWheelRepository(s.DB), s.Pool, s.Assignment, s.Ledger, s.DB, conf.economy, svcOpts...)
	s.Reward = reward.NewService(inmemdb.NewRewardRepository(s.DB), s.Ledger, s.DB, svcOpts...)
	return s
}

// InitPool initializes orgID's pool and fails the test on error.
func (s *Stack) InitPool(t *testing.T, orgID string) []pool.Entry {
	t.Helper()
	ctx := context.Background()
	if _, err := s.Pool.Initialize(ctx, orgID); err != nil {
		t.Fatalf("Pool.Initialize(%s) failed: %v", orgID, err)
	}
	entries, err := s.Pool.QueryAvailable(ctx, orgID)
	if err != nil {
		t.Fatalf("Pool.QueryAvailable(%s) failed: %v", orgID, err)
	}
	return entries
}

func (s *Stack) Credit(t *testing.T, studentID string, amount int64) {
	t.Helper()
	if _, err := s.Ledger.Credit(context.Background(), studentID, amount, ledger.ReasonManual); err != nil {
		t.Fatalf("Ledger.Credit(%s, %d) failed: %v", studentID, amount, err)
	}
}

func (s *Stack) Balance(t *testing.T, studentID string) int64 {
	t.Helper()
	acc, err := s.Ledger.Account(context.Background(), studentID)
	if err != nil {
		t.Fatalf("Ledger.Account(%s) failed: %v", studentID, err)
	}
	return acc.Balance()
}

// EntryByName finds an entry among entries, failing the test if it is missing.
func EntryByName(t *testing.T, entries []pool.Entry, name string) pool.Entry {
	t.Helper()
	for _, e := range entries {
		if e.CreatureName == name {
			return e
		}
	}
	t.Fatalf("no entry named %q", name)
	return pool.Entry{}
}

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// EventRecorder is an EventSink keeping every event.
type EventRecorder struct {
	mu     sync.Mutex
	events []core.Event
}

func (r *EventRecorder) Emit(_ context.Context, evt core.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *EventRecorder) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]string, 0, len(r.events))
	for _, evt := range r.events {
		kinds = append(kinds, evt.Kind)
	}
	return kinds
}

func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
