// Package inmemdb is a transactional in-memory store.
// A transaction works on a copy of the whole state which replaces the live state on commit.
// Transactions are serialized, so the per-row locks asked for by the repositories are no-ops.
package inmemdb

import (
	"context"
	"sync"

	"github.com/Shakso89/pokeayman-16-sub001/core"
	"github.com/Shakso89/pokeayman-16-sub001/core/assignment"
	"github.com/Shakso89/pokeayman-16-sub001/core/catalog"
	"github.com/Shakso89/pokeayman-16-sub001/core/ledger"
	"github.com/Shakso89/pokeayman-16-sub001/core/organization"
	"github.com/Shakso89/pokeayman-16-sub001/core/pool"
	"github.com/Shakso89/pokeayman-16-sub001/core/reward"
	"github.com/Shakso89/pokeayman-16-sub001/core/wheel"
)

type state struct {
	orgs        map[string]organization.Organization
	creatures   map[string]catalog.Creature
	entries     map[string]pool.Entry
	accounts    map[string]ledger.Account
	journal     []ledger.Entry
	holdings    map[string]assignment.OwnershipRecord
	wheels      map[string]wheel.State
	resolutions map[string]reward.Resolution
}

func newState() state {
	return state{
		orgs:        map[string]organization.Organization{},
		creatures:   map[string]catalog.Creature{},
		entries:     map[string]pool.Entry{},
		accounts:    map[string]ledger.Account{},
		holdings:    map[string]assignment.OwnershipRecord{},
		wheels:      map[string]wheel.State{},
		resolutions: map[string]reward.Resolution{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.orgs {
		c.orgs[k] = v
	}
	for k, v := range s.creatures {
		v.ElementTags = append([]string(nil), v.ElementTags...)
		c.creatures[k] = v
	}
	for k, v := range s.entries {
		if v.Claim != nil {
			claim := *v.Claim
			v.Claim = &claim
		}
		c.entries[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	c.journal = append(make([]ledger.Entry, 0, len(s.journal)), s.journal...)
	for k, v := range s.holdings {
		c.holdings[k] = v
	}
	for k, v := range s.wheels {
		c.wheels[k] = cloneWheel(v)
	}
	for k, v := range s.resolutions {
		c.resolutions[k] = v
	}
	return c
}

func cloneWheel(st wheel.State) wheel.State {
	st.VisibleEntries = append([]string{}, st.VisibleEntries...)
	if st.LastRefreshAt != nil {
		t := *st.LastRefreshAt
		st.LastRefreshAt = &t
	}
	return st
}

type DB struct {
	mu    sync.Mutex
	state state
}

func NewDB() *DB {
	return &DB{state: newState()}
}

type txKey struct{}

type tx struct {
	db    *DB
	state *state
}

var _ core.Transactor = (*DB)(nil)

// WithinTx runs fn on a private copy of the state and publishes it if fn succeeds.
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if t, ok := ctx.Value(txKey{}).(*tx); ok && t.db == db {
		return fn(ctx)
	}
	return db.run(ctx, fn)
}

func (db *DB) run(ctx context.Context, fn func(ctx context.Context) error) error {
	db.mu.Lock()
	locked := true
	defer func() {
		if locked {
			db.mu.Unlock()
		}
	}()

	work := db.state.clone()
	ctx, hooks := core.WithCommitHooks(ctx)
	if err := fn(context.WithValue(ctx, txKey{}, &tx{db: db, state: &work})); err != nil {
		return err
	}
	db.state = work
	locked = false
	db.mu.Unlock()

	hooks.Run()
	return nil
}

// do runs fn on the transaction's state, or on the live state under the lock.
func (db *DB) do(ctx context.Context, fn func(s *state) error) error {
	if t, ok := ctx.Value(txKey{}).(*tx); ok && t.db == db {
		return fn(t.state)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn(&db.state)
}
