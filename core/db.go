package core

import (
	"context"
	"database/sql"
	"sync"
)

type (
	DBExecutor interface {
		Exec(query string, args ...interface{}) (sql.Result, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		Query(query string, args ...interface{}) (*sql.Rows, error)
		QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
		QueryRow(query string, args ...interface{}) *sql.Row
		QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	}

	// Transactor runs fn as a single unit of work.
	// Repositories called with the context handed to fn join the transaction;
	// calling WithinTx with a context that already carries one joins it too.
	Transactor interface {
		WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	}
)

type commitHooksKey struct{}

// CommitHooks collects callbacks to run once the outermost transaction commits.
type CommitHooks struct {
	mu  sync.Mutex
	fns []func()
}

// WithCommitHooks is called by Transactor implementations when they open a new transaction.
func WithCommitHooks(ctx context.Context) (context.Context, *CommitHooks) {
	hooks := new(CommitHooks)
	return context.WithValue(ctx, commitHooksKey{}, hooks), hooks
}

// Run is called by Transactor implementations after a successful commit.
func (h *CommitHooks) Run() {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// AfterCommit defers fn until the transaction carried by ctx commits; fn never runs on rollback.
// Outside a transaction fn runs right away.
func AfterCommit(ctx context.Context, fn func()) {
	hooks, ok := ctx.Value(commitHooksKey{}).(*CommitHooks)
	if !ok {
		fn()
		return
	}
	hooks.mu.Lock()
	hooks.fns = append(hooks.fns, fn)
	hooks.mu.Unlock()
}
