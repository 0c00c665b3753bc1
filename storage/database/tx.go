package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core"
)

// Executor is what repositories run their queries on: a *sqlx.DB or a *sqlx.Tx.
type Executor interface {
	core.DBExecutor
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// DB is the postgres Transactor. Repositories get the transaction of the current unit of work through Executor.
type DB struct {
	*sqlx.DB
}

var (
	_ core.Transactor = (*DB)(nil)
	_ Executor        = (*sqlx.DB)(nil)
	_ Executor        = (*sqlx.Tx)(nil)
)

func NewDB(db *sql.DB) *DB {
	return &DB{DB: sqlx.NewDb(db, "postgres")}
}

type txKey struct{}

type txState struct {
	db *DB
	tx *sqlx.Tx
}

// WithinTx runs fn in a READ COMMITTED transaction, committing when it returns nil.
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if t, ok := ctx.Value(txKey{}).(*txState); ok && t.db == db {
		return fn(ctx)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	ctx, hooks := core.WithCommitHooks(ctx)
	if err = fn(context.WithValue(ctx, txKey{}, &txState{db: db, tx: tx})); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrapf(err, "rollback failed (%v)", rbErr)
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}
	hooks.Run()
	return nil
}

// Executor returns the transaction carried by ctx, or the connection pool outside a transaction.
func (db *DB) Executor(ctx context.Context) Executor {
	if t, ok := ctx.Value(txKey{}).(*txState); ok && t.db == db {
		return t.tx
	}
	return db.DB
}
