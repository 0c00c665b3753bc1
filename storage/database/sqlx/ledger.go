package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core/ledger"
	"github.com/Shakso89/pokeayman-16-sub001/storage/database"
)

type ledgerRepository struct {
	db *database.DB
}

var _ ledger.Repository = (*ledgerRepository)(nil)

func NewLedgerRepository(db *database.DB) ledger.Repository {
	return &ledgerRepository{db: db}
}

func (repo *ledgerRepository) GetAccount(ctx context.Context, studentID string) (ledger.Account, error) {
	var acc ledger.Account
	q := `SELECT student_id, earned, spent FROM ledger_balances WHERE student_id = $1`
	if err := repo.db.Executor(ctx).GetContext(ctx, &acc, q, studentID); err != nil {
		if isNoRows(err) {
			return ledger.Account{StudentID: studentID}, nil
		}
		return ledger.Account{}, errors.Wrap(err, "selecting balance")
	}
	return acc, nil
}

func (repo *ledgerRepository) CreditAccount(ctx context.Context, studentID string, amount int64) (ledger.Account, error) {
	var acc ledger.Account
	q := `INSERT INTO ledger_balances (student_id, earned, spent) VALUES ($1, $2, 0)
		ON CONFLICT (student_id) DO UPDATE SET earned = ledger_balances.earned + EXCLUDED.earned
		RETURNING student_id, earned, spent`
	if err := repo.db.Executor(ctx).GetContext(ctx, &acc, q, studentID, amount); err != nil {
		if isOutOfRange(err) {
			return ledger.Account{}, ledger.ErrBalanceOverflow
		}
		return ledger.Account{}, errors.Wrap(err, "crediting balance")
	}
	return acc, nil
}

func (repo *ledgerRepository) DebitAccount(ctx context.Context, studentID string, amount int64) (ledger.Account, error) {
	var acc ledger.Account
	q := `UPDATE ledger_balances SET spent = spent + $2
		WHERE student_id = $1 AND earned - spent >= $2
		RETURNING student_id, earned, spent`
	if err := repo.db.Executor(ctx).GetContext(ctx, &acc, q, studentID, amount); err != nil {
		if isNoRows(err) {
			return ledger.Account{}, ledger.ErrInsufficientFunds
		}
		return ledger.Account{}, errors.Wrap(err, "debiting balance")
	}
	return acc, nil
}

func (repo *ledgerRepository) AppendEntry(ctx context.Context, e ledger.Entry) error {
	q := `INSERT INTO ledger_entries (id, student_id, kind, amount, reason, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.Executor(ctx).ExecContext(ctx, q, e.ID, e.StudentID, e.Kind, e.Amount, e.Reason, e.BalanceAfter, e.CreatedAt)
	return errors.Wrap(err, "inserting ledger entry")
}

func (repo *ledgerRepository) QueryEntries(ctx context.Context, studentID string, limit int) ([]ledger.Entry, error) {
	es := make([]ledger.Entry, 0)
	q := `SELECT id, student_id, kind, amount, reason, balance_after, created_at FROM ledger_entries
		WHERE student_id = $1 ORDER BY created_at DESC, id LIMIT $2`
	if err := repo.db.Executor(ctx).SelectContext(ctx, &es, q, studentID, limit); err != nil {
		return nil, errors.Wrap(err, "selecting ledger entries")
	}
	return es, nil
}
