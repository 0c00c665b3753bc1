package inmemdb

import (
	"context"
	"math"

	"github.com/Shakso89/pokeayman-16-sub001/core/ledger"
)

type ledgerRepository struct {
	db *DB
}

func NewLedgerRepository(db *DB) ledger.Repository {
	return &ledgerRepository{db: db}
}

func (repo *ledgerRepository) GetAccount(ctx context.Context, studentID string) (ledger.Account, error) {
	acc := ledger.Account{StudentID: studentID}
	err := repo.db.do(ctx, func(s *state) error {
		if existing, ok := s.accounts[studentID]; ok {
			acc = existing
		}
		return nil
	})
	return acc, err
}

func (repo *ledgerRepository) CreditAccount(ctx context.Context, studentID string, amount int64) (ledger.Account, error) {
	var acc ledger.Account
	err := repo.db.do(ctx, func(s *state) error {
		acc = s.accounts[studentID]
		if amount > math.MaxInt64-acc.Earned {
			return ledger.ErrBalanceOverflow
		}
		acc.StudentID = studentID
		acc.Earned += amount
		s.accounts[studentID] = acc
		return nil
	})
	if err != nil {
		return ledger.Account{}, err
	}
	return acc, nil
}

func (repo *ledgerRepository) DebitAccount(ctx context.Context, studentID string, amount int64) (ledger.Account, error) {
	var acc ledger.Account
	err := repo.db.do(ctx, func(s *state) error {
		acc = s.accounts[studentID]
		if acc.Balance() < amount {
			return ledger.ErrInsufficientFunds
		}
		acc.StudentID = studentID
		acc.Spent += amount
		s.accounts[studentID] = acc
		return nil
	})
	if err != nil {
		return ledger.Account{}, err
	}
	return acc, nil
}

func (repo *ledgerRepository) AppendEntry(ctx context.Context, entry ledger.Entry) error {
	return repo.db.do(ctx, func(s *state) error {
		s.journal = append(s.journal, entry)
		return nil
	})
}

func (repo *ledgerRepository) QueryEntries(ctx context.Context, studentID string, limit int) ([]ledger.Entry, error) {
	entries := make([]ledger.Entry, 0)
	err := repo.db.do(ctx, func(s *state) error {
		for i := len(s.journal) - 1; i >= 0 && len(entries) < limit; i-- {
			if s.journal[i].StudentID == studentID {
				entries = append(entries, s.journal[i])
			}
		}
		return nil
	})
	return entries, err
}
