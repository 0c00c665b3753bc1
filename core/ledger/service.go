package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core"
)

var (
	// errors
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrBalanceOverflow   = errors.New("credit would overflow the earned total")
)

const defaultHistoryLimit = 50

type (
	Repository interface {
		// GetAccount returns a zero Account for students that never had a movement.
		GetAccount(ctx context.Context, studentID string) (Account, error)
		// CreditAccount creates the account row on first use.
		// It fails with ErrBalanceOverflow when earned would not fit in an int64.
		CreditAccount(ctx context.Context, studentID string, amount int64) (Account, error)
		// DebitAccount increments spent only while earned - spent >= amount, in a single write.
		// Otherwise it fails with ErrInsufficientFunds.
		DebitAccount(ctx context.Context, studentID string, amount int64) (Account, error)
		AppendEntry(ctx context.Context, entry Entry) error
		// QueryEntries returns the newest entries first.
		QueryEntries(ctx context.Context, studentID string, limit int) ([]Entry, error)
	}

	Service struct {
		core.ServiceOptions
		repo Repository
		tx   core.Transactor
	}
)

func NewService(repo Repository, tx core.Transactor, opts ...core.Option) *Service {
	return &Service{
		ServiceOptions: core.NewServiceOptions(opts...),
		repo:           repo,
		tx:             tx,
	}
}

func balanceKey(studentID string) string {
	return "ledger:balance:" + studentID
}

func (svc *Service) Credit(ctx context.Context, studentID string, amount int64, reason string) (Account, error) {
	return svc.move(ctx, KindCredit, studentID, amount, reason)
}

func (svc *Service) Debit(ctx context.Context, studentID string, amount int64, reason string) (Account, error) {
	return svc.move(ctx, KindDebit, studentID, amount, reason)
}

func (svc *Service) move(ctx context.Context, kind Kind, studentID string, amount int64, reason string) (Account, error) {
	if amount <= 0 {
		return Account{}, ErrInvalidAmount
	}

	var acc Account
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if kind == KindCredit {
			acc, err = svc.repo.CreditAccount(ctx, studentID, amount)
		} else {
			acc, err = svc.repo.DebitAccount(ctx, studentID, amount)
		}
		if err != nil {
			return err
		}

		entry := Entry{
			ID:           uuid.New().String(),
			StudentID:    studentID,
			Kind:         kind,
			Amount:       amount,
			Reason:       reason,
			BalanceAfter: acc.Balance(),
			CreatedAt:    svc.Now().UTC(),
		}
		return errors.Wrap(svc.repo.AppendEntry(ctx, entry), "journaling")
	})
	if err != nil {
		return Account{}, err
	}

	svc.Invalidate(ctx, balanceKey(studentID))
	evt := core.EventLedgerCredited
	if kind == KindDebit {
		evt = core.EventLedgerDebited
	}
	svc.Emit(ctx, evt, "", studentID, map[string]interface{}{
		"amount":  amount,
		"reason":  reason,
		"balance": acc.Balance(),
	})
	return acc, nil
}

// GetBalance may serve a slightly stale Account from the cache.
func (svc *Service) GetBalance(ctx context.Context, studentID string) (Account, error) {
	var acc Account
	key := balanceKey(studentID)
	if hit, err := svc.Cache.Get(ctx, key, &acc); err != nil {
		svc.Logger.Warn("cache read failed", err)
	} else if hit {
		return acc, nil
	}

	acc, err := svc.repo.GetAccount(ctx, studentID)
	if err != nil {
		return Account{}, err
	}
	if err := svc.Cache.Set(ctx, key, acc, svc.CacheTTL); err != nil {
		svc.Logger.Warn("cache write failed", err)
	}
	return acc, nil
}

// Account reads the store directly and joins the caller's transaction.
func (svc *Service) Account(ctx context.Context, studentID string) (Account, error) {
	return svc.repo.GetAccount(ctx, studentID)
}

func (svc *Service) History(ctx context.Context, studentID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return svc.repo.QueryEntries(ctx, studentID, limit)
}
