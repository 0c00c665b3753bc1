package ledger_test

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shakso89/pokeayman-16-sub001/core"
	"github.com/Shakso89/pokeayman-16-sub001/core/ledger"
	testutil "github.com/Shakso89/pokeayman-16-sub001/tests"
)

func TestService_CreditDebit(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewStack(t)

	acc, err := s.Ledger.GetBalance(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, ledger.Account{StudentID: "s1"}, acc, "unknown students have nothing")

	acc, err = s.Ledger.Credit(ctx, "s1", 5, ledger.ReasonManual)
	require.NoError(t, err)
	assert.Equal(t, int64(5), acc.Balance())

	acc, err = s.Ledger.Debit(ctx, "s1", 3, ledger.ReasonSpin)
	require.NoError(t, err)
	assert.Equal(t, ledger.Account{StudentID: "s1", Earned: 5, Spent: 3}, acc)

	_, err = s.Ledger.Debit(ctx, "s1", 3, ledger.ReasonSpin)
	assert.Equal(t, ledger.ErrInsufficientFunds, errors.Cause(err))

	acc, err = s.Ledger.GetBalance(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), acc.Balance(), "a failed debit changes nothing")

	assert.Equal(t, []string{core.EventLedgerCredited, core.EventLedgerDebited}, s.Events.Kinds())
}

func TestService_invalidAmount(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewStack(t)

	for _, amount := range []int64{0, -4} {
		_, err := s.Ledger.Credit(ctx, "s1", amount, ledger.ReasonManual)
		assert.Equal(t, ledger.ErrInvalidAmount, err)
		_, err = s.Ledger.Debit(ctx, "s1", amount, ledger.ReasonManual)
		assert.Equal(t, ledger.ErrInvalidAmount, err)
	}
	assert.Empty(t, s.Events.Kinds())
}

func TestService_Credit_overflow(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewStack(t)

	acc, err := s.Ledger.Credit(ctx, "s1", math.MaxInt64, ledger.ReasonManual)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), acc.Balance())

	_, err = s.Ledger.Credit(ctx, "s1", 1, ledger.ReasonEventReward)
	assert.Equal(t, ledger.ErrBalanceOverflow, errors.Cause(err))

	acc, err = s.Ledger.Account(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, ledger.Account{StudentID: "s1", Earned: math.MaxInt64}, acc)

	entries, err := s.Ledger.History(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "the rejected credit is not journaled")
}

func TestService_Debit_concurrent(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewStack(t)
	s.Credit(t, "s1", 10)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		ok     int
		denied int
	)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Ledger.Debit(ctx, "s1", 1, ledger.ReasonSpin)
			mu.Lock()
			defer mu.Unlock()
			switch errors.Cause(err) {
			case nil:
				ok++
			case ledger.ErrInsufficientFunds:
				denied++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 30, denied)
	assert.Zero(t, s.Balance(t, "s1"))
}

func TestService_History(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewStack(t)
	s.Credit(t, "s1", 10)
	_, err := s.Ledger.Debit(ctx, "s1", 1, ledger.ReasonRefresh)
	require.NoError(t, err)
	s.Credit(t, "s2", 7)

	entries, err := s.Ledger.History(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ledger.KindDebit, entries[0].Kind)
	assert.Equal(t, ledger.ReasonRefresh, entries[0].Reason)
	assert.Equal(t, int64(9), entries[0].BalanceAfter)
	assert.Equal(t, ledger.KindCredit, entries[1].Kind)
	assert.Equal(t, int64(10), entries[1].BalanceAfter)

	entries, err = s.Ledger.History(ctx, "s1", 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestService_GetBalance_cacheInvalidation(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewStack(t)

	acc, err := s.Ledger.GetBalance(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, acc.Balance())

	s.Credit(t, "s1", 4)
	acc, err = s.Ledger.GetBalance(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), acc.Balance())
}

func TestTransfer_Validate(t *testing.T) {
	validate := validator.New()

	tr := ledger.Transfer{Amount: 3, Reason: "  "}
	require.NoError(t, tr.Validate(validate))
	assert.Equal(t, ledger.ReasonManual, tr.Reason)

	tr = ledger.Transfer{Amount: 0}
	assert.Error(t, tr.Validate(validate))
}
