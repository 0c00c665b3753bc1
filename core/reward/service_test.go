package reward_test

import (
	"context"
	"math"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shakso89/pokeayman-16-sub001/core"
	"github.com/Shakso89/pokeayman-16-sub001/core/ledger"
	"github.com/Shakso89/pokeayman-16-sub001/core/reward"
	testutil "github.com/Shakso89/pokeayman-16-sub001/tests"
)

func TestService_DistributeWinnerReward(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewStack(t)

	tests := []struct {
		name         string
		eventID      string
		base         int64
		participants int64
		wantTotal    int64
		wantErr      error
	}{
		{name: "base plus participants", eventID: "ev1", base: 10, participants: 7, wantTotal: 17},
		{name: "no participants", eventID: "ev2", base: 3, wantTotal: 3},
		{name: "already resolved", eventID: "ev1", base: 10, participants: 7, wantErr: reward.ErrAlreadyResolved},
		{name: "negative base", eventID: "ev3", base: -1, participants: 2, wantErr: ledger.ErrInvalidAmount},
		{name: "nothing to pay", eventID: "ev4"},
		{name: "total overflows", eventID: "ev5", base: math.MaxInt64, participants: 1, wantErr: ledger.ErrBalanceOverflow},
		{name: "winner balance overflows", eventID: "ev6", base: math.MaxInt64, wantErr: ledger.ErrBalanceOverflow},
	}
	var paid int64
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := s.Reward.DistributeWinnerReward(ctx, tt.eventID, "winner", tt.base, tt.participants)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				assert.Equal(t, paid, s.Balance(t, "winner"))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, r.Total)
			paid += tt.wantTotal
			assert.Equal(t, paid, s.Balance(t, "winner"))

			got, err := s.Reward.Get(ctx, tt.eventID)
			require.NoError(t, err)
			assert.Equal(t, r, got)
		})
	}

	_, err := s.Reward.Get(ctx, "ev6")
	assert.Equal(t, reward.ErrNotFound, errors.Cause(err), "a failed credit leaves no resolution")
}

func TestService_DistributeWinnerReward_events(t *testing.T) {
	s := testutil.NewStack(t)
	_, err := s.Reward.DistributeWinnerReward(context.Background(), "ev1", "winner", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{core.EventLedgerCredited, core.EventRewardDistributed}, s.Events.Kinds())
}

func TestWinnerReward_Validate(t *testing.T) {
	validate := validator.New()
	tests := []struct {
		name    string
		data    reward.WinnerReward
		wantErr bool
	}{
		{name: "valid", data: reward.WinnerReward{EventID: " ev1 ", WinnerID: "s1", Base: 5, Participants: 3}},
		{name: "no event", data: reward.WinnerReward{WinnerID: "s1", Base: 5}, wantErr: true},
		{name: "negative participants", data: reward.WinnerReward{EventID: "ev1", WinnerID: "s1", Participants: -1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate(validate)
			assert.Equal(t, tt.wantErr, err != nil, "Validate() error = %v", err)
		})
	}
}
