package reward

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core"
	"github.com/Shakso89/pokeayman-16-sub001/core/ledger"
)

var (
	// errors
	ErrAlreadyResolved = errors.New("event reward already distributed")
	ErrNotFound        = errors.New("event resolution not found")
)

type (
	Repository interface {
		// CreateResolution fails with ErrAlreadyResolved when the event already has one.
		CreateResolution(ctx context.Context, r Resolution) error
		GetResolution(ctx context.Context, eventID string) (Resolution, error)
	}

	Ledger interface {
		Credit(ctx context.Context, studentID string, amount int64, reason string) (ledger.Account, error)
	}

	Service struct {
		core.ServiceOptions
		repo   Repository
		ledger Ledger
		tx     core.Transactor
	}
)

func NewService(repo Repository, ldg Ledger, tx core.Transactor, opts ...core.Option) *Service {
	return &Service{
		ServiceOptions: core.NewServiceOptions(opts...),
		repo:           repo,
		ledger:         ldg,
		tx:             tx,
	}
}

// DistributeWinnerReward credits base + participants coins to the winner, once per event.
func (svc *Service) DistributeWinnerReward(ctx context.Context, eventID, winnerID string, base, participants int64) (Resolution, error) {
	if base < 0 || participants < 0 {
		return Resolution{}, ledger.ErrInvalidAmount
	}
	if base > math.MaxInt64-participants {
		return Resolution{}, ledger.ErrBalanceOverflow
	}
	r := Resolution{
		EventID:      eventID,
		WinnerID:     winnerID,
		Base:         base,
		Participants: participants,
		Total:        base + participants,
		ResolvedAt:   svc.Now().UTC(),
	}

	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := svc.repo.CreateResolution(ctx, r); err != nil {
			return err
		}
		if r.Total == 0 {
			return nil
		}
		_, err := svc.ledger.Credit(ctx, winnerID, r.Total, ledger.ReasonEventReward)
		return errors.Wrap(err, "crediting winner")
	})
	if err != nil {
		return Resolution{}, err
	}

	svc.Emit(ctx, core.EventRewardDistributed, "", winnerID, map[string]interface{}{
		"event": eventID,
		"total": r.Total,
	})
	return r, nil
}

func (svc *Service) Get(ctx context.Context, eventID string) (Resolution, error) {
	return svc.repo.GetResolution(ctx, eventID)
}
