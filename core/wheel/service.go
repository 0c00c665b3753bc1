package wheel

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core"
	"github.com/Shakso89/pokeayman-16-sub001/core/assignment"
	"github.com/Shakso89/pokeayman-16-sub001/core/ledger"
	"github.com/Shakso89/pokeayman-16-sub001/core/pool"
)

var (
	// errors
	ErrRefreshLimitReached = errors.New("wheel already refreshed today")

	errNothingToWin = errors.New("nothing left to win")
)

type (
	Repository interface {
		// LoadState returns the student's state, creating an empty one if needed,
		// and locks it until the surrounding transaction ends.
		LoadState(ctx context.Context, orgID, studentID string) (State, error)
		SaveState(ctx context.Context, st State) error
	}

	Pool interface {
		QueryAvailable(ctx context.Context, orgID string) ([]pool.Entry, error)
	}

	Assigner interface {
		Assign(ctx context.Context, orgID, studentID, entryID string) (assignment.Result, error)
	}

	Ledger interface {
		Debit(ctx context.Context, studentID string, amount int64, reason string) (ledger.Account, error)
		Account(ctx context.Context, studentID string) (ledger.Account, error)
	}

	Service struct {
		core.ServiceOptions
		repo     Repository
		pool     Pool
		assigner Assigner
		ledger   Ledger
		tx       core.Transactor
		conf     core.EconomyConfig
		loc      *time.Location
	}
)

func NewService(
	repo Repository,
	pl Pool,
	assigner Assigner,
	ldg Ledger,
	tx core.Transactor,
	conf core.EconomyConfig,
	opts ...core.Option,
) *Service {
	return &Service{
		ServiceOptions: core.NewServiceOptions(opts...),
		repo:           repo,
		pool:           pl,
		assigner:       assigner,
		ledger:         ldg,
		tx:             tx,
		conf:           conf,
		loc:            conf.Location(),
	}
}

// Populate keeps the current wheel while every entry on it is still available and redraws it otherwise.
func (svc *Service) Populate(ctx context.Context, orgID, studentID string) (State, error) {
	var st State
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if st, err = svc.repo.LoadState(ctx, orgID, studentID); err != nil {
			return errors.Wrap(err, "loading wheel")
		}
		if st, _, err = svc.populate(ctx, st, false, nil); err != nil {
			return err
		}
		return errors.Wrap(svc.repo.SaveState(ctx, st), "saving wheel")
	})
	if err != nil {
		return State{}, err
	}
	return st, nil
}

// populate returns st with a valid visible set and the entries it shows.
// Entries listed in skip are never drawn.
func (svc *Service) populate(ctx context.Context, st State, force bool, skip map[string]struct{}) (State, []pool.Entry, error) {
	avail, err := svc.pool.QueryAvailable(ctx, st.OrganizationID)
	if err != nil {
		return st, nil, errors.Wrap(err, "querying available entries")
	}
	byID := make(map[string]pool.Entry, len(avail))
	candidates := make([]pool.Entry, 0, len(avail))
	for _, e := range avail {
		if _, ok := skip[e.ID]; ok {
			continue
		}
		byID[e.ID] = e
		candidates = append(candidates, e)
	}

	if !force && len(st.VisibleEntries) > 0 {
		shown := make([]pool.Entry, 0, len(st.VisibleEntries))
		for _, id := range st.VisibleEntries {
			e, ok := byID[id]
			if !ok {
				break
			}
			shown = append(shown, e)
		}
		if len(shown) == len(st.VisibleEntries) {
			return st, shown, nil
		}
	}

	picks := svc.Rand.Sample(len(candidates), svc.conf.WheelSize)
	st.VisibleEntries = make([]string, 0, len(picks))
	shown := make([]pool.Entry, 0, len(picks))
	for _, i := range picks {
		st.VisibleEntries = append(st.VisibleEntries, candidates[i].ID)
		shown = append(shown, candidates[i])
	}
	return st, shown, nil
}

func (svc *Service) canRefresh(st State) bool {
	return st.LastRefreshAt == nil || !core.SameDay(*st.LastRefreshAt, svc.Now(), svc.loc)
}

// View populates the wheel and returns it with entry details.
func (svc *Service) View(ctx context.Context, orgID, studentID string) (View, error) {
	var v View
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		st, err := svc.repo.LoadState(ctx, orgID, studentID)
		if err != nil {
			return errors.Wrap(err, "loading wheel")
		}
		st, shown, err := svc.populate(ctx, st, false, nil)
		if err != nil {
			return err
		}
		if err = svc.repo.SaveState(ctx, st); err != nil {
			return errors.Wrap(err, "saving wheel")
		}
		acc, err := svc.ledger.Account(ctx, studentID)
		if err != nil {
			return errors.Wrap(err, "reading balance")
		}
		v = View{
			OrganizationID:  orgID,
			StudentID:       studentID,
			Entries:         shown,
			LastRefreshAt:   st.LastRefreshAt,
			CanRefreshToday: svc.canRefresh(st),
			Balance:         acc.Balance(),
		}
		return nil
	})
	if err != nil {
		return View{}, err
	}
	return v, nil
}

// Spin charges the spin cost and assigns a uniformly drawn entry of the wheel.
// When nothing can be won the outcome is OutcomeNoneAvailable and nothing is charged.
func (svc *Service) Spin(ctx context.Context, orgID, studentID string) (SpinResult, error) {
	var res SpinResult
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		st, err := svc.repo.LoadState(ctx, orgID, studentID)
		if err != nil {
			return errors.Wrap(err, "loading wheel")
		}
		st, _, err = svc.populate(ctx, st, false, nil)
		if err != nil {
			return err
		}
		if len(st.VisibleEntries) == 0 {
			return errNothingToWin
		}

		if _, err = svc.ledger.Debit(ctx, studentID, svc.conf.SpinCost, ledger.ReasonSpin); err != nil {
			return err
		}

		lost := make(map[string]struct{})
		var won assignment.Result
		for {
			if len(st.VisibleEntries) == 0 {
				if st, _, err = svc.populate(ctx, st, true, lost); err != nil {
					return err
				}
				if len(st.VisibleEntries) == 0 {
					return errNothingToWin
				}
			}

			pick := st.VisibleEntries[svc.Rand.Intn(len(st.VisibleEntries))]
			st.remove(pick)
			won, err = svc.assigner.Assign(ctx, orgID, studentID, pick)
			if err == nil {
				break
			}
			switch errors.Cause(err) {
			case assignment.ErrRaceLost, pool.ErrNotFound:
				lost[pick] = struct{}{}
			default:
				return err
			}
		}

		var shown []pool.Entry
		if st, shown, err = svc.populate(ctx, st, false, lost); err != nil {
			return err
		}
		if err = svc.repo.SaveState(ctx, st); err != nil {
			return errors.Wrap(err, "saving wheel")
		}
		acc, err := svc.ledger.Account(ctx, studentID)
		if err != nil {
			return errors.Wrap(err, "reading balance")
		}

		creature := won.Creature
		res = SpinResult{
			Outcome:      Outcome(won.Outcome),
			Creature:     &creature,
			CoinsGranted: won.CoinsGranted,
			Balance:      acc.Balance(),
			Entries:      shown,
		}
		svc.Emit(ctx, core.EventWheelSpun, orgID, studentID, map[string]interface{}{
			"outcome":  string(res.Outcome),
			"creature": creature.Name,
		})
		return nil
	})

	switch errors.Cause(err) {
	case nil:
		return res, nil
	case errNothingToWin:
		acc, err := svc.ledger.Account(ctx, studentID)
		if err != nil {
			return SpinResult{}, errors.Wrap(err, "reading balance")
		}
		return SpinResult{Outcome: OutcomeNoneAvailable, Balance: acc.Balance(), Entries: []pool.Entry{}}, nil
	default:
		return SpinResult{}, err
	}
}

// Refresh redraws the wheel for the refresh cost, at most once per calendar day.
func (svc *Service) Refresh(ctx context.Context, orgID, studentID string) (View, error) {
	var v View
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		st, err := svc.repo.LoadState(ctx, orgID, studentID)
		if err != nil {
			return errors.Wrap(err, "loading wheel")
		}
		if !svc.canRefresh(st) {
			return ErrRefreshLimitReached
		}

		acc, err := svc.ledger.Debit(ctx, studentID, svc.conf.RefreshCost, ledger.ReasonRefresh)
		if err != nil {
			return err
		}

		st, shown, err := svc.populate(ctx, st, true, nil)
		if err != nil {
			return err
		}
		now := svc.Now().UTC()
		st.LastRefreshAt = &now
		if err = svc.repo.SaveState(ctx, st); err != nil {
			return errors.Wrap(err, "saving wheel")
		}

		v = View{
			OrganizationID:  orgID,
			StudentID:       studentID,
			Entries:         shown,
			LastRefreshAt:   st.LastRefreshAt,
			CanRefreshToday: false,
			Balance:         acc.Balance(),
		}
		svc.Emit(ctx, core.EventWheelRefreshed, orgID, studentID, map[string]interface{}{
			"entries": len(shown),
		})
		return nil
	})
	if err != nil {
		return View{}, err
	}
	return v, nil
}
