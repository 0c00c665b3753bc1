package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core"
	"github.com/Shakso89/pokeayman-16-sub001/core/catalog"
	"github.com/Shakso89/pokeayman-16-sub001/core/ledger"
	"github.com/Shakso89/pokeayman-16-sub001/core/pool"
)

var (
	// errors
	ErrNotFound      = errors.New("ownership record not found")
	ErrRaceLost      = errors.New("creature was claimed by someone else")
	ErrNoneAvailable = errors.New("no creature available")
	ErrAlreadyHeld   = errors.New("student already holds this creature")
)

const maxAwardAttempts = 5

type (
	Repository interface {
		// LockHolding serializes assignments of the same creature name to the same student
		// until the surrounding transaction ends.
		LockHolding(ctx context.Context, studentID, creatureName string) error
		// CreateHolding fails with ErrAlreadyHeld when (student, creature name) is taken.
		CreateHolding(ctx context.Context, rec OwnershipRecord) error
		GetHolding(ctx context.Context, id string) (OwnershipRecord, error)
		GetHoldingByName(ctx context.Context, studentID, creatureName string) (OwnershipRecord, error)
		QueryHoldings(ctx context.Context, studentID string) ([]OwnershipRecord, error)
		DeleteHolding(ctx context.Context, id string) error
	}

	Pool interface {
		Get(ctx context.Context, entryID string) (pool.Entry, error)
		QueryAvailable(ctx context.Context, orgID string) ([]pool.Entry, error)
		Claim(ctx context.Context, entryID, studentID string) (pool.Entry, error)
		ReleaseCreature(ctx context.Context, orgID string, c catalog.Creature, studentID string) (pool.Entry, error)
	}

	Ledger interface {
		Credit(ctx context.Context, studentID string, amount int64, reason string) (ledger.Account, error)
	}

	Service struct {
		core.ServiceOptions
		repo   Repository
		pool   Pool
		ledger Ledger
		tx     core.Transactor
	}
)

func NewService(repo Repository, pl Pool, ldg Ledger, tx core.Transactor, opts ...core.Option) *Service {
	return &Service{
		ServiceOptions: core.NewServiceOptions(opts...),
		repo:           repo,
		pool:           pl,
		ledger:         ldg,
		tx:             tx,
	}
}

// Assign gives the pool entry to the student, or converts it to coins if the student
// already holds a creature with the same name.
func (svc *Service) Assign(ctx context.Context, orgID, studentID, entryID string) (Result, error) {
	var res Result
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := svc.pool.Get(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.OrganizationID != orgID {
			return errors.Wrapf(pool.ErrNotFound, "entry %q in organization %q", entryID, orgID)
		}

		if err = svc.repo.LockHolding(ctx, studentID, entry.CreatureName); err != nil {
			return errors.Wrap(err, "locking holding")
		}

		_, err = svc.repo.GetHoldingByName(ctx, studentID, entry.CreatureName)
		switch errors.Cause(err) {
		case nil:
			res, err = svc.convertDuplicate(ctx, orgID, studentID, entry.Creature())
			return err
		case ErrNotFound:
		default:
			return errors.Wrap(err, "checking holdings")
		}

		claimed, err := svc.pool.Claim(ctx, entryID, studentID)
		if err != nil {
			if errors.Cause(err) == pool.ErrAlreadyClaimed {
				return ErrRaceLost
			}
			return err
		}

		rec := OwnershipRecord{
			ID:             uuid.New().String(),
			StudentID:      studentID,
			OrganizationID: orgID,
			CreatureID:     claimed.CreatureID,
			CreatureName:   claimed.CreatureName,
			Rarity:         claimed.Rarity,
			VisualRef:      claimed.VisualRef,
			AcquiredAt:     acquiredAt(claimed, svc.Now()),
		}
		if err = svc.repo.CreateHolding(ctx, rec); err != nil {
			return errors.Wrap(err, "creating holding")
		}
		res = Result{Outcome: OutcomeNewCreature, Creature: rec.Creature(), Record: &rec}
		svc.Emit(ctx, core.EventCreatureAssigned, orgID, studentID, map[string]interface{}{
			"creature": rec.CreatureName,
			"rarity":   string(rec.Rarity),
		})
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (svc *Service) convertDuplicate(ctx context.Context, orgID, studentID string, c catalog.Creature) (Result, error) {
	coins := c.Rarity.CoinValue()
	if _, err := svc.ledger.Credit(ctx, studentID, coins, ledger.ReasonDuplicate); err != nil {
		return Result{}, errors.Wrap(err, "crediting duplicate")
	}
	svc.Emit(ctx, core.EventCreatureDuplicate, orgID, studentID, map[string]interface{}{
		"creature": c.Name,
		"coins":    coins,
	})
	return Result{Outcome: OutcomeDuplicate, Creature: c, CoinsGranted: coins}, nil
}

func acquiredAt(e pool.Entry, fallback time.Time) time.Time {
	if e.Claim != nil {
		return e.Claim.At
	}
	return fallback.UTC()
}

// Revoke deletes the student's record and puts the creature back in the organization's pool.
func (svc *Service) Revoke(ctx context.Context, orgID, studentID, recordID string) (OwnershipRecord, error) {
	var rec OwnershipRecord
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		rec, err = svc.repo.GetHolding(ctx, recordID)
		if err != nil {
			return err
		}
		if rec.StudentID != studentID || rec.OrganizationID != orgID {
			return ErrNotFound
		}
		return svc.revoke(ctx, rec)
	})
	if err != nil {
		return OwnershipRecord{}, err
	}
	return rec, nil
}

func (svc *Service) revoke(ctx context.Context, rec OwnershipRecord) error {
	if err := svc.repo.DeleteHolding(ctx, rec.ID); err != nil {
		return errors.Wrap(err, "deleting holding")
	}
	if _, err := svc.pool.ReleaseCreature(ctx, rec.OrganizationID, rec.Creature(), rec.StudentID); err != nil {
		return errors.Wrap(err, "releasing creature")
	}
	svc.Emit(ctx, core.EventCreatureRevoked, rec.OrganizationID, rec.StudentID, map[string]interface{}{
		"creature": rec.CreatureName,
	})
	return nil
}

// AwardRandom assigns a uniformly drawn available entry, drawing again when another student wins the race.
func (svc *Service) AwardRandom(ctx context.Context, orgID, studentID string) (Result, error) {
	lost := make(map[string]struct{})
	for attempt := 0; attempt < maxAwardAttempts; attempt++ {
		avail, err := svc.pool.QueryAvailable(ctx, orgID)
		if err != nil {
			return Result{}, errors.Wrap(err, "querying available entries")
		}
		candidates := avail[:0]
		for _, e := range avail {
			if _, skip := lost[e.ID]; !skip {
				candidates = append(candidates, e)
			}
		}
		if len(candidates) == 0 {
			return Result{}, ErrNoneAvailable
		}

		pick := candidates[svc.Rand.Intn(len(candidates))]
		res, err := svc.Assign(ctx, orgID, studentID, pick.ID)
		if errors.Cause(err) == ErrRaceLost {
			lost[pick.ID] = struct{}{}
			continue
		}
		return res, err
	}
	return Result{}, ErrRaceLost
}

// RevokeRandom revokes one of the student's holdings in orgID, drawn uniformly.
func (svc *Service) RevokeRandom(ctx context.Context, orgID, studentID string) (OwnershipRecord, error) {
	var rec OwnershipRecord
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		recs, err := svc.repo.QueryHoldings(ctx, studentID)
		if err != nil {
			return errors.Wrap(err, "querying holdings")
		}
		held := recs[:0]
		for _, r := range recs {
			if r.OrganizationID == orgID {
				held = append(held, r)
			}
		}
		if len(held) == 0 {
			return ErrNotFound
		}
		rec = held[svc.Rand.Intn(len(held))]
		return svc.revoke(ctx, rec)
	})
	if err != nil {
		return OwnershipRecord{}, err
	}
	return rec, nil
}

func (svc *Service) Holdings(ctx context.Context, studentID string) ([]OwnershipRecord, error) {
	return svc.repo.QueryHoldings(ctx, studentID)
}
