package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core/reward"
	"github.com/Shakso89/pokeayman-16-sub001/storage/database"
)

type rewardRepository struct {
	db *database.DB
}

var _ reward.Repository = (*rewardRepository)(nil)

func NewRewardRepository(db *database.DB) reward.Repository {
	return &rewardRepository{db: db}
}

func (repo *rewardRepository) CreateResolution(ctx context.Context, r reward.Resolution) error {
	q := `INSERT INTO reward_resolutions (event_id, winner_id, base, participants, total, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (event_id) DO NOTHING`
	res, err := repo.db.Executor(ctx).ExecContext(ctx, q, r.EventID, r.WinnerID, r.Base, r.Participants, r.Total, r.ResolvedAt)
	if err != nil {
		return errors.Wrap(err, "inserting resolution")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "inserting resolution")
	}
	if n == 0 {
		return reward.ErrAlreadyResolved
	}
	return nil
}

func (repo *rewardRepository) GetResolution(ctx context.Context, eventID string) (reward.Resolution, error) {
	var r reward.Resolution
	q := `SELECT event_id, winner_id, base, participants, total, resolved_at FROM reward_resolutions WHERE event_id = $1`
	if err := repo.db.Executor(ctx).GetContext(ctx, &r, q, eventID); err != nil {
		if isNoRows(err) {
			return reward.Resolution{}, reward.ErrNotFound
		}
		return reward.Resolution{}, errors.Wrap(err, "selecting resolution")
	}
	return r, nil
}
