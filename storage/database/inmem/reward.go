package inmemdb

import (
	"context"

	"github.com/Shakso89/pokeayman-16-sub001/core/reward"
)

type rewardRepository struct {
	db *DB
}

func NewRewardRepository(db *DB) reward.Repository {
	return &rewardRepository{db: db}
}

func (repo *rewardRepository) CreateResolution(ctx context.Context, r reward.Resolution) error {
	return repo.db.do(ctx, func(s *state) error {
		if _, ok := s.resolutions[r.EventID]; ok {
			return reward.ErrAlreadyResolved
		}
		s.resolutions[r.EventID] = r
		return nil
	})
}

func (repo *rewardRepository) GetResolution(ctx context.Context, eventID string) (reward.Resolution, error) {
	var r reward.Resolution
	err := repo.db.do(ctx, func(s *state) error {
		var ok bool
		if r, ok = s.resolutions[eventID]; !ok {
			return reward.ErrNotFound
		}
		return nil
	})
	return r, err
}
