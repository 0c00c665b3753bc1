package inmemdb

import (
	"context"
	"sort"

	"github.com/Shakso89/pokeayman-16-sub001/core/assignment"
)

type assignmentRepository struct {
	db *DB
}

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) LockHolding(context.Context, string, string) error {
	return nil
}

func (repo *assignmentRepository) CreateHolding(ctx context.Context, rec assignment.OwnershipRecord) error {
	return repo.db.do(ctx, func(s *state) error {
		if _, ok := findHolding(s, rec.StudentID, rec.CreatureName); ok {
			return assignment.ErrAlreadyHeld
		}
		s.holdings[rec.ID] = rec
		return nil
	})
}

func findHolding(s *state, studentID, creatureName string) (assignment.OwnershipRecord, bool) {
	for _, rec := range s.holdings {
		if rec.StudentID == studentID && rec.CreatureName == creatureName {
			return rec, true
		}
	}
	return assignment.OwnershipRecord{}, false
}

func (repo *assignmentRepository) GetHolding(ctx context.Context, id string) (assignment.OwnershipRecord, error) {
	var rec assignment.OwnershipRecord
	err := repo.db.do(ctx, func(s *state) error {
		var ok bool
		if rec, ok = s.holdings[id]; !ok {
			return assignment.ErrNotFound
		}
		return nil
	})
	return rec, err
}

func (repo *assignmentRepository) GetHoldingByName(ctx context.Context, studentID, creatureName string) (assignment.OwnershipRecord, error) {
	var rec assignment.OwnershipRecord
	err := repo.db.do(ctx, func(s *state) error {
		var ok bool
		if rec, ok = findHolding(s, studentID, creatureName); !ok {
			return assignment.ErrNotFound
		}
		return nil
	})
	return rec, err
}

func (repo *assignmentRepository) QueryHoldings(ctx context.Context, studentID string) ([]assignment.OwnershipRecord, error) {
	recs := make([]assignment.OwnershipRecord, 0)
	err := repo.db.do(ctx, func(s *state) error {
		for _, rec := range s.holdings {
			if rec.StudentID == studentID {
				recs = append(recs, rec)
			}
		}
		return nil
	})
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].AcquiredAt.Equal(recs[j].AcquiredAt) {
			return recs[i].CreatureName < recs[j].CreatureName
		}
		return recs[i].AcquiredAt.Before(recs[j].AcquiredAt)
	})
	return recs, err
}

func (repo *assignmentRepository) DeleteHolding(ctx context.Context, id string) error {
	return repo.db.do(ctx, func(s *state) error {
		if _, ok := s.holdings[id]; !ok {
			return assignment.ErrNotFound
		}
		delete(s.holdings, id)
		return nil
	})
}
