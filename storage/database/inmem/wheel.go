package inmemdb

import (
	"context"

	"github.com/Shakso89/pokeayman-16-sub001/core/wheel"
)

type wheelRepository struct {
	db *DB
}

func NewWheelRepository(db *DB) wheel.Repository {
	return &wheelRepository{db: db}
}

func wheelKey(orgID, studentID string) string {
	return orgID + "|" + studentID
}

func (repo *wheelRepository) LoadState(ctx context.Context, orgID, studentID string) (wheel.State, error) {
	var st wheel.State
	err := repo.db.do(ctx, func(s *state) error {
		var ok bool
		if st, ok = s.wheels[wheelKey(orgID, studentID)]; !ok {
			st = wheel.State{OrganizationID: orgID, StudentID: studentID, VisibleEntries: []string{}}
			s.wheels[wheelKey(orgID, studentID)] = st
		}
		st = cloneWheel(st)
		return nil
	})
	return st, err
}

func (repo *wheelRepository) SaveState(ctx context.Context, st wheel.State) error {
	return repo.db.do(ctx, func(s *state) error {
		s.wheels[wheelKey(st.OrganizationID, st.StudentID)] = cloneWheel(st)
		return nil
	})
}
