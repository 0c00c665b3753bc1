package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/Shakso89/pokeayman-16-sub001/core/pool"
)

type poolRepository struct {
	db *DB
}

func NewPoolRepository(db *DB) pool.Repository {
	return &poolRepository{db: db}
}

func (repo *poolRepository) CountEntries(ctx context.Context, orgID string) (int, error) {
	n := 0
	err := repo.db.do(ctx, func(s *state) error {
		for _, e := range s.entries {
			if e.OrganizationID == orgID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (repo *poolRepository) CreateEntries(ctx context.Context, entries []pool.Entry) error {
	return repo.db.do(ctx, func(s *state) error {
		for _, e := range entries {
			if _, ok := s.entries[e.ID]; ok {
				return pool.ErrDuplicateEntry
			}
			if _, ok := findEntry(s, e.OrganizationID, e.CreatureID); ok {
				return pool.ErrDuplicateEntry
			}
		}
		for _, e := range entries {
			s.entries[e.ID] = e
		}
		return nil
	})
}

func findEntry(s *state, orgID, creatureID string) (pool.Entry, bool) {
	for _, e := range s.entries {
		if e.OrganizationID == orgID && e.CreatureID == creatureID {
			return e, true
		}
	}
	return pool.Entry{}, false
}

func (repo *poolRepository) GetEntry(ctx context.Context, id string) (pool.Entry, error) {
	var entry pool.Entry
	err := repo.db.do(ctx, func(s *state) error {
		var ok bool
		if entry, ok = s.entries[id]; !ok {
			return pool.ErrNotFound
		}
		return nil
	})
	return entry, err
}

func (repo *poolRepository) QueryAvailable(ctx context.Context, orgID string) ([]pool.Entry, error) {
	entries := make([]pool.Entry, 0)
	err := repo.db.do(ctx, func(s *state) error {
		for _, e := range s.entries {
			if e.OrganizationID == orgID && e.IsAvailable() {
				entries = append(entries, e)
			}
		}
		return nil
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatureName < entries[j].CreatureName })
	return entries, err
}

func (repo *poolRepository) ClaimEntry(ctx context.Context, id, studentID string, at time.Time) (pool.Entry, error) {
	var entry pool.Entry
	err := repo.db.do(ctx, func(s *state) error {
		var ok bool
		if entry, ok = s.entries[id]; !ok {
			return pool.ErrNotFound
		}
		if !entry.IsAvailable() {
			return pool.ErrAlreadyClaimed
		}
		entry.State = pool.StateClaimed
		entry.Claim = &pool.Claim{StudentID: studentID, At: at}
		s.entries[id] = entry
		return nil
	})
	if err != nil {
		return pool.Entry{}, err
	}
	return entry, nil
}

func (repo *poolRepository) ReleaseEntry(ctx context.Context, orgID, creatureID, studentID string) (pool.Entry, error) {
	var entry pool.Entry
	err := repo.db.do(ctx, func(s *state) error {
		var ok bool
		if entry, ok = findEntry(s, orgID, creatureID); !ok {
			return pool.ErrNotFound
		}
		if entry.IsAvailable() || entry.ClaimedBy() != studentID {
			return nil
		}
		entry.State = pool.StateAvailable
		entry.Claim = nil
		s.entries[entry.ID] = entry
		return nil
	})
	if err != nil {
		return pool.Entry{}, err
	}
	return entry, nil
}
