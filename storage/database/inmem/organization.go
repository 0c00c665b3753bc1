package inmemdb

import (
	"context"
	"sort"

	"github.com/Shakso89/pokeayman-16-sub001/core/organization"
)

type organizationRepository struct {
	db *DB
}

func NewOrganizationRepository(db *DB) organization.Repository {
	return &organizationRepository{db: db}
}

func (repo *organizationRepository) CreateIfNotExist(ctx context.Context, org organization.Organization) (organization.Organization, error) {
	err := repo.db.do(ctx, func(s *state) error {
		if existing, ok := s.orgs[org.ID]; ok {
			org = existing
			return nil
		}
		s.orgs[org.ID] = org
		return nil
	})
	return org, err
}

func (repo *organizationRepository) GetOrganization(ctx context.Context, id string) (organization.Organization, error) {
	var org organization.Organization
	err := repo.db.do(ctx, func(s *state) error {
		var ok bool
		if org, ok = s.orgs[id]; !ok {
			return organization.ErrNotFound
		}
		return nil
	})
	return org, err
}

func (repo *organizationRepository) LockOrganization(ctx context.Context, id string) error {
	_, err := repo.GetOrganization(ctx, id)
	return err
}

func (repo *organizationRepository) QueryOrganizations(ctx context.Context) ([]organization.Organization, error) {
	var orgs []organization.Organization
	err := repo.db.do(ctx, func(s *state) error {
		orgs = make([]organization.Organization, 0, len(s.orgs))
		for _, org := range s.orgs {
			orgs = append(orgs, org)
		}
		return nil
	})
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].Name < orgs[j].Name })
	return orgs, err
}
