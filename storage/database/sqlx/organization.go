package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core/organization"
	"github.com/Shakso89/pokeayman-16-sub001/storage/database"
)

type organizationRepository struct {
	db *database.DB
}

var _ organization.Repository = (*organizationRepository)(nil)

func NewOrganizationRepository(db *database.DB) organization.Repository {
	return &organizationRepository{db: db}
}

func (repo *organizationRepository) CreateIfNotExist(ctx context.Context, org organization.Organization) (organization.Organization, error) {
	exec := repo.db.Executor(ctx)
	q := `INSERT INTO organizations (id, name, created_at) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`
	if _, err := exec.ExecContext(ctx, q, org.ID, org.Name, org.CreatedAt); err != nil {
		return organization.Organization{}, errors.Wrap(err, "inserting organization")
	}
	return repo.GetOrganization(ctx, org.ID)
}

func (repo *organizationRepository) GetOrganization(ctx context.Context, id string) (organization.Organization, error) {
	var org organization.Organization
	q := `SELECT id, name, created_at FROM organizations WHERE id = $1`
	if err := repo.db.Executor(ctx).GetContext(ctx, &org, q, id); err != nil {
		if isNoRows(err) {
			return organization.Organization{}, organization.ErrNotFound
		}
		return organization.Organization{}, errors.Wrap(err, "selecting organization")
	}
	return org, nil
}

func (repo *organizationRepository) LockOrganization(ctx context.Context, id string) error {
	var locked string
	q := `SELECT id FROM organizations WHERE id = $1 FOR UPDATE`
	if err := repo.db.Executor(ctx).GetContext(ctx, &locked, q, id); err != nil {
		if isNoRows(err) {
			return organization.ErrNotFound
		}
		return errors.Wrap(err, "locking organization")
	}
	return nil
}

func (repo *organizationRepository) QueryOrganizations(ctx context.Context) ([]organization.Organization, error) {
	orgs := make([]organization.Organization, 0)
	q := `SELECT id, name, created_at FROM organizations ORDER BY name`
	if err := repo.db.Executor(ctx).SelectContext(ctx, &orgs, q); err != nil {
		return nil, errors.Wrap(err, "selecting organizations")
	}
	return orgs, nil
}
