package organization

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core"
)

var ErrNotFound = errors.New("organization not found")

type (
	Repository interface {
		// CreateIfNotExist inserts org unless its ID is taken, and returns the stored row.
		CreateIfNotExist(ctx context.Context, org Organization) (Organization, error)
		GetOrganization(ctx context.Context, id string) (Organization, error)
		// LockOrganization blocks concurrent lockers of the same organization until the transaction ends.
		LockOrganization(ctx context.Context, id string) error
		QueryOrganizations(ctx context.Context) ([]Organization, error)
	}

	Service struct {
		core.ServiceOptions
		repo Repository
	}
)

func NewService(repo Repository, opts ...core.Option) *Service {
	return &Service{
		ServiceOptions: core.NewServiceOptions(opts...),
		repo:           repo,
	}
}

func (svc *Service) Create(ctx context.Context, no NewOrganization) (Organization, error) {
	id := no.ID
	if id == "" {
		id = uuid.New().String()
	}
	return svc.repo.CreateIfNotExist(ctx, Organization{ID: id, Name: no.Name, CreatedAt: svc.Now().UTC()})
}

// Ensure registers id when the identity source hands us an organization we have never seen.
func (svc *Service) Ensure(ctx context.Context, id string) (Organization, error) {
	return svc.repo.CreateIfNotExist(ctx, Organization{ID: id, Name: id, CreatedAt: svc.Now().UTC()})
}

func (svc *Service) Get(ctx context.Context, id string) (Organization, error) {
	return svc.repo.GetOrganization(ctx, id)
}

func (svc *Service) Lock(ctx context.Context, id string) error {
	return svc.repo.LockOrganization(ctx, id)
}

func (svc *Service) Query(ctx context.Context) ([]Organization, error) {
	return svc.repo.QueryOrganizations(ctx)
}
