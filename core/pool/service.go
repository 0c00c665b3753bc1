package pool

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core"
	"github.com/Shakso89/pokeayman-16-sub001/core/catalog"
	"github.com/Shakso89/pokeayman-16-sub001/core/organization"
)

var (
	// errors
	ErrNotFound           = errors.New("pool entry not found")
	ErrAlreadyClaimed     = errors.New("pool entry already claimed")
	ErrCatalogUnavailable = errors.New("creature catalog unavailable")
	ErrDuplicateEntry     = errors.New("organization already has an entry for this creature")
)

type (
	Repository interface {
		CountEntries(ctx context.Context, orgID string) (int, error)
		// CreateEntries fails with ErrDuplicateEntry if an (organization, creature) pair is taken.
		CreateEntries(ctx context.Context, entries []Entry) error
		GetEntry(ctx context.Context, id string) (Entry, error)
		QueryAvailable(ctx context.Context, orgID string) ([]Entry, error)
		// ClaimEntry flips an available entry to claimed in one conditional write.
		// It fails with ErrAlreadyClaimed when the entry is not available anymore.
		ClaimEntry(ctx context.Context, id, studentID string, at time.Time) (Entry, error)
		// ReleaseEntry makes the (org, creature) entry available when it is available or held by studentID.
		// An entry held by someone else is returned untouched.
		ReleaseEntry(ctx context.Context, orgID, creatureID, studentID string) (Entry, error)
	}

	// Organizations is the part of organization.Service the pool depends on.
	Organizations interface {
		Ensure(ctx context.Context, id string) (organization.Organization, error)
		Get(ctx context.Context, id string) (organization.Organization, error)
		Lock(ctx context.Context, id string) error
	}

	Service struct {
		core.ServiceOptions
		repo       Repository
		orgs       Organizations
		catalog    catalog.Source
		tx         core.Transactor
		sampleSize int
	}
)

func NewService(
	repo Repository,
	orgs Organizations,
	src catalog.Source,
	tx core.Transactor,
	conf core.EconomyConfig,
	opts ...core.Option,
) *Service {
	return &Service{
		ServiceOptions: core.NewServiceOptions(opts...),
		repo:           repo,
		orgs:           orgs,
		catalog:        src,
		tx:             tx,
		sampleSize:     conf.PoolSampleSize,
	}
}

func availableKey(orgID string) string {
	return "pool:available:" + orgID
}

// Initialize seeds the organization's pool with a random sample of the catalog, once.
// It returns the number of entries created; 0 means the pool already existed.
func (svc *Service) Initialize(ctx context.Context, orgID string) (int, error) {
	var created int
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := svc.orgs.Ensure(ctx, orgID); err != nil {
			return errors.Wrap(err, "registering organization")
		}
		if err := svc.orgs.Lock(ctx, orgID); err != nil {
			return errors.Wrap(err, "locking organization")
		}

		n, err := svc.repo.CountEntries(ctx, orgID)
		if err != nil {
			return errors.Wrap(err, "counting entries")
		}
		if n > 0 {
			return nil
		}

		creatures, err := svc.catalog.ListCreatures(ctx)
		if err != nil {
			return errors.Wrap(ErrCatalogUnavailable, err.Error())
		}

		picks := svc.Rand.Sample(len(creatures), svc.sampleSize)
		entries := make([]Entry, 0, len(picks))
		for _, i := range picks {
			e := newEntry(orgID, creatures[i])
			e.ID = uuid.New().String()
			entries = append(entries, e)
		}
		if len(entries) == 0 {
			return nil
		}
		if err := svc.repo.CreateEntries(ctx, entries); err != nil {
			return errors.Wrap(err, "creating entries")
		}
		created = len(entries)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if created > 0 {
		svc.Invalidate(ctx, availableKey(orgID))
		svc.Emit(ctx, core.EventPoolInitialized, orgID, "", map[string]interface{}{"entries": created})
		svc.Logger.Info("pool initialized", map[string]interface{}{"organization": orgID, "entries": created})
	}
	return created, nil
}

// ListAvailable may serve a slightly stale list from the cache.
func (svc *Service) ListAvailable(ctx context.Context, orgID string) ([]Entry, error) {
	var entries []Entry
	key := availableKey(orgID)
	if hit, err := svc.Cache.Get(ctx, key, &entries); err != nil {
		svc.Logger.Warn("cache read failed", err)
	} else if hit {
		return entries, nil
	}

	entries, err := svc.repo.QueryAvailable(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := svc.Cache.Set(ctx, key, entries, svc.CacheTTL); err != nil {
		svc.Logger.Warn("cache write failed", err)
	}
	return entries, nil
}

// QueryAvailable always reads the store and joins the caller's transaction.
func (svc *Service) QueryAvailable(ctx context.Context, orgID string) ([]Entry, error) {
	return svc.repo.QueryAvailable(ctx, orgID)
}

func (svc *Service) Get(ctx context.Context, entryID string) (Entry, error) {
	return svc.repo.GetEntry(ctx, entryID)
}

func (svc *Service) Claim(ctx context.Context, entryID, studentID string) (Entry, error) {
	e, err := svc.repo.ClaimEntry(ctx, entryID, studentID, svc.Now().UTC())
	if err != nil {
		return Entry{}, err
	}
	svc.Invalidate(ctx, availableKey(e.OrganizationID))
	return e, nil
}

// Release returns the organization's copy of creatureID to the pool.
// The creature is looked up in the catalog when the pool has no entry for it.
func (svc *Service) Release(ctx context.Context, orgID, creatureID, studentID string) (Entry, error) {
	return svc.release(ctx, orgID, creatureID, studentID, func(ctx context.Context) (catalog.Creature, error) {
		creatures, err := svc.catalog.ListCreatures(ctx)
		if err != nil {
			return catalog.Creature{}, errors.Wrap(ErrCatalogUnavailable, err.Error())
		}
		for _, c := range creatures {
			if c.ID == creatureID {
				return c, nil
			}
		}
		return catalog.Creature{}, errors.Wrapf(ErrNotFound, "creature %q is not in the catalog", creatureID)
	})
}

// ReleaseCreature is Release for callers that already know the creature's details.
func (svc *Service) ReleaseCreature(ctx context.Context, orgID string, c catalog.Creature, studentID string) (Entry, error) {
	return svc.release(ctx, orgID, c.ID, studentID, func(context.Context) (catalog.Creature, error) {
		return c, nil
	})
}

func (svc *Service) release(
	ctx context.Context,
	orgID, creatureID, studentID string,
	creature func(ctx context.Context) (catalog.Creature, error),
) (Entry, error) {
	var entry Entry
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := svc.orgs.Get(ctx, orgID); err != nil {
			if errors.Cause(err) == organization.ErrNotFound {
				return errors.Wrapf(ErrNotFound, "organization %q", orgID)
			}
			return err
		}

		e, err := svc.repo.ReleaseEntry(ctx, orgID, creatureID, studentID)
		switch errors.Cause(err) {
		case nil:
			entry = e
			return nil
		case ErrNotFound:
		default:
			return errors.Wrap(err, "releasing entry")
		}

		c, err := creature(ctx)
		if err != nil {
			return err
		}
		entry = newEntry(orgID, c)
		entry.ID = uuid.New().String()
		return errors.Wrap(svc.repo.CreateEntries(ctx, []Entry{entry}), "recreating entry")
	})
	if err != nil {
		return Entry{}, err
	}
	svc.Invalidate(ctx, availableKey(orgID))
	return entry, nil
}
