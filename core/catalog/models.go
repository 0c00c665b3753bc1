package catalog

import (
	"context"

	"github.com/pkg/errors"
)

// Rarity tiers
const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

var (
	Rarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityLegendary}

	coinValues = map[Rarity]int64{
		RarityLegendary: 50,
		RarityRare:      20,
		RarityUncommon:  10,
		RarityCommon:    5,
	}

	ErrInvalidCatalog = errors.New("invalid catalog")
)

type Rarity string

func (r Rarity) IsValid() bool {
	_, ok := coinValues[r]
	return ok
}

// CoinValue is what a duplicate of this rarity converts to.
// Unknown tiers count as common.
func (r Rarity) CoinValue() int64 {
	if v, ok := coinValues[r]; ok {
		return v
	}
	return coinValues[RarityCommon]
}

// Creature is an immutable catalog definition.
type Creature struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	VisualRef   string   `json:"visual_ref"`
	ElementTags []string `json:"element_tags"`
	Rarity      Rarity   `json:"rarity" validate:"required,rarity"`
}

// Source is the read-only catalog collaborator.
type Source interface {
	ListCreatures(ctx context.Context) ([]Creature, error)
}

// Check rejects catalogs with blank or repeated ids and names.
func Check(creatures []Creature) error {
	ids := make(map[string]struct{}, len(creatures))
	names := make(map[string]struct{}, len(creatures))
	for _, c := range creatures {
		if c.ID == "" || c.Name == "" {
			return errors.Wrap(ErrInvalidCatalog, "creature without id or name")
		}
		if _, dup := ids[c.ID]; dup {
			return errors.Wrapf(ErrInvalidCatalog, "duplicate id %q", c.ID)
		}
		if _, dup := names[c.Name]; dup {
			return errors.Wrapf(ErrInvalidCatalog, "duplicate name %q", c.Name)
		}
		ids[c.ID] = struct{}{}
		names[c.Name] = struct{}{}
	}
	return nil
}

// Store is a catalog kept in the database.
type Store interface {
	Source
	// UpsertCreatures inserts or replaces creatures by id and returns how many were written.
	UpsertCreatures(ctx context.Context, creatures []Creature) (int, error)
}
