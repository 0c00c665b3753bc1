package inmemdb

import (
	"context"
	"sort"

	"github.com/Shakso89/pokeayman-16-sub001/core/catalog"
)

type catalogTable struct {
	db *DB
}

// NewCatalogTable returns the catalog stored alongside the pools.
func NewCatalogTable(db *DB) catalog.Store {
	return &catalogTable{db: db}
}

func (tbl *catalogTable) ListCreatures(ctx context.Context) ([]catalog.Creature, error) {
	creatures := make([]catalog.Creature, 0)
	err := tbl.db.do(ctx, func(s *state) error {
		for _, c := range s.creatures {
			creatures = append(creatures, c)
		}
		return nil
	})
	sort.Slice(creatures, func(i, j int) bool { return creatures[i].ID < creatures[j].ID })
	return creatures, err
}

func (tbl *catalogTable) UpsertCreatures(ctx context.Context, creatures []catalog.Creature) (int, error) {
	err := tbl.db.do(ctx, func(s *state) error {
		for _, c := range creatures {
			c.ElementTags = append([]string(nil), c.ElementTags...)
			s.creatures[c.ID] = c
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(creatures), nil
}
