// Package boiledrepos reads and writes the creature catalog table with sqlboiler raw queries.
package boiledrepos

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/types"
	"github.com/volatiletech/strmangle"

	"github.com/Shakso89/pokeayman-16-sub001/core/catalog"
	"github.com/Shakso89/pokeayman-16-sub001/storage/database"
)

var creatureColumns = []string{"id", "name", "visual_ref", "element_tags", "rarity"}

type creatureRow struct {
	ID          string            `boil:"id"`
	Name        string            `boil:"name"`
	VisualRef   null.String       `boil:"visual_ref"`
	ElementTags types.StringArray `boil:"element_tags"`
	Rarity      string            `boil:"rarity"`
}

func (row creatureRow) creature() catalog.Creature {
	return catalog.Creature{
		ID:          row.ID,
		Name:        row.Name,
		VisualRef:   row.VisualRef.String,
		ElementTags: append([]string{}, row.ElementTags...),
		Rarity:      catalog.Rarity(row.Rarity),
	}
}

type catalogTable struct {
	db *database.DB
}

var _ catalog.Store = (*catalogTable)(nil)

// NewCatalogTable returns the catalog kept in the creatures table.
func NewCatalogTable(db *database.DB) catalog.Store {
	return &catalogTable{db: db}
}

func (tbl *catalogTable) ListCreatures(ctx context.Context) ([]catalog.Creature, error) {
	var rows []creatureRow
	q := queries.Raw(`SELECT ` + strings.Join(creatureColumns, ", ") + ` FROM creatures ORDER BY id`)
	if err := q.Bind(ctx, tbl.db.Executor(ctx), &rows); err != nil {
		return nil, errors.Wrap(err, "selecting creatures")
	}
	creatures := make([]catalog.Creature, 0, len(rows))
	for _, row := range rows {
		creatures = append(creatures, row.creature())
	}
	return creatures, nil
}

// UpsertCreatures writes creatures in a single statement.
func (tbl *catalogTable) UpsertCreatures(ctx context.Context, creatures []catalog.Creature) (int, error) {
	if len(creatures) == 0 {
		return 0, nil
	}

	n := len(creatureColumns)
	args := make([]interface{}, 0, len(creatures)*n)
	for _, c := range creatures {
		tags := types.StringArray(c.ElementTags)
		if tags == nil {
			tags = types.StringArray{}
		}
		args = append(args, c.ID, c.Name, null.NewString(c.VisualRef, c.VisualRef != ""), tags, string(c.Rarity))
	}

	q := `INSERT INTO creatures (` + strings.Join(creatureColumns, ", ") + `) VALUES ` +
		strmangle.Placeholders(true, len(args), 1, n) + `
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			visual_ref = EXCLUDED.visual_ref,
			element_tags = EXCLUDED.element_tags,
			rarity = EXCLUDED.rarity`
	res, err := queries.Raw(q, args...).ExecContext(ctx, tbl.db.Executor(ctx))
	if err != nil {
		return 0, errors.Wrap(err, "upserting creatures")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "upserting creatures")
	}
	return int(affected), nil
}
