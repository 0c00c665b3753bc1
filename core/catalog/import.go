package catalog

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Import validates every creature read from src and writes them to dst.
func Import(ctx context.Context, dst Store, src Source, validate *validator.Validate) (int, error) {
	creatures, err := src.ListCreatures(ctx)
	if err != nil {
		return 0, err
	}
	if err = Check(creatures); err != nil {
		return 0, err
	}
	for _, c := range creatures {
		if err = validate.Struct(c); err != nil {
			return 0, errors.Wrapf(ErrInvalidCatalog, "creature %q: %v", c.ID, err)
		}
	}
	return dst.UpsertCreatures(ctx, creatures)
}
