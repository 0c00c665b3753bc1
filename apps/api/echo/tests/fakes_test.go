package tests

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core/catalog"
)

var bg = context.Background()

type brokenSource struct{}

func (brokenSource) ListCreatures(context.Context) ([]catalog.Creature, error) {
	return nil, errors.New("catalog service is down")
}
