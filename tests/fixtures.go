package testutil

import "github.com/Shakso89/pokeayman-16-sub001/core/catalog"

var (
	Pikachu = catalog.Creature{
		ID:          "pikachu",
		Name:        "Pikachu",
		VisualRef:   "sprites/pikachu.png",
		ElementTags: []string{"electric"},
		Rarity:      catalog.RarityUncommon,
	}
	Mewtwo = catalog.Creature{
		ID:          "mewtwo",
		Name:        "Mewtwo",
		VisualRef:   "sprites/mewtwo.png",
		ElementTags: []string{"psychic"},
		Rarity:      catalog.RarityLegendary,
	}
	Rattata = catalog.Creature{
		ID:          "rattata",
		Name:        "Rattata",
		VisualRef:   "sprites/rattata.png",
		ElementTags: []string{"normal"},
		Rarity:      catalog.RarityCommon,
	}
)
