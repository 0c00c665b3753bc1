package catalog

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Shakso89/pokeayman-16-sub001/core"
)

var (
	rarityTag  = "rarity"
	rarityText = "must be one of common, uncommon, rare or legendary"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(rarityTag, rarityValidation)
	core.RegisterCustomTranslation(validate, translator, rarityTag, rarityText)
}

func rarityValidation(fl validator.FieldLevel) bool {
	return Rarity(fl.Field().String()).IsValid()
}
