package organization

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Shakso89/pokeayman-16-sub001/core"
)

type Organization struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

// NewOrganization contains information needed to register an Organization.
type NewOrganization struct {
	ID   string `json:"id" validate:"omitempty,max=64,slug"`
	Name string `json:"name" validate:"required,max=200"`
}

func (no *NewOrganization) Validate(validate *validator.Validate) error {
	no.ID = core.CleanString(no.ID)
	no.Name = core.CleanString(no.Name)
	return validate.Struct(no)
}
