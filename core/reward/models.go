package reward

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Shakso89/pokeayman-16-sub001/core"
)

// Resolution records that an event's winner has been paid.
type Resolution struct {
	EventID      string    `json:"event_id" db:"event_id"`
	WinnerID     string    `json:"winner_id" db:"winner_id"`
	Base         int64     `json:"base" db:"base"`
	Participants int64     `json:"participants" db:"participants"`
	Total        int64     `json:"total" db:"total"`
	ResolvedAt   time.Time `json:"resolved_at" db:"resolved_at"` // UTC
}

// WinnerReward contains information needed to pay an event's winner.
type WinnerReward struct {
	EventID      string `json:"event_id" validate:"required,max=64"`
	WinnerID     string `json:"winner_id" validate:"required,max=64"`
	Base         int64  `json:"base" validate:"gte=0"`
	Participants int64  `json:"participants" validate:"gte=0"`
}

func (wr *WinnerReward) Validate(validate *validator.Validate) error {
	wr.EventID = core.CleanString(wr.EventID)
	wr.WinnerID = core.CleanString(wr.WinnerID)
	return validate.Struct(wr)
}
