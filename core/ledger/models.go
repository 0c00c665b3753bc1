package ledger

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Shakso89/pokeayman-16-sub001/core"
)

// Journal entry kinds
const (
	KindCredit Kind = "credit"
	KindDebit  Kind = "debit"
)

// Well-known reasons
const (
	ReasonDuplicate   = "duplicate-creature"
	ReasonSpin        = "wheel-spin"
	ReasonRefresh     = "wheel-refresh"
	ReasonEventReward = "event-reward"
	ReasonManual      = "manual"
)

type Kind string

// Account holds a student's monotonic counters.
type Account struct {
	StudentID string `json:"student_id" db:"student_id"`
	Earned    int64  `json:"earned" db:"earned"`
	Spent     int64  `json:"spent" db:"spent"`
}

// Balance is never negative.
func (a Account) Balance() int64 {
	return a.Earned - a.Spent
}

// Entry is an append-only journal line written with every credit and debit.
type Entry struct {
	ID           string    `json:"id" db:"id"`
	StudentID    string    `json:"student_id" db:"student_id"`
	Kind         Kind      `json:"kind" db:"kind"`
	Amount       int64     `json:"amount" db:"amount"`
	Reason       string    `json:"reason" db:"reason"`
	BalanceAfter int64     `json:"balance_after" db:"balance_after"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
}

// Transfer is a manual credit issued by staff.
type Transfer struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"max=200"`
}

func (t *Transfer) Validate(validate *validator.Validate) error {
	t.Reason = core.CleanString(t.Reason)
	if t.Reason == "" {
		t.Reason = ReasonManual
	}
	return validate.Struct(t)
}
