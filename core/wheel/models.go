package wheel

import (
	"time"

	"github.com/Shakso89/pokeayman-16-sub001/core/assignment"
	"github.com/Shakso89/pokeayman-16-sub001/core/catalog"
	"github.com/Shakso89/pokeayman-16-sub001/core/pool"
)

// Spin outcomes
const (
	OutcomeNewCreature   = Outcome(assignment.OutcomeNewCreature)
	OutcomeDuplicate     = Outcome(assignment.OutcomeDuplicate)
	OutcomeNoneAvailable = Outcome("none_available")
)

type Outcome string

// State is the student's persisted wheel. It only caches entry ids; the pool stays the source of truth.
type State struct {
	OrganizationID string     `json:"organization_id"`
	StudentID      string     `json:"student_id"`
	VisibleEntries []string   `json:"visible_entries"`
	LastRefreshAt  *time.Time `json:"last_refresh_at,omitempty"` // UTC
}

func (st *State) remove(entryID string) {
	kept := st.VisibleEntries[:0]
	for _, id := range st.VisibleEntries {
		if id != entryID {
			kept = append(kept, id)
		}
	}
	st.VisibleEntries = kept
}

// View is what a student sees of the wheel.
type View struct {
	OrganizationID  string       `json:"organization_id"`
	StudentID       string       `json:"student_id"`
	Entries         []pool.Entry `json:"entries"`
	LastRefreshAt   *time.Time   `json:"last_refresh_at,omitempty"`
	CanRefreshToday bool         `json:"can_refresh_today"`
	Balance         int64        `json:"balance"`
}

type SpinResult struct {
	Outcome      Outcome           `json:"outcome"`
	Creature     *catalog.Creature `json:"creature,omitempty"`
	CoinsGranted int64             `json:"coins_granted,omitempty"`
	Balance      int64             `json:"balance"`
	Entries      []pool.Entry      `json:"entries"`
}
