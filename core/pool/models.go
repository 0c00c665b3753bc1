package pool

import (
	"time"

	"github.com/Shakso89/pokeayman-16-sub001/core/catalog"
)

// Entry states
const (
	StateAvailable State = "available"
	StateClaimed   State = "claimed"
)

type State string

// Claim is set exactly when the Entry is claimed.
type Claim struct {
	StudentID string    `json:"student_id"`
	At        time.Time `json:"at"` // UTC
}

// Entry is one uniquely-instanced creature of an organization's pool.
// There is at most one Entry per (organization, creature).
type Entry struct {
	ID             string         `json:"id"`
	OrganizationID string         `json:"organization_id"`
	CreatureID     string         `json:"creature_id"`
	CreatureName   string         `json:"creature_name"`
	Rarity         catalog.Rarity `json:"rarity"`
	VisualRef      string         `json:"visual_ref"`
	State          State          `json:"state"`
	Claim          *Claim         `json:"claim,omitempty"`
}

func (e Entry) IsAvailable() bool {
	return e.State == StateAvailable
}

// ClaimedBy returns the holder's id or "".
func (e Entry) ClaimedBy() string {
	if e.Claim == nil {
		return ""
	}
	return e.Claim.StudentID
}

// Creature returns the catalog fields denormalized on the entry.
func (e Entry) Creature() catalog.Creature {
	return catalog.Creature{
		ID:        e.CreatureID,
		Name:      e.CreatureName,
		VisualRef: e.VisualRef,
		Rarity:    e.Rarity,
	}
}

func newEntry(orgID string, c catalog.Creature) Entry {
	return Entry{
		OrganizationID: orgID,
		CreatureID:     c.ID,
		CreatureName:   c.Name,
		Rarity:         c.Rarity,
		VisualRef:      c.VisualRef,
		State:          StateAvailable,
	}
}
