package assignment

import (
	"time"

	"github.com/Shakso89/pokeayman-16-sub001/core/catalog"
)

// Outcomes
const (
	OutcomeNewCreature Outcome = "new_creature"
	OutcomeDuplicate   Outcome = "duplicate"
)

type Outcome string

// OwnershipRecord says a student holds a creature. A student holds a given creature name at most once.
type OwnershipRecord struct {
	ID             string         `json:"id" db:"id"`
	StudentID      string         `json:"student_id" db:"student_id"`
	OrganizationID string         `json:"organization_id" db:"organization_id"`
	CreatureID     string         `json:"creature_id" db:"creature_id"`
	CreatureName   string         `json:"creature_name" db:"creature_name"`
	Rarity         catalog.Rarity `json:"rarity" db:"rarity"`
	VisualRef      string         `json:"visual_ref" db:"visual_ref"`
	AcquiredAt     time.Time      `json:"acquired_at" db:"acquired_at"` // UTC
}

func (r OwnershipRecord) Creature() catalog.Creature {
	return catalog.Creature{
		ID:        r.CreatureID,
		Name:      r.CreatureName,
		VisualRef: r.VisualRef,
		Rarity:    r.Rarity,
	}
}

// Result of an assignment. Record is set for new creatures, CoinsGranted for duplicates.
type Result struct {
	Outcome      Outcome          `json:"outcome"`
	Creature     catalog.Creature `json:"creature"`
	Record       *OwnershipRecord `json:"record,omitempty"`
	CoinsGranted int64            `json:"coins_granted,omitempty"`
}
