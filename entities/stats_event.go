package entities

import (
	"time"

	"github.com/google/uuid"
)

// StatsEvent is append-only; Kind is one of login, interaction, scan.
type StatsEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Kind       string    `gorm:"index" json:"kind"`
	OccurredAt time.Time `gorm:"type:timestamp;index" json:"occurred_at"`
}
