package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Event is one row of the generation history log: every entity an engine
// produces through the HTTP surface is recorded here.
type Event struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID  string         `gorm:"index:idx_event_client_created" json:"client_id,omitempty"`
	Kind      string         `gorm:"not null;index" json:"kind"`
	Title     string         `json:"title,omitempty"`
	Data      datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index:idx_event_client_created,sort:desc" json:"created_at"`
}

func (Event) TableName() string { return "events" }
