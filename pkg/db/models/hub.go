package models

import (
	"time"

	"github.com/google/uuid"
)

// Hub is a physical processing location. Its id doubles as the realtime
// channel name admins join for live order events.
type Hub struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	City      string    `gorm:"type:text" json:"city"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"createdAt"`
}
