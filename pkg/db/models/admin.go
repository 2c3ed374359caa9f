package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/rinsrhq/console-backend/pkg/enums"
)

// Admin is a console principal. AllowedPages holds URL path prefixes the
// admin may open; the single entry "*" grants everything, as does the
// super_admin role.
type Admin struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string          `gorm:"type:text;not null" json:"name"`
	Email        string          `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string          `gorm:"type:text;not null" json:"-"`
	Role         enums.AdminRole `gorm:"type:text;not null" json:"role"`
	AllowedPages pq.StringArray  `gorm:"type:text[]" json:"allowedPages"`
	HubID        *uuid.UUID      `gorm:"type:uuid" json:"hubId,omitempty"`
	CreatedAt    time.Time       `gorm:"type:timestamptz;default:now()" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"type:timestamptz;default:now()" json:"updatedAt"`
}
