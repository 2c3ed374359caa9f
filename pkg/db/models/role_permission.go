package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/rinsrhq/console-backend/pkg/enums"
)

// RolePermission stores the allowed page prefixes for a role. Permission
// sets are maintained per role, not per admin.
type RolePermission struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Role         enums.AdminRole `gorm:"type:text;not null;uniqueIndex" json:"role"`
	AllowedPages pq.StringArray  `gorm:"type:text[]" json:"allowedPages"`
	UpdatedAt    time.Time       `gorm:"type:timestamptz;default:now()" json:"updatedAt"`
}
