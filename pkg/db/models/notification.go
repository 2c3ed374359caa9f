package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rinsrhq/console-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to admins.
// OrderID correlates notifications that refer to the same vendor order;
// rows without one are displayed individually.
type Notification struct {
	ID        uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AdminID   uuid.UUID              `gorm:"type:uuid;not null;index" json:"adminId"`
	HubID     *uuid.UUID             `gorm:"type:uuid" json:"hubId,omitempty"`
	OrderID   *uuid.UUID             `gorm:"type:uuid" json:"orderId,omitempty"`
	Type      enums.NotificationType `gorm:"type:text;not null" json:"type"`
	Title     string                 `gorm:"type:text;not null" json:"title"`
	Body      string                 `gorm:"type:text;not null" json:"body"`
	ReadAt    *time.Time             `gorm:"type:timestamptz" json:"readAt,omitempty"`
	CreatedAt time.Time              `gorm:"type:timestamptz;default:now()" json:"createdAt"`
}

// Unread reports whether the notification has not been acknowledged yet.
func (n Notification) Unread() bool {
	return n.ReadAt == nil
}
