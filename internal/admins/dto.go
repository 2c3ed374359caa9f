package admins

import (
	"time"

	"github.com/google/uuid"

	"github.com/rinsrhq/console-backend/pkg/db/models"
	"github.com/rinsrhq/console-backend/pkg/enums"
)

// AdminDTO is the admin shape returned by the API. The password hash never
// leaves the service layer.
type AdminDTO struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Role         enums.AdminRole `json:"role"`
	AllowedPages []string        `json:"allowedPages"`
	HubID        *uuid.UUID      `json:"hubId,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// FromModel converts a stored admin into its API shape.
func FromModel(admin *models.Admin) *AdminDTO {
	if admin == nil {
		return nil
	}
	pages := make([]string, len(admin.AllowedPages))
	copy(pages, admin.AllowedPages)
	return &AdminDTO{
		ID:           admin.ID,
		Name:         admin.Name,
		Email:        admin.Email,
		Role:         admin.Role,
		AllowedPages: pages,
		HubID:        admin.HubID,
		CreatedAt:    admin.CreatedAt,
	}
}

// CreateAdminRequest captures the payload for provisioning a console admin.
type CreateAdminRequest struct {
	Name         string   `json:"name" validate:"required"`
	Email        string   `json:"email" validate:"required,email"`
	Role         string   `json:"role" validate:"required,oneof=super_admin admin vendor_user hub_user"`
	AllowedPages []string `json:"allowedPages"`
	HubID        *string  `json:"hubId"`
}

// CreateAdminResponse returns the created admin and the one-time password.
// The temp password is shown exactly once.
type CreateAdminResponse struct {
	Admin        *AdminDTO `json:"admin"`
	TempPassword string    `json:"tempPassword"`
}

// UpdateAllowedPagesRequest replaces an admin's page allow-list.
type UpdateAllowedPagesRequest struct {
	AllowedPages []string `json:"allowedPages" validate:"required"`
}

// ListAdminsResult wraps a page of admins and the cursor for the next one.
type ListAdminsResult struct {
	Items  []AdminDTO `json:"items"`
	Cursor string     `json:"cursor"`
}
