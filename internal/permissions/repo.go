package permissions

import (
	"context"

	"gorm.io/gorm"

	"github.com/rinsrhq/console-backend/pkg/db/models"
	"github.com/rinsrhq/console-backend/pkg/enums"
)

// Repository exposes persistence helpers for role permission sets.
type Repository interface {
	GetByRole(ctx context.Context, role enums.AdminRole) (*models.RolePermission, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a role permission repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetByRole(ctx context.Context, role enums.AdminRole) (*models.RolePermission, error) {
	var row models.RolePermission
	if err := r.db.WithContext(ctx).Where("role = ?", role).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
