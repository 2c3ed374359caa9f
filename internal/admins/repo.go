package admins

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/rinsrhq/console-backend/pkg/db/models"
	"github.com/rinsrhq/console-backend/pkg/pagination"
)

// Repository exposes persistence helpers for console admins.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, admin *models.Admin) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	List(ctx context.Context, params listAdminsParams) ([]models.Admin, *pagination.Cursor, error)
	ListByHub(ctx context.Context, hubID uuid.UUID) ([]models.Admin, error)
	UpdateAllowedPages(ctx context.Context, id uuid.UUID, pages []string) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an admins repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listAdminsParams struct {
	Limit  int
	Cursor *pagination.Cursor
	HubID  *uuid.UUID
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, admin *models.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *repositoryImpl) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *repositoryImpl) List(ctx context.Context, params listAdminsParams) ([]models.Admin, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Admin{})
	if params.HubID != nil {
		query = query.Where("hub_id = ?", *params.HubID)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var admins []models.Admin
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&admins).Error; err != nil {
		return nil, nil, err
	}

	if len(admins) > normalized {
		admins = admins[:normalized]
		last := admins[normalized-1]
		return admins, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return admins, nil, nil
}

func (r *repositoryImpl) ListByHub(ctx context.Context, hubID uuid.UUID) ([]models.Admin, error) {
	var admins []models.Admin
	err := r.db.WithContext(ctx).
		Where("hub_id = ?", hubID).
		Order("created_at ASC").
		Find(&admins).Error
	if err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *repositoryImpl) UpdateAllowedPages(ctx context.Context, id uuid.UUID, pages []string) error {
	return r.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"allowed_pages": pq.StringArray(pages),
			"updated_at":    time.Now().UTC(),
		}).Error
}
