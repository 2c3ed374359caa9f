package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rinsrhq/console-backend/pkg/config"
	"github.com/rinsrhq/console-backend/pkg/db/models"
	"github.com/rinsrhq/console-backend/pkg/enums"
	pkgerrors "github.com/rinsrhq/console-backend/pkg/errors"
	"github.com/rinsrhq/console-backend/pkg/pagination"
	"github.com/rinsrhq/console-backend/pkg/security"
)

const tempPasswordLength = 16

// Service defines admin management operations.
type Service interface {
	Create(ctx context.Context, req CreateAdminRequest) (*CreateAdminResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*AdminDTO, error)
	List(ctx context.Context, limit int, cursor string, hubID *uuid.UUID) (*ListAdminsResult, error)
	UpdateAllowedPages(ctx context.Context, id uuid.UUID, pages []string) (*AdminDTO, error)
}

type service struct {
	repo        Repository
	passwordCfg config.PasswordConfig
}

// NewService constructs the admin management service.
func NewService(repo Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("admins repository is required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

// Create provisions an admin with a generated temp password. The caller is
// expected to hand the password over out of band; it is not stored in clear.
func (s *service) Create(ctx context.Context, req CreateAdminRequest) (*CreateAdminResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
	}

	admin, tempPassword, err := s.buildAdmin(req, email)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create admin")
	}

	return &CreateAdminResponse{
		Admin:        FromModel(admin),
		TempPassword: tempPassword,
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*AdminDTO, error) {
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
	}
	return FromModel(admin), nil
}

func (s *service) List(ctx context.Context, limit int, cursor string, hubID *uuid.UUID) (*ListAdminsResult, error) {
	params := listAdminsParams{Limit: limit, HubID: hubID}
	if cursor != "" {
		parsed, err := pagination.ParseCursor(cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		params.Cursor = parsed
	}

	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list admins")
	}

	items := make([]AdminDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}

	result := &ListAdminsResult{Items: items}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) UpdateAllowedPages(ctx context.Context, id uuid.UUID, pages []string) (*AdminDTO, error) {
	cleaned := normalizePages(pages)
	if err := s.repo.UpdateAllowedPages(ctx, id, cleaned); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update allowed pages")
	}
	return s.Get(ctx, id)
}

func (s *service) buildAdmin(req CreateAdminRequest, email string) (*models.Admin, string, error) {
	role, err := enums.ParseAdminRole(req.Role)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
	}

	var hubID *uuid.UUID
	if req.HubID != nil && strings.TrimSpace(*req.HubID) != "" {
		parsed, err := uuid.Parse(*req.HubID)
		if err != nil {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid hub id")
		}
		hubID = &parsed
	}

	tempPassword, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
	}
	hash, err := security.HashPassword(tempPassword, s.passwordCfg)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	return &models.Admin{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		AllowedPages: normalizePages(req.AllowedPages),
		HubID:        hubID,
	}, tempPassword, nil
}

// normalizePages trims entries and drops blanks while preserving order.
func normalizePages(pages []string) []string {
	cleaned := make([]string, 0, len(pages))
	for _, page := range pages {
		trimmed := strings.TrimSpace(page)
		if trimmed == "" {
			continue
		}
		cleaned = append(cleaned, trimmed)
	}
	return cleaned
}
