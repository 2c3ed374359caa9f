package notifications

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/rinsrhq/console-backend/pkg/db/models"
	pkgerrors "github.com/rinsrhq/console-backend/pkg/errors"
	"github.com/rinsrhq/console-backend/pkg/logger"
	"github.com/rinsrhq/console-backend/pkg/metrics"
	"github.com/rinsrhq/console-backend/pkg/pagination"
)

// Service defines notification list/group/read operations.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	UnreadGroups(ctx context.Context, adminID uuid.UUID) ([]Group, error)
	MarkRead(ctx context.Context, adminID, notificationID uuid.UUID) error
	MarkGroupRead(ctx context.Context, adminID uuid.UUID, ids []uuid.UUID) (MarkGroupResult, error)
	MarkAllRead(ctx context.Context, adminID uuid.UUID) (int64, error)
}

type service struct {
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.RealtimeMetrics
}

// ListParams configures pagination for notifications.
type ListParams struct {
	AdminID    uuid.UUID
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

// Group is a derived view of unread actionable notifications sharing an
// order id. Order-less notifications each form their own group keyed by
// the notification id. Groups are recomputed on every call, never mutated.
type Group struct {
	Key      string                `json:"key"`
	OrderID  *uuid.UUID            `json:"orderId,omitempty"`
	Items    []models.Notification `json:"items"`
	LatestAt time.Time             `json:"latestAt"`
}

// MarkGroupResult reports how a concurrent mark-read batch settled.
type MarkGroupResult struct {
	Requested int         `json:"requested"`
	Marked    int         `json:"marked"`
	MarkedIDs []uuid.UUID `json:"markedIds"`
}

// NewService wires notifications dependencies.
func NewService(repo Repository, logg *logger.Logger, m *metrics.RealtimeMetrics) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo, logg: logg, metrics: m}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin id required")
	}

	query := listNotificationsParams{
		AdminID:    params.AdminID,
		Limit:      pagination.LimitWithBuffer(params.Limit),
		UnreadOnly: params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{
		Items:  rows,
		Cursor: cursor,
	}, nil
}

// UnreadGroups partitions the admin's unread actionable notifications by
// order id and sorts groups by their newest member, descending.
func (s *service) UnreadGroups(ctx context.Context, adminID uuid.UUID) ([]Group, error) {
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin id required")
	}

	rows, err := s.repo.ListUnreadActionable(ctx, adminID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list unread notifications")
	}

	return GroupNotifications(rows), nil
}

// GroupNotifications builds the derived group view from a notification
// slice. Exposed as a pure function so the grouping rules are testable
// without storage.
func GroupNotifications(rows []models.Notification) []Group {
	byKey := map[string]*Group{}
	order := []string{}

	for _, row := range rows {
		key := row.ID.String()
		var orderID *uuid.UUID
		if row.OrderID != nil {
			key = row.OrderID.String()
			id := *row.OrderID
			orderID = &id
		}

		group, ok := byKey[key]
		if !ok {
			group = &Group{Key: key, OrderID: orderID}
			byKey[key] = group
			order = append(order, key)
		}
		group.Items = append(group.Items, row)
		if row.CreatedAt.After(group.LatestAt) {
			group.LatestAt = row.CreatedAt
		}
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, *byKey[key])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].LatestAt.After(groups[j].LatestAt)
	})
	return groups
}

func (s *service) MarkRead(ctx context.Context, adminID, notificationID uuid.UUID) error {
	if adminID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "admin id required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, adminID, notificationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

// MarkGroupRead issues one mutation per id with all requests in flight at
// once, waits for every one to settle, and reports the ids that succeeded.
// The batch is not atomic: a failed id stays unread and is surfaced through
// the aggregated error while the rest are still removed.
func (s *service) MarkGroupRead(ctx context.Context, adminID uuid.UUID, ids []uuid.UUID) (MarkGroupResult, error) {
	if adminID == uuid.Nil {
		return MarkGroupResult{}, pkgerrors.New(pkgerrors.CodeValidation, "admin id required")
	}
	if len(ids) == 0 {
		return MarkGroupResult{}, pkgerrors.New(pkgerrors.CodeValidation, "notification ids required")
	}

	start := time.Now()
	now := time.Now().UTC()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		marked []uuid.UUID
		errs   error
	)

	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			result, err := s.repo.MarkRead(ctx, adminID, id, now)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierr.Append(errs, err)
				return
			}
			if result.Found {
				marked = append(marked, id)
			}
		}(id)
	}
	wg.Wait()

	outcome := "success"
	if errs != nil {
		outcome = "partial"
		if s.logg != nil {
			fields := map[string]any{"requested": len(ids), "marked": len(marked)}
			s.logg.Error(s.logg.WithFields(ctx, fields), "notifications.mark_group_partial", errs)
		}
	}
	s.metrics.ObserveMarkReadBatch(outcome, time.Since(start))

	return MarkGroupResult{
		Requested: len(ids),
		Marked:    len(marked),
		MarkedIDs: marked,
	}, errs
}

func (s *service) MarkAllRead(ctx context.Context, adminID uuid.UUID) (int64, error) {
	if adminID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "admin id required")
	}

	count, err := s.repo.MarkAllRead(ctx, adminID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}
