package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rinsrhq/console-backend/pkg/db/models"
	"github.com/rinsrhq/console-backend/pkg/enums"
	"github.com/rinsrhq/console-backend/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	// The model carries postgres column defaults, so the sqlite schema is
	// created by hand.
	ddl := `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  admin_id TEXT NOT NULL,
  hub_id TEXT,
  order_id TEXT,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  body TEXT NOT NULL,
  read_at DATETIME,
  created_at DATETIME
);`
	if err := conn.Exec(ddl).Error; err != nil {
		t.Fatalf("failed to create notifications table: %v", err)
	}
	return conn
}

func seedNotification(t *testing.T, db *gorm.DB, adminID uuid.UUID, notifType enums.NotificationType, createdAt time.Time, read bool) models.Notification {
	t.Helper()
	row := models.Notification{
		ID:        uuid.New(),
		AdminID:   adminID,
		Type:      notifType,
		Title:     "title",
		Body:      "body",
		CreatedAt: createdAt,
	}
	if read {
		readAt := createdAt.Add(time.Minute)
		row.ReadAt = &readAt
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed notification: %v", err)
	}
	return row
}

func TestRepositoryListPaginatesWithCursor(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	adminID := uuid.New()
	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		seedNotification(t, db, adminID, enums.NotificationTypeVendorOrderDispatched, base.Add(time.Duration(i)*time.Minute), false)
	}

	ctx := context.Background()
	first, cursor, err := repo.List(ctx, listNotificationsParams{AdminID: adminID, Limit: 3})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(first))
	}
	if cursor == nil {
		t.Fatal("expected a cursor for the next page")
	}
	if !first[0].CreatedAt.After(first[2].CreatedAt) {
		t.Fatal("rows must be ordered newest first")
	}

	second, next, err := repo.List(ctx, listNotificationsParams{AdminID: adminID, Limit: 3, Cursor: cursor})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("expected the remaining 2 rows, got %d", len(second))
	}
	if next != nil {
		t.Fatal("expected no cursor on the last page")
	}
	if second[0].CreatedAt.After(first[2].CreatedAt) {
		t.Fatal("pages must not overlap")
	}
}

func TestRepositoryListWalksAllPagesWithoutLoss(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	adminID := uuid.New()
	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	seeded := make(map[uuid.UUID]bool, 5)
	for i := 0; i < 5; i++ {
		row := seedNotification(t, db, adminID, enums.NotificationTypeVendorOrderDispatched, base.Add(time.Duration(i)*time.Minute), false)
		seeded[row.ID] = true
	}

	// Following the returned cursors must visit every row exactly once,
	// including the rows sitting on page boundaries.
	ctx := context.Background()
	seen := make(map[uuid.UUID]bool)
	var cursor *pagination.Cursor
	for pages := 0; ; pages++ {
		if pages > len(seeded) {
			t.Fatal("cursor never terminated")
		}
		rows, next, err := repo.List(ctx, listNotificationsParams{AdminID: adminID, Limit: 2, Cursor: cursor})
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		for _, row := range rows {
			if seen[row.ID] {
				t.Fatalf("row %s returned twice", row.ID)
			}
			seen[row.ID] = true
		}
		if next == nil {
			break
		}
		cursor = next
	}

	if len(seen) != len(seeded) {
		t.Fatalf("walk lost rows: saw %d of %d", len(seen), len(seeded))
	}
}

func TestRepositoryListScopesByAdmin(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	mine := uuid.New()
	other := uuid.New()
	seedNotification(t, db, mine, enums.NotificationTypeVendorOrderDispatched, base, false)
	seedNotification(t, db, other, enums.NotificationTypeVendorOrderDispatched, base, false)

	rows, _, err := repo.List(context.Background(), listNotificationsParams{AdminID: mine, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].AdminID != mine {
		t.Fatalf("expected only the admin's rows, got %d", len(rows))
	}
}

func TestRepositoryListUnreadActionableFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	adminID := uuid.New()
	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

	unreadDispatched := seedNotification(t, db, adminID, enums.NotificationTypeVendorOrderDispatched, base, false)
	seedNotification(t, db, adminID, enums.NotificationTypeVendorOrderDeclined, base.Add(time.Minute), true)
	seedNotification(t, db, adminID, enums.NotificationTypeSystemAnnouncement, base.Add(2*time.Minute), false)

	rows, err := repo.ListUnreadActionable(context.Background(), adminID)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != unreadDispatched.ID {
		t.Fatalf("expected only the unread actionable row, got %d", len(rows))
	}
}

func TestRepositoryMarkReadIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	adminID := uuid.New()
	row := seedNotification(t, db, adminID, enums.NotificationTypeVendorOrderDispatched, time.Now().UTC(), false)

	ctx := context.Background()
	now := time.Now().UTC()

	first, err := repo.MarkRead(ctx, adminID, row.ID, now)
	if err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if !first.Updated || !first.Found {
		t.Fatalf("expected the first mark to update, got %+v", first)
	}

	second, err := repo.MarkRead(ctx, adminID, row.ID, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("second mark: %v", err)
	}
	if second.Updated {
		t.Fatal("second mark must not update again")
	}
	if !second.Found {
		t.Fatal("already-read row must still report found")
	}

	var stored models.Notification
	if err := db.First(&stored, "id = ?", row.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.ReadAt == nil || !stored.ReadAt.Equal(now) {
		t.Fatal("read_at must keep the first mark's timestamp")
	}
}

func TestRepositoryMarkReadUnknownID(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	result, err := repo.MarkRead(context.Background(), uuid.New(), uuid.New(), time.Now().UTC())
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if result.Found || result.Updated {
		t.Fatalf("unknown id must be not found, got %+v", result)
	}
}

func TestRepositoryMarkAllRead(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	adminID := uuid.New()
	base := time.Now().UTC()

	seedNotification(t, db, adminID, enums.NotificationTypeVendorOrderDispatched, base, false)
	seedNotification(t, db, adminID, enums.NotificationTypeVendorOrderDeclined, base.Add(time.Second), false)
	seedNotification(t, db, adminID, enums.NotificationTypeVendorOrderDeclined, base.Add(2*time.Second), true)

	count, err := repo.MarkAllRead(context.Background(), adminID, time.Now().UTC())
	if err != nil {
		t.Fatalf("mark all: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows marked, got %d", count)
	}

	remaining, err := repo.ListUnreadActionable(context.Background(), adminID)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no unread rows, got %d", len(remaining))
	}
}
