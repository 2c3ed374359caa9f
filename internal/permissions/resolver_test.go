package permissions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rinsrhq/console-backend/pkg/db/models"
	"github.com/rinsrhq/console-backend/pkg/enums"
)

type fakePermissionsRepo struct {
	pages map[enums.AdminRole][]string
	err   error
	calls int
}

func (f *fakePermissionsRepo) GetByRole(ctx context.Context, role enums.AdminRole) (*models.RolePermission, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	pages, ok := f.pages[role]
	if !ok {
		return nil, errors.New("record not found")
	}
	return &models.RolePermission{Role: role, AllowedPages: pages}, nil
}

func TestResolverFailsClosedOnFetchError(t *testing.T) {
	repo := &fakePermissionsRepo{err: errors.New("db down")}
	resolver := NewResolver(repo, time.Minute, nil)

	paths := []string{"/dashboard", "/dashboard/orders", "/dashboard/overview"}
	for _, path := range paths {
		if resolver.CanAccess(context.Background(), enums.AdminRoleAdmin, path) {
			t.Fatalf("expected fetch failure to deny %s", path)
		}
	}
}

func TestResolverDoesNotCacheFailures(t *testing.T) {
	repo := &fakePermissionsRepo{err: errors.New("db down")}
	resolver := NewResolver(repo, time.Minute, nil)

	resolver.AllowedPages(context.Background(), enums.AdminRoleAdmin)
	resolver.AllowedPages(context.Background(), enums.AdminRoleAdmin)

	if repo.calls != 2 {
		t.Fatalf("expected each failed lookup to retry, got %d calls", repo.calls)
	}
}

func TestResolverCachesWithinTTL(t *testing.T) {
	repo := &fakePermissionsRepo{pages: map[enums.AdminRole][]string{
		enums.AdminRoleAdmin: {"/dashboard/orders"},
	}}
	resolver := NewResolver(repo, time.Minute, nil)

	resolver.AllowedPages(context.Background(), enums.AdminRoleAdmin)
	pages := resolver.AllowedPages(context.Background(), enums.AdminRoleAdmin)

	if repo.calls != 1 {
		t.Fatalf("expected a single fetch, got %d", repo.calls)
	}
	if len(pages) != 1 || pages[0] != "/dashboard/orders" {
		t.Fatalf("unexpected pages %v", pages)
	}
}

func TestResolverSuperuserSkipsStorage(t *testing.T) {
	repo := &fakePermissionsRepo{}
	resolver := NewResolver(repo, time.Minute, nil)

	pages := resolver.AllowedPages(context.Background(), enums.AdminRoleSuperAdmin)
	if len(pages) != 1 || pages[0] != AllPagesSentinel {
		t.Fatalf("expected sentinel for superuser, got %v", pages)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no repo calls for superuser, got %d", repo.calls)
	}
	if !resolver.CanAccess(context.Background(), enums.AdminRoleSuperAdmin, "/never/seen") {
		t.Fatal("expected superuser bypass")
	}
}

func TestResolverRefreshRefetches(t *testing.T) {
	repo := &fakePermissionsRepo{pages: map[enums.AdminRole][]string{
		enums.AdminRoleHubUser: {"/dashboard/hubs"},
	}}
	resolver := NewResolver(repo, time.Hour, nil)

	resolver.AllowedPages(context.Background(), enums.AdminRoleHubUser)
	repo.pages[enums.AdminRoleHubUser] = []string{"/dashboard/hubs", "/dashboard/orders"}

	pages := resolver.Refresh(context.Background(), enums.AdminRoleHubUser)
	if len(pages) != 2 {
		t.Fatalf("expected refreshed pages, got %v", pages)
	}
	if repo.calls != 2 {
		t.Fatalf("expected refresh to hit storage again, got %d calls", repo.calls)
	}
}
