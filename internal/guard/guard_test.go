package guard

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/rinsrhq/console-backend/pkg/enums"
)

type fakeChecker struct {
	allowed map[string]bool
}

func (f *fakeChecker) CanAccess(ctx context.Context, role enums.AdminRole, path string) bool {
	if role.IsSuper() {
		return true
	}
	return f.allowed[path]
}

func principal(role enums.AdminRole) *Principal {
	return &Principal{ID: uuid.New(), Role: role}
}

func TestEvaluateLoadingBeforeResolution(t *testing.T) {
	g := New(&fakeChecker{})
	decision := g.Evaluate(context.Background(), principal(enums.AdminRoleAdmin), false, "/dashboard/orders")
	if decision.State != StateLoading {
		t.Fatalf("expected loading, got %s", decision.State)
	}
}

func TestEvaluateAbsentPrincipal(t *testing.T) {
	g := New(&fakeChecker{})
	decision := g.Evaluate(context.Background(), nil, true, "/dashboard/orders")
	if decision.State != StateUnauthorized {
		t.Fatalf("expected unauthorized, got %s", decision.State)
	}
	if decision.RedirectTo != "" {
		t.Fatalf("absent principal must not redirect, got %q", decision.RedirectTo)
	}
}

func TestEvaluateCommonPaths(t *testing.T) {
	g := New(&fakeChecker{})
	for _, path := range CommonPaths {
		decision := g.Evaluate(context.Background(), principal(enums.AdminRoleHubUser), true, path)
		if decision.State != StateCommon {
			t.Fatalf("expected common for %s, got %s", path, decision.State)
		}
	}
}

func TestEvaluateAuthorized(t *testing.T) {
	g := New(&fakeChecker{allowed: map[string]bool{"/dashboard/orders": true}})
	decision := g.Evaluate(context.Background(), principal(enums.AdminRoleAdmin), true, "/dashboard/orders")
	if decision.State != StateAuthorized {
		t.Fatalf("expected authorized, got %s", decision.State)
	}
}

func TestEvaluateUnauthorizedRedirectsToFallback(t *testing.T) {
	g := New(&fakeChecker{})
	decision := g.Evaluate(context.Background(), principal(enums.AdminRoleVendorUser), true, "/dashboard/payments")
	if decision.State != StateUnauthorized {
		t.Fatalf("expected unauthorized, got %s", decision.State)
	}
	if decision.RedirectTo != FallbackPath {
		t.Fatalf("expected redirect to %s, got %q", FallbackPath, decision.RedirectTo)
	}
}

func TestEvaluateSuperuserAlwaysAuthorized(t *testing.T) {
	g := New(&fakeChecker{})
	decision := g.Evaluate(context.Background(), principal(enums.AdminRoleSuperAdmin), true, "/never/configured")
	if decision.State != StateAuthorized {
		t.Fatalf("expected authorized, got %s", decision.State)
	}
}
