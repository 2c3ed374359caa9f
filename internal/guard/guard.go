package guard

import (
	"context"

	"github.com/google/uuid"

	"github.com/rinsrhq/console-backend/pkg/enums"
)

// State is the route guard's decision for a path.
type State string

const (
	// StateLoading means the principal or permissions are not resolved yet;
	// callers should render nothing and wait.
	StateLoading State = "loading"
	// StateCommon means the path is always permitted once authenticated.
	StateCommon State = "common"
	// StateAuthorized means the principal may view the path.
	StateAuthorized State = "authorized"
	// StateUnauthorized means the principal may not view the path.
	StateUnauthorized State = "unauthorized"
)

// FallbackPath is where unauthorized navigations are redirected.
const FallbackPath = "/dashboard/overview"

// CommonPaths are permitted for any authenticated principal regardless of
// the role's allowed pages.
var CommonPaths = []string{
	"/dashboard/overview",
	"/dashboard/profile",
	"/dashboard/unauthorized",
}

// Principal carries the fields the guard needs from an authenticated admin.
type Principal struct {
	ID    uuid.UUID
	Role  enums.AdminRole
	HubID *uuid.UUID
}

// Decision is the guard's verdict for one path evaluation. RedirectTo is
// non-empty only when the caller should navigate away; an unauthorized
// decision with an empty RedirectTo means render nothing (the fallback
// itself was not authorized, so redirecting would loop).
type Decision struct {
	State      State  `json:"state"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

type accessChecker interface {
	CanAccess(ctx context.Context, role enums.AdminRole, path string) bool
}

// Guard evaluates path authorization against resolved permissions.
type Guard struct {
	checker accessChecker
}

// New builds a guard on top of a permission checker.
func New(checker accessChecker) *Guard {
	return &Guard{checker: checker}
}

// Evaluate decides whether the principal may view the path. `resolved`
// distinguishes "permissions still loading" from "principal absent":
// before resolution every path is Loading; after resolution a missing
// principal is Unauthorized with no redirect (the auth layer handles it).
func (g *Guard) Evaluate(ctx context.Context, principal *Principal, resolved bool, path string) Decision {
	if !resolved {
		return Decision{State: StateLoading}
	}
	if principal == nil {
		return Decision{State: StateUnauthorized}
	}
	if isCommonPath(path) {
		return Decision{State: StateCommon}
	}
	if g.checker != nil && g.checker.CanAccess(ctx, principal.Role, path) {
		return Decision{State: StateAuthorized}
	}

	// Redirect to the fallback only when the fallback itself is reachable,
	// otherwise the redirect would bounce forever.
	if isCommonPath(FallbackPath) || (g.checker != nil && g.checker.CanAccess(ctx, principal.Role, FallbackPath)) {
		return Decision{State: StateUnauthorized, RedirectTo: FallbackPath}
	}
	return Decision{State: StateUnauthorized}
}

func isCommonPath(path string) bool {
	for _, p := range CommonPaths {
		if path == p {
			return true
		}
	}
	return false
}
