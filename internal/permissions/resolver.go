package permissions

import (
	"context"
	"sync"
	"time"

	"github.com/rinsrhq/console-backend/pkg/enums"
	"github.com/rinsrhq/console-backend/pkg/logger"
)

// Resolver caches per-role allowed page prefixes and answers access checks.
// A fetch failure always degrades to the empty set: network or database
// trouble must never widen access.
type Resolver struct {
	repo Repository
	logg *logger.Logger
	ttl  time.Duration

	mu    sync.RWMutex
	cache map[enums.AdminRole]cacheEntry
}

type cacheEntry struct {
	pages     []string
	fetchedAt time.Time
}

// NewResolver builds a resolver with the provided cache TTL. A zero TTL
// disables caching and fetches on every lookup.
func NewResolver(repo Repository, ttl time.Duration, logg *logger.Logger) *Resolver {
	return &Resolver{
		repo:  repo,
		logg:  logg,
		ttl:   ttl,
		cache: make(map[enums.AdminRole]cacheEntry),
	}
}

// AllowedPages returns the allowed prefixes for the role. Superuser roles
// short-circuit to the sentinel without touching storage. Failures return
// the empty set and are not cached, so the next lookup retries.
func (r *Resolver) AllowedPages(ctx context.Context, role enums.AdminRole) []string {
	if role.IsSuper() {
		return []string{AllPagesSentinel}
	}
	if !role.IsValid() {
		return nil
	}

	if pages, ok := r.cached(role); ok {
		return pages
	}

	return r.fetch(ctx, role)
}

// CanAccess resolves the role's allowed pages and applies the prefix matcher.
func (r *Resolver) CanAccess(ctx context.Context, role enums.AdminRole, path string) bool {
	return CanAccess(role, r.AllowedPages(ctx, role), path)
}

// Refresh drops the cached entry for the role and fetches a fresh set.
func (r *Resolver) Refresh(ctx context.Context, role enums.AdminRole) []string {
	if role.IsSuper() {
		return []string{AllPagesSentinel}
	}

	r.mu.Lock()
	delete(r.cache, role)
	r.mu.Unlock()

	return r.fetch(ctx, role)
}

func (r *Resolver) cached(role enums.AdminRole) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[role]
	if !ok {
		return nil, false
	}
	if r.ttl > 0 && time.Since(entry.fetchedAt) > r.ttl {
		return nil, false
	}
	return entry.pages, true
}

func (r *Resolver) fetch(ctx context.Context, role enums.AdminRole) []string {
	if r.repo == nil {
		return nil
	}

	row, err := r.repo.GetByRole(ctx, role)
	if err != nil {
		if r.logg != nil {
			logCtx := r.logg.WithField(ctx, "role", string(role))
			r.logg.Error(logCtx, "permissions.fetch_failed", err)
		}
		return nil
	}

	pages := make([]string, len(row.AllowedPages))
	copy(pages, row.AllowedPages)

	r.mu.Lock()
	r.cache[role] = cacheEntry{pages: pages, fetchedAt: time.Now()}
	r.mu.Unlock()

	return pages
}
