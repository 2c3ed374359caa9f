package permissions

import (
	"strings"

	"github.com/rinsrhq/console-backend/pkg/enums"
)

const (
	// AllPagesSentinel grants access to every path when present in an
	// allowed-pages list.
	AllPagesSentinel = "*"

	// RootPrefix is the dashboard shell path. Granting it covers only the
	// shell itself and its overview child, never arbitrary descendants.
	RootPrefix = "/dashboard"

	// OverviewPath is the only descendant the bare root grant covers.
	OverviewPath = "/dashboard/overview"
)

// CanAccess reports whether a principal with the given role and allowed page
// prefixes may view the path. Superusers and the `*` sentinel bypass prefix
// matching entirely. The bare root prefix matches only itself and the
// overview child; every other prefix matches itself plus paths under
// `prefix + "/"`. No substring matches.
func CanAccess(role enums.AdminRole, allowedPages []string, path string) bool {
	if role.IsSuper() {
		return true
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return false
	}

	for _, prefix := range allowedPages {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		if prefix == AllPagesSentinel {
			return true
		}
		if prefix == RootPrefix {
			if path == RootPrefix || path == OverviewPath {
				return true
			}
			continue
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
