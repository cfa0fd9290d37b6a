// Package routes holds the site's named route table.  Pages and markup link
// to each other by route name; Reverse turns a name into a path.
package routes

import (
	"sort"
	"strings"
	"sync"

	"github.com/turtacn/rmgweb/internal/application/structure"
	"github.com/turtacn/rmgweb/pkg/errors"
)

// Route names.  The structure routes share their names with the markup
// builder.
const (
	Home          = "home"
	DatabaseIndex = "database.index"
	MoleculeEntry = structure.RouteMoleculeEntry
	GroupEntry    = structure.RouteGroupEntry
	DrawMolecule  = structure.RouteDrawMolecule
	DrawGroup     = structure.RouteDrawGroup

	ParamAdjlist = structure.RouteParamAdjlist
)

// Route is a named path pattern.  Parameters are written {name}.  A pattern
// may end in at most one parameter that swallows the rest of the path,
// newlines and slashes included.
type Route struct {
	Name    string
	Pattern string
}

// Prefix returns the literal part of the pattern before its first parameter.
func (r Route) Prefix() string {
	if i := strings.IndexByte(r.Pattern, '{'); i >= 0 {
		return r.Pattern[:i]
	}
	return r.Pattern
}

// Params lists the parameter names of the pattern in order.
func (r Route) Params() []string {
	var out []string
	rest := r.Pattern
	for {
		i := strings.IndexByte(rest, '{')
		if i < 0 {
			return out
		}
		j := strings.IndexByte(rest[i:], '}')
		if j < 0 {
			return out
		}
		out = append(out, rest[i+1:i+j])
		rest = rest[i+j+1:]
	}
}

// MountPattern is the pattern in chi syntax: a trailing parameter becomes the
// "*" wildcard so its value may contain slashes.
func (r Route) MountPattern() string {
	params := r.Params()
	if len(params) == 0 {
		return r.Pattern
	}
	last := "{" + params[len(params)-1] + "}"
	if strings.HasSuffix(r.Pattern, last) {
		return strings.TrimSuffix(r.Pattern, last) + "*"
	}
	return r.Pattern
}

// DefaultRoutes is the site's route table.
func DefaultRoutes() []Route {
	return []Route{
		{Name: Home, Pattern: "/"},
		{Name: DatabaseIndex, Pattern: "/database/"},
		{Name: MoleculeEntry, Pattern: "/database/molecule/{" + ParamAdjlist + "}"},
		{Name: GroupEntry, Pattern: "/database/group/{" + ParamAdjlist + "}"},
		{Name: DrawMolecule, Pattern: "/molecule/{" + ParamAdjlist + "}"},
		{Name: DrawGroup, Pattern: "/group/{" + ParamAdjlist + "}"},
	}
}

// Table is a concurrency-safe set of named routes.  It implements
// structure.URLResolver.
type Table struct {
	mu     sync.RWMutex
	routes map[string]Route
}

// NewTable returns a Table holding routes.  Later entries replace earlier
// ones with the same name.
func NewTable(routes ...Route) *Table {
	t := &Table{routes: make(map[string]Route, len(routes))}
	for _, r := range routes {
		t.routes[r.Name] = r
	}
	return t
}

// NewDefaultTable returns a Table of DefaultRoutes.
func NewDefaultTable() *Table { return NewTable(DefaultRoutes()...) }

// Register adds or replaces a route.
func (t *Table) Register(r Route) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes[r.Name] = r
}

// Lookup returns the route registered under name.
func (t *Table) Lookup(name string) (Route, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.routes[name]
	return r, ok
}

// Routes returns every route sorted by name.
func (t *Table) Routes() []Route {
	t.mu.RLock()
	out := make([]Route, 0, len(t.routes))
	for _, r := range t.routes {
		out = append(out, r)
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Reverse builds the path for route name.  Parameter values are escaped with
// EscapePath; extra params are ignored.
func (t *Table) Reverse(name string, params map[string]string) (string, error) {
	r, ok := t.Lookup(name)
	if !ok {
		return "", errors.New(errors.ErrCodeRouteNotFound, errors.DefaultMessageForCode(errors.ErrCodeRouteNotFound)).WithDetail(name)
	}

	var sb strings.Builder
	rest := r.Pattern
	for {
		i := strings.IndexByte(rest, '{')
		if i < 0 {
			sb.WriteString(rest)
			return sb.String(), nil
		}
		j := strings.IndexByte(rest[i:], '}')
		if j < 0 {
			sb.WriteString(rest)
			return sb.String(), nil
		}
		sb.WriteString(rest[:i])

		key := rest[i+1 : i+j]
		v, ok := params[key]
		if !ok || v == "" {
			return "", errors.Newf(errors.ErrCodeRouteParamMissing, "route %q requires parameter %q", name, key)
		}
		sb.WriteString(EscapePath(v))
		rest = rest[i+j+1:]
	}
}

var _ structure.URLResolver = (*Table)(nil)

// ─────────────────────────────────────────────────────────────────────────────
// Escaping
// ─────────────────────────────────────────────────────────────────────────────

// pathSafe reports whether b may appear in a path segment unescaped.  '%' is
// kept so values that are already escaped are not escaped twice.  '?' and '#'
// would end the path and are escaped.
func pathSafe(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	}
	return strings.IndexByte("-._~/%[]=:;$&()+,!*@'", b) >= 0
}

// EscapePath percent-encodes the bytes of s that cannot appear in a URL path,
// leaving existing %XX escapes alone.
func EscapePath(s string) string {
	return structure.PercentEncode(s, pathSafe)
}

//Personal.AI order the ending
