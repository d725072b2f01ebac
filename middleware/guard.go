package middleware

import (
	"net/http"
	"slices"
	"sync"

	campusAuth "github.com/MrEthical07/campusAuth"
)

// RoleSet is the set of roles a route admits. The empty set is public.
type RoleSet struct {
	roles []campusAuth.Role
}

// Public admits every request, anonymous included.
var Public = RoleSet{}

// AnyAuthenticated admits every campus role but no anonymous request.
var AnyAuthenticated = Only(campusAuth.Roles()...)

// Only admits exactly the given roles.
func Only(roles ...campusAuth.Role) RoleSet {
	return RoleSet{roles: slices.Clone(roles)}
}

func (s RoleSet) IsPublic() bool {
	return len(s.roles) == 0
}

func (s RoleSet) Roles() []campusAuth.Role {
	return slices.Clone(s.roles)
}

// Decide is the access predicate: nil admits, otherwise the error is
// [campusAuth.ErrUnauthenticated] or [campusAuth.ErrForbidden].
func Decide(required RoleSet, p *campusAuth.Principal) error {
	if required.IsPublic() {
		return nil
	}
	if p == nil {
		return campusAuth.ErrUnauthenticated
	}
	if !p.HasRole(required.roles...) {
		return campusAuth.ErrForbidden
	}
	return nil
}

// PrincipalHandler receives the authenticated principal explicitly. It is
// nil on public routes reached anonymously.
type PrincipalHandler func(w http.ResponseWriter, r *http.Request, p *campusAuth.Principal)

type routeKey struct {
	method string
	path   string
}

type route struct {
	roles   RoleSet
	handler PrincipalHandler
}

// RouteTable maps (method, path) to the roles allowed to call it. The
// guard looks the entry up on every request.
type RouteTable struct {
	mu         sync.RWMutex
	routes     map[routeKey]route
	order      []routeKey
	onDecision func(error)
}

func NewRouteTable() *RouteTable {
	return &RouteTable{routes: make(map[routeKey]route)}
}

// Handle adds a route. Paths use [http.ServeMux] pattern syntax.
func (t *RouteTable) Handle(method, path string, roles RoleSet, h PrincipalHandler) *RouteTable {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := routeKey{method: method, path: path}
	if _, exists := t.routes[key]; !exists {
		t.order = append(t.order, key)
	}
	t.routes[key] = route{roles: roles, handler: h}
	return t
}

// Allow adds a route with no handler, for adapters that dispatch
// themselves and only need the policy.
func (t *RouteTable) Allow(method, path string, roles RoleSet) *RouteTable {
	return t.Handle(method, path, roles, nil)
}

// OnDecision installs a callback invoked with every guard outcome, e.g.
// [campusAuth.Engine.RecordAccessDecision].
func (t *RouteTable) OnDecision(fn func(error)) *RouteTable {
	t.mu.Lock()
	t.onDecision = fn
	t.mu.Unlock()
	return t
}

// Lookup returns the roles registered for method and path.
func (t *RouteTable) Lookup(method, path string) (RoleSet, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	r, ok := t.routes[routeKey{method: method, path: path}]
	return r.roles, ok
}

// Check runs Decide for the route and reports the outcome to the decision
// callback. Unlisted routes are forbidden.
func (t *RouteTable) Check(method, path string, p *campusAuth.Principal) error {
	roles, ok := t.Lookup(method, path)
	err := campusAuth.ErrForbidden
	if ok {
		err = Decide(roles, p)
	}

	t.mu.RLock()
	fn := t.onDecision
	t.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
	return err
}

// Register installs every route that has a handler on mux as a
// "METHOD /path" pattern, wrapped by the guard.
func (t *RouteTable) Register(mux *http.ServeMux) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, key := range t.order {
		if t.routes[key].handler == nil {
			continue
		}
		mux.Handle(key.method+" "+key.path, t.guard(key))
	}
}

func (t *RouteTable) guard(key routeKey) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := campusAuth.PrincipalFromContext(r.Context())
		if err := t.Check(key.method, key.path, p); err != nil {
			WriteError(w, err)
			return
		}

		t.mu.RLock()
		h := t.routes[key].handler
		t.mu.RUnlock()
		h(w, r, p)
	})
}

// Require guards a single handler without a table.
func Require(roles RoleSet, h PrincipalHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := campusAuth.PrincipalFromContext(r.Context())
		if err := Decide(roles, p); err != nil {
			WriteError(w, err)
			return
		}
		h(w, r, p)
	})
}
