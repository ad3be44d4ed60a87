package authz

import (
	"strings"

	"github.com/felixgeelhaar/newsdesk/internal/log"
	"github.com/felixgeelhaar/newsdesk/internal/session"
)

// Route is one entry of the portal route table
type Route struct {
	Name      string
	Pattern   string
	Protected bool
	Roles     RoleSet
}

// Match is a resolved path
type Match struct {
	Route  *Route
	Params map[string]string
}

// NotFound is the name reported for paths outside the table
const NotFound = "not-found"

// Routes is the portal route table
var Routes = []Route{
	{Name: "home", Pattern: "/"},
	{Name: "signup", Pattern: "/signup"},
	{Name: "signin", Pattern: "/signin"},
	{Name: "verify-signin-otp", Pattern: "/verify-signin-otp"},
	{Name: "tag", Pattern: "/tag/:tag"},
	{Name: "article", Pattern: "/article/:id"},
	{Name: "create-article", Pattern: "/create-article", Protected: true, Roles: writerRoles},
	{Name: "edit-article", Pattern: "/edit-article/:id", Protected: true, Roles: writerRoles},
	{Name: "review-article", Pattern: "/review-article/:id", Protected: true, Roles: reviewerRoles},
}

// Resolve matches path against the table. ok is false for unknown paths.
func Resolve(path string) (Match, bool) {
	path = normalize(path)
	segments := split(path)

	for i := range Routes {
		r := &Routes[i]
		params, ok := matchPattern(split(r.Pattern), segments)
		if ok {
			return Match{Route: r, Params: params}, true
		}
	}
	return Match{}, false
}

// NavigationResult is the outcome of Router.Navigate
type NavigationResult struct {
	Path     string            `json:"path" yaml:"path"`
	Route    string            `json:"route" yaml:"route"`
	Params   map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Decision Decision          `json:"decision" yaml:"decision"`
}

// Router applies the guard to navigations
type Router struct {
	logger *log.Logger
}

// NewRouter creates a router that logs refused navigations
func NewRouter(logger *log.Logger) *Router {
	if logger == nil {
		logger = log.Discard()
	}
	return &Router{logger: logger.With("component", "router")}
}

// Navigate resolves path and checks it against s. Public routes are always
// allowed; unknown paths resolve to NotFound and are allowed to render it.
func (r *Router) Navigate(s session.Session, path string) NavigationResult {
	res := NavigationResult{Path: normalize(path)}

	m, ok := Resolve(path)
	if !ok {
		res.Route = NotFound
		res.Decision = Decision{Allowed: true, Reason: "no such page"}
		return res
	}

	res.Route = m.Route.Name
	res.Params = m.Params
	if !m.Route.Protected {
		res.Decision = Decision{Allowed: true, Reason: "public"}
		return res
	}

	res.Decision = Guard(s, m.Route.Roles)
	if !res.Decision.Allowed {
		r.logger.Debug("navigation refused", "path", res.Path, "reason", res.Decision.Reason)
	}
	return res
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

func split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func matchPattern(pattern, segments []string) (map[string]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}
	var params map[string]string
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segments[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[p[1:]] = segments[i]
			continue
		}
		if p != segments[i] {
			return nil, false
		}
	}
	return params, true
}
