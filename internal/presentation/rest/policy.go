package rest

import (
	"strings"

	"github.com/webcraft-studio/webcraft-backend/internal/application/consts"
)

// RoutePolicy declares the minimum role a route prefix requires. Routes not
// covered by any policy are public. The table is the single place access
// rules live; handlers never check roles inline.
type RoutePolicy struct {
	Method     string
	PathPrefix string
	Role       consts.Role
}

var policies = []RoutePolicy{
	{Method: "GET", PathPrefix: "/admin/", Role: consts.RoleAdmin},
	{Method: "PATCH", PathPrefix: "/admin/", Role: consts.RoleAdmin},
	{Method: "GET", PathPrefix: "/wizard/", Role: consts.RoleUser},
	{Method: "PUT", PathPrefix: "/wizard/", Role: consts.RoleUser},
	{Method: "POST", PathPrefix: "/wizard/", Role: consts.RoleUser},
	{Method: "DELETE", PathPrefix: "/wizard/", Role: consts.RoleUser},
	{Method: "POST", PathPrefix: "/payments/orders", Role: consts.RoleUser},
	{Method: "GET", PathPrefix: "/requests", Role: consts.RoleUser},
	{Method: "GET", PathPrefix: "/transactions", Role: consts.RoleUser},
	{Method: "POST", PathPrefix: "/tickets", Role: consts.RoleUser},
	{Method: "GET", PathPrefix: "/tickets", Role: consts.RoleUser},
}

// RequiredRole returns the role guarding a method/path pair and whether the
// pair is guarded at all.
func RequiredRole(method, path string) (consts.Role, bool) {
	for _, p := range policies {
		if p.Method == method && strings.HasPrefix(path, p.PathPrefix) {
			return p.Role, true
		}
	}
	return "", false
}
