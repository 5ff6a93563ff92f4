// Package policy declares route authorization requirements in one table
// instead of scattering them as per-route annotations. The table is checked
// against the seeded role and permission catalog at startup so a typo fails
// the boot, not a request.
package policy

import (
	"fmt"
	"sort"

	"github.com/moazrana/CBMS-sub001/models"
)

// Requirement is what a route demands on top of a valid bearer token.
// Roles is an exact-name allow-list; Permissions is checked in ALL mode.
type Requirement struct {
	Roles       []string
	Permissions []string
}

var table = map[string]Requirement{
	// role management is admin-only
	"GET /roles":             {Roles: []string{models.RoleAdmin}},
	"POST /roles":            {Roles: []string{models.RoleAdmin}},
	"GET /roles/:id":         {Roles: []string{models.RoleAdmin}},
	"PATCH /roles/:id":       {Roles: []string{models.RoleAdmin}},
	"DELETE /roles/:id":      {Roles: []string{models.RoleAdmin}},
	"GET /roles/name/:name":  {Roles: []string{models.RoleAdmin}},

	// permission catalog: reads for any bearer, writes admin-only
	"GET /permissions":           {},
	"GET /permissions/:id":       {},
	"POST /permissions":          {Roles: []string{models.RoleAdmin}},
	"PATCH /permissions/:id":     {Roles: []string{models.RoleAdmin}},
	"DELETE /permissions/:id":    {Roles: []string{models.RoleAdmin}},
	"POST /permissions/resync":   {Roles: []string{models.RoleAdmin}},

	// user management: list/create admin-only, delete needs the explicit
	// delete_user permission rather than a role
	"GET /users":        {Roles: []string{models.RoleAdmin}},
	"POST /users":       {Roles: []string{models.RoleAdmin}},
	"GET /users/:id":    {Permissions: []string{"read_user"}},
	"PATCH /users/:id":  {Permissions: []string{"update_user"}},
	"DELETE /users/:id": {Permissions: []string{"delete_user"}},

	"GET /students":        {Permissions: []string{"read_student"}},
	"POST /students":       {Permissions: []string{"create_student"}},
	"GET /students/:id":    {Permissions: []string{"read_student"}},
	"PATCH /students/:id":  {Permissions: []string{"update_student"}},
	"DELETE /students/:id": {Permissions: []string{"delete_student"}},

	"GET /staff":        {Permissions: []string{"read_staff"}},
	"POST /staff":       {Permissions: []string{"create_staff"}},
	"GET /staff/:id":    {Permissions: []string{"read_staff"}},
	"PATCH /staff/:id":  {Permissions: []string{"update_staff"}},
	"DELETE /staff/:id": {Permissions: []string{"delete_staff"}},

	"GET /classes":            {Permissions: []string{"read_class"}},
	"POST /classes":           {Permissions: []string{"create_class"}},
	"GET /classes/:id":        {Permissions: []string{"read_class"}},
	"GET /classes/slug/:slug": {Permissions: []string{"read_class"}},
	"PATCH /classes/:id":      {Permissions: []string{"update_class"}},
	"DELETE /classes/:id":     {Permissions: []string{"delete_class"}},

	"GET /attendance":        {Permissions: []string{"read_attendance"}},
	"POST /attendance":       {Permissions: []string{"create_attendance"}},
	"GET /attendance/:id":    {Permissions: []string{"read_attendance"}},
	"PATCH /attendance/:id":  {Permissions: []string{"update_attendance"}},
	"DELETE /attendance/:id": {Permissions: []string{"delete_attendance"}},

	"GET /incidents":           {Permissions: []string{"read_incident"}},
	"POST /incidents":          {Permissions: []string{"create_incident"}},
	"GET /incidents/:id":       {Permissions: []string{"read_incident"}},
	"PATCH /incidents/:id":     {Permissions: []string{"update_incident"}},
	"DELETE /incidents/:id":    {Permissions: []string{"delete_incident"}},
	"POST /incidents/:id/notes": {Permissions: []string{"update_incident"}},

	"GET /safeguards":              {Permissions: []string{"read_safeguard"}},
	"POST /safeguards":             {Permissions: []string{"create_safeguard"}},
	"GET /safeguards/:id":          {Permissions: []string{"read_safeguard"}},
	"PATCH /safeguards/:id":        {Permissions: []string{"update_safeguard"}},
	"DELETE /safeguards/:id":       {Permissions: []string{"delete_safeguard"}},
	"POST /safeguards/:id/evidence": {Permissions: []string{"update_safeguard"}},

	"GET /certificates":          {Permissions: []string{"read_certificate"}},
	"POST /certificates":         {Permissions: []string{"create_certificate"}},
	"GET /certificates/:id":      {Permissions: []string{"read_certificate"}},
	"PATCH /certificates/:id":    {Permissions: []string{"update_certificate"}},
	"DELETE /certificates/:id":   {Permissions: []string{"delete_certificate"}},
	"POST /certificates/:id/file": {Permissions: []string{"update_certificate"}},
}

// For looks up the requirement for "METHOD /path".
func For(route string) (Requirement, bool) {
	req, ok := table[route]
	return req, ok
}

// MustFor panics on an undeclared route. Used at wiring time so a missing
// table entry fails startup.
func MustFor(route string) Requirement {
	req, ok := table[route]
	if !ok {
		panic(fmt.Sprintf("policy: route %q not declared", route))
	}
	return req
}

// Routes returns all declared routes, sorted.
func Routes() []string {
	routes := make([]string, 0, len(table))
	for r := range table {
		routes = append(routes, r)
	}
	sort.Strings(routes)
	return routes
}

// Check verifies every role and permission name in the table exists in the
// given catalogs. Run at startup after seeding.
func Check(roleNames, permissionNames []string) error {
	roles := make(map[string]struct{}, len(roleNames))
	for _, n := range roleNames {
		roles[n] = struct{}{}
	}
	perms := make(map[string]struct{}, len(permissionNames))
	for _, n := range permissionNames {
		perms[n] = struct{}{}
	}

	for _, route := range Routes() {
		req := table[route]
		for _, r := range req.Roles {
			if _, ok := roles[r]; !ok {
				return fmt.Errorf("policy: route %q requires unknown role %q", route, r)
			}
		}
		for _, p := range req.Permissions {
			if _, ok := perms[p]; !ok {
				return fmt.Errorf("policy: route %q requires unknown permission %q", route, p)
			}
		}
	}
	return nil
}
