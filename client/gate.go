package client

// Gate describes a capability check against the cached session. Every
// specified criterion must pass independently; an empty Gate always
// allows. This mirrors the server's guard semantics but is advisory only:
// hiding an action does not protect the route behind it.
type Gate struct {
	// Role must equal the cached role name exactly.
	Role string
	// Roles allows any of the named roles.
	Roles []string
	// Permission must be present in the cached permission list.
	Permission string
	// Permissions are checked in AND mode when RequireAll is set,
	// otherwise OR mode.
	Permissions []string
	RequireAll  bool
}

// Allows evaluates the gate against the session's cached state.
func (s *Session) Allows(g Gate) bool {
	s.mu.Lock()
	role := s.user.Role
	held := make(map[string]struct{}, len(s.permissions))
	for _, p := range s.permissions {
		held[p] = struct{}{}
	}
	s.mu.Unlock()

	if g.Role != "" && role != g.Role {
		return false
	}

	if len(g.Roles) > 0 {
		member := false
		for _, r := range g.Roles {
			if role == r {
				member = true
				break
			}
		}
		if !member {
			return false
		}
	}

	if g.Permission != "" {
		if _, ok := held[g.Permission]; !ok {
			return false
		}
	}

	if len(g.Permissions) > 0 {
		if g.RequireAll {
			for _, p := range g.Permissions {
				if _, ok := held[p]; !ok {
					return false
				}
			}
		} else {
			any := false
			for _, p := range g.Permissions {
				if _, ok := held[p]; ok {
					any = true
					break
				}
			}
			if !any {
				return false
			}
		}
	}

	return true
}
