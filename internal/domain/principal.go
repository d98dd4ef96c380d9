package domain

// Principal is the authenticated identity attached to a request. It is a
// per-request view derived from a verified token plus a store lookup; it is
// never cached or persisted.
type Principal struct {
	ID   int64
	Role Role
}

// IsAdmin reports whether the principal carries the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
