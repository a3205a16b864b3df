package domain

// Principal is the authenticated identity plus role making a request.
// Query functions receive it explicitly and narrow their own scope.
type Principal struct {
	UserID string
	Role   string
}

// IsAdmin returns true if the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanAccess returns true if the principal may read data owned by userID.
// Admins see everything, users only themselves.
func (p Principal) CanAccess(userID string) bool {
	return p.IsAdmin() || p.UserID == userID
}
