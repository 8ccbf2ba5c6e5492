package models

// Actor is the authenticated caller of an operation: the decoded identity the
// authorization gate evaluates before any state change.
type Actor struct {
	UserID string
	Role   Role
}

// Is reports whether the actor holds one of the supplied roles.
func (a Actor) Is(roles ...Role) bool {
	for _, role := range roles {
		if a.Role == role {
			return true
		}
	}
	return false
}
