package session

// Decision is the outcome of an authorization check. Rendering the
// outcome (error message, signin hint) is the caller's concern; the
// policy itself stays a pure function so it can be tested directly.
type Decision int

const (
	// Allowed means the protected command may run
	Allowed Decision = iota
	// Unauthenticated means no valid session exists; send the user to signin
	Unauthenticated
	// Forbidden means the session is valid but the role doesn't match;
	// send the user back to the root menu
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Authorize gates access to a protected command. With no required roles
// any authenticated session passes; otherwise the current user's role
// must be one of them. The check runs against live session state every
// time, so an expired token flips the result without any notification.
func Authorize(c *Context, roles ...Role) Decision {
	if !c.IsAuthenticated() {
		return Unauthenticated
	}
	if len(roles) == 0 {
		return Allowed
	}
	user := c.User()
	if user == nil {
		return Forbidden
	}
	for _, role := range roles {
		if string(role) == user.Role {
			return Allowed
		}
	}
	return Forbidden
}
