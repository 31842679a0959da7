package session

import "fmt"

// Role identifies what a caller is allowed to do. It is a closed set; any
// string that is not one of the three known roles fails to parse.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleAdmin
	RolePromoter
	RoleCustomer
)

// ParseRole maps the stored role tag to its variant.
func ParseRole(s string) (Role, error) {
	switch s {
	case "admin":
		return RoleAdmin, nil
	case "promoter":
		return RolePromoter, nil
	case "customer":
		return RoleCustomer, nil
	default:
		return RoleUnknown, fmt.Errorf("unknown role %q", s)
	}
}

// String returns the wire/storage form of the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RolePromoter:
		return "promoter"
	case RoleCustomer:
		return "customer"
	default:
		return "unknown"
	}
}

// Session is the verified caller identity supplied to every protected
// operation. It is built per request from the access token and passed
// explicitly; nothing in the service keeps a module-level current user.
type Session struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the session may perform admin-only operations.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
