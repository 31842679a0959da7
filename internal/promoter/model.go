package promoter

import (
	"time"

	"github.com/promohub/promohub/internal/session"
)

// Promoter is a registered platform member. Pins is the denormalized PIN
// balance; the ledger store is its only writer, everyone else treats it as
// read-only.
type Promoter struct {
	ID             string
	Phone          string
	Name           string
	Role           session.Role
	Pins           int64
	CredentialHash []byte
	CreatedAt      time.Time
}

// Profile converts to the cacheable session view.
func (p Promoter) Profile() session.Profile {
	return session.Profile{
		ID:    p.ID,
		Phone: p.Phone,
		Name:  p.Name,
		Role:  p.Role.String(),
	}
}

// Credentials is the login request structure.
type Credentials struct {
	Phone    string
	Password string
}
