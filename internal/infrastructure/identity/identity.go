// Package identity provides the identity-and-profile backends behind sign-in
// and sign-up: a database-backed provider and a simulated one for demos.
package identity

import "glassbird/internal/domain"

// Account is what a provider knows about a signed-in identity. Role mirrors
// the stored profile for reporting only; sessions are granted the admin role
// solely through the configured admin credentials.
type Account struct {
	ID    string
	Email string
	Name  string
	Role  domain.Role
}
