package domain

import "time"

// Role names what an authenticated caller may do.
type Role string

const (
	RoleCoordinator Role = "COORDINATOR"
)

// Token represents issued authentication token metadata.
type Token struct {
	Value     string
	Subject   string
	Role      Role
	ExpiresAt time.Time
}
