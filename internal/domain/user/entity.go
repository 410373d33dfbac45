package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// User is one row of the user collection. UserName is the key the clock
// and schedule tables reference; Name is the display name.
type User struct {
	ID           string
	Name         string
	UserName     string
	Email        string
	Role         Role
	PasswordHash string
	Phone        *string
	Avatar       *string
	CreatedAt    time.Time
}
