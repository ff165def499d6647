package models

import "time"

// UserRole represents the role of a user
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleTeamMember UserRole = "team-member"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleTeamMember
}

// User represents a user in the system
type User struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	Email      string    `json:"email" gorm:"unique;not null"`
	Password   string    `json:"-" gorm:"not null"`
	Role       UserRole  `json:"role" gorm:"not null;default:'team-member'"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Actor is the authenticated identity a request acts as. It carries just the
// fields permission checks and snapshots need, as verified from the token.
type Actor struct {
	ID   string
	Name string
	Role UserRole
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
