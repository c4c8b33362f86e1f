package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role on the platform.
type Role string

const (
	// RoleStudent can browse events and book tickets.
	RoleStudent Role = "student"
	// RoleClub can create and manage events.
	RoleClub Role = "club"
)

// ValidRole reports whether s is a known role.
func ValidRole(s string) bool {
	return s == string(RoleStudent) || s == string(RoleClub)
}

// User is a platform user. CollegeID is set only for students.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CollegeID *string   `json:"collegeId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserPublic is User without sensitive fields for API responses.
type UserPublic struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CollegeID *string   `json:"collegeId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToPublic converts User to UserPublic.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CollegeID: u.CollegeID,
		CreatedAt: u.CreatedAt,
	}
}
