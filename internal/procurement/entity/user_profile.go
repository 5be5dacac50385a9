package entity

import "time"

// Roles
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// UserProfile application user. Role is the authoritative admin source;
// the legacy "admin" email-prefix convention is only a fallback for rows
// created before the role column was backfilled.
type UserProfile struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Email        string    `json:"email" gorm:"size:200;uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"size:100"`
	PasswordHash string    `json:"-" gorm:"size:100;not null"`
	Role         string    `json:"role" gorm:"size:20;default:staff"` // admin/staff
	Status       string    `json:"status" gorm:"size:20;default:active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// IsAdmin resolves the admin capability. The role column wins; the email
// prefix is honored only when the role is unset (legacy rows).
func (u *UserProfile) IsAdmin() bool {
	if u.Role != "" {
		return u.Role == RoleAdmin
	}
	return len(u.Email) >= 5 && u.Email[:5] == "admin"
}
