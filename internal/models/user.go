package models

import "time"

type UserRole string

const (
	UserRoleAdmin     UserRole = "ADMIN"
	UserRoleLibrarian UserRole = "LIBRARIAN"
	UserRoleMember    UserRole = "MEMBER"
)

func ValidRole(role UserRole) bool {
	switch role {
	case UserRoleAdmin, UserRoleLibrarian, UserRoleMember:
		return true
	}
	return false
}

type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash []byte
	PasswordSalt []byte
	Role         UserRole
	AvatarURL    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session records one refresh-token lineage. Rows are never deleted by the
// auth flows; revocation and expiry make them inert.
type Session struct {
	ID               string
	UserID           string
	RefreshTokenHash string
	IPAddress        string
	UserAgent        string
	DeviceLabel      *string
	OSLabel          *string
	BrowserLabel     *string
	Revoked          bool
	ExpiresAt        time.Time
	CreatedAt        time.Time
}

func (s Session) Active(now time.Time) bool {
	return !s.Revoked && s.ExpiresAt.After(now)
}
