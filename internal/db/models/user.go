package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// User is an admin panel account. Each user holds exactly one role.
type User struct {
	// ID is the server generated identifier.
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// Username is the unique login name.
	Username string `gorm:"uniqueIndex;size:100;not null" json:"username"`
	// Email is the unique address used to log in.
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	// Password is the Argon2id hash. It never leaves the server.
	Password string `gorm:"size:255;not null" json:"-"`
	// DisplayName is shown in the panel header.
	DisplayName string `gorm:"size:100" json:"display_name"`
	// RoleID is the ID of the role assigned to this user.
	RoleID string `gorm:"size:36;not null;index" json:"role_id"`
	// Role is the associated role (enforced with a foreign key constraint).
	Role *Role `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE" json:"role,omitempty"`
	// Active is false once the account was deleted or disabled.
	Active bool `gorm:"not null" json:"active"`
	// LastLoginAt is set on every successful login.
	LastLoginAt *time.Time `json:"last_login_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the id.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	ensureID(&u.ID)

	return nil
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword verifies a plaintext password against the stored hash in constant time.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Str("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}
