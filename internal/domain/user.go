package domain

import "time"

type UserRole string

const (
	RoleAnonymous     UserRole = "ANONYMOUS"
	RoleAuthenticated UserRole = "AUTHENTICATED"
	RoleManager       UserRole = "MANAGER"
	RoleAdmin         UserRole = "ADMIN"
)

// User is the single persisted entity of this module. The first user ever
// created is promoted to ADMIN and auto-verified; everyone else starts as
// ANONYMOUS with a pending verification token.
type User struct {
	ID                  string     `gorm:"primaryKey;size:36" json:"id"`
	Email               string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Nickname            string     `gorm:"uniqueIndex;size:64;not null" json:"nickname"`
	HashedPassword      string     `gorm:"size:100;not null" json:"-"`
	Role                UserRole   `gorm:"size:16;not null;default:ANONYMOUS" json:"role"`
	EmailVerified       bool       `gorm:"not null;default:false" json:"email_verified"`
	VerificationToken   *string    `gorm:"size:36" json:"-"`
	Bio                 string     `gorm:"type:text" json:"bio,omitempty"`
	IsProfessional      bool       `gorm:"not null;default:false" json:"is_professional"`
	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	IsLocked            bool       `gorm:"not null;default:false" json:"is_locked"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	LastLogin           *time.Time `json:"last_login,omitempty"`
}

func (User) TableName() string { return "users" }
