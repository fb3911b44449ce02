package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the single authorization axis besides superuser status.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

type User struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	Username    string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email       string    `json:"email" gorm:"uniqueIndex;size:254;not null"`
	Bio         string    `json:"bio" gorm:"type:text"`
	Role        Role      `json:"role" gorm:"size:20;not null;default:user"`
	IsStaff     bool      `json:"is_staff" gorm:"not null;default:false"`
	IsSuperuser bool      `json:"is_superuser" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// StaffForRole is the invariant the admin update path maintains:
// the staff flag follows the role.
func StaffForRole(r Role) bool {
	return r == RoleAdmin || r == RoleModerator
}
