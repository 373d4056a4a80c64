package Models

import "gorm.io/gorm"

// Permission levels. Level 1 can read, level 2 can run fleet operations
// (checkout, trips, fueling), level 3 administers vehicles, drivers and users.
const (
	PermissionViewer     = 1
	PermissionDispatcher = 2
	PermissionAdmin      = 3
)

type User struct {
	gorm.Model
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"uniqueIndex;not null"`
	Password   []byte `json:"-"`
	Permission int    `json:"permission" gorm:"not null;default:1"`
}

func (User) TableName() string {
	return "users"
}
