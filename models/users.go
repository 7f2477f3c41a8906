package models

import "time"

// Role values untuk User.Role
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Username     string    `gorm:"type:varchar(255);unique;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"type:varchar(50);not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin -> cek role admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
