package models

import "time"

type Table struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Number    int       `gorm:"not null" json:"number"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
