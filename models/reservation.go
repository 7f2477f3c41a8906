package models

import "time"

// Meal types yang membagi slot reservasi per hari
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
)

// MealTypes daftar nilai yang valid, urutan sesuai jam operasional
var MealTypes = []string{MealBreakfast, MealLunch, MealDinner}

// IsValidMealType -> validasi nilai meal type dari request
func IsValidMealType(t string) bool {
	for _, m := range MealTypes {
		if m == t {
			return true
		}
	}
	return false
}

// Reservation memegang satu slot (table, reserved_at, meal_type).
// Composite unique index menutup race antara pengecekan dan insert:
// penulis kedua untuk slot yang sama gagal di constraint, bukan lolos.
type Reservation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TableID    uint      `gorm:"not null;uniqueIndex:idx_reservation_slot" json:"table_id"`
	Table      Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table"`
	UserID     uint      `gorm:"not null" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
	ReservedAt time.Time `gorm:"not null;uniqueIndex:idx_reservation_slot" json:"reserved_at"`
	MealType   string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_reservation_slot" json:"meal_type"`
	PartySize  int       `gorm:"not null" json:"party_size"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
