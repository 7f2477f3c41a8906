package database

import (
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123" // ganti lewat user management setelah login pertama
	defaultTableCount    = 10
	defaultTableCapacity = 4
)

// SeedDefaults membuat data awal saat database masih kosong:
// satu akun admin dan sepuluh meja kapasitas 4.
func SeedDefaults(db *gorm.DB) error {
	var adminCount int64
	if err := db.Model(&models.User{}).
		Where("username = ?", defaultAdminUsername).
		Count(&adminCount).Error; err != nil {
		return err
	}

	if adminCount == 0 {
		hashed, err := utils.HashPassword(defaultAdminPassword)
		if err != nil {
			return err
		}
		admin := models.User{
			Name:         "Administrador",
			Username:     defaultAdminUsername,
			PasswordHash: hashed,
			Role:         models.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		utils.InfoLogger.Printf("Seeded default admin user (username=%s)", defaultAdminUsername)
	}

	var tableCount int64
	if err := db.Model(&models.Table{}).Count(&tableCount).Error; err != nil {
		return err
	}

	if tableCount == 0 {
		tables := make([]models.Table, 0, defaultTableCount)
		for i := 1; i <= defaultTableCount; i++ {
			tables = append(tables, models.Table{
				Number:   i,
				Capacity: defaultTableCapacity,
			})
		}
		if err := db.Create(&tables).Error; err != nil {
			return err
		}
		utils.InfoLogger.Printf("Seeded %d default tables (capacity=%d)", defaultTableCount, defaultTableCapacity)
	}

	return nil
}
