package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats -> ringkasan angka untuk dashboard admin
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var stats struct {
		TotalUsers        int64   `json:"total_users"`
		TotalTables       int64   `json:"total_tables"`
		TotalProducts     int64   `json:"total_products"`
		LowStockProducts  int64   `json:"low_stock_products"`
		TotalReservations int64   `json:"total_reservations"`
		TotalTickets      int64   `json:"total_tickets"`
		TotalRevenue      float64 `json:"total_revenue"`
		TodayTickets      int64   `json:"today_tickets"`
		TodayRevenue      float64 `json:"today_revenue"`
		ReservationsToday struct {
			Breakfast int64 `json:"breakfast"`
			Lunch     int64 `json:"lunch"`
			Dinner    int64 `json:"dinner"`
		} `json:"reservations_today"`
	}

	ac.DB.Model(&models.User{}).Count(&stats.TotalUsers)
	ac.DB.Model(&models.Table{}).Count(&stats.TotalTables)
	ac.DB.Model(&models.Product{}).Count(&stats.TotalProducts)
	ac.DB.Model(&models.Product{}).
		Where("stock <= ?", defaultLowStockThreshold).
		Count(&stats.LowStockProducts)
	ac.DB.Model(&models.Reservation{}).Count(&stats.TotalReservations)
	ac.DB.Model(&models.Ticket{}).Count(&stats.TotalTickets)

	var totalRevenue *float64
	ac.DB.Model(&models.Ticket{}).Select("SUM(total)").Scan(&totalRevenue)
	if totalRevenue != nil {
		stats.TotalRevenue = *totalRevenue
	}

	ac.DB.Model(&models.Ticket{}).
		Where("DATE(created_at) = ?", today).
		Count(&stats.TodayTickets)

	var todayRevenue *float64
	ac.DB.Model(&models.Ticket{}).
		Where("DATE(created_at) = ?", today).
		Select("SUM(total)").Scan(&todayRevenue)
	if todayRevenue != nil {
		stats.TodayRevenue = *todayRevenue
	}

	ac.DB.Model(&models.Reservation{}).
		Where("DATE(reserved_at) = ? AND meal_type = ?", today, models.MealBreakfast).
		Count(&stats.ReservationsToday.Breakfast)
	ac.DB.Model(&models.Reservation{}).
		Where("DATE(reserved_at) = ? AND meal_type = ?", today, models.MealLunch).
		Count(&stats.ReservationsToday.Lunch)
	ac.DB.Model(&models.Reservation{}).
		Where("DATE(reserved_at) = ? AND meal_type = ?", today, models.MealDinner).
		Count(&stats.ReservationsToday.Dinner)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}
