package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/events"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable -> menambahkan meja baru
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Number   int `json:"number" binding:"required"`
		Capacity int `json:"capacity" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Capacity <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("capacity must be greater than zero"))
		return
	}

	table := models.Table{
		Number:   req.Number,
		Capacity: req.Capacity,
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastMessage(events.Message{
		Event: events.EventTableCreate,
		Data:  table,
	})

	utils.InfoLogger.Printf("New table created: %d (capacity=%d)", table.Number, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> menampilkan seluruh meja
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("number asc").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail satu meja
func (tc *TableController) GetTableByID(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// FindTablesByCapacity -> meja dengan kapasitas >= min, kecil dulu
func (tc *TableController) FindTablesByCapacity(c *gin.Context) {
	min, err := strconv.Atoi(c.DefaultQuery("min", "1"))
	if err != nil || min < 1 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid min capacity"))
		return
	}

	var tables []models.Table
	if err := tc.DB.Where("capacity >= ?", min).Order("capacity asc").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Tables with capacity >= %d", min), tables)
}

// UpdateTable -> ubah nomor/kapasitas meja
func (tc *TableController) UpdateTable(c *gin.Context) {
	tableID := c.Param("table_id")
	var body struct {
		Number   *int `json:"number"`
		Capacity *int `json:"capacity"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if body.Number != nil {
		table.Number = *body.Number
	}
	if body.Capacity != nil {
		if *body.Capacity <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("capacity must be greater than zero"))
			return
		}
		table.Capacity = *body.Capacity
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastMessage(events.Message{
		Event: events.EventTableUpdate,
		Data:  table,
	})

	utils.InfoLogger.Printf("Table %d updated", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable -> menghapus meja, ditolak kalau masih punya reservasi
func (tc *TableController) DeleteTable(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table

	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var reservationCount int64
	if err := tc.DB.Model(&models.Reservation{}).
		Where("table_id = ?", table.ID).
		Count(&reservationCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if reservationCount > 0 {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("table has %d reservations", reservationCount))
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastMessage(events.Message{
		Event: events.EventTableDelete,
		Data:  gin.H{"table_id": table.ID},
	})

	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{
		"id": table.ID,
	})
}
