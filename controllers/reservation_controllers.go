package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/events"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

type ReservationController struct {
	DB *gorm.DB
}

func NewReservationController(db *gorm.DB) *ReservationController {
	return &ReservationController{DB: db}
}

// Layout tanggal+jam untuk request reservasi
const reservationTimeLayout = "2006-01-02 15:04"

// parseReservationTime menormalkan timestamp slot ke menit dalam UTC,
// supaya perbandingan kesamaan slot konsisten antara tulis dan baca.
func parseReservationTime(value string) (time.Time, error) {
	t, err := time.Parse(reservationTimeLayout, value)
	if err != nil {
		t, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date, expected format %q", reservationTimeLayout)
		}
	}
	return t.UTC().Truncate(time.Minute), nil
}

// isDuplicateSlot -> deteksi pelanggaran unique index slot reservasi
func isDuplicateSlot(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "Duplicate entry")
}

// GetAvailability -> meja dengan kapasitas cukup dan belum direservasi
// pada slot (tanggal+jam, meal type) tersebut. Kapasitas terkecil dulu
// supaya meja pas-pasan terpakai lebih dulu (first fit).
func (rc *ReservationController) GetAvailability(c *gin.Context) {
	reservedAt, err := parseReservationTime(c.Query("date"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	mealType := c.Query("meal_type")
	if !models.IsValidMealType(mealType) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid meal type"))
		return
	}

	partySize, err := strconv.Atoi(c.DefaultQuery("party_size", "1"))
	if err != nil || partySize < 1 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid party size"))
		return
	}

	occupied := rc.DB.Model(&models.Reservation{}).
		Select("table_id").
		Where("reserved_at = ? AND meal_type = ?", reservedAt, mealType)

	var tables []models.Table
	if err := rc.DB.
		Where("capacity >= ?", partySize).
		Where("id NOT IN (?)", occupied).
		Order("capacity asc").
		Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Available tables", tables)
}

// CreateReservation -> booking satu slot.
// Uniqueness dicek ulang saat tulis; unique index jadi penentu terakhir
// kalau ada penulis lain yang menyelinap di antara cek dan insert.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		TableID    uint   `json:"table_id" binding:"required"`
		ReservedAt string `json:"reserved_at" binding:"required"`
		MealType   string `json:"meal_type" binding:"required"`
		PartySize  int    `json:"party_size" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservedAt, err := parseReservationTime(req.ReservedAt)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !models.IsValidMealType(req.MealType) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid meal type"))
		return
	}

	if req.PartySize < 1 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid party size"))
		return
	}

	userID := c.GetUint("user_id")

	var table models.Table
	if err := rc.DB.First(&table, req.TableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if table.Capacity < req.PartySize {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("table %d only seats %d", table.Number, table.Capacity))
		return
	}

	reservation := models.Reservation{
		TableID:    table.ID,
		UserID:     userID,
		ReservedAt: reservedAt,
		MealType:   req.MealType,
		PartySize:  req.PartySize,
	}

	err = rc.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Reservation{}).
			Where("table_id = ? AND reserved_at = ? AND meal_type = ?",
				reservation.TableID, reservation.ReservedAt, reservation.MealType).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSlotTaken
		}
		return tx.Create(&reservation).Error
	})
	if err != nil {
		if errors.Is(err, ErrSlotTaken) || isDuplicateSlot(err) {
			utils.RespondError(c, http.StatusConflict, ErrSlotTaken)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.DB.Preload("Table").Preload("User").First(&reservation, reservation.ID)

	events.BroadcastReservationCreated(reservation)

	utils.InfoLogger.Printf("Reservation %d created: table=%d at=%s type=%s",
		reservation.ID, reservation.TableID,
		reservation.ReservedAt.Format(reservationTimeLayout), reservation.MealType)
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

// GetAllReservations -> semua reservasi, terbaru dulu
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	var reservations []models.Reservation
	if err := rc.DB.Preload("Table").Preload("User").
		Order("reserved_at desc").
		Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

// GetMyReservations -> reservasi milik user yang sedang login
func (rc *ReservationController) GetMyReservations(c *gin.Context) {
	userID := c.GetUint("user_id")

	var reservations []models.Reservation
	if err := rc.DB.Preload("Table").Preload("User").
		Where("user_id = ?", userID).
		Order("reserved_at desc").
		Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My reservations", reservations)
}

// GetReservationByID -> detail satu reservasi
func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	reservationID := c.Param("reservation_id")
	var reservation models.Reservation
	if err := rc.DB.Preload("Table").Preload("User").
		First(&reservation, reservationID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}

// UpdateReservation -> ubah reservasi. Kalau meja/waktu/meal type
// berubah, cek slot lagi tanpa menghitung reservasi ini sendiri;
// konflik berarti update ditolak dan data lama tetap.
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	reservationID := c.Param("reservation_id")

	var reservation models.Reservation
	if err := rc.DB.First(&reservation, reservationID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		TableID    *uint   `json:"table_id"`
		ReservedAt *string `json:"reserved_at"`
		MealType   *string `json:"meal_type"`
		PartySize  *int    `json:"party_size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	newTableID := reservation.TableID
	newReservedAt := reservation.ReservedAt
	newMealType := reservation.MealType

	if req.TableID != nil {
		newTableID = *req.TableID
	}
	if req.ReservedAt != nil {
		parsed, err := parseReservationTime(*req.ReservedAt)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		newReservedAt = parsed
	}
	if req.MealType != nil {
		if !models.IsValidMealType(*req.MealType) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid meal type"))
			return
		}
		newMealType = *req.MealType
	}
	if req.PartySize != nil {
		if *req.PartySize < 1 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid party size"))
			return
		}
		reservation.PartySize = *req.PartySize
	}

	var table models.Table
	if err := rc.DB.First(&table, newTableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if table.Capacity < reservation.PartySize {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("table %d only seats %d", table.Number, table.Capacity))
		return
	}

	slotChanged := newTableID != reservation.TableID ||
		!newReservedAt.Equal(reservation.ReservedAt) ||
		newMealType != reservation.MealType

	reservation.TableID = newTableID
	reservation.ReservedAt = newReservedAt
	reservation.MealType = newMealType

	err := rc.DB.Transaction(func(tx *gorm.DB) error {
		if slotChanged {
			var count int64
			if err := tx.Model(&models.Reservation{}).
				Where("id != ? AND table_id = ? AND reserved_at = ? AND meal_type = ?",
					reservation.ID, reservation.TableID, reservation.ReservedAt, reservation.MealType).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrSlotTaken
			}
		}
		return tx.Save(&reservation).Error
	})
	if err != nil {
		if errors.Is(err, ErrSlotTaken) || isDuplicateSlot(err) {
			utils.RespondError(c, http.StatusConflict, ErrSlotTaken)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	rc.DB.Preload("Table").Preload("User").First(&reservation, reservation.ID)

	events.BroadcastReservationUpdated(reservation)

	utils.InfoLogger.Printf("Reservation %d updated", reservation.ID)
	utils.RespondJSON(c, http.StatusOK, "Reservation updated", reservation)
}

// DeleteReservation -> pembatalan adalah hard delete, tanpa audit trail
func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	reservationID := c.Param("reservation_id")

	var reservation models.Reservation
	if err := rc.DB.First(&reservation, reservationID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := rc.DB.Delete(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastReservationCancelled(reservation.ID)

	utils.InfoLogger.Printf("Reservation %d cancelled", reservation.ID)
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", gin.H{
		"id": reservation.ID,
	})
}
