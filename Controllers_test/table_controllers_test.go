package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/controllers"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// setupTestDBForTables -> SQLite in-memory khusus TableController
func setupTestDBForTables() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.AutoMigrate(&models.User{}, &models.Table{}, &models.Reservation{}); err != nil {
		panic(err)
	}
	return db
}

func setupTableRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	tableCtrl := controllers.NewTableController(db)
	router.GET("/tables", tableCtrl.GetAllTables)
	router.GET("/tables/by-capacity", tableCtrl.FindTablesByCapacity)
	router.POST("/tables", tableCtrl.CreateTable)
	router.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	router.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
	return router
}

func TestGetAllTables(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables()

	db.Create(&models.Table{Number: 2, Capacity: 4})
	db.Create(&models.Table{Number: 1, Capacity: 2})

	router := setupTableRouter(db)
	req := httptest.NewRequest("GET", "/tables", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "List of tables", response["message"])

	data := response["data"].([]interface{})
	assert.Len(t, data, 2)
	// Urut nomor meja
	assert.Equal(t, float64(1), data[0].(map[string]interface{})["number"])
}

func TestFindTablesByCapacity(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables()

	db.Create(&models.Table{Number: 1, Capacity: 2})
	db.Create(&models.Table{Number: 2, Capacity: 6})
	db.Create(&models.Table{Number: 3, Capacity: 4})

	router := setupTableRouter(db)
	req := httptest.NewRequest("GET", "/tables/by-capacity?min=4", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].([]interface{})
	assert.Len(t, data, 2)
	// Kapasitas kecil duluan
	assert.Equal(t, float64(4), data[0].(map[string]interface{})["capacity"])
	assert.Equal(t, float64(6), data[1].(map[string]interface{})["capacity"])
}

func TestCreateTableRejectsZeroCapacity(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables()
	router := setupTableRouter(db)

	payload, _ := json.Marshal(map[string]interface{}{"number": 11, "capacity": -2})
	req := httptest.NewRequest("POST", "/tables", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.Table{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUpdateTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables()

	table := models.Table{Number: 1, Capacity: 2}
	db.Create(&table)

	router := setupTableRouter(db)

	payload, _ := json.Marshal(map[string]interface{}{"capacity": 6})
	req := httptest.NewRequest("PATCH", fmt.Sprintf("/tables/%d", table.ID), bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Table
	db.First(&reloaded, table.ID)
	assert.Equal(t, 6, reloaded.Capacity)
}

func TestDeleteTableWithReservationsRejected(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables()

	table := models.Table{Number: 1, Capacity: 4}
	db.Create(&table)
	db.Create(&models.User{Name: "Staff", Username: "staff1", PasswordHash: "x", Role: models.RoleStaff})
	db.Create(&models.Reservation{
		TableID:    table.ID,
		UserID:     1,
		ReservedAt: time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC),
		MealType:   models.MealDinner,
		PartySize:  2,
	})

	router := setupTableRouter(db)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/tables/%d", table.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Setelah reservasi dihapus, meja boleh dihapus
	db.Where("table_id = ?", table.ID).Delete(&models.Reservation{})

	req = httptest.NewRequest("DELETE", fmt.Sprintf("/tables/%d", table.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
