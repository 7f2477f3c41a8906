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

func setupTestDBForTickets() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Product{},
		&models.Reservation{},
		&models.Ticket{},
		&models.TicketLine{},
	)
	if err != nil {
		panic(err)
	}

	db.Create(&models.User{Name: "Cashier", Username: "cashier", PasswordHash: "x", Role: models.RoleStaff})
	return db
}

func setupTicketRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Set("role", models.RoleStaff)
	})
	ticketCtrl := controllers.NewTicketController(db)
	router.POST("/tickets", ticketCtrl.CreateTicket)
	router.GET("/tickets/:ticket_id", ticketCtrl.GetTicketByID)
	router.GET("/tickets/:ticket_id/receipt", ticketCtrl.GetReceipt)
	router.DELETE("/tickets/:ticket_id", ticketCtrl.DeleteTicket)
	return router
}

func postTicket(router *gin.Engine, body map[string]interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/tickets", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateTicketComputesTotalAndDecrementsStock(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTickets()

	productA := models.Product{Name: "Cafe solo", Category: "drinks", Price: 5.00, Stock: 10}
	productB := models.Product{Name: "Tortilla", Category: "food", Price: 10.00, Stock: 5}
	db.Create(&productA)
	db.Create(&productB)

	router := setupTicketRouter(db)

	w := postTicket(router, map[string]interface{}{
		"lines": []map[string]interface{}{
			{"product_id": productA.ID, "quantity": 3},
			{"product_id": productB.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, 25.00, data["total"])

	lines := data["lines"].([]interface{})
	assert.Len(t, lines, 2)
	firstLine := lines[0].(map[string]interface{})
	assert.Equal(t, 15.00, firstLine["subtotal"])
	assert.Equal(t, 5.00, firstLine["unit_price"])

	// Stok berkurang sesuai quantity
	var reloadedA, reloadedB models.Product
	db.First(&reloadedA, productA.ID)
	db.First(&reloadedB, productB.ID)
	assert.Equal(t, 7, reloadedA.Stock)
	assert.Equal(t, 4, reloadedB.Stock)
}

func TestCreateTicketInsufficientStockAbortsEverything(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTickets()

	productA := models.Product{Name: "Cafe solo", Price: 5.00, Stock: 10}
	productB := models.Product{Name: "Tortilla", Price: 10.00, Stock: 2}
	db.Create(&productA)
	db.Create(&productB)

	router := setupTicketRouter(db)

	// Baris kedua melebihi stok -> seluruh transaksi dibatalkan
	w := postTicket(router, map[string]interface{}{
		"lines": []map[string]interface{}{
			{"product_id": productA.ID, "quantity": 3},
			{"product_id": productB.ID, "quantity": 5},
		},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Tanpa efek samping: stok utuh, tidak ada ticket/line tersimpan
	var reloadedA, reloadedB models.Product
	db.First(&reloadedA, productA.ID)
	db.First(&reloadedB, productB.ID)
	assert.Equal(t, 10, reloadedA.Stock)
	assert.Equal(t, 2, reloadedB.Stock)

	var ticketCount, lineCount int64
	db.Model(&models.Ticket{}).Count(&ticketCount)
	db.Model(&models.TicketLine{}).Count(&lineCount)
	assert.Equal(t, int64(0), ticketCount)
	assert.Equal(t, int64(0), lineCount)
}

func TestCreateTicketQuantityValidation(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTickets()

	product := models.Product{Name: "Cafe solo", Price: 5.00, Stock: 10}
	db.Create(&product)

	router := setupTicketRouter(db)

	w := postTicket(router, map[string]interface{}{
		"lines": []map[string]interface{}{
			{"product_id": product.ID, "quantity": -1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postTicket(router, map[string]interface{}{
		"lines": []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTicketFromReservationDeletesReservation(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTickets()

	product := models.Product{Name: "Menu del dia", Price: 12.50, Stock: 20}
	db.Create(&product)

	table := models.Table{Number: 3, Capacity: 4}
	db.Create(&table)

	reservation := models.Reservation{
		TableID:    table.ID,
		UserID:     1,
		ReservedAt: time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC),
		MealType:   models.MealDinner,
		PartySize:  2,
	}
	db.Create(&reservation)

	router := setupTicketRouter(db)

	w := postTicket(router, map[string]interface{}{
		"reservation_id": reservation.ID,
		"lines": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 2},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetReceiptPDF(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTickets()

	product := models.Product{Name: "Cafe con leche", Price: 2.50, Stock: 10}
	db.Create(&product)

	router := setupTicketRouter(db)

	w := postTicket(router, map[string]interface{}{
		"lines": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 2},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var ticket models.Ticket
	db.First(&ticket)

	req := httptest.NewRequest("GET", fmt.Sprintf("/tickets/%d/receipt", ticket.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	// File PDF selalu diawali magic header %PDF
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestDeleteTicketCascadesLines(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTickets()

	product := models.Product{Name: "Cafe solo", Price: 5.00, Stock: 10}
	db.Create(&product)

	router := setupTicketRouter(db)

	w := postTicket(router, map[string]interface{}{
		"lines": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var ticket models.Ticket
	db.First(&ticket)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/tickets/%d", ticket.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var ticketCount, lineCount int64
	db.Model(&models.Ticket{}).Count(&ticketCount)
	db.Model(&models.TicketLine{}).Count(&lineCount)
	assert.Equal(t, int64(0), ticketCount)
	assert.Equal(t, int64(0), lineCount)
}
