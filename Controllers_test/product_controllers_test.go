package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/controllers"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

func setupTestDBForProducts() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Ticket{}, &models.TicketLine{}); err != nil {
		panic(err)
	}
	return db
}

func setupProductRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	productCtrl := controllers.NewProductController(db)
	router.GET("/products", productCtrl.GetAllProducts)
	router.GET("/products/low-stock", productCtrl.GetLowStock)
	router.POST("/products", productCtrl.CreateProduct)
	router.PATCH("/products/:product_id", productCtrl.UpdateProduct)
	router.DELETE("/products/:product_id", productCtrl.DeleteProduct)
	return router
}

func TestCreateProductValidation(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForProducts()
	router := setupProductRouter(db)

	// Harga negatif ditolak sebelum insert
	payload, _ := json.Marshal(map[string]interface{}{
		"name": "Cafe solo", "price": -1.0, "stock": 5,
	})
	req := httptest.NewRequest("POST", "/products", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Stok negatif juga
	payload, _ = json.Marshal(map[string]interface{}{
		"name": "Cafe solo", "price": 1.50, "stock": -5,
	})
	req = httptest.NewRequest("POST", "/products", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.Product{}).Count(&count)
	assert.Equal(t, int64(0), count)

	// Input valid tersimpan
	payload, _ = json.Marshal(map[string]interface{}{
		"name": "Cafe solo", "category": "drinks", "price": 1.50, "stock": 5,
	})
	req = httptest.NewRequest("POST", "/products", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSearchProducts(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForProducts()

	db.Create(&models.Product{Name: "Cafe solo", Category: "drinks", Price: 1.50, Stock: 10})
	db.Create(&models.Product{Name: "Tortilla", Category: "food", Price: 10.00, Stock: 4})
	db.Create(&models.Product{Name: "Cafe con leche", Category: "drinks", Price: 2.00, Stock: 8})

	router := setupProductRouter(db)

	// Match nama, case-insensitive
	req := httptest.NewRequest("GET", "/products?search=CAFE", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].([]interface{})
	assert.Len(t, data, 2)
	// Urut nama
	assert.Equal(t, "Cafe con leche", data[0].(map[string]interface{})["name"])

	// Match kategori
	req = httptest.NewRequest("GET", "/products?search=food", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data = response["data"].([]interface{})
	assert.Len(t, data, 1)
	assert.Equal(t, "Tortilla", data[0].(map[string]interface{})["name"])
}

func TestGetLowStock(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForProducts()

	db.Create(&models.Product{Name: "Cafe solo", Price: 1.50, Stock: 10})
	db.Create(&models.Product{Name: "Tortilla", Price: 10.00, Stock: 2})
	db.Create(&models.Product{Name: "Pan", Price: 0.50, Stock: 4})

	router := setupProductRouter(db)

	req := httptest.NewRequest("GET", "/products/low-stock", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].([]interface{})
	assert.Len(t, data, 2)
	// Stok paling sedikit duluan
	assert.Equal(t, "Tortilla", data[0].(map[string]interface{})["name"])
	assert.Equal(t, "Pan", data[1].(map[string]interface{})["name"])
}

func TestUpdateProductRejectsNegativeStock(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForProducts()

	product := models.Product{Name: "Cafe solo", Price: 1.50, Stock: 10}
	db.Create(&product)

	router := setupProductRouter(db)

	payload, _ := json.Marshal(map[string]interface{}{"stock": -1})
	req := httptest.NewRequest("PATCH", fmt.Sprintf("/products/%d", product.ID), bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var reloaded models.Product
	db.First(&reloaded, product.ID)
	assert.Equal(t, 10, reloaded.Stock)
}

func TestDeleteProductReferencedByTicketRejected(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForProducts()

	product := models.Product{Name: "Cafe solo", Price: 1.50, Stock: 10}
	db.Create(&product)

	ticket := models.Ticket{TicketNumber: "TKT/20250601/000001", UserID: 1, Total: 1.50}
	db.Create(&ticket)
	db.Create(&models.TicketLine{TicketID: ticket.ID, ProductID: product.ID, Quantity: 1, UnitPrice: 1.50, Subtotal: 1.50})

	router := setupProductRouter(db)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/products/%d", product.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	db.Model(&models.Product{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
