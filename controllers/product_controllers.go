package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/events"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

// Ambang default stok menipis untuk laporan low-stock
const defaultLowStockThreshold = 5

type ProductController struct {
	DB *gorm.DB
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{DB: db}
}

func validateProductInput(name string, price float64, stock int) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("product name is required")
	}
	if price < 0 {
		return errors.New("price cannot be negative")
	}
	if stock < 0 {
		return errors.New("stock cannot be negative")
	}
	return nil
}

// CreateProduct -> menambahkan produk baru ke stok
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req struct {
		Name     string  `json:"name" binding:"required"`
		Category string  `json:"category"`
		Price    float64 `json:"price"`
		Stock    int     `json:"stock"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := validateProductInput(req.Name, req.Price, req.Stock); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	product := models.Product{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Stock:    req.Stock,
	}

	if err := pc.DB.Create(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New product created: %s (stock=%d)", product.Name, product.Stock)
	utils.RespondJSON(c, http.StatusCreated, "Product created successfully", product)
}

// GetAllProducts -> daftar produk, filter ?search= nama/kategori
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	term := strings.TrimSpace(c.Query("search"))

	query := pc.DB.Order("name asc")
	if term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ?", like, like)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

// GetProductByID -> detail satu produk
func (pc *ProductController) GetProductByID(c *gin.Context) {
	productID := c.Param("product_id")
	var product models.Product
	if err := pc.DB.First(&product, productID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product detail", product)
}

// GetLowStock -> produk dengan stok <= threshold, paling sedikit dulu
func (pc *ProductController) GetLowStock(c *gin.Context) {
	threshold, err := strconv.Atoi(c.DefaultQuery("threshold", strconv.Itoa(defaultLowStockThreshold)))
	if err != nil || threshold < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid threshold"))
		return
	}

	var products []models.Product
	if err := pc.DB.Where("stock <= ?", threshold).Order("stock asc").Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("Products with stock <= %d", threshold), products)
}

// UpdateProduct -> ubah data produk
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	productID := c.Param("product_id")

	var product models.Product
	if err := pc.DB.First(&product, productID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name     *string  `json:"name"`
		Category *string  `json:"category"`
		Price    *float64 `json:"price"`
		Stock    *int     `json:"stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := validateProductInput(product.Name, product.Price, product.Stock); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := pc.DB.Save(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Product %d updated (stock=%d)", product.ID, product.Stock)
	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

// DeleteProduct -> menghapus produk, ditolak kalau sudah pernah terjual
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	productID := c.Param("product_id")

	var product models.Product
	if err := pc.DB.First(&product, productID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var lineCount int64
	if err := pc.DB.Model(&models.TicketLine{}).
		Where("product_id = ?", product.ID).
		Count(&lineCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if lineCount > 0 {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("product is referenced by %d ticket lines", lineCount))
		return
	}

	if err := pc.DB.Delete(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Product %d deleted", product.ID)
	utils.RespondJSON(c, http.StatusOK, "Product deleted", gin.H{
		"id": product.ID,
	})
}

// checkLowStock menyiarkan event kalau stok produk turun ke ambang batas
func checkLowStock(product models.Product) {
	if product.Stock <= defaultLowStockThreshold {
		events.BroadcastStockLow(product)
	}
}
