package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Login -> verifikasi username + password, return JWT
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// Lookup case-sensitive, username harus sama persis
	var user models.User
	if err := uc.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if !utils.VerifyPassword(user.PasswordHash, input.Password) {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for user: %s (role=%s)", user.Username, user.Role)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_id":   user.ID,
		"user_role": strings.ToLower(user.Role),
	})
}

// Logout -> masukkan token ke blacklist
func (uc *UserController) Logout(c *gin.Context) {
	token := c.GetString("token")
	if token == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("no token in request"))
		return
	}

	utils.BlacklistToken(token)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile -> data user dari JWT
func (uc *UserController) GetProfile(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	userID, ok := userIDInterface.(uint)
	if !ok {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("invalid user id type"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", gin.H{
		"id":       user.ID,
		"name":     user.Name,
		"username": user.Username,
		"role":     user.Role,
	})
}

// Register user baru (khusus admin, lewat group AdminOnly)
func (uc *UserController) Register(c *gin.Context) {
	type request struct {
		Name     string `json:"name" binding:"required"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"` // admin / staff, default staff
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleStaff
	}
	if role != models.RoleAdmin && role != models.RoleStaff {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid role"))
		return
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// Username unik, cek dulu sebelum insert
	var count int64
	if err := uc.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, ErrUsernameTaken)
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:         req.Name,
		Username:     req.Username,
		PasswordHash: hashed,
		Role:         role,
	}

	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Username, user.Role)

	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user_id": user.ID,
	})
}

// GetAllUsers -> daftar user diurutkan nama
func (uc *UserController) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := uc.DB.Order("name asc").Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All users", users)
}

// UpdateUser -> ubah nama/username/role, password opsional
func (uc *UserController) UpdateUser(c *gin.Context) {
	userID := c.Param("user_id")

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type request struct {
		Name     *string `json:"name"`
		Username *string `json:"username"`
		Role     *string `json:"role"`
		Password *string `json:"password"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Username != nil && *req.Username != user.Username {
		// Username tidak boleh bentrok dengan user lain
		var count int64
		if err := uc.DB.Model(&models.User{}).
			Where("username = ? AND id != ?", *req.Username, user.ID).
			Count(&count).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if count > 0 {
			utils.RespondError(c, http.StatusConflict, ErrUsernameTaken)
			return
		}
		user.Username = *req.Username
	}

	if req.Role != nil && *req.Role != user.Role {
		if *req.Role != models.RoleAdmin && *req.Role != models.RoleStaff {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid role"))
			return
		}
		// Turun dari admin hanya boleh kalau masih ada admin lain
		if user.Role == models.RoleAdmin {
			if err := uc.ensureNotLastAdmin(user.ID); err != nil {
				utils.RespondError(c, http.StatusConflict, err)
				return
			}
		}
		user.Role = *req.Role
	}

	if req.Name != nil {
		user.Name = *req.Name
	}

	if req.Password != nil {
		if err := utils.ValidatePassword(*req.Password); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		user.PasswordHash = hashed
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("User %d updated", user.ID)
	utils.RespondJSON(c, http.StatusOK, "User updated", user)
}

// DeleteUser -> hapus user, dijaga supaya admin terakhir tidak bisa dihapus
func (uc *UserController) DeleteUser(c *gin.Context) {
	userID := c.Param("user_id")

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if user.Role == models.RoleAdmin {
		if err := uc.ensureNotLastAdmin(user.ID); err != nil {
			utils.RespondError(c, http.StatusConflict, err)
			return
		}
	}

	if err := uc.DB.Delete(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("User %d deleted", user.ID)
	utils.RespondJSON(c, http.StatusOK, "User deleted", gin.H{
		"id": user.ID,
	})
}

// ensureNotLastAdmin -> error kalau userID adalah satu-satunya admin
func (uc *UserController) ensureNotLastAdmin(userID uint) error {
	var adminCount int64
	if err := uc.DB.Model(&models.User{}).
		Where("role = ? AND id != ?", models.RoleAdmin, userID).
		Count(&adminCount).Error; err != nil {
		return err
	}
	if adminCount == 0 {
		return ErrLastAdmin
	}
	return nil
}
