package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/echoverse/backend/internal/models"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// UpsertUser creates a user on first sight or touches lastLogin on return
// visits. Called by the client right after a successful social login.
func (h *UserHandler) UpsertUser(c *gin.Context) {
	var input struct {
		Name  string `json:"name"`
		Email string `json:"email" binding:"required,email"`
		Photo string `json:"photo"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	var existing models.User
	err := h.db.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		if err := h.db.Model(&existing).Update("last_login", time.Now().UTC()).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User login time updated"})
		return
	}
	if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}

	user := models.User{
		Name:      input.Name,
		Email:     input.Email,
		Photo:     input.Photo,
		Role:      "user",
		Status:    "bronze",
		LastLogin: time.Now().UTC(),
	}

	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "New user created", "insertedId": user.ID})
}

// GetUsers lists users, optionally filtered by a name search (ADMIN only).
func (h *UserHandler) GetUsers(c *gin.Context) {
	query := h.db.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var users []models.User
	if err := query.Order("created_at desc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	if users == nil {
		users = []models.User{}
	}

	c.JSON(http.StatusOK, users)
}

// UpdateUserStatus sets a user's membership status by email (ADMIN only).
func (h *UserHandler) UpdateUserStatus(c *gin.Context) {
	email := c.Param("email")

	var input struct {
		Status string `json:"status" binding:"required,oneof=bronze gold"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be bronze or gold"})
		return
	}

	result := h.db.Model(&models.User{}).Where("email = ?", email).Update("status", input.Status)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status updated"})
}

// MakeAdmin promotes a user to the admin role (ADMIN only).
func (h *UserHandler) MakeAdmin(c *gin.Context) {
	userID := c.Param("id")

	result := h.db.Model(&models.User{}).Where("id = ?", userID).Update("role", "admin")
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User promoted to admin"})
}
