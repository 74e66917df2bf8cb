package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/echoverse/backend/internal/models"
)

type AnnouncementHandler struct {
	db *gorm.DB
}

func NewAnnouncementHandler(db *gorm.DB) *AnnouncementHandler {
	return &AnnouncementHandler{db: db}
}

// CreateAnnouncement posts a new announcement (ADMIN only).
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	var input struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	announcement := models.Announcement{
		Title:       input.Title,
		Description: input.Description,
		AuthorName:  c.GetString("name"),
		AuthorImage: c.GetString("photo"),
	}

	if err := h.db.Create(&announcement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create announcement"})
		return
	}

	c.JSON(http.StatusCreated, announcement)
}

// GetAnnouncements returns all announcements, newest first.
func (h *AnnouncementHandler) GetAnnouncements(c *gin.Context) {
	var announcements []models.Announcement
	if err := h.db.Order("created_at desc").Find(&announcements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch announcements"})
		return
	}

	if announcements == nil {
		announcements = []models.Announcement{}
	}

	c.JSON(http.StatusOK, announcements)
}

// CountAnnouncements returns the announcement total for the navbar badge.
func (h *AnnouncementHandler) CountAnnouncements(c *gin.Context) {
	var count int64
	if err := h.db.Model(&models.Announcement{}).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count announcements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
