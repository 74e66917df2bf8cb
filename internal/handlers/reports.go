package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/echoverse/backend/internal/models"
	"github.com/echoverse/backend/internal/notify"
)

type ReportHandler struct {
	db       *gorm.DB
	notifier *notify.SMSNotifier
}

func NewReportHandler(db *gorm.DB, notifier *notify.SMSNotifier) *ReportHandler {
	return &ReportHandler{db: db, notifier: notifier}
}

// CreateReport files a report against a post or one of its comments.
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var input struct {
		PostID    int    `json:"postId" binding:"required"`
		CommentID *int   `json:"commentId"`
		Feedback  string `json:"feedback" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post id and feedback are required"})
		return
	}

	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, input.PostID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	report := models.Report{
		PostID:        input.PostID,
		CommentID:     input.CommentID,
		ReporterEmail: email,
		Feedback:      input.Feedback,
	}

	if err := h.db.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		return
	}

	// Best effort - the report is saved either way
	if err := h.notifier.ReportFiled(report.PostID, email); err != nil {
		log.Printf("Failed to send report SMS: %v", err)
	}

	c.JSON(http.StatusCreated, report)
}

// GetReports lists all open reports (ADMIN only).
func (h *ReportHandler) GetReports(c *gin.Context) {
	var reports []models.Report
	if err := h.db.Order("created_at desc").Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}

	if reports == nil {
		reports = []models.Report{}
	}

	c.JSON(http.StatusOK, reports)
}

// DeleteReport dismisses a report (ADMIN only).
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	reportID := c.Param("id")

	var report models.Report
	if err := h.db.First(&report, reportID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	if err := h.db.Delete(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report deleted successfully"})
}
