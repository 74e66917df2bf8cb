package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/echoverse/backend/internal/feed"
	"github.com/echoverse/backend/internal/models"
	"github.com/echoverse/backend/internal/votes"
)

// VoteCaster applies a single voter's direction request to a post.
type VoteCaster interface {
	CastVote(ctx context.Context, postID int, voterID string, direction votes.Direction) (votes.Counts, error)
}

// FeedLister builds paginated, enriched post views.
type FeedLister interface {
	ListPosts(ctx context.Context, q feed.Query) (feed.Page, error)
	ListPostsByAuthor(ctx context.Context, email string, limit int) ([]feed.Item, error)
}

type PostHandler struct {
	db     *gorm.DB
	ledger VoteCaster
	feed   FeedLister
}

func NewPostHandler(db *gorm.DB, ledger VoteCaster, lister FeedLister) *PostHandler {
	return &PostHandler{db: db, ledger: ledger, feed: lister}
}

// GetPosts returns one page of the feed, filtered and sorted per query params.
func (h *PostHandler) GetPosts(c *gin.Context) {
	q := feed.Query{
		Search:   c.Query("search"),
		Tag:      c.Query("tag"),
		Sort:     c.DefaultQuery("sort", feed.SortRecent),
		Page:     atoiOrZero(c.Query("page")),
		PageSize: atoiOrZero(c.Query("pageSize")),
	}

	page, err := h.feed.ListPosts(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetPostsByAuthor returns an author's newest posts with comment counts.
func (h *PostHandler) GetPostsByAuthor(c *gin.Context) {
	email := c.Param("email")
	limit := atoiOrZero(c.Query("limit"))

	items, err := h.feed.ListPostsByAuthor(c.Request.Context(), email, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch author posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": items})
}

// VotePost handles PATCH /posts/:id/vote. The voter identity comes from the
// auth token; a mismatching voterId in the body is rejected.
func (h *PostHandler) VotePost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	var input struct {
		VoterID   string `json:"voterId"`
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Direction is required"})
		return
	}

	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	if input.VoterID != "" && input.VoterID != email {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only vote as yourself"})
		return
	}

	direction, err := votes.ParseDirection(input.Direction)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Direction must be up, down or none"})
		return
	}

	counts, err := h.ledger.CastVote(c.Request.Context(), postID, email, direction)
	switch {
	case errors.Is(err, votes.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	case errors.Is(err, votes.ErrAlreadyVoted):
		c.JSON(http.StatusConflict, gin.H{"error": "You already voted this way"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record vote"})
		return
	}

	c.JSON(http.StatusOK, counts)
}

// GetPost returns a single post by ID with its comment count.
func (h *PostHandler) GetPost(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var commentCount int64
	h.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount)

	c.JSON(http.StatusOK, gin.H{
		"id":             post.ID,
		"title":          post.Title,
		"description":    post.Description,
		"tag":            post.Tag,
		"authorName":     post.AuthorName,
		"authorEmail":    post.AuthorEmail,
		"authorImage":    post.AuthorImage,
		"upVoteCount":    post.UpVoteCount,
		"downVoteCount":  post.DownVoteCount,
		"commentCount":   commentCount,
		"voteDifference": post.UpVoteCount - post.DownVoteCount,
		"createdAt":      post.CreatedAt,
	})
}

// CreatePost creates a new post (PROTECTED - requires authentication)
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Tag         string `json:"tag" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and tag are required"})
		return
	}

	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	post := models.Post{
		Title:       input.Title,
		Description: input.Description,
		Tag:         input.Tag,
		AuthorName:  c.GetString("name"),
		AuthorEmail: email,
		AuthorImage: c.GetString("photo"),
	}

	if err := h.db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// DeletePost deletes a post and its votes (owner or admin).
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID := c.Param("id")

	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.AuthorEmail != email && c.GetString("role") != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
		return
	}

	// Clean up votes and comments on this post too
	h.db.Where("post_id = ?", post.ID).Delete(&models.Vote{})
	h.db.Where("post_id = ?", post.ID).Delete(&models.Comment{})

	if err := h.db.Delete(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
