package models

import "time"

// Report model - a user flagging a comment (or a whole post) for moderation.
type Report struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	PostID        int       `gorm:"index" json:"postId"`
	CommentID     *int      `json:"commentId,omitempty"`
	ReporterEmail string    `json:"reporterEmail"`
	Feedback      string    `gorm:"not null" json:"feedback"`
	CreatedAt     time.Time `json:"createdAt"`
}
