package models

import "time"

type Comment struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	PostID      int       `gorm:"index;not null" json:"postId"`
	Body        string    `gorm:"not null" json:"body"`
	AuthorName  string    `json:"authorName"`
	AuthorEmail string    `json:"authorEmail"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"-"`
}

type CreateCommentRequest struct {
	Body string `json:"body"`
}
