package models

import "time"

type Post struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `json:"description"`
	Tag           string    `gorm:"index" json:"tag"`
	AuthorName    string    `json:"authorName"`
	AuthorEmail   string    `gorm:"index" json:"authorEmail"`
	AuthorImage   string    `json:"authorImage"`
	UpVoteCount   int       `gorm:"default:0" json:"upVoteCount"`
	DownVoteCount int       `gorm:"default:0" json:"downVoteCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"-"`
}

type CreatePostRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tag         string `json:"tag"`
}
