package models

import "time"

type Announcement struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	AuthorName  string    `json:"authorName"`
	AuthorImage string    `json:"authorImage"`
	CreatedAt   time.Time `json:"createdAt"`
}
