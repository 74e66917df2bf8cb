package models

import "time"

// Vote model - one row per (post, voter); direction is "up" or "down".
// A retracted vote is deleted, not stored as a third state.
type Vote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	PostID    int       `gorm:"uniqueIndex:idx_votes_post_voter" json:"postId"`
	VoterID   string    `gorm:"uniqueIndex:idx_votes_post_voter" json:"voterId"`
	Direction string    `json:"direction"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}
