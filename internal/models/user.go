package models

import "time"

type User struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Name     string `json:"name"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `json:"-"` // empty for OAuth users
	Photo    string `json:"photo"`

	// Membership fields
	Role   string `gorm:"default:user" json:"role"`     // "user" or "admin"
	Status string `gorm:"default:bronze" json:"status"` // "bronze" or "gold"

	// OAuth fields
	GoogleID     string `gorm:"index" json:"-"`
	AuthProvider string `json:"authProvider"` // "email" or "google"

	LastLogin time.Time `json:"lastLogin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Photo    string `json:"photo"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
