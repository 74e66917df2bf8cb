package models

import "time"

// Payment model - a completed membership payment recorded by the client
// after the payment gateway confirms the charge.
type Payment struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	Email         string    `gorm:"index;not null" json:"email"`
	Amount        int64     `json:"amount"` // cents
	TransactionID string    `json:"transactionId"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}
