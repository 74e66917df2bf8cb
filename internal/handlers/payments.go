package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"gorm.io/gorm"

	"github.com/echoverse/backend/internal/models"
)

type PaymentHandler struct {
	db *gorm.DB
}

func NewPaymentHandler(db *gorm.DB, stripeKey string) *PaymentHandler {
	stripe.Key = stripeKey
	return &PaymentHandler{db: db}
}

// CreatePaymentIntent asks the payment gateway for a client secret the
// frontend uses to confirm the card charge.
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var input struct {
		Amount int64 `json:"amount"`
	}

	if err := c.ShouldBindJSON(&input); err != nil || input.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(input.Amount),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment intent creation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clientSecret": intent.ClientSecret})
}

// SavePayment records a confirmed payment and upgrades the payer to gold.
func (h *PaymentHandler) SavePayment(c *gin.Context) {
	var input struct {
		Amount        int64  `json:"amount" binding:"required"`
		TransactionID string `json:"transactionId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount and transaction id are required"})
		return
	}

	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	payment := models.Payment{
		Email:         email,
		Amount:        input.Amount,
		TransactionID: input.TransactionID,
		Status:        "succeeded",
	}

	if err := h.db.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save payment"})
		return
	}

	h.db.Model(&models.User{}).Where("email = ?", email).Update("status", "gold")

	c.JSON(http.StatusCreated, gin.H{"insertedId": payment.ID})
}
