package dto

import "time"

// ======================
// Request DTOs
// ======================

type CreatePaymentMethodRequest struct {
	Type          string `json:"type" validate:"required,max=50"`
	AccountNumber string `json:"account_number" validate:"required,max=100"`
	IsDefault     bool   `json:"is_default"`
}

// ======================
// Response DTOs
// ======================

type PaymentMethodResponse struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	AccountNumber string    `json:"account_number"`
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
}
