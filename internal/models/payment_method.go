package models

// PaymentMethod stores how a user pays or gets paid. At most one method per
// user carries IsDefault; SetDefault clears the others in the same
// transaction.
type PaymentMethod struct {
	BaseModel
	UserID        string `gorm:"not null;index" json:"user_id"`
	Type          string `gorm:"not null" json:"type"` // "card", "mobile", ...
	AccountNumber string `gorm:"not null" json:"account_number"`
	IsDefault     bool   `gorm:"default:false" json:"is_default"`
}
