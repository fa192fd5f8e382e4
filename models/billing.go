package models

import (
	"gorm.io/gorm"
)

// MembershipPlan represents a purchasable membership tier
type MembershipPlan struct {
	gorm.Model
	Name        string `gorm:"not null;uniqueIndex" json:"name"` // free, basic, premium
	Tier        string `gorm:"not null" json:"tier"`
	Description string `json:"description"`

	// Price in cents
	Price    int    `gorm:"not null" json:"price"`
	Currency string `gorm:"default:'usd'" json:"currency"`

	// For display purposes
	DisplayPrice string `gorm:"-" json:"display_price"` // e.g. "$29"
	IsPopular    bool   `gorm:"default:false" json:"is_popular"`

	StripePriceID   string `json:"stripe_price_id"`                          // price_xxx from Stripe dashboard
	BillingInterval string `json:"billing_interval" gorm:"default:'monthly'"` // one_time, monthly, yearly
}

// MembershipTransaction records membership upgrade payments
type MembershipTransaction struct {
	gorm.Model
	UserID uint  `gorm:"not null;index" json:"user_id"`
	PlanID *uint `json:"plan_id,omitempty"`

	// Financial information
	Amount        int    `json:"amount"` // in cents
	Currency      string `gorm:"default:'usd'" json:"currency"`
	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `gorm:"default:'pending'" json:"payment_status"` // pending, succeeded, failed, refunded

	// Metadata
	Description string `json:"description"`

	StripePaymentIntentID string `gorm:"index" json:"stripe_payment_intent_id"`
	StripeChargeID        string `json:"stripe_charge_id"`
	ReceiptURL            string `json:"receipt_url,omitempty"`

	// Relations
	User User            `json:"-"`
	Plan *MembershipPlan `json:"plan,omitempty"`
}
