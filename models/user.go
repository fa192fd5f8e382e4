package models

import (
	"time"

	"gorm.io/gorm"
)

// Membership tiers controlling buyer-contact visibility
const (
	TierFree    = "free"
	TierBasic   = "basic"
	TierPremium = "premium"
)

// User roles
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// User represents a buyer or seller account in the marketplace
type User struct {
	gorm.Model

	// Authentication fields
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	TokenVersion int    `gorm:"default:0" json:"-"`

	// Profile information
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`

	// Account status
	Role     string `gorm:"default:'buyer'" json:"role"` // buyer, seller
	IsActive bool   `gorm:"default:true" json:"is_active"`

	// Membership information
	MembershipTier      string     `gorm:"default:'free'" json:"membership_tier"` // free, basic, premium
	MembershipExpiresAt *time.Time `json:"membership_expires_at,omitempty"`

	// Stripe integration
	StripeCustomerID *string `gorm:"index" json:"stripe_customer_id,omitempty"`
	DefaultCurrency  string  `gorm:"default:'usd'" json:"default_currency"`

	// Relations
	Products     []Product               `gorm:"foreignKey:SellerID" json:"products,omitempty"`
	Leads        []Lead                  `gorm:"foreignKey:BuyerID" json:"leads,omitempty"`
	Transactions []MembershipTransaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}

// IsSeller reports whether the account can list products and receive leads
func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}

// EffectiveTier returns the tier used for contact visibility. A paid
// membership past its expiry falls back to free.
func (u *User) EffectiveTier() string {
	if u.MembershipTier != TierFree && u.MembershipExpiresAt != nil && u.MembershipExpiresAt.Before(time.Now()) {
		return TierFree
	}
	return u.MembershipTier
}

// RefreshToken stores a hashed refresh token with its expiry
type RefreshToken struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TokenHash string    `gorm:"not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`

	User User `json:"-"`
}
