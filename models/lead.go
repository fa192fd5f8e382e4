package models

import (
	"time"

	"gorm.io/gorm"
)

// Lead status values (buyer/seller-facing resolution state, independent of
// distribution and purchase state)
const (
	LeadStatusOpen   = "open"
	LeadStatusClosed = "closed"
)

// DefaultMaxViews is the cap of distinct seller views before a lead is deactivated
const DefaultMaxViews = 5

// AvailableWindow is the default freshness filter for available-lead listings
const AvailableWindow = 48 * time.Hour

// Lead represents one buyer inquiry and all per-seller interaction state
// attached to it. The distribution set is fixed at creation; purchases and
// views accumulate under per-seller uniqueness; IsActive flips to false
// exactly once, when ViewCount reaches MaxViews.
type Lead struct {
	gorm.Model
	BuyerID   uint `gorm:"not null;index" json:"buyer_id"`
	ProductID uint `gorm:"not null;index" json:"product_id"`

	// Category is a snapshot copy taken at creation, never a live join, so
	// later catalog changes cannot alter eligibility.
	Category string `gorm:"not null;index" json:"category"`

	// Buyer-supplied inquiry content
	Message  string `gorm:"type:text" json:"message"`
	Quantity int    `json:"quantity"`
	Budget   int    `json:"budget"` // in cents

	// Contact payload; exists only on the aggregate
	BuyerEmail   string `gorm:"not null" json:"buyer_email"`
	BuyerPhone   string `json:"buyer_phone"`
	BuyerCompany string `json:"buyer_company"`

	Status string `gorm:"default:'open'" json:"status"` // open, closed

	// Single shared read flag, toggled by whichever seller touched it last
	IsRead bool       `gorm:"default:false" json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	// View cap state. ViewCount mirrors len(Views) and is only moved by the
	// conditional update in the view handler, which also flips IsActive.
	// IsActive has no column default for the same reason as Product.IsActive;
	// the create handler sets it explicitly.
	MaxViews  int  `gorm:"default:5" json:"max_views"`
	ViewCount int  `gorm:"default:0" json:"view_count"`
	IsActive  bool `json:"is_active"`

	// Relations
	Buyer         User               `json:"-"`
	Product       Product            `json:"-"`
	Distributions []LeadDistribution `gorm:"foreignKey:LeadID" json:"distributions,omitempty"`
	Purchases     []LeadPurchase     `gorm:"foreignKey:LeadID" json:"purchases,omitempty"`
	Views         []LeadView         `gorm:"foreignKey:LeadID" json:"views,omitempty"`
}

// LeadDistribution records one seller in the fan-out set. Rows are written
// once when the lead is created and never modified.
type LeadDistribution struct {
	gorm.Model
	LeadID   uint `gorm:"not null;index;uniqueIndex:idx_lead_dist_seller" json:"lead_id"`
	SellerID uint `gorm:"not null;index;uniqueIndex:idx_lead_dist_seller" json:"seller_id"`

	Lead Lead `json:"-"`
}

// LeadPurchase is a seller's one-time access grant for a lead
type LeadPurchase struct {
	gorm.Model
	LeadID   uint `gorm:"not null;index;uniqueIndex:idx_lead_purchase_seller" json:"lead_id"`
	SellerID uint `gorm:"not null;index;uniqueIndex:idx_lead_purchase_seller" json:"seller_id"`

	Amount      int       `gorm:"not null" json:"amount"` // in cents
	PurchasedAt time.Time `gorm:"not null" json:"purchased_at"`

	Lead Lead `json:"-"`
}

// LeadView records one seller's first view of a purchased lead
type LeadView struct {
	gorm.Model
	LeadID   uint `gorm:"not null;index;uniqueIndex:idx_lead_view_seller" json:"lead_id"`
	SellerID uint `gorm:"not null;index;uniqueIndex:idx_lead_view_seller" json:"seller_id"`

	ViewedAt time.Time `gorm:"not null" json:"viewed_at"`

	Lead Lead `json:"-"`
}

// Notification kinds for the outbox
const (
	NotificationSellerNewLead = "seller_new_lead"
	NotificationBuyerAck      = "buyer_ack"
)

// LeadNotification is an outbox row picked up by the notify worker. Dispatch
// is best-effort and never part of the lead write.
type LeadNotification struct {
	gorm.Model
	LeadID      uint   `gorm:"not null;index" json:"lead_id"`
	RecipientID uint   `gorm:"not null;index" json:"recipient_id"`
	Kind        string `gorm:"not null" json:"kind"` // seller_new_lead, buyer_ack

	SentAt    *time.Time `json:"sent_at,omitempty"`
	Attempts  int        `gorm:"default:0" json:"attempts"`
	LastError string     `json:"last_error,omitempty"`

	Lead Lead `json:"-"`
}

// IsDistributedTo reports membership in the preloaded fan-out set
func (l *Lead) IsDistributedTo(sellerID uint) bool {
	for _, d := range l.Distributions {
		if d.SellerID == sellerID {
			return true
		}
	}
	return false
}

// PurchaseBy returns the preloaded purchase record for a seller, if any
func (l *Lead) PurchaseBy(sellerID uint) *LeadPurchase {
	for i := range l.Purchases {
		if l.Purchases[i].SellerID == sellerID {
			return &l.Purchases[i]
		}
	}
	return nil
}

// HasViewed reports whether a seller already consumed a view slot
func (l *Lead) HasViewed(sellerID uint) bool {
	for _, v := range l.Views {
		if v.SellerID == sellerID {
			return true
		}
	}
	return false
}
