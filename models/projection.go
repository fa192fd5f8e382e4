package models

import "time"

// Placeholder values substituted by the access control gate
const (
	MaskedInactive  = "Hidden - Lead inactive"
	MaskedEmail     = "***@***.com"
	MaskedPhone     = "***-***-****"
	MaskedBuyerName = "Premium Required"
)

// BuyerContact is the contact payload as seen through the gate
type BuyerContact struct {
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
}

// LeadProjection is the caller-specific view of a lead. Every listing and
// detail response is built through RedactLead, never from the raw aggregate.
type LeadProjection struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"product_id"`
	Category  string `json:"category"`

	Message  string `json:"message"`
	Quantity int    `json:"quantity"`
	Budget   int    `json:"budget"`

	BuyerName    string       `json:"buyer_name"`
	BuyerContact BuyerContact `json:"buyer_contact"`

	Status    string     `json:"status"`
	IsActive  bool       `json:"is_active"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	ViewCount int        `json:"view_count"`
	MaxViews  int        `json:"max_views"`

	// Per-viewer interaction state
	Purchased bool `json:"purchased"`
	Viewed    bool `json:"viewed"`

	CreatedAt time.Time `json:"created_at"`
}

// RedactLead applies the contact-visibility policy for one viewer. It is a
// pure function shared by the listing, detail and view paths so the gates
// cannot drift apart. Precedence: inactive leads hide everything, then a
// free tier masks email/phone and the buyer name, then basic/premium see all.
func RedactLead(lead *Lead, viewerID uint, tier string, buyerName string) LeadProjection {
	p := LeadProjection{
		ID:        lead.ID,
		ProductID: lead.ProductID,
		Category:  lead.Category,
		Message:   lead.Message,
		Quantity:  lead.Quantity,
		Budget:    lead.Budget,
		Status:    lead.Status,
		IsActive:  lead.IsActive,
		IsRead:    lead.IsRead,
		ReadAt:    lead.ReadAt,
		ViewCount: lead.ViewCount,
		MaxViews:  lead.MaxViews,
		Purchased: lead.PurchaseBy(viewerID) != nil,
		Viewed:    lead.HasViewed(viewerID),
		CreatedAt: lead.CreatedAt,
	}

	switch {
	case !lead.IsActive:
		// Inactive overrides tier and purchase state for every caller
		p.BuyerName = MaskedInactive
		p.BuyerContact = BuyerContact{
			Email:       MaskedInactive,
			Phone:       MaskedInactive,
			CompanyName: MaskedInactive,
		}
	case tier == TierFree:
		p.BuyerName = MaskedBuyerName
		p.BuyerContact = BuyerContact{
			Email:       MaskedEmail,
			Phone:       MaskedPhone,
			CompanyName: lead.BuyerCompany,
		}
	default:
		p.BuyerName = buyerName
		p.BuyerContact = BuyerContact{
			Email:       lead.BuyerEmail,
			Phone:       lead.BuyerPhone,
			CompanyName: lead.BuyerCompany,
		}
	}

	return p
}
