package models

import (
	"testing"
	"time"
)

func testLead(active bool) *Lead {
	return &Lead{
		BuyerID:      1,
		ProductID:    7,
		Category:     "Electronics",
		Message:      "Need 500 units",
		Quantity:     500,
		Budget:       250000,
		BuyerEmail:   "buyer@acme.example",
		BuyerPhone:   "+1-555-0100",
		BuyerCompany: "Acme Corp",
		Status:       LeadStatusOpen,
		MaxViews:     DefaultMaxViews,
		IsActive:     active,
		Purchases: []LeadPurchase{
			{LeadID: 1, SellerID: 42, Amount: 100, PurchasedAt: time.Now()},
		},
		Views: []LeadView{
			{LeadID: 1, SellerID: 42, ViewedAt: time.Now()},
		},
	}
}

func TestRedactLead(t *testing.T) {
	tests := []struct {
		name        string
		active      bool
		viewerID    uint
		tier        string
		wantEmail   string
		wantPhone   string
		wantCompany string
		wantName    string
	}{
		{
			name:        "inactive lead hides everything from premium",
			active:      false,
			viewerID:    42,
			tier:        TierPremium,
			wantEmail:   MaskedInactive,
			wantPhone:   MaskedInactive,
			wantCompany: MaskedInactive,
			wantName:    MaskedInactive,
		},
		{
			name:        "inactive lead hides everything from free",
			active:      false,
			viewerID:    99,
			tier:        TierFree,
			wantEmail:   MaskedInactive,
			wantPhone:   MaskedInactive,
			wantCompany: MaskedInactive,
			wantName:    MaskedInactive,
		},
		{
			name:        "free tier masks email and phone, keeps company",
			active:      true,
			viewerID:    42,
			tier:        TierFree,
			wantEmail:   MaskedEmail,
			wantPhone:   MaskedPhone,
			wantCompany: "Acme Corp",
			wantName:    MaskedBuyerName,
		},
		{
			name:        "basic tier sees full contact",
			active:      true,
			viewerID:    42,
			tier:        TierBasic,
			wantEmail:   "buyer@acme.example",
			wantPhone:   "+1-555-0100",
			wantCompany: "Acme Corp",
			wantName:    "Jane Buyer",
		},
		{
			name:        "premium tier sees full contact",
			active:      true,
			viewerID:    42,
			tier:        TierPremium,
			wantEmail:   "buyer@acme.example",
			wantPhone:   "+1-555-0100",
			wantCompany: "Acme Corp",
			wantName:    "Jane Buyer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := testLead(tt.active)
			got := RedactLead(lead, tt.viewerID, tt.tier, "Jane Buyer")

			if got.BuyerContact.Email != tt.wantEmail {
				t.Errorf("email = %q, want %q", got.BuyerContact.Email, tt.wantEmail)
			}
			if got.BuyerContact.Phone != tt.wantPhone {
				t.Errorf("phone = %q, want %q", got.BuyerContact.Phone, tt.wantPhone)
			}
			if got.BuyerContact.CompanyName != tt.wantCompany {
				t.Errorf("company = %q, want %q", got.BuyerContact.CompanyName, tt.wantCompany)
			}
			if got.BuyerName != tt.wantName {
				t.Errorf("buyer name = %q, want %q", got.BuyerName, tt.wantName)
			}
		})
	}
}

func TestRedactLeadViewerState(t *testing.T) {
	lead := testLead(true)

	purchaser := RedactLead(lead, 42, TierBasic, "Jane Buyer")
	if !purchaser.Purchased || !purchaser.Viewed {
		t.Errorf("purchaser projection: purchased=%t viewed=%t, want true/true", purchaser.Purchased, purchaser.Viewed)
	}

	stranger := RedactLead(lead, 99, TierBasic, "Jane Buyer")
	if stranger.Purchased || stranger.Viewed {
		t.Errorf("stranger projection: purchased=%t viewed=%t, want false/false", stranger.Purchased, stranger.Viewed)
	}
}

func TestLeadMembershipHelpers(t *testing.T) {
	lead := testLead(true)
	lead.Distributions = []LeadDistribution{
		{LeadID: 1, SellerID: 42},
		{LeadID: 1, SellerID: 43},
	}

	if !lead.IsDistributedTo(43) {
		t.Error("expected seller 43 in distribution set")
	}
	if lead.IsDistributedTo(99) {
		t.Error("seller 99 should not be in distribution set")
	}
	if p := lead.PurchaseBy(42); p == nil || p.Amount != 100 {
		t.Errorf("PurchaseBy(42) = %+v, want amount 100", p)
	}
	if lead.PurchaseBy(43) != nil {
		t.Error("seller 43 has no purchase")
	}
	if !lead.HasViewed(42) || lead.HasViewed(43) {
		t.Error("view membership mismatch")
	}
}
