package controller

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"

	"tradelink/models"
)

func TestCreateLeadFanOut(t *testing.T) {
	env := newTestEnv(t)

	buyer := env.createUser(t, models.RoleBuyer, models.TierFree)
	sellerA := env.createUser(t, models.RoleSeller, models.TierFree)
	sellerB := env.createUser(t, models.RoleSeller, models.TierBasic)
	sellerC := env.createUser(t, models.RoleSeller, models.TierPremium)
	bystander := env.createUser(t, models.RoleSeller, models.TierPremium)

	electronics := env.createCategory(t, "Electronics")
	textiles := env.createCategory(t, "Textiles")

	product := env.createProduct(t, sellerA.ID, electronics.ID, true)
	env.createProduct(t, sellerB.ID, electronics.ID, true)
	env.createProduct(t, sellerC.ID, electronics.ID, true)
	// Active product in another category must not join the fan-out
	env.createProduct(t, bystander.ID, textiles.ID, true)

	leadID := env.submitLead(t, buyer.ID, product.ID)

	var lead models.Lead
	if err := env.db.Preload("Distributions").First(&lead, leadID).Error; err != nil {
		t.Fatalf("failed to load lead: %v", err)
	}

	if len(lead.Distributions) != 3 {
		t.Fatalf("distributed to %d sellers, want 3", len(lead.Distributions))
	}
	if lead.Category != "Electronics" {
		t.Errorf("category snapshot = %q, want Electronics", lead.Category)
	}
	if lead.Status != models.LeadStatusOpen || !lead.IsActive || lead.IsRead {
		t.Errorf("fresh lead state: status=%q active=%t read=%t", lead.Status, lead.IsActive, lead.IsRead)
	}
	if lead.MaxViews != models.DefaultMaxViews {
		t.Errorf("max views = %d, want %d", lead.MaxViews, models.DefaultMaxViews)
	}
	if !lead.IsDistributedTo(sellerA.ID) || !lead.IsDistributedTo(sellerB.ID) || !lead.IsDistributedTo(sellerC.ID) {
		t.Error("expected all in-category sellers in distribution set")
	}
	if lead.IsDistributedTo(bystander.ID) {
		t.Error("out-of-category seller must not be distributed")
	}
}

func TestCreateLeadSnapshotIsImmutable(t *testing.T) {
	env := newTestEnv(t)

	buyer := env.createUser(t, models.RoleBuyer, models.TierFree)
	seller := env.createUser(t, models.RoleSeller, models.TierFree)
	latecomer := env.createUser(t, models.RoleSeller, models.TierFree)

	electronics := env.createCategory(t, "Electronics")
	product := env.createProduct(t, seller.ID, electronics.ID, true)

	leadID := env.submitLead(t, buyer.ID, product.ID)

	// Catalog changes after creation must not alter the distribution set
	env.createProduct(t, latecomer.ID, electronics.ID, true)

	var lead models.Lead
	if err := env.db.Preload("Distributions").First(&lead, leadID).Error; err != nil {
		t.Fatal(err)
	}
	if len(lead.Distributions) != 1 || lead.Distributions[0].SellerID != seller.ID {
		t.Errorf("distribution set changed after creation: %+v", lead.Distributions)
	}
}

func TestCreateLeadEmptySellerSet(t *testing.T) {
	env := newTestEnv(t)

	buyer := env.createUser(t, models.RoleBuyer, models.TierFree)
	seller := env.createUser(t, models.RoleSeller, models.TierFree)

	electronics := env.createCategory(t, "Electronics")
	// Only an inactive product exists, so the fan-out set is empty
	product := env.createProduct(t, seller.ID, electronics.ID, false)

	leadID := env.submitLead(t, buyer.ID, product.ID)

	var lead models.Lead
	if err := env.db.Preload("Distributions").First(&lead, leadID).Error; err != nil {
		t.Fatal(err)
	}
	if len(lead.Distributions) != 0 {
		t.Errorf("expected inert lead with no recipients, got %d", len(lead.Distributions))
	}
	if !lead.IsActive {
		t.Error("inert lead must still be active")
	}
}

func TestCreateLeadProductNotFound(t *testing.T) {
	env := newTestEnv(t)
	buyer := env.createUser(t, models.RoleBuyer, models.TierFree)

	resp, _ := env.request(t, http.MethodPost, "/api/v1/leads/", buyer.ID, fiber.Map{
		"product_id": 9999,
		"message":    "Anyone selling this?",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateLeadEnqueuesNotifications(t *testing.T) {
	env := newTestEnv(t)

	buyer := env.createUser(t, models.RoleBuyer, models.TierFree)
	sellerA := env.createUser(t, models.RoleSeller, models.TierFree)
	sellerB := env.createUser(t, models.RoleSeller, models.TierFree)

	electronics := env.createCategory(t, "Electronics")
	product := env.createProduct(t, sellerA.ID, electronics.ID, true)
	env.createProduct(t, sellerB.ID, electronics.ID, true)

	leadID := env.submitLead(t, buyer.ID, product.ID)

	var notifications []models.LeadNotification
	if err := env.db.Where("lead_id = ?", leadID).Find(&notifications).Error; err != nil {
		t.Fatal(err)
	}

	sellerCount, buyerCount := 0, 0
	for _, n := range notifications {
		switch n.Kind {
		case models.NotificationSellerNewLead:
			sellerCount++
		case models.NotificationBuyerAck:
			buyerCount++
			if n.RecipientID != buyer.ID {
				t.Errorf("buyer ack addressed to %d, want %d", n.RecipientID, buyer.ID)
			}
		}
	}
	if sellerCount != 2 || buyerCount != 1 {
		t.Errorf("got %d seller + %d buyer notifications, want 2 + 1", sellerCount, buyerCount)
	}
}

func TestCreateLeadInvalidContactEmail(t *testing.T) {
	env := newTestEnv(t)

	buyer := env.createUser(t, models.RoleBuyer, models.TierFree)
	seller := env.createUser(t, models.RoleSeller, models.TierFree)
	electronics := env.createCategory(t, "Electronics")
	product := env.createProduct(t, seller.ID, electronics.ID, true)

	resp, _ := env.request(t, http.MethodPost, "/api/v1/leads/", buyer.ID, fiber.Map{
		"product_id":    product.ID,
		"message":       "Quote please",
		"contact_email": "not-an-email",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
