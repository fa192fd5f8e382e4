package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradelink/models"
	"tradelink/utils"
)

// errLeadCapped aborts the view transaction when the guarded counter update
// loses the race to the cap, rolling the view row back with it.
var errLeadCapped = errors.New("lead view cap reached")

// PurchaseLead records a seller's one-time access purchase. Failure order:
// missing lead, inactive lead, duplicate purchase, seller outside the
// distribution set. The write itself is a single conditional insert so two
// concurrent calls from the same seller cannot both succeed.
func (lc *LeadController) PurchaseLead(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	leadID := c.Params("id")

	var input struct {
		Amount int `json:"amount" validate:"required,gt=0"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var lead models.Lead
	if err := lc.DB.Preload("Distributions").Preload("Purchases").First(&lead, leadID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}

	if !lead.IsActive {
		return utils.ErrorResponse(c, fiber.StatusGone, "Lead no longer active", nil)
	}

	if lead.PurchaseBy(user.ID) != nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Lead already purchased", nil)
	}

	if !lead.IsDistributedTo(user.ID) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Lead not available for this seller", nil)
	}

	purchase := models.LeadPurchase{
		LeadID:      lead.ID,
		SellerID:    user.ID,
		Amount:      input.Amount,
		PurchasedAt: time.Now(),
	}

	result := lc.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "lead_id"}, {Name: "seller_id"}},
		DoNothing: true,
	}).Create(&purchase)
	if result.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to record purchase", result.Error)
	}
	if result.RowsAffected == 0 {
		// A concurrent request from the same seller won the insert
		return utils.ErrorResponse(c, fiber.StatusConflict, "Lead already purchased", nil)
	}

	lc.Logger.Printf("Seller %d purchased lead %d for %d", user.ID, lead.ID, input.Amount)

	projection, err := lc.projectLead(lead.ID, user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(projection))
}

// ViewLead consumes one of the lead's capped view slots for a purchasing
// seller. Repeat views by the same seller are idempotent. The slot append and
// the possible deactivation happen in one guarded update; the call that fills
// the last slot already receives the post-deactivation redaction.
func (lc *LeadController) ViewLead(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	leadID := c.Params("id")

	var lead models.Lead
	if err := lc.DB.Preload("Purchases").Preload("Views").First(&lead, leadID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}

	if lead.PurchaseBy(user.ID) == nil {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Lead access not purchased", nil)
	}

	if lead.IsActive && !lead.HasViewed(user.ID) {
		err := lc.DB.Transaction(func(tx *gorm.DB) error {
			view := models.LeadView{
				LeadID:   lead.ID,
				SellerID: user.ID,
				ViewedAt: time.Now(),
			}
			inserted := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "lead_id"}, {Name: "seller_id"}},
				DoNothing: true,
			}).Create(&view)
			if inserted.Error != nil {
				return inserted.Error
			}
			if inserted.RowsAffected == 0 {
				// Concurrent duplicate from the same seller; no slot consumed
				return nil
			}

			// Guarded counter move: only calls that find the lead active and
			// below the cap may increment, and the increment that reaches the
			// cap flips is_active in the same statement.
			moved := tx.Model(&models.Lead{}).
				Where("id = ? AND is_active = ? AND view_count < max_views", lead.ID, true).
				Updates(map[string]interface{}{
					"view_count": gorm.Expr("view_count + 1"),
					"is_active":  gorm.Expr("view_count + 1 < max_views"),
				})
			if moved.Error != nil {
				return moved.Error
			}
			if moved.RowsAffected == 0 {
				return errLeadCapped
			}
			return nil
		})
		if err != nil && err != errLeadCapped {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to record view", err)
		}
		if err == errLeadCapped {
			lc.Logger.Printf("Seller %d viewed lead %d after cap; no slot consumed", user.ID, lead.ID)
		}
	}

	projection, err := lc.projectLead(lead.ID, user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}

	return c.JSON(utils.SuccessResponse(projection))
}

// projectLead reloads a lead and runs it through the access control gate for
// the given viewer
func (lc *LeadController) projectLead(leadID uint, viewer *models.User) (models.LeadProjection, error) {
	var lead models.Lead
	err := lc.DB.Preload("Buyer").Preload("Purchases").Preload("Views").First(&lead, leadID).Error
	if err != nil {
		return models.LeadProjection{}, err
	}
	return models.RedactLead(&lead, viewer.ID, viewer.EffectiveTier(), lead.Buyer.Name), nil
}
