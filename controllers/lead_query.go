package controller

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tradelink/models"
	"tradelink/utils"
)

// parseDateParam accepts RFC3339 or a plain date
func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// ListAvailableLeads returns the leads distributed to the calling seller.
// Without explicit date parameters only leads younger than the 48-hour
// freshness window are returned; an explicit date range replaces the window
// entirely rather than intersecting it.
func (lc *LeadController) ListAvailableLeads(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := lc.DB.Model(&models.Lead{}).
		Joins("JOIN lead_distributions ON lead_distributions.lead_id = leads.id").
		Where("lead_distributions.seller_id = ?", user.ID)

	if category := c.Query("category"); category != "" {
		// Matches the snapshot taken at creation, not the live catalog
		query = query.Where("leads.category = ?", category)
	}

	dateFrom := c.Query("date_from")
	dateTo := c.Query("date_to")
	if dateFrom != "" || dateTo != "" {
		if dateFrom != "" {
			from, err := parseDateParam(dateFrom)
			if err != nil {
				return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid date_from", err)
			}
			query = query.Where("leads.created_at >= ?", from)
		}
		if dateTo != "" {
			to, err := parseDateParam(dateTo)
			if err != nil {
				return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid date_to", err)
			}
			query = query.Where("leads.created_at <= ?", to)
		}
	} else {
		query = query.Where("leads.created_at >= ?", time.Now().Add(-models.AvailableWindow))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count leads", err)
	}

	var leads []models.Lead
	err := query.Select("leads.*").
		Order("leads.created_at DESC, leads.id DESC").
		Offset(offset).Limit(limit).
		Preload("Buyer").Preload("Purchases").Preload("Views").
		Find(&leads).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch leads", err)
	}

	projections := make([]models.LeadProjection, 0, len(leads))
	for i := range leads {
		projections = append(projections, models.RedactLead(&leads[i], user.ID, user.EffectiveTier(), leads[i].Buyer.Name))
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  projections,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// ListPurchasedLeads returns leads the seller bought access to. Purchased
// leads stay listable after the freshness window closes.
func (lc *LeadController) ListPurchasedLeads(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := lc.DB.Model(&models.Lead{}).
		Joins("JOIN lead_purchases ON lead_purchases.lead_id = leads.id").
		Where("lead_purchases.seller_id = ?", user.ID)

	if category := c.Query("category"); category != "" {
		query = query.Where("leads.category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count leads", err)
	}

	var leads []models.Lead
	err := query.Select("leads.*").
		Order("leads.created_at DESC, leads.id DESC").
		Offset(offset).Limit(limit).
		Preload("Buyer").Preload("Purchases").Preload("Views").
		Find(&leads).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch leads", err)
	}

	projections := make([]models.LeadProjection, 0, len(leads))
	for i := range leads {
		projections = append(projections, models.RedactLead(&leads[i], user.ID, user.EffectiveTier(), leads[i].Buyer.Name))
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  projections,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetLead returns a single lead. The owning buyer sees the raw aggregate;
// distributed sellers see it through the access control gate.
func (lc *LeadController) GetLead(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	leadID := c.Params("id")

	var lead models.Lead
	err := lc.DB.Preload("Buyer").Preload("Distributions").Preload("Purchases").Preload("Views").
		First(&lead, leadID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}

	if lead.BuyerID == user.ID {
		return c.JSON(utils.SuccessResponse(lead))
	}

	if !lead.IsDistributedTo(user.ID) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Lead not available for this seller", nil)
	}

	projection := models.RedactLead(&lead, user.ID, user.EffectiveTier(), lead.Buyer.Name)
	return c.JSON(utils.SuccessResponse(projection))
}

// GetMyLeads returns the calling buyer's own inquiries
func (lc *LeadController) GetMyLeads(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := lc.DB.Model(&models.Lead{}).Where("buyer_id = ?", user.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count leads", err)
	}

	var leads []models.Lead
	err := query.Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Preload("Purchases").Preload("Views").
		Find(&leads).Error
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch leads", err)
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  leads,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
