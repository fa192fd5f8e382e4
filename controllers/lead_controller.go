package controller

import (
	"log"
	"time"

	"github.com/badoux/checkmail"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tradelink/models"
	"tradelink/utils"
)

type LeadController struct {
	DB     *gorm.DB
	Logger *log.Logger
	Feed   *LeadFeed
}

func NewLeadController(db *gorm.DB, logger *log.Logger, feed *LeadFeed) *LeadController {
	return &LeadController{
		DB:     db,
		Logger: logger,
		Feed:   feed,
	}
}

// CreateLead accepts a buyer inquiry, snapshots the product's category and
// fans the lead out to every seller with an active product in it. The
// distribution set is fixed here and never changes afterwards.
func (lc *LeadController) CreateLead(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		ProductID      uint   `json:"product_id" validate:"required"`
		Message        string `json:"message" validate:"required,max=5000"`
		Quantity       int    `json:"quantity" validate:"omitempty,min=1"`
		Budget         int    `json:"budget" validate:"omitempty,min=0"`
		ContactEmail   string `json:"contact_email" validate:"omitempty,email"`
		ContactPhone   string `json:"contact_phone" validate:"omitempty,max=20"`
		ContactCompany string `json:"contact_company" validate:"omitempty,max=200"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	// Resolve the product and its category
	var product models.Product
	if err := lc.DB.Preload("Category").First(&product, input.ProductID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Product not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch product", err)
	}

	// Contact payload defaults to the buyer's profile
	contactEmail := input.ContactEmail
	if contactEmail == "" {
		contactEmail = user.Email
	}
	if err := checkmail.ValidateFormat(contactEmail); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid contact email", err)
	}
	contactPhone := input.ContactPhone
	if contactPhone == "" {
		contactPhone = user.Phone
	}
	contactCompany := input.ContactCompany
	if contactCompany == "" {
		contactCompany = user.CompanyName
	}

	// Snapshot the eligible-seller set. An empty set is valid; the lead is
	// simply created with no recipients.
	sellerIDs, err := models.ActiveSellerIDsForCategory(lc.DB, product.CategoryID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to resolve sellers", err)
	}

	lead := models.Lead{
		BuyerID:      user.ID,
		ProductID:    product.ID,
		Category:     product.Category.Name,
		Message:      input.Message,
		Quantity:     input.Quantity,
		Budget:       input.Budget,
		BuyerEmail:   contactEmail,
		BuyerPhone:   contactPhone,
		BuyerCompany: contactCompany,
		Status:       models.LeadStatusOpen,
		MaxViews:     models.DefaultMaxViews,
		IsActive:     true,
	}

	if err := lc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&lead).Error; err != nil {
			return err
		}
		for _, sellerID := range sellerIDs {
			dist := models.LeadDistribution{
				LeadID:   lead.ID,
				SellerID: sellerID,
			}
			if err := tx.Create(&dist).Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create lead", err)
	}

	// Notification dispatch is best-effort and never rolls back the lead
	lc.enqueueNotifications(&lead, sellerIDs)
	lc.Feed.Publish(LeadSummary{
		LeadID:   lead.ID,
		Category: lead.Category,
		Quantity: lead.Quantity,
		Budget:   lead.Budget,
	}, sellerIDs)

	lc.Logger.Printf("Lead %d distributed to %d sellers in %q", lead.ID, len(sellerIDs), lead.Category)

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(lead))
}

// enqueueNotifications writes outbox rows for the notify worker. Failures are
// logged and swallowed.
func (lc *LeadController) enqueueNotifications(lead *models.Lead, sellerIDs []uint) {
	notifications := make([]models.LeadNotification, 0, len(sellerIDs)+1)
	for _, sellerID := range sellerIDs {
		notifications = append(notifications, models.LeadNotification{
			LeadID:      lead.ID,
			RecipientID: sellerID,
			Kind:        models.NotificationSellerNewLead,
		})
	}
	notifications = append(notifications, models.LeadNotification{
		LeadID:      lead.ID,
		RecipientID: lead.BuyerID,
		Kind:        models.NotificationBuyerAck,
	})

	if err := lc.DB.Create(&notifications).Error; err != nil {
		lc.Logger.Printf("Failed to enqueue notifications for lead %d: %v", lead.ID, err)
	}
}

// SetLeadStatus updates the buyer/seller-facing resolution state
func (lc *LeadController) SetLeadStatus(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	leadID := c.Params("id")

	var input struct {
		Status string `json:"status" validate:"required,oneof=open closed"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var lead models.Lead
	if err := lc.DB.Preload("Distributions").First(&lead, leadID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}

	if lead.BuyerID != user.ID && !lead.IsDistributedTo(user.ID) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Lead not available for this account", nil)
	}

	if err := lc.DB.Model(&lead).Update("status", input.Status).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update lead", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"id":     lead.ID,
		"status": input.Status,
	}))
}

// SetLeadRead toggles the lead's read flag. The flag is shared across all
// sellers; whichever seller toggled it last wins.
func (lc *LeadController) SetLeadRead(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	leadID := c.Params("id")

	var input struct {
		IsRead *bool `json:"is_read"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if input.IsRead == nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "is_read is required", nil)
	}

	var lead models.Lead
	if err := lc.DB.Preload("Distributions").First(&lead, leadID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}

	if lead.BuyerID != user.ID && !lead.IsDistributedTo(user.ID) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Lead not available for this account", nil)
	}

	updates := map[string]interface{}{"is_read": *input.IsRead}
	if *input.IsRead {
		updates["read_at"] = time.Now()
	} else {
		updates["read_at"] = nil
	}

	if err := lc.DB.Model(&lead).Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update lead", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"id":      lead.ID,
		"is_read": *input.IsRead,
	}))
}
