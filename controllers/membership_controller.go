package controller

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/paymentintent"

	"tradelink/config"
	"tradelink/models"
	"tradelink/utils"
)

func InitStripe() {
	stripe.Key = config.AppConfig.StripeSecretKey
}

// GetMembershipPlans lists the purchasable tiers
func GetMembershipPlans(c *fiber.Ctx) error {
	var plans []models.MembershipPlan
	if err := config.DB.Order("price").Find(&plans).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch plans", err)
	}

	for i := range plans {
		plans[i].DisplayPrice = "$" + strconv.Itoa(plans[i].Price/100)
	}

	return c.JSON(utils.SuccessResponse(plans))
}

// CreateMembershipCheckout creates a Stripe PaymentIntent for a tier upgrade
func CreateMembershipCheckout(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		PlanID uint `json:"plan_id" validate:"required"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var plan models.MembershipPlan
	if err := config.DB.First(&plan, input.PlanID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Plan not found", nil)
	}

	if plan.Price == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Free tier needs no checkout", nil)
	}

	customerID, err := getOrCreateStripeCustomer(user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to process payment", err)
	}

	currency := user.DefaultCurrency
	if currency == "" {
		currency = "usd"
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(plan.Price)),
		Currency: stripe.String(currency),
		Customer: stripe.String(customerID),
		Metadata: map[string]string{
			"user_id": strconv.Itoa(int(user.ID)),
			"plan_id": strconv.Itoa(int(plan.ID)),
		},
		Description: stripe.String("Membership upgrade to " + plan.Name),
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to process payment", err)
	}

	transaction := models.MembershipTransaction{
		UserID:                user.ID,
		PlanID:                &plan.ID,
		Amount:                plan.Price,
		Currency:              currency,
		PaymentStatus:         "pending",
		StripePaymentIntentID: pi.ID,
		Description:           "Membership upgrade to " + plan.Name,
	}

	if err := config.DB.Create(&transaction).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to record transaction", err)
	}

	return c.JSON(fiber.Map{
		"clientSecret":   pi.ClientSecret,
		"transaction_id": transaction.ID,
		"amount":         plan.Price,
		"currency":       currency,
	})
}

// HandleMembershipWebhook handles Stripe webhook events for tier upgrades
func HandleMembershipWebhook(c *fiber.Ctx) error {
	event, err := utils.ConstructStripeEvent(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid webhook payload", err)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Error parsing payment intent", err)
		}
		return handleMembershipPaymentSucceeded(c, &pi)

	case "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Error parsing payment intent", err)
		}
		return handleMembershipPaymentFailed(c, &pi)

	default:
		return c.SendStatus(fiber.StatusOK)
	}
}

func handleMembershipPaymentSucceeded(c *fiber.Ctx, pi *stripe.PaymentIntent) error {
	var transaction models.MembershipTransaction
	if err := config.DB.Where("stripe_payment_intent_id = ?", pi.ID).First(&transaction).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Transaction not found", nil)
	}

	transaction.PaymentStatus = "succeeded"
	if pi.PaymentMethod != nil {
		transaction.PaymentMethod = string(pi.PaymentMethod.Type)
	}

	if err := config.DB.Save(&transaction).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update transaction", err)
	}

	var plan models.MembershipPlan
	if err := config.DB.First(&plan, *transaction.PlanID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Plan not found", nil)
	}

	updates := map[string]interface{}{"membership_tier": plan.Tier}
	switch plan.BillingInterval {
	case "monthly":
		updates["membership_expires_at"] = time.Now().AddDate(0, 1, 0)
	case "yearly":
		updates["membership_expires_at"] = time.Now().AddDate(1, 0, 0)
	default:
		// one_time purchases do not lapse
		updates["membership_expires_at"] = nil
	}

	if err := config.DB.Model(&models.User{}).
		Where("id = ?", transaction.UserID).
		Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update membership", err)
	}

	utils.LogEvent("membership_upgraded", map[string]interface{}{
		"user_id": transaction.UserID,
		"tier":    plan.Tier,
	})

	return c.SendStatus(fiber.StatusOK)
}

func handleMembershipPaymentFailed(c *fiber.Ctx, pi *stripe.PaymentIntent) error {
	var transaction models.MembershipTransaction
	if err := config.DB.Where("stripe_payment_intent_id = ?", pi.ID).First(&transaction).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Transaction not found", nil)
	}

	transaction.PaymentStatus = "failed"
	if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
		transaction.Description = "Payment failed: " + pi.LastPaymentError.Msg
	}

	if err := config.DB.Save(&transaction).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update transaction", err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// getOrCreateStripeCustomer gets or creates a Stripe customer
func getOrCreateStripeCustomer(user *models.User) (string, error) {
	if user.StripeCustomerID != nil {
		return *user.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Name:  stripe.String(user.Name),
		Metadata: map[string]string{
			"user_id": strconv.Itoa(int(user.ID)),
		},
	}

	cust, err := customer.New(params)
	if err != nil {
		return "", err
	}

	user.StripeCustomerID = &cust.ID
	if err := config.DB.Save(user).Error; err != nil {
		return "", err
	}

	return cust.ID, nil
}
