package controller

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tradelink/models"
	"tradelink/utils"
)

type ProductController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewProductController(db *gorm.DB, logger *log.Logger) *ProductController {
	return &ProductController{
		DB:     db,
		Logger: logger,
	}
}

// CreateProduct creates a new listing for the authenticated seller
func (pc *ProductController) CreateProduct(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		CategoryID  uint   `json:"category_id" validate:"required"`
		Title       string `json:"title" validate:"required,max=200"`
		Description string `json:"description" validate:"omitempty,max=5000"`
		Price       int    `json:"price" validate:"omitempty,min=0"`
		MinOrderQty int    `json:"min_order_qty" validate:"omitempty,min=1"`
		Unit        string `json:"unit" validate:"omitempty,max=50"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var category models.Category
	if err := pc.DB.First(&category, input.CategoryID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Category not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch category", err)
	}

	product := models.Product{
		SellerID:    user.ID,
		CategoryID:  category.ID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		MinOrderQty: input.MinOrderQty,
		Unit:        input.Unit,
		IsActive:    true,
	}
	if product.MinOrderQty == 0 {
		product.MinOrderQty = 1
	}

	if err := pc.DB.Create(&product).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create product", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(product))
}

// GetProducts returns the seller's listings, optionally filtered by category
func (pc *ProductController) GetProducts(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := pc.DB.Where("seller_id = ?", user.ID)

	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", utils.ParseUint(categoryID))
	}

	var products []models.Product
	if err := query.Preload("Category").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch products", err)
	}

	var total int64
	query.Model(&models.Product{}).Count(&total)

	return c.JSON(utils.PaginatedResponse{
		Data:  products,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// UpdateProduct updates a listing owned by the seller
func (pc *ProductController) UpdateProduct(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	productID := c.Params("id")

	var input struct {
		Title       string `json:"title" validate:"omitempty,max=200"`
		Description string `json:"description" validate:"omitempty,max=5000"`
		Price       *int   `json:"price" validate:"omitempty,min=0"`
		MinOrderQty *int   `json:"min_order_qty" validate:"omitempty,min=1"`
		Unit        string `json:"unit" validate:"omitempty,max=50"`
		IsActive    *bool  `json:"is_active"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var product models.Product
	if err := pc.DB.Where("id = ? AND seller_id = ?", productID, user.ID).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Product not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch product", err)
	}

	if input.Title != "" {
		product.Title = input.Title
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.MinOrderQty != nil {
		product.MinOrderQty = *input.MinOrderQty
	}
	if input.Unit != "" {
		product.Unit = input.Unit
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := pc.DB.Save(&product).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update product", err)
	}

	return c.JSON(utils.SuccessResponse(product))
}

// DeleteProduct removes a listing owned by the seller
func (pc *ProductController) DeleteProduct(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	productID := c.Params("id")

	result := pc.DB.Where("id = ? AND seller_id = ?", productID, user.ID).Delete(&models.Product{})
	if result.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete product", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Product not found", nil)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"message": "Product deleted successfully",
	}))
}

// GetCategories lists all categories
func (pc *ProductController) GetCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := pc.DB.Order("name").Find(&categories).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch categories", err)
	}

	return c.JSON(utils.SuccessResponse(categories))
}
