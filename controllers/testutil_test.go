package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tradelink/config"
	"tradelink/models"
	"tradelink/utils"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

// testAuth replaces the JWT middleware in tests: the acting user is carried
// in the X-Test-User header.
func testAuth(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := utils.ParseUint(c.Get("X-Test-User"))
		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		c.Locals("user", &user)
		c.Locals("userID", user.ID)
		return c.Next()
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := config.MigrateDB(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	logger := log.New(io.Discard, "", 0)
	productController := NewProductController(db, logger)
	leadController := NewLeadController(db, logger, NewLeadFeed())

	app := fiber.New()
	api := app.Group("/api/v1", testAuth(db))

	api.Get("/categories", productController.GetCategories)
	api.Post("/products", productController.CreateProduct)

	lead := api.Group("/leads")
	lead.Post("/", leadController.CreateLead)
	lead.Get("/available", leadController.ListAvailableLeads)
	lead.Get("/purchased", leadController.ListPurchasedLeads)
	lead.Get("/mine", leadController.GetMyLeads)
	lead.Get("/:id", leadController.GetLead)
	lead.Post("/:id/purchase", leadController.PurchaseLead)
	lead.Post("/:id/view", leadController.ViewLead)
	lead.Put("/:id/status", leadController.SetLeadStatus)
	lead.Put("/:id/read", leadController.SetLeadRead)

	return &testEnv{app: app, db: db}
}

func (e *testEnv) createUser(t *testing.T, role, tier string) *models.User {
	t.Helper()
	user := models.User{
		Email:          fmt.Sprintf("user%d@test.example", userSeq()),
		PasswordHash:   "x",
		Name:           "Test User",
		CompanyName:    "Test Co",
		Phone:          "+1-555-0000",
		Role:           role,
		IsActive:       true,
		MembershipTier: tier,
	}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

var seq int

func userSeq() int {
	seq++
	return seq
}

func (e *testEnv) createCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	category := models.Category{Name: name}
	if err := e.db.Create(&category).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	return &category
}

func (e *testEnv) createProduct(t *testing.T, sellerID, categoryID uint, active bool) *models.Product {
	t.Helper()
	product := models.Product{
		SellerID:    sellerID,
		CategoryID:  categoryID,
		Title:       "Test Product",
		IsActive:    active,
		MinOrderQty: 1,
	}
	if err := e.db.Create(&product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return &product
}

// request performs an authenticated JSON request and returns the response
// with its decoded body
func (e *testEnv) request(t *testing.T, method, path string, userID uint, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", fmt.Sprintf("%d", userID))

	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	decoded := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

// submitLead creates a lead through the API and returns its ID
func (e *testEnv) submitLead(t *testing.T, buyerID, productID uint) uint {
	t.Helper()
	resp, body := e.request(t, http.MethodPost, "/api/v1/leads/", buyerID, fiber.Map{
		"product_id": productID,
		"message":    "Looking for a bulk quote",
		"quantity":   100,
		"budget":     50000,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("lead submission returned %d: %v", resp.StatusCode, body)
	}
	data := body["data"].(map[string]interface{})
	return uint(data["ID"].(float64))
}
