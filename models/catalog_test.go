package models

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&User{}, &Category{}, &Product{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestActiveSellerIDsForCategory(t *testing.T) {
	db := testDB(t)

	electronics := Category{Name: "Electronics"}
	textiles := Category{Name: "Textiles"}
	if err := db.Create(&electronics).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&textiles).Error; err != nil {
		t.Fatal(err)
	}

	products := []Product{
		{SellerID: 10, CategoryID: electronics.ID, Title: "Router", IsActive: true},
		{SellerID: 11, CategoryID: electronics.ID, Title: "Switch", IsActive: true},
		// Second active product from an existing seller must not duplicate
		{SellerID: 10, CategoryID: electronics.ID, Title: "Modem", IsActive: true},
		// Inactive products do not make a seller eligible
		{SellerID: 12, CategoryID: electronics.ID, Title: "Hub", IsActive: false},
		// Other categories are out of scope
		{SellerID: 13, CategoryID: textiles.ID, Title: "Cotton", IsActive: true},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			t.Fatal(err)
		}
	}

	sellerIDs, err := ActiveSellerIDsForCategory(db, electronics.ID)
	if err != nil {
		t.Fatalf("ActiveSellerIDsForCategory: %v", err)
	}

	if len(sellerIDs) != 2 {
		t.Fatalf("got %d sellers, want 2: %v", len(sellerIDs), sellerIDs)
	}
	if sellerIDs[0] != 10 || sellerIDs[1] != 11 {
		t.Errorf("got seller order %v, want [10 11]", sellerIDs)
	}
}

func TestProductInactiveStoredAsWritten(t *testing.T) {
	db := testDB(t)

	electronics := Category{Name: "Electronics"}
	if err := db.Create(&electronics).Error; err != nil {
		t.Fatal(err)
	}

	product := Product{SellerID: 10, CategoryID: electronics.ID, Title: "Hub", IsActive: false}
	if err := db.Create(&product).Error; err != nil {
		t.Fatal(err)
	}

	var stored Product
	if err := db.First(&stored, product.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.IsActive {
		t.Error("product created inactive was stored as active")
	}
}

func TestActiveSellerIDsForCategoryEmpty(t *testing.T) {
	db := testDB(t)

	empty := Category{Name: "Empty"}
	if err := db.Create(&empty).Error; err != nil {
		t.Fatal(err)
	}

	sellerIDs, err := ActiveSellerIDsForCategory(db, empty.ID)
	if err != nil {
		t.Fatalf("ActiveSellerIDsForCategory: %v", err)
	}
	if len(sellerIDs) != 0 {
		t.Errorf("got %v, want empty set", sellerIDs)
	}
}
