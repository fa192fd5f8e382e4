package models

import (
	"gorm.io/gorm"
)

// Category groups competing products; leads fan out across it
type Category struct {
	gorm.Model
	Name        string `gorm:"not null;uniqueIndex" json:"name"`
	Description string `json:"description"`

	// Relations
	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// Product represents a seller listing inside a category
type Product struct {
	gorm.Model
	SellerID   uint `gorm:"not null;index" json:"seller_id"`
	CategoryID uint `gorm:"not null;index" json:"category_id"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Price       int    `json:"price"` // in cents
	MinOrderQty int    `gorm:"default:1" json:"min_order_qty"`
	Unit        string `json:"unit"` // pieces, kg, boxes, etc.

	// No column default: gorm drops a zero-value field that has one, so an
	// inactive insert would be stored as active. Create sites set this
	// explicitly.
	IsActive bool `json:"is_active"`

	// Relations
	Seller   User     `json:"-"`
	Category Category `json:"category"`
}

// ActiveSellerIDsForCategory returns the distinct sellers with at least one
// active product in the category, ordered by first listing. This is the
// fan-out set snapshotted onto a lead at creation.
func ActiveSellerIDsForCategory(db *gorm.DB, categoryID uint) ([]uint, error) {
	var sellerIDs []uint
	err := db.Model(&Product{}).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Order("MIN(id)").
		Group("seller_id").
		Pluck("seller_id", &sellerIDs).Error
	if err != nil {
		return nil, err
	}
	return sellerIDs, nil
}
