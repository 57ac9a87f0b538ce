package products

import (
	"gorm.io/gorm"
)

// ProductModel represents a catalog product. The SKU is the natural key for
// import matching and is stored lower-cased, so the unique index doubles as
// the case-insensitive uniqueness constraint.
type ProductModel struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	SKU         string `gorm:"column:sku;uniqueIndex;not null" json:"sku"`
	Description string `gorm:"type:text" json:"description"`
	// No default tag: gorm skips zero-valued defaulted fields on insert,
	// so callers must set Active explicitly.
	Active bool `gorm:"not null" json:"active"`
}

func (ProductModel) TableName() string {
	return "product_items"
}

// AutoMigrate creates the products table
func AutoMigrate(db *gorm.DB) {
	db.AutoMigrate(&ProductModel{})
}
