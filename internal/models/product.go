package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the store. ImagePath is a file name inside
// the configured image directory, never a URL.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:256;not null"`
	Description string          `json:"description" gorm:"size:1024;not null"`
	ImagePath   string          `json:"imagePath" gorm:"size:1024;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null;check:chk_products_price,price > 0"`
	Rating      int             `json:"rating" gorm:"not null;check:chk_products_rating,rating BETWEEN 0 AND 5"`
	CategoryID  uint            `json:"categoryId" gorm:"not null;index"`
	Category    Category        `json:"-" gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductView is the read projection used by the product list. It carries the
// category name instead of its id.
type ProductView struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	ImagePath    string          `json:"imagePath"`
	Price        decimal.Decimal `json:"price"`
	Rating       int             `json:"rating"`
	CategoryName string          `json:"categoryName"`
}
