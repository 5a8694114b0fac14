package repositories

import (
	"errors"

	"liberty/internal/models"
)

// ErrNotFound is returned when a record does not exist in the store.
var ErrNotFound = errors.New("record not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.ProductView, error)
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
}

// CategoryRepository defines the interface for category data access.
// Categories are read-only for the product module; Create exists for seeding.
type CategoryRepository interface {
	GetAll() ([]models.Category, error)
	Exists(id uint) (bool, error)
	Count() (int64, error)
	Create(category *models.Category) error
}
