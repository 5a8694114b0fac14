package repositories

import (
	"errors"
	"fmt"

	"liberty/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves every product joined with the name of its category.
func (r *GORMProductRepository) GetAll() ([]models.ProductView, error) {
	views := make([]models.ProductView, 0)
	err := r.db.Model(&models.Product{}).
		Select("products.id, products.name, products.description, products.image_path, " +
			"products.price, products.rating, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Order("products.id").
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return views, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create inserts a new product; the store assigns its ID.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Omit(clause.Associations).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites every mutable column of an existing product, zero values included.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Model(product).
		Select("Name", "Description", "ImagePath", "Price", "Rating", "CategoryID", "UpdatedAt").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
	}
	return nil
}
