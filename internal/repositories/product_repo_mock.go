package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"liberty/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It enforces the same rules as the database schema: positive price, rating
// within 0..5 and an existing category.
type MockProductRepository struct {
	products   map[uint]models.Product
	categories *MockCategoryRepository
	nextID     uint
	mu         sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository(categories *MockCategoryRepository) *MockProductRepository {
	return &MockProductRepository{
		products:   make(map[uint]models.Product),
		categories: categories,
	}
}

// GetAll returns all products ordered by ID.
func (r *MockProductRepository) GetAll() ([]models.ProductView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	views := make([]models.ProductView, 0, len(r.products))
	for _, p := range r.products {
		views = append(views, models.ProductView{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			ImagePath:    p.ImagePath,
			Price:        p.Price,
			Rating:       p.Rating,
			CategoryName: r.categories.name(p.CategoryID),
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
	}
	return &product, nil
}

// Create adds a new product and assigns its ID.
func (r *MockProductRepository) Create(product *models.Product) error {
	if err := r.check(product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	product.ID = r.nextID
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	if err := r.check(product); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %d: %w", product.ID, ErrNotFound)
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

func (r *MockProductRepository) check(p *models.Product) error {
	if !p.Price.IsPositive() {
		return fmt.Errorf("check constraint chk_products_price violated: price %s", p.Price)
	}
	if p.Rating < 0 || p.Rating > 5 {
		return fmt.Errorf("check constraint chk_products_rating violated: rating %d", p.Rating)
	}
	if ok, _ := r.categories.Exists(p.CategoryID); !ok {
		return fmt.Errorf("foreign key violated: category %d does not exist", p.CategoryID)
	}
	return nil
}
