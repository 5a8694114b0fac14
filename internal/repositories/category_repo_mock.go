package repositories

import (
	"fmt"
	"sort"
	"sync"

	"liberty/internal/models"
)

// MockCategoryRepository is an in-memory implementation of CategoryRepository.
type MockCategoryRepository struct {
	categories map[uint]models.Category
	nextID     uint
	mu         sync.RWMutex
}

// NewMockCategoryRepository creates a new instance of MockCategoryRepository.
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		categories: make(map[uint]models.Category),
	}
}

// GetAll returns all categories ordered by ID.
func (r *MockCategoryRepository) GetAll() ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// Exists reports whether a category with the given ID exists.
func (r *MockCategoryRepository) Exists(id uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.categories[id]
	return ok, nil
}

// Count returns the number of categories.
func (r *MockCategoryRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.categories)), nil
}

// Create adds a category. A zero ID is replaced by the next free one.
func (r *MockCategoryRepository) Create(category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if category.ID == 0 {
		r.nextID++
		category.ID = r.nextID
	} else if category.ID > r.nextID {
		r.nextID = category.ID
	}
	if _, ok := r.categories[category.ID]; ok {
		return fmt.Errorf("failed to create category: duplicate ID %d", category.ID)
	}
	r.categories[category.ID] = *category
	return nil
}

func (r *MockCategoryRepository) name(id uint) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.categories[id].Name
}
