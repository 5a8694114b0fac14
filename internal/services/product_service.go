package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"liberty/internal/models"
	"liberty/internal/repositories"
	"liberty/internal/storage"
	"liberty/pkg/validator"

	"github.com/shopspring/decimal"
)

// ImageStore stores product images under generated names.
type ImageStore interface {
	Upload(img storage.Image) (string, error)
	Delete(name string) error
}

// EventPublisher publishes product lifecycle events.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// Routing keys of the product lifecycle events.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// priceScale is the number of decimal places the price column stores.
const priceScale = 2

// Options tunes the ProductService.
type Options struct {
	MaxImageSizeMB int
	Exchange       string
}

// ProductInput carries the editable fields of a product.
type ProductInput struct {
	Name        string          `json:"name" validate:"required,min=3,max=256"`
	Description string          `json:"description" validate:"required,min=3,max=1024"`
	Price       decimal.Decimal `json:"price" validate:"gt=0,lte=100000000"`
	Rating      int             `json:"rating" validate:"gte=0,lte=5"`
	CategoryID  uint            `json:"categoryId" validate:"required"`
}

// ProductList is the result of List.
type ProductList struct {
	Products []models.ProductView `json:"products"`
}

// ProductForm holds what a create or update form needs to render: the current
// values and the category options.
type ProductForm struct {
	ID         uint                    `json:"id,omitempty"`
	Input      ProductInput            `json:"input"`
	ImagePath  string                  `json:"imagePath,omitempty"`
	Categories []models.CategoryOption `json:"categories"`
}

// ProductEvent is the body of a published lifecycle event.
type ProductEvent struct {
	Event      string          `json:"event"`
	ProductID  uint            `json:"productId"`
	Name       string          `json:"name"`
	ImagePath  string          `json:"imagePath"`
	Price      decimal.Decimal `json:"price"`
	Rating     int             `json:"rating"`
	CategoryID uint            `json:"categoryId"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// ProductService handles the product lifecycle: validation, category checks,
// image upload and removal, and persistence.
type ProductService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	images     ImageStore
	publisher  EventPublisher
	validate   *validator.Validator
	log        *slog.Logger
	opts       Options
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(
	products repositories.ProductRepository,
	categories repositories.CategoryRepository,
	images ImageStore,
	publisher EventPublisher,
	log *slog.Logger,
	opts Options,
) *ProductService {
	if opts.MaxImageSizeMB <= 0 {
		opts.MaxImageSizeMB = 2
	}
	if opts.Exchange == "" {
		opts.Exchange = "product"
	}
	return &ProductService{
		products:   products,
		categories: categories,
		images:     images,
		publisher:  publisher,
		validate:   validator.New(),
		log:        log,
		opts:       opts,
	}
}

// List returns every product with the name of its category.
func (s *ProductService) List() (*ProductList, error) {
	views, err := s.products.GetAll()
	if err != nil {
		return nil, err
	}
	return &ProductList{Products: views}, nil
}

// Categories returns the category options offered by the product forms.
func (s *ProductService) Categories() ([]models.CategoryOption, error) {
	categories, err := s.categories.GetAll()
	if err != nil {
		return nil, err
	}
	options := make([]models.CategoryOption, 0, len(categories))
	for _, c := range categories {
		options = append(options, models.CategoryOption{Value: c.ID, Text: c.Name})
	}
	return options, nil
}

// NewForm returns an empty create form.
func (s *ProductService) NewForm() (*ProductForm, error) {
	options, err := s.Categories()
	if err != nil {
		return nil, err
	}
	return &ProductForm{Categories: options}, nil
}

// EditForm returns an update form pre-filled with the stored product.
func (s *ProductService) EditForm(id uint) (*ProductForm, error) {
	product, err := s.find(id)
	if err != nil {
		return nil, err
	}
	options, err := s.Categories()
	if err != nil {
		return nil, err
	}
	return &ProductForm{
		ID: product.ID,
		Input: ProductInput{
			Name:        product.Name,
			Description: product.Description,
			Price:       product.Price,
			Rating:      product.Rating,
			CategoryID:  product.CategoryID,
		},
		ImagePath:  product.ImagePath,
		Categories: options,
	}, nil
}

// Create validates the input, uploads the image and inserts the product.
func (s *ProductService) Create(in ProductInput, img *storage.Image) (*models.Product, error) {
	if err := s.check(in, img, true); err != nil {
		return nil, err
	}

	imageName, err := s.images.Upload(*img)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		ImagePath:   imageName,
		Price:       in.Price,
		Rating:      in.Rating,
		CategoryID:  in.CategoryID,
	}
	if err := s.products.Create(product); err != nil {
		s.removeImage(imageName)
		return nil, err
	}

	s.log.Info("product created", "id", product.ID, "image", imageName)
	s.publish(EventProductCreated, product)
	return product, nil
}

// Update validates the input and overwrites every field of the product. When
// img is nil the stored image is kept; otherwise the new image is uploaded and
// the previous file is removed once the product points at the new one.
func (s *ProductService) Update(id uint, in ProductInput, img *storage.Image) (*models.Product, error) {
	if err := s.check(in, img, false); err != nil {
		return nil, err
	}

	product, err := s.find(id)
	if err != nil {
		return nil, err
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.Rating = in.Rating
	product.CategoryID = in.CategoryID

	oldImage := product.ImagePath
	if img != nil {
		imageName, err := s.images.Upload(*img)
		if err != nil {
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}
		product.ImagePath = imageName
	}

	if err := s.products.Update(product); err != nil {
		if img != nil {
			s.removeImage(product.ImagePath)
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, err
	}

	if img != nil {
		s.removeImage(oldImage)
	}

	s.log.Info("product updated", "id", product.ID, "image", product.ImagePath)
	s.publish(EventProductUpdated, product)
	return product, nil
}

// Delete removes the product row and then its image. A failure to remove the
// image is logged only; the row is already gone.
func (s *ProductService) Delete(id uint) error {
	product, err := s.find(id)
	if err != nil {
		return err
	}

	if err := s.products.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &NotFoundError{ID: id}
		}
		return err
	}

	s.removeImage(product.ImagePath)

	s.log.Info("product deleted", "id", id)
	s.publish(EventProductDeleted, product)
	return nil
}

func (s *ProductService) find(id uint) (*models.Product, error) {
	product, err := s.products.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, err
	}
	return product, nil
}

// FieldErrors runs the field-level rules on in: struct tags, the price scale
// and, when imageRequired is set, the presence of img. It returns nil when
// every field is acceptable.
func (s *ProductService) FieldErrors(in ProductInput, img *storage.Image, imageRequired bool) (map[string]string, error) {
	fields, err := s.validate.Fields(in)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		fields = make(map[string]string)
	}
	if _, ok := fields[FieldPrice]; !ok && !in.Price.Round(priceScale).Equal(in.Price) {
		fields[FieldPrice] = fmt.Sprintf("must have at most %d decimal places", priceScale)
	}
	if imageRequired && img == nil {
		fields[FieldImage] = "field is required"
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}

// check runs field validation, the category lookup and the image rules, in
// that order, stopping at the first stage that fails.
func (s *ProductService) check(in ProductInput, img *storage.Image, imageRequired bool) error {
	fields, err := s.FieldErrors(in, img, imageRequired)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	exists, err := s.categories.Exists(in.CategoryID)
	if err != nil {
		return err
	}
	if !exists {
		return newFieldError(FieldCategoryID, "There is no such category")
	}

	if img == nil {
		return nil
	}
	if !storage.CheckSize(*img, s.opts.MaxImageSizeMB) {
		return newFieldError(FieldImage, fmt.Sprintf("image must be at most %d MB", s.opts.MaxImageSizeMB))
	}
	if !storage.CheckType(*img, "image") {
		return newFieldError(FieldImage, "image file only")
	}
	return nil
}

func (s *ProductService) removeImage(name string) {
	if err := s.images.Delete(name); err != nil {
		s.log.Warn("failed to delete product image", "image", name, "error", err)
	}
}

func (s *ProductService) publish(routingKey string, p *models.Product) {
	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(ProductEvent{
		Event:      routingKey,
		ProductID:  p.ID,
		Name:       p.Name,
		ImagePath:  p.ImagePath,
		Price:      p.Price,
		Rating:     p.Rating,
		CategoryID: p.CategoryID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.log.Warn("failed to marshal product event", "event", routingKey, "error", err)
		return
	}

	if err := s.publisher.Publish(s.opts.Exchange, routingKey, body); err != nil {
		s.log.Warn("failed to publish product event", "event", routingKey, "id", p.ID, "error", err)
	}
}
