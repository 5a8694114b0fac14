package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"liberty/internal/services"
	"liberty/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
)

// ProductHandler handles HTTP requests for the product administration area.
type ProductHandler struct {
	service *services.ProductService
	listURL string
	log     *slog.Logger
}

// NewProductHandler creates a new ProductHandler. Successful mutations
// redirect to listURL.
func NewProductHandler(service *services.ProductService, listURL string, log *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		listURL: listURL,
		log:     log,
	}
}

// RegisterRoutes registers the product and category routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/categories", h.HandleGetCategories)

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleList)
	productRoutes.Get("/new", h.HandleNewForm)
	productRoutes.Post("/", h.HandleCreate)
	productRoutes.Get("/:id/edit", h.HandleEditForm)
	productRoutes.Put("/:id", h.HandleUpdate)
	productRoutes.Post("/:id", h.HandleUpdate)
	productRoutes.Delete("/:id", h.HandleDelete)
	productRoutes.Get("/:id/delete", h.HandleDelete)
}

// HandleList returns every product with its category name.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	list, err := h.service.List()
	if err != nil {
		return h.internalError(c, "Could not retrieve products", err)
	}
	return c.JSON(list)
}

// HandleGetCategories returns the category options.
func (h *ProductHandler) HandleGetCategories(c *fiber.Ctx) error {
	options, err := h.service.Categories()
	if err != nil {
		return h.internalError(c, "Could not retrieve categories", err)
	}
	return c.JSON(options)
}

// HandleNewForm returns what the create form needs to render.
func (h *ProductHandler) HandleNewForm(c *fiber.Ctx) error {
	form, err := h.service.NewForm()
	if err != nil {
		return h.internalError(c, "Could not prepare product form", err)
	}
	return c.JSON(form)
}

// HandleEditForm returns the update form pre-filled with the stored product.
func (h *ProductHandler) HandleEditForm(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return badRequest(c, err)
	}

	form, err := h.service.EditForm(id)
	if err != nil {
		return h.serviceError(c, "Could not prepare product form", err)
	}
	return c.JSON(form)
}

// HandleCreate creates a product from a multipart form with a required image.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	img, err := formImage(c)
	if err != nil {
		return badRequest(c, err)
	}

	in, parseErrors := bindProductInput(c)
	if len(parseErrors) > 0 {
		return h.rejectInput(c, in, img, true, parseErrors)
	}

	if _, err := h.service.Create(in, img); err != nil {
		return h.serviceError(c, "Could not create product", err)
	}
	return c.Redirect(h.listURL, fiber.StatusSeeOther)
}

// HandleUpdate replaces every field of a product. The image part is optional.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return badRequest(c, err)
	}

	img, err := formImage(c)
	if err != nil {
		return badRequest(c, err)
	}

	in, parseErrors := bindProductInput(c)
	if len(parseErrors) > 0 {
		return h.rejectInput(c, in, img, false, parseErrors)
	}

	if _, err := h.service.Update(id, in, img); err != nil {
		return h.serviceError(c, "Could not update product", err)
	}
	return c.Redirect(h.listURL, fiber.StatusSeeOther)
}

// HandleDelete removes a product and its image.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return badRequest(c, err)
	}

	if err := h.service.Delete(id); err != nil {
		return h.serviceError(c, "Could not delete product", err)
	}
	return c.Redirect(h.listURL, fiber.StatusSeeOther)
}

// rejectInput reports the parse errors together with every rule the parsed
// fields break. A parse error replaces the rule message for its field.
func (h *ProductHandler) rejectInput(c *fiber.Ctx, in services.ProductInput, img *storage.Image, imageRequired bool, parseErrors map[string]string) error {
	fields, err := h.service.FieldErrors(in, img, imageRequired)
	if err != nil {
		return h.internalError(c, "Could not validate product", err)
	}
	if fields == nil {
		fields = make(map[string]string, len(parseErrors))
	}
	for field, message := range parseErrors {
		fields[field] = message
	}
	return h.validationFailed(c, &services.ValidationError{Fields: fields})
}

func (h *ProductHandler) serviceError(c *fiber.Ctx, message string, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return h.validationFailed(c, verr)
	}

	var nf *services.NotFoundError
	if errors.As(err, &nf) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Product with ID %d not found", nf.ID),
		})
	}

	return h.internalError(c, message, err)
}

// validationFailed answers with the field errors, the submitted values and the
// category options so the form can be shown again.
func (h *ProductHandler) validationFailed(c *fiber.Ctx, verr *services.ValidationError) error {
	options, err := h.service.Categories()
	if err != nil {
		return h.internalError(c, "Could not retrieve categories", err)
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"message":    "Validation failed",
		"errors":     verr.Fields,
		"input":      submittedValues(c),
		"categories": options,
	})
}

func (h *ProductHandler) internalError(c *fiber.Ctx, message string, err error) error {
	h.log.Error(message, "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request",
		"error":   err.Error(),
	})
}

func productID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid product id %q", c.Params("id"))
	}
	return uint(id), nil
}

// bindProductInput reads the form fields. Values that cannot be parsed are
// reported per field; range and length rules are left to the service.
func bindProductInput(c *fiber.Ctx) (services.ProductInput, map[string]string) {
	fields := make(map[string]string)
	in := services.ProductInput{
		Name:        strings.TrimSpace(c.FormValue(services.FieldName)),
		Description: strings.TrimSpace(c.FormValue(services.FieldDescription)),
	}

	if raw := strings.TrimSpace(c.FormValue(services.FieldPrice)); raw == "" {
		fields[services.FieldPrice] = "field is required"
	} else if price, err := decimal.NewFromString(raw); err != nil {
		fields[services.FieldPrice] = "must be a number"
	} else {
		in.Price = price
	}

	if raw := strings.TrimSpace(c.FormValue(services.FieldRating)); raw == "" {
		fields[services.FieldRating] = "field is required"
	} else if rating, err := strconv.Atoi(raw); err != nil {
		fields[services.FieldRating] = "must be a whole number"
	} else {
		in.Rating = rating
	}

	if raw := strings.TrimSpace(c.FormValue(services.FieldCategoryID)); raw == "" {
		fields[services.FieldCategoryID] = "field is required"
	} else if categoryID, err := strconv.ParseUint(raw, 10, 0); err != nil {
		fields[services.FieldCategoryID] = "is invalid"
	} else {
		in.CategoryID = uint(categoryID)
	}

	return in, fields
}

func submittedValues(c *fiber.Ctx) fiber.Map {
	return fiber.Map{
		services.FieldName:        c.FormValue(services.FieldName),
		services.FieldDescription: c.FormValue(services.FieldDescription),
		services.FieldPrice:       c.FormValue(services.FieldPrice),
		services.FieldRating:      c.FormValue(services.FieldRating),
		services.FieldCategoryID:  c.FormValue(services.FieldCategoryID),
	}
}

// formImage returns the uploaded image, or nil when the request carries none.
// A multipart body that cannot be read is an error.
func formImage(c *fiber.Ctx) (*storage.Image, error) {
	fh, err := c.FormFile(services.FieldImage)
	if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read multipart form: %w", err)
	}
	if fh.Filename == "" && fh.Size == 0 {
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded image: %w", err)
	}

	return &storage.Image{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
