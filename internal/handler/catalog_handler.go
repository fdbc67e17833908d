package handler

import (
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// CreateProductRequest wraps the product fields plus the opening stock level.
type CreateProductRequest struct {
	model.Product
	InitialStock int `json:"initial_stock"`
}

// CreateProduct handles product creation
// POST /api/v1/products
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.InitialStock < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "initial_stock cannot be negative"})
	}

	if err := h.catalogService.CreateProduct(&req.Product, req.InitialStock, getActor(c)); err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(req.Product)
}

// ListProducts handles product listing with optional filters
// GET /api/v1/products?search=&low_stock=true
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		Search:       c.Query("search"),
		LowStockOnly: c.Query("low_stock") == "true",
	}

	products, err := h.catalogService.ListProducts(filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"products": products, "count": len(products)})
}

// GetProduct handles single product retrieval
// GET /api/v1/products/:id
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.catalogService.GetProduct(id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(product)
}

// UpdateProduct handles catalog field edits (stock is not editable here)
// PUT /api/v1/products/:id
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.ProductUpdate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.catalogService.UpdateProduct(id, &req, getActor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(product)
}

// DeleteProduct handles product removal
// DELETE /api/v1/products/:id
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.catalogService.DeleteProduct(id, getActor(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}
