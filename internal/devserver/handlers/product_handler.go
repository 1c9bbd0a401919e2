package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/explooosion/catalog-console/internal/devserver/middleware"
	"github.com/explooosion/catalog-console/internal/devserver/repositories"
	"github.com/explooosion/catalog-console/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductHandler handles product CRUD HTTP requests
type ProductHandler struct {
	BaseHandler
	products repositories.ProductRepository
}

// NewProductHandler creates a new product handler
func NewProductHandler(products repositories.ProductRepository, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		BaseHandler: BaseHandler{Logger: logger},
		products:    products,
	}
}

// RegisterRoutes registers all product handler routes.
// Reads are public; createMW gates creation and adminMW gates edit/delete.
// Note: This assumes the router is already scoped to /api
func (h *ProductHandler) RegisterRoutes(r chi.Router, createMW, adminMW func(http.Handler) http.Handler) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(createMW)
			r.Post("/", h.Create)
		})

		r.Group(func(r chi.Router) {
			r.Use(adminMW)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List handles GET /api/products
// @Summary List all products
// @Description Returns the full product list ordered by id; public endpoint
// @Tags products
// @Produce json
// @Success 200 {array} models.Product
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		h.Logger.Error("failed to list products", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.RespondJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id}
// @Summary Get a single product
// @Description Returns the product identified by id; public endpoint
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Product
// @Failure 400 {object} map[string]string "Invalid id"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if errors.Is(err, repositories.ErrProductNotFound) {
		h.RespondError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		h.Logger.Error("failed to get product", zap.Int("id", id), zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.RespondJSON(w, http.StatusOK, product)
}

// Create handles POST /api/products
// @Summary Create a product
// @Description Creates a product; requires a valid bearer token
// @Tags products
// @Accept json
// @Produce json
// @Param product body models.ProductInput true "Product fields"
// @Success 201 {object} models.Product
// @Failure 400 {object} map[string]string "Invalid product data"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.productInput(w, r)
	if !ok {
		return
	}

	product := &models.Product{Name: input.Name, Price: input.Price}
	if err := h.products.Create(r.Context(), product); err != nil {
		h.Logger.Error("failed to create product", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	username, _ := middleware.GetUsername(r.Context())
	h.Logger.Info("product created",
		zap.Int("id", product.ID),
		zap.String("name", product.Name),
		zap.String("by", username),
	)
	h.RespondJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id}
// @Summary Update a product
// @Description Replaces the product identified by id; requires the admin role
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body models.ProductInput true "Updated product fields"
// @Success 200 {object} models.Product
// @Failure 400 {object} map[string]string "Invalid id or product data"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	input, ok := h.productInput(w, r)
	if !ok {
		return
	}

	product := &models.Product{ID: id, Name: input.Name, Price: input.Price}
	err := h.products.Update(r.Context(), product)
	if errors.Is(err, repositories.ErrProductNotFound) {
		h.RespondError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		h.Logger.Error("failed to update product", zap.Int("id", id), zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	username, _ := middleware.GetUsername(r.Context())
	h.Logger.Info("product updated", zap.Int("id", id), zap.String("by", username))
	h.RespondJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id}
// @Summary Delete a product
// @Description Removes the product identified by id; requires the admin role
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid id"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Insufficient permissions"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	err := h.products.Delete(r.Context(), id)
	if errors.Is(err, repositories.ErrProductNotFound) {
		h.RespondError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		h.Logger.Error("failed to delete product", zap.Int("id", id), zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	username, _ := middleware.GetUsername(r.Context())
	h.Logger.Info("product deleted", zap.Int("id", id), zap.String("by", username))
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// productID parses the {id} route parameter, responding with 400 on garbage
func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}

// productInput decodes and validates the request body
func (h *ProductHandler) productInput(w http.ResponseWriter, r *http.Request) (models.ProductInput, bool) {
	var input models.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return models.ProductInput{}, false
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		h.RespondError(w, http.StatusBadRequest, "name cannot be empty")
		return models.ProductInput{}, false
	}
	if input.Price < 0 {
		h.RespondError(w, http.StatusBadRequest, "price cannot be negative")
		return models.ProductInput{}, false
	}

	return input, true
}
