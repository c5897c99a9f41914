package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tradepost/tradepost/internal/auth"
	"github.com/tradepost/tradepost/internal/handler/dto"
	"github.com/tradepost/tradepost/internal/service"
)

// ProductHandler handles HTTP requests for product operations.
type ProductHandler struct {
	svc    *service.ProductService
	logger *slog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/v1/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	result, err := h.svc.ListProducts(r.Context(), page, limit)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToProductListResponse(result.Products, result.Page, result.Limit, result.Total))
}

// Get handles GET /api/v1/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Product ID is required")
		return
	}

	product, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToProductResponse(product))
}

// Create handles POST /api/v1/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	var req dto.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	product, err := h.svc.CreateProduct(r.Context(), authCtx, service.CreateProductInput{
		Title: req.Title,
		Price: req.Price,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("product_created",
		"product_id", product.ID,
		"creator_id", authCtx.UserID,
		"request_id", requestID(r),
	)

	writeJSON(w, http.StatusCreated, dto.ToProductResponse(product))
}

// Update handles PUT /api/v1/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Product ID is required")
		return
	}

	var req dto.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	product, err := h.svc.UpdateProduct(r.Context(), authCtx, id, service.UpdateProductInput{
		Title: req.Title,
		Price: req.Price,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("product_updated",
		"product_id", product.ID,
		"actor_id", authCtx.UserID,
		"request_id", requestID(r),
	)

	writeJSON(w, http.StatusOK, dto.ToProductResponse(product))
}

// Delete handles DELETE /api/v1/products/{id}.
// The permanent=true query flag requests row removal instead of a
// soft delete; the service rejects it for non-admin actors.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Product ID is required")
		return
	}

	permanent := r.URL.Query().Get("permanent") == "true"

	if err := h.svc.DeleteProduct(r.Context(), authCtx, id, permanent); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("product_deleted",
		"product_id", id,
		"actor_id", authCtx.UserID,
		"permanent", permanent,
		"request_id", requestID(r),
	)

	w.WriteHeader(http.StatusNoContent)
}
