package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"catalog/internal/models"
	"catalog/internal/store"
	"catalog/internal/storage"
)

// Handler serves the JSON API under /api.
type Handler struct {
	products       store.Products
	uploader       storage.Uploader
	uploadMaxBytes int64
}

// New returns a Handler. uploader may be nil when storage is not configured.
func New(products store.Products, uploader storage.Uploader, uploadMaxBytes int64) *Handler {
	return &Handler{products: products, uploader: uploader, uploadMaxBytes: uploadMaxBytes}
}

// Register mounts the API routes on r.
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/api")
	g.GET("/products", h.listProducts)
	g.POST("/products", h.createProduct)
	g.GET("/products/:id", h.getProduct)
	g.PUT("/products/:id", h.updateProduct)
	g.DELETE("/products/:id", h.deleteProduct)
	g.POST("/uploads", h.uploadImage)
}

type productPayload struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Image       string           `json:"image"`
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// serverError logs err and answers with a generic message.
func serverError(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	zap.S().Errorf("%s %s: %s: %v", c.Request.Method, c.Request.URL.Path, msg, err)
	fail(c, http.StatusInternalServerError, msg)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, "Invalid product ID")
		return 0, false
	}
	return uint(id), true
}

// bindFields decodes and validates a product body, writing the 400 itself.
func bindFields(c *gin.Context) (models.Fields, bool) {
	var payload productPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return models.Fields{}, false
	}
	if payload.Price == nil {
		fail(c, http.StatusBadRequest, models.MsgMissingFields)
		return models.Fields{}, false
	}
	f := models.Fields{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       *payload.Price,
		Image:       payload.Image,
	}.Normalize()
	if err := f.Validate(); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return models.Fields{}, false
	}
	return f, true
}

func (h *Handler) listProducts(c *gin.Context) {
	items, err := h.products.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		serverError(c, "Failed to fetch products", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) createProduct(c *gin.Context) {
	f, ok := bindFields(c)
	if !ok {
		return
	}
	p, err := h.products.Create(c.Request.Context(), f)
	if err != nil {
		serverError(c, "Failed to create product", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.products.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		serverError(c, "Failed to fetch product", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	f, ok := bindFields(c)
	if !ok {
		return
	}
	p, err := h.products.Update(c.Request.Context(), id, f)
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		serverError(c, "Failed to update product", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	err := h.products.Delete(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		serverError(c, "Failed to delete product", err)
		return
	}
	c.Status(http.StatusNoContent)
}
