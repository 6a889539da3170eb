package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pricescope/backend/internal/domain"
	"github.com/pricescope/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparisonService *usecase.ComparisonService
}

// NewHandler creates a new HTTP handler
func NewHandler(comparisonService *usecase.ComparisonService) *Handler {
	return &Handler{comparisonService: comparisonService}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricescope-backend",
		"version": "1.0.0",
	})
}

// CompareProduct runs a cross-marketplace comparison for the product in the
// request body. A no-match is a normal 200 response with matchFound=false;
// only a malformed source price or a collaborator failure is an error
// response.
func (h *Handler) CompareProduct(c *gin.Context) {
	if h.comparisonService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Comparison service not configured",
		})
		return
	}

	var product domain.SourceProduct
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	result, err := h.comparisonService.Compare(c.Request.Context(), &product)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidProduct):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrPriceParse):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
