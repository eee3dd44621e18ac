package handlers

import (
	"errors"
	"grocery_store/internal/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses. Unknown errors are
// reported as 500 without their text.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var lineErr *services.CartLineError
	switch {
	case errors.As(err, &lineErr):
		body := gin.H{"error": lineErr.Error(), "product_id": lineErr.ProductID, "line": lineErr.Line}
		if errors.Is(err, services.ErrPriceMismatch) {
			body["expected_price"] = lineErr.Expected.StringFixed(2)
			body["submitted_price"] = lineErr.Got.StringFixed(2)
		}
		if errors.Is(err, services.ErrInsufficientStock) {
			body["requested"] = lineErr.Requested
			body["available"] = lineErr.Available
		}
		c.JSON(http.StatusBadRequest, body)
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": "The store was busy processing another order. Please retry."})
	case errors.Is(err, services.ErrInvalidTransition), errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, defaultValue int) int {
	if value := c.Query(name); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
