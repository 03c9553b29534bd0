package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Lixing-Zhang/eshopper/internal/catalog"
	"github.com/Lixing-Zhang/eshopper/internal/models"
)

var errInvalidID = errors.New("invalid product id")

var quantityRangeMessage = fmt.Sprintf("Quantity must be between 1 and %d", models.MaxQuantity)

// parseProductID accepts positive base-10 integers only
func parseProductID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// catalogErrorStatus maps a catalog or cart failure to an HTTP status and a
// message that is safe to show to the user
func catalogErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInvalidQuantity):
		return http.StatusBadRequest, quantityRangeMessage
	case errors.Is(err, catalog.ErrProductNotFound):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, catalog.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "Catalog is temporarily unavailable"
	case errors.Is(err, catalog.ErrInvalidProduct), errors.Is(err, models.ErrInvalidProduct):
		return http.StatusBadGateway, "Catalog returned an invalid product"
	default:
		var statusErr *catalog.StatusError
		var urlErr *url.Error
		if errors.As(err, &statusErr) || errors.As(err, &urlErr) {
			return http.StatusBadGateway, "Failed to fetch products from catalog"
		}
		return http.StatusInternalServerError, "Internal server error"
	}
}

// safeReturnPath only allows local absolute paths as redirect targets
func safeReturnPath(path, fallback string) string {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "/\\") {
		return fallback
	}
	return path
}
