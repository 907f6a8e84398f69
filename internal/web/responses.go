package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/renderinc/product-publisher/internal/product"
)

// productListBody is a fixed placeholder; the store is not read
const productListBody = `{
    "message": "Product list endpoint",
    "total_products": 0,
    "products": [],
    "note": "Check products_database.json file for saved products"
}`

func errorBody(message string, now time.Time) string {
	return fmt.Sprintf(`{
    "success": false,
    "error": "%s",
    "timestamp": "%s"
}`, product.EscapeText(message), product.FormatTimestamp(now))
}

func statsBody(count int, now time.Time) string {
	return fmt.Sprintf(`{
    "total_products": %d,
    "server_uptime": "Running since server start",
    "last_check": "%s",
    "status": "active"
}`, count, product.FormatTimestamp(now))
}

func healthBody(now time.Time) string {
	return fmt.Sprintf(`{
    "status": "healthy",
    "service": "Product Publisher API",
    "timestamp": "%s"
}`, product.FormatTimestamp(now))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	w.Write([]byte(body))
}
