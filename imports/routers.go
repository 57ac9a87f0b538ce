package imports

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"product-import-api/common"
	"product-import-api/products"

	"github.com/gin-gonic/gin"
)

// MaxUploadSize is the upload limit enforced before any streaming begins.
// A variable so tests can lower it.
var MaxUploadSize int64 = 200 << 20 // 200 MiB

// RegisterRoutes wires the bulk upload endpoint onto the router group
func RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/upload", UploadCSV)
}

// UploadCSV godoc
// @Summary Bulk import products from CSV
// @Description Accepts a CSV upload and streams import progress as server-sent events until a terminal complete or error event
// @Tags imports
// @Accept multipart/form-data
// @Produce text/event-stream
// @Param file formData file true "CSV file with sku, name, description columns (max 200 MiB)"
// @Success 200 {string} string "Ordered stream of progress events"
// @Failure 400 {object} map[string]string "Missing file, wrong extension, or oversized upload"
// @Router /upload [post]
func UploadCSV(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	// Extension and size checks fail synchronously, before any event is sent
	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File must be a CSV"})
		return
	}
	if header.Size > MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 200 MB upload limit"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}
	if int64(len(data)) > MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 200 MB upload limit"})
		return
	}

	// Events must reach the client as produced, not buffered by a proxy
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	store := products.NewStore(common.GetDB())

	// Unbuffered on purpose: every emitted event suspends the run until the
	// transport has written and flushed it
	events := make(chan Event)
	go RunImport(c.Request.Context(), store, data, EstimateRows, events)

	processed := 0
	c.Stream(func(w io.Writer) bool {
		event, ok := <-events
		if !ok {
			return false
		}
		if event.Processed > 0 {
			processed = event.Processed
		}
		c.SSEvent("message", event)
		return true
	})

	// Set rows processed for metrics
	c.Set("rows_processed", processed)
}
