package exports

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"product-import-api/common"
	"product-import-api/products"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// BatchSize is the number of records fetched in a single query
const BatchSize = 2000

// RegisterRoutes wires the export endpoint onto the router group
func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("", StreamExport)
}

// StreamExport godoc
// @Summary Stream product export (synchronous)
// @Description Streams the product catalog directly in CSV or NDJSON format
// @Tags exports
// @Produce text/csv
// @Produce application/x-ndjson
// @Param format query string true "Export format (csv or ndjson)"
// @Param name query string false "Case-insensitive name substring filter"
// @Success 200 {file} file "Streaming export data"
// @Failure 400 {object} map[string]string "Bad request"
// @Router /exports [get]
func StreamExport(c *gin.Context) {
	format := c.Query("format")
	nameFilter := c.Query("name")

	// Validate parameters
	if format == "" {
		c.JSON(400, gin.H{"error": "format parameter is required (csv|ndjson)"})
		return
	}
	if format != "csv" && format != "ndjson" {
		c.JSON(400, gin.H{"error": "invalid format, must be: csv or ndjson"})
		return
	}

	// Set appropriate headers for streaming
	timestamp := time.Now().Format("20060102_150405")
	base := "products"
	if nameFilter != "" {
		base = fmt.Sprintf("%s_%s", base, slug.Make(nameFilter))
	}
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, format)

	if format == "csv" {
		c.Header("Content-Type", "text/csv")
	} else {
		c.Header("Content-Type", "application/x-ndjson")
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Transfer-Encoding", "chunked")

	// Stream the data
	c.Stream(func(w io.Writer) bool {
		streamProducts(w, common.GetDB(), format, nameFilter, c)
		return false // Done streaming
	})
}

// streamProducts streams product data in the specified format
func streamProducts(w io.Writer, db *gorm.DB, format, nameFilter string, c *gin.Context) {
	offset := 0
	totalRecords := 0

	query := func() *gorm.DB {
		q := db.Model(&products.ProductModel{})
		if nameFilter != "" {
			q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(nameFilter)+"%")
		}
		return q
	}

	if format == "csv" {
		csvWriter := csv.NewWriter(w)
		// Write header
		csvWriter.Write([]string{"id", "sku", "name", "description", "active"})
		csvWriter.Flush()

		for {
			var items []products.ProductModel
			result := query().Order("id").Limit(BatchSize).Offset(offset).Find(&items)
			if result.Error != nil || len(items) == 0 {
				break
			}

			for _, product := range items {
				csvWriter.Write([]string{
					strconv.FormatUint(uint64(product.ID), 10),
					product.SKU,
					product.Name,
					product.Description,
					fmt.Sprintf("%t", product.Active),
				})
			}
			csvWriter.Flush()

			totalRecords += len(items)
			if len(items) < BatchSize {
				break
			}
			offset += BatchSize
		}
	} else {
		// NDJSON format
		for {
			var items []products.ProductModel
			result := query().Order("id").Limit(BatchSize).Offset(offset).Find(&items)
			if result.Error != nil || len(items) == 0 {
				break
			}

			for _, product := range items {
				jsonBytes, _ := json.Marshal(product)
				fmt.Fprintf(w, "%s\n", jsonBytes)
			}

			totalRecords += len(items)
			if len(items) < BatchSize {
				break
			}
			offset += BatchSize
		}
	}

	// Set rows_processed for metrics
	c.Set("rows_processed", totalRecords)
}
