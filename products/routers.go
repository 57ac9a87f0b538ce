package products

import (
	"net/http"
	"strconv"
	"strings"

	"product-import-api/common"

	"github.com/gin-gonic/gin"
)

// CreateProductRequest represents the request body for product creation
type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	SKU         string `json:"sku" binding:"required"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

// UpdateProductRequest represents the request body for product updates.
// All fields are optional; absent fields are left untouched.
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	SKU         *string `json:"sku"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// BulkDeleteRequest represents the request body for bulk deletion
type BulkDeleteRequest struct {
	ProductIDs []uint `json:"product_ids" binding:"required"`
}

// ProductListResponse represents a page of products
type ProductListResponse struct {
	Items []ProductModel `json:"items"`
	Total int64          `json:"total"`
	Skip  int            `json:"skip"`
	Limit int            `json:"limit"`
}

// RegisterRoutes wires product CRUD endpoints onto the router group
func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("", ListProducts)
	router.GET("/:id", GetProduct)
	router.POST("", CreateProduct)
	router.PUT("/:id", UpdateProduct)
	router.DELETE("/:id", DeleteProduct)
	router.DELETE("", DeleteAllProducts)
	router.POST("/bulk-delete", BulkDeleteProducts)
}

// ListProducts godoc
// @Summary List products
// @Description Returns products with filtering and pagination, newest first
// @Tags products
// @Produce json
// @Param skip query int false "Offset into the result set"
// @Param limit query int false "Page size (1-100, default 10)"
// @Param sku query string false "Case-insensitive SKU substring filter"
// @Param name query string false "Case-insensitive name substring filter"
// @Param description query string false "Case-insensitive description substring filter"
// @Param active query bool false "Filter by active flag"
// @Success 200 {object} ProductListResponse "Page of products"
// @Router /products [get]
func ListProducts(c *gin.Context) {
	db := common.GetDB()

	skip := parseIntQuery(c, "skip", 0)
	if skip < 0 {
		skip = 0
	}
	limit := parseIntQuery(c, "limit", 10)
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	query := db.Model(&ProductModel{})

	if sku := c.Query("sku"); sku != "" {
		query = query.Where("LOWER(sku) LIKE ?", "%"+strings.ToLower(sku)+"%")
	}
	if name := c.Query("name"); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if description := c.Query("description"); description != "" {
		query = query.Where("LOWER(description) LIKE ?", "%"+strings.ToLower(description)+"%")
	}
	if activeStr := c.Query("active"); activeStr != "" {
		// Unparseable values are ignored rather than silently read as false
		if active, err := strconv.ParseBool(activeStr); err == nil {
			query = query.Where("active = ?", active)
		}
	}

	var total int64
	query.Count(&total)

	// Newest products first
	var items []ProductModel
	if err := query.Order("id DESC").Offset(skip).Limit(limit).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products"})
		return
	}
	if items == nil {
		items = []ProductModel{}
	}

	c.Set("rows_processed", len(items))

	c.JSON(http.StatusOK, ProductListResponse{
		Items: items,
		Total: total,
		Skip:  skip,
		Limit: limit,
	})
}

// GetProduct godoc
// @Summary Get a product
// @Description Retrieves a single product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductModel "Product"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [get]
func GetProduct(c *gin.Context) {
	db := common.GetDB()

	var product ProductModel
	if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct godoc
// @Summary Create a product
// @Description Creates a product; the SKU is stored lower-cased and must be unique
// @Tags products
// @Accept json
// @Produce json
// @Success 200 {object} ProductModel "Created product"
// @Failure 400 {object} map[string]string "Bad request or duplicate SKU"
// @Router /products [post]
func CreateProduct(c *gin.Context) {
	db := common.GetDB()

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sku := strings.ToLower(strings.TrimSpace(req.SKU))

	// Check if SKU already exists (case-insensitive)
	var existing ProductModel
	if err := db.Where("LOWER(sku) = ?", sku).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product with this SKU already exists"})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	product := ProductModel{
		Name:        req.Name,
		SKU:         sku,
		Description: req.Description,
		Active:      active,
	}

	if err := db.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct godoc
// @Summary Update a product
// @Description Partially updates a product; SKU changes are re-checked for uniqueness
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductModel "Updated product"
// @Failure 400 {object} map[string]string "Bad request or duplicate SKU"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [put]
func UpdateProduct(c *gin.Context) {
	db := common.GetDB()

	var product ProductModel
	if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Check SKU uniqueness if updating SKU
	if req.SKU != nil {
		sku := strings.ToLower(strings.TrimSpace(*req.SKU))
		if sku != product.SKU {
			var existing ProductModel
			if err := db.Where("LOWER(sku) = ?", sku).First(&existing).Error; err == nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product with this SKU already exists"})
				return
			}
			product.SKU = sku
		}
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := db.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary Delete a product
// @Description Deletes a single product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} map[string]string "Deletion confirmation"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [delete]
func DeleteProduct(c *gin.Context) {
	db := common.GetDB()

	var product ProductModel
	if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if err := db.Delete(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// DeleteAllProducts godoc
// @Summary Delete all products
// @Description Removes every product record
// @Tags products
// @Produce json
// @Success 200 {object} map[string]string "Deletion confirmation"
// @Router /products [delete]
func DeleteAllProducts(c *gin.Context) {
	db := common.GetDB()

	result := db.Where("1 = 1").Delete(&ProductModel{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete products"})
		return
	}

	c.Set("rows_processed", int(result.RowsAffected))
	c.JSON(http.StatusOK, gin.H{"message": "Deleted all products successfully", "deleted_count": result.RowsAffected})
}

// BulkDeleteProducts godoc
// @Summary Delete multiple products
// @Description Deletes products matching the provided IDs
// @Tags products
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Deletion confirmation"
// @Failure 400 {object} map[string]string "No product IDs provided"
// @Router /products/bulk-delete [post]
func BulkDeleteProducts(c *gin.Context) {
	db := common.GetDB()

	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ProductIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No product IDs provided"})
		return
	}

	result := db.Where("id IN ?", req.ProductIDs).Delete(&ProductModel{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete products"})
		return
	}

	c.Set("rows_processed", int(result.RowsAffected))
	c.JSON(http.StatusOK, gin.H{"message": "Products deleted successfully", "deleted_count": result.RowsAffected})
}

// parseIntQuery reads an integer query parameter with a default
func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
