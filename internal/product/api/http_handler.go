package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/meoris-storefront/internal/platform/httpx"
	"github.com/ridloal/meoris-storefront/internal/product/service"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(ps service.ProductService) *ProductHandler {
	return &ProductHandler{productService: ps}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", h.ListProducts)
		productRoutes.GET("/search", h.Search)
		productRoutes.GET("/category/:kategori", h.ListByCategory)
		productRoutes.GET("/:id", h.GetProduct)
	}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context(), queryInt(c, "limit"), queryInt(c, "offset"))
	if err != nil {
		httpx.Error(c, err, "Failed to retrieve products")
		return
	}
	httpx.OK(c, gin.H{"products": products})
}

func (h *ProductHandler) Search(c *gin.Context) {
	products, err := h.productService.Search(c.Request.Context(), c.Query("q"), queryInt(c, "limit"))
	if err != nil {
		httpx.Error(c, err, "Failed to search products")
		return
	}
	httpx.OK(c, gin.H{"products": products})
}

func (h *ProductHandler) ListByCategory(c *gin.Context) {
	products, err := h.productService.ListByCategory(c.Request.Context(), c.Param("kategori"), queryInt(c, "limit"))
	if err != nil {
		httpx.Error(c, err, "Failed to retrieve products")
		return
	}
	httpx.OK(c, gin.H{"products": products})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProductDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, err, "Failed to retrieve product")
		return
	}
	httpx.OK(c, gin.H{"product": product, "sizes": product.Sizes()})
}

// queryInt reads an optional integer query parameter; malformed values count as absent.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
