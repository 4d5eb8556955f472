package api

import (
	"github.com/gin-gonic/gin"
	"github.com/ridloal/meoris-storefront/internal/cart/domain"
	"github.com/ridloal/meoris-storefront/internal/cart/service"
	"github.com/ridloal/meoris-storefront/internal/platform/httpx"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
	userapi "github.com/ridloal/meoris-storefront/internal/user/api"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cs service.CartService) *CartHandler {
	return &CartHandler{cartService: cs}
}

func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	cartRoutes := router.Group("/cart", auth)
	{
		cartRoutes.GET("", h.GetCart)
		cartRoutes.DELETE("", h.ClearCart)
		cartRoutes.POST("/items", h.AddItem)
		cartRoutes.PATCH("/items/:id", h.UpdateQuantity)
		cartRoutes.DELETE("/items/:id", h.RemoveItem)
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	items, err := h.cartService.GetCart(c.Request.Context(), userapi.UserID(c))
	if err != nil {
		httpx.Error(c, err, "Failed to load cart")
		return
	}
	httpx.OK(c, gin.H{
		"items":    items,
		"count":    domain.Count(items),
		"subtotal": domain.Subtotal(items),
	})
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req domain.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("AddItem Hdl: bad request", err)
		httpx.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	item, err := h.cartService.AddItem(c.Request.Context(), userapi.UserID(c), req)
	if err != nil {
		httpx.Error(c, err, "Failed to add item to cart")
		return
	}
	httpx.Created(c, gin.H{"item": item})
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req domain.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	item, err := h.cartService.UpdateQuantity(c.Request.Context(), userapi.UserID(c), c.Param("id"), req.Quantity)
	if err != nil {
		httpx.Error(c, err, "Failed to update quantity")
		return
	}
	httpx.OK(c, gin.H{"item": item})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	removed, err := h.cartService.RemoveItem(c.Request.Context(), userapi.UserID(c), c.Param("id"))
	if err != nil {
		httpx.Error(c, err, "Failed to remove item")
		return
	}
	httpx.OK(c, gin.H{"removed": removed})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	n, err := h.cartService.ClearCart(c.Request.Context(), userapi.UserID(c))
	if err != nil {
		httpx.Error(c, err, "Failed to clear cart")
		return
	}
	httpx.OK(c, gin.H{"removed": n})
}
