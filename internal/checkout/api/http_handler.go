package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/meoris-storefront/internal/checkout/domain"
	"github.com/ridloal/meoris-storefront/internal/checkout/service"
	"github.com/ridloal/meoris-storefront/internal/platform/httpx"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
	userapi "github.com/ridloal/meoris-storefront/internal/user/api"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(cs service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: cs}
}

func (h *CheckoutHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	voucherRoutes := router.Group("/vouchers", auth)
	{
		voucherRoutes.GET("", h.ListVouchers)
		voucherRoutes.GET("/:code", h.GetVoucher)
	}

	praCheckoutRoutes := router.Group("/pra-checkout", auth)
	{
		praCheckoutRoutes.POST("", h.CreatePreCheckout)
		praCheckoutRoutes.GET("", h.ListPreCheckouts)
		praCheckoutRoutes.GET("/:id", h.GetPreCheckout)
		praCheckoutRoutes.PATCH("/:id/status", h.UpdateStatus)
		praCheckoutRoutes.POST("/:id/submit", h.Submit)
		praCheckoutRoutes.DELETE("/:id", h.DeletePreCheckout)
	}
}

func (h *CheckoutHandler) ListVouchers(c *gin.Context) {
	vouchers, err := h.checkoutService.ActiveVouchers(c.Request.Context())
	if err != nil {
		httpx.Error(c, err, "Failed to load vouchers")
		return
	}
	httpx.OK(c, gin.H{"vouchers": vouchers})
}

func (h *CheckoutHandler) GetVoucher(c *gin.Context) {
	v, err := h.checkoutService.ValidateVoucher(c.Request.Context(), c.Param("code"))
	if err != nil {
		httpx.Error(c, err, "Failed to validate voucher")
		return
	}
	if v == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found or expired"})
		return
	}
	httpx.OK(c, gin.H{"voucher": v})
}

func (h *CheckoutHandler) CreatePreCheckout(c *gin.Context) {
	var req domain.CreateFromCartRequest
	// an empty body snapshots the whole cart without a voucher
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("CreatePreCheckout Hdl: bad request", err)
			httpx.BadRequest(c, "Invalid request payload: "+err.Error())
			return
		}
	}
	pc, err := h.checkoutService.CreateFromCart(c.Request.Context(), userapi.UserID(c), req)
	if err != nil {
		httpx.Error(c, err, "Failed to create pre-checkout")
		return
	}
	httpx.Created(c, gin.H{"pra_checkout": pc})
}

func (h *CheckoutHandler) ListPreCheckouts(c *gin.Context) {
	list, err := h.checkoutService.ListByUser(c.Request.Context(), userapi.UserID(c), domain.Status(c.Query("status")))
	if err != nil {
		httpx.Error(c, err, "Failed to load pre-checkouts")
		return
	}
	httpx.OK(c, gin.H{"pra_checkouts": list})
}

func (h *CheckoutHandler) GetPreCheckout(c *gin.Context) {
	pc, err := h.checkoutService.Get(c.Request.Context(), userapi.UserID(c), c.Param("id"))
	if err != nil {
		httpx.Error(c, err, "Failed to load pre-checkout")
		return
	}
	httpx.OK(c, gin.H{"pra_checkout": pc})
}

func (h *CheckoutHandler) UpdateStatus(c *gin.Context) {
	var req domain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	pc, err := h.checkoutService.UpdateStatus(c.Request.Context(), userapi.UserID(c), c.Param("id"), req.Status)
	if err != nil {
		httpx.Error(c, err, "Failed to update pre-checkout status")
		return
	}
	httpx.OK(c, gin.H{"pra_checkout": pc})
}

func (h *CheckoutHandler) Submit(c *gin.Context) {
	pc, err := h.checkoutService.Submit(c.Request.Context(), userapi.UserID(c), c.Param("id"))
	if err != nil {
		httpx.Error(c, err, "Failed to submit pre-checkout")
		return
	}
	httpx.OK(c, gin.H{"pra_checkout": pc})
}

func (h *CheckoutHandler) DeletePreCheckout(c *gin.Context) {
	deleted, err := h.checkoutService.Delete(c.Request.Context(), userapi.UserID(c), c.Param("id"))
	if err != nil {
		httpx.Error(c, err, "Failed to delete pre-checkout")
		return
	}
	httpx.OK(c, gin.H{"deleted": deleted})
}
