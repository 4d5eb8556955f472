package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/meoris-storefront/internal/favorite/domain"
	"github.com/ridloal/meoris-storefront/internal/favorite/service"
	"github.com/ridloal/meoris-storefront/internal/platform/httpx"
	userapi "github.com/ridloal/meoris-storefront/internal/user/api"
)

const internalError = "Internal Server Error"

type FavoriteHandler struct {
	favoriteService service.FavoriteService
}

func NewFavoriteHandler(fs service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: fs}
}

// RegisterRoutes mounts /favorit on root, the storefront's original contract where the user id
// travels in the request, e.g. router = engine.Group("/api").
func (h *FavoriteHandler) RegisterRoutes(router *gin.RouterGroup) {
	favRoutes := router.Group("/favorit")
	{
		favRoutes.GET("", h.List)
		favRoutes.POST("", h.Add)
		favRoutes.DELETE("", h.Remove)
	}
}

// RegisterAuthRoutes mounts /favorites scoped to the authenticated user.
func (h *FavoriteHandler) RegisterAuthRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	favRoutes := router.Group("/favorites", auth)
	{
		favRoutes.GET("", h.ListMine)
		favRoutes.POST("", h.AddMine)
		favRoutes.POST("/toggle", h.ToggleMine)
		favRoutes.DELETE("/:id", h.RemoveMine)
	}
}

func (h *FavoriteHandler) List(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		httpx.BadRequest(c, "Missing userId")
		return
	}
	favorites, err := h.favoriteService.List(c.Request.Context(), userID)
	if err != nil {
		httpx.Error(c, err, internalError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "favorites": favorites})
}

func (h *FavoriteHandler) Add(c *gin.Context) {
	var req domain.AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	if req.UserID == "" {
		httpx.BadRequest(c, "Missing userId")
		return
	}
	if req.ProdukID == "" {
		httpx.BadRequest(c, "Missing produkId")
		return
	}
	favorit, err := h.favoriteService.Add(c.Request.Context(), req.UserID, req.ProdukID)
	if err != nil {
		httpx.Error(c, err, internalError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "favorit": favorit})
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	var req domain.RemoveFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FavoriteID == "" {
		httpx.BadRequest(c, "Missing favoriteId")
		return
	}
	if _, err := h.favoriteService.Remove(c.Request.Context(), "", req.FavoriteID); err != nil {
		httpx.Error(c, err, internalError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *FavoriteHandler) ListMine(c *gin.Context) {
	favorites, err := h.favoriteService.List(c.Request.Context(), userapi.UserID(c))
	if err != nil {
		httpx.Error(c, err, "Failed to load favorites")
		return
	}
	httpx.OK(c, gin.H{"favorites": favorites})
}

func (h *FavoriteHandler) AddMine(c *gin.Context) {
	var req domain.AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	favorit, err := h.favoriteService.Add(c.Request.Context(), userapi.UserID(c), req.ProdukID)
	if err != nil {
		httpx.Error(c, err, "Failed to add favorite")
		return
	}
	httpx.Created(c, gin.H{"favorit": favorit})
}

func (h *FavoriteHandler) ToggleMine(c *gin.Context) {
	var req domain.AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	res, err := h.favoriteService.Toggle(c.Request.Context(), userapi.UserID(c), req.ProdukID)
	if err != nil {
		httpx.Error(c, err, "Failed to toggle favorite")
		return
	}
	httpx.OK(c, gin.H{"favorite": res.Favorite, "favorit": res.Line})
}

func (h *FavoriteHandler) RemoveMine(c *gin.Context) {
	removed, err := h.favoriteService.Remove(c.Request.Context(), userapi.UserID(c), c.Param("id"))
	if err != nil {
		httpx.Error(c, err, "Failed to remove favorite")
		return
	}
	httpx.OK(c, gin.H{"removed": removed})
}
