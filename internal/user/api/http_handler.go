package api

import (
	"github.com/gin-gonic/gin"
	"github.com/ridloal/meoris-storefront/internal/platform/httpx"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
	"github.com/ridloal/meoris-storefront/internal/user/domain"
	"github.com/ridloal/meoris-storefront/internal/user/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(us service.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// RegisterRoutes mounts the public account routes and the authenticated profile routes.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	userRoutes := router.Group("/users")
	{
		userRoutes.POST("/register", h.Register)
		userRoutes.POST("/login", h.Login)
		userRoutes.GET("/me", auth, h.Me)
		userRoutes.PUT("/me", auth, h.UpdateMe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Register: bad request", err)
		httpx.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		httpx.Error(c, err, "Failed to register user")
		return
	}

	httpx.Created(c, gin.H{"user": user})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Login: bad request", err)
		httpx.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	response, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		httpx.Error(c, err, "Failed to login")
		return
	}

	httpx.OK(c, gin.H{"user": response.User, "token": response.Token})
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), UserID(c))
	if err != nil {
		httpx.Error(c, err, "Failed to load profile")
		return
	}
	httpx.OK(c, gin.H{"user": user})
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), UserID(c), req)
	if err != nil {
		httpx.Error(c, err, "Failed to update profile")
		return
	}
	httpx.OK(c, gin.H{"user": user})
}
