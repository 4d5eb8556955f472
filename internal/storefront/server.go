// Package storefront assembles the storefront service: repositories, services, the realtime
// hub and the gin router.
package storefront

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	cartapi "github.com/ridloal/meoris-storefront/internal/cart/api"
	cartrepo "github.com/ridloal/meoris-storefront/internal/cart/repository"
	cartservice "github.com/ridloal/meoris-storefront/internal/cart/service"
	checkoutapi "github.com/ridloal/meoris-storefront/internal/checkout/api"
	checkoutrepo "github.com/ridloal/meoris-storefront/internal/checkout/repository"
	checkoutservice "github.com/ridloal/meoris-storefront/internal/checkout/service"
	favoriteapi "github.com/ridloal/meoris-storefront/internal/favorite/api"
	favoriterepo "github.com/ridloal/meoris-storefront/internal/favorite/repository"
	favoriteservice "github.com/ridloal/meoris-storefront/internal/favorite/service"
	"github.com/ridloal/meoris-storefront/internal/platform/config"
	"github.com/ridloal/meoris-storefront/internal/platform/database"
	productapi "github.com/ridloal/meoris-storefront/internal/product/api"
	productrepo "github.com/ridloal/meoris-storefront/internal/product/repository"
	productservice "github.com/ridloal/meoris-storefront/internal/product/service"
	realtimeapi "github.com/ridloal/meoris-storefront/internal/realtime/api"
	realtime "github.com/ridloal/meoris-storefront/internal/realtime/service"
	userapi "github.com/ridloal/meoris-storefront/internal/user/api"
	userrepo "github.com/ridloal/meoris-storefront/internal/user/repository"
	userservice "github.com/ridloal/meoris-storefront/internal/user/service"
)

const hubBuffer = 64

type Server struct {
	Router  *gin.Engine
	Hub     *realtime.Hub
	Janitor *checkoutservice.Janitor
}

// NewServer wires every component over db. db must already be migrated.
func NewServer(db *sql.DB, cfg config.StorefrontConfig) (*Server, error) {
	gdb, err := database.OpenGorm(db, cfg.DB.Driver)
	if err != nil {
		return nil, err
	}
	hub := realtime.NewHub(hubBuffer)

	// Setup Dependencies
	usrService := userservice.NewUserService(userrepo.NewPostgresUserRepository(db), cfg.Auth.JWTSecret)
	productRepository := productrepo.NewGormProductRepository(gdb)
	prodService := productservice.NewProductService(productRepository)
	cartRepository := cartrepo.NewPostgresCartRepository(db)
	crtService := cartservice.NewCartService(cartRepository, productRepository, hub)
	favService := favoriteservice.NewFavoriteService(favoriterepo.NewPostgresFavoriteRepository(db), hub)
	chkService := checkoutservice.NewCheckoutService(
		checkoutrepo.NewPostgresPreCheckoutRepository(db),
		checkoutrepo.NewPostgresVoucherRepository(db),
		cartRepository,
	)

	// Setup Gin Router
	router := gin.Default()
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	router.Use(realtimeapi.ClientOrigin())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	auth := userapi.RequireAuth(usrService)

	// legacy favorites contract, keyed by userId in the payload
	favoriteHandler := favoriteapi.NewFavoriteHandler(favService)
	favoriteHandler.RegisterRoutes(router.Group("/api"))

	apiV1 := router.Group("/api/v1")
	userapi.NewUserHandler(usrService).RegisterRoutes(apiV1, auth)
	productapi.NewProductHandler(prodService).RegisterRoutes(apiV1)
	cartapi.NewCartHandler(crtService).RegisterRoutes(apiV1, auth)
	favoriteHandler.RegisterAuthRoutes(apiV1, auth)
	checkoutapi.NewCheckoutHandler(chkService).RegisterRoutes(apiV1, auth)
	realtimeapi.NewRealtimeHandler(hub, userapi.UserID).RegisterRoutes(apiV1, auth)

	return &Server{
		Router:  router,
		Hub:     hub,
		Janitor: checkoutservice.NewJanitor(chkService, cfg.Janitor.Schedule, cfg.Janitor.DraftTTL),
	}, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", realtimeapi.ClientIDHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
