package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wayfarer/backend/internal/auth"
	"wayfarer/backend/internal/graph"
	"wayfarer/backend/internal/preview"
	"wayfarer/backend/internal/service"
	"wayfarer/backend/pkg/config"
	"wayfarer/backend/pkg/logger"
)

// Server wires the HTTP surface to the services and the graph store
type Server struct {
	cfg       *config.Config
	repo      *graph.Repository
	accounts  *service.Accounts
	messaging *service.Messaging
	previews  *preview.Fetcher
	tokens    *auth.TokenIssuer
	logger    *zap.Logger
}

// NewServer creates the API server
func NewServer(
	cfg *config.Config,
	repo *graph.Repository,
	accounts *service.Accounts,
	messaging *service.Messaging,
	previews *preview.Fetcher,
	tokens *auth.TokenIssuer,
) *Server {
	return &Server{
		cfg:       cfg,
		repo:      repo,
		accounts:  accounts,
		messaging: messaging,
		previews:  previews,
		tokens:    tokens,
		logger:    logger.Get(),
	}
}

// Router builds the gin engine with all middleware and routes attached
func (s *Server) Router() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(ginLogger(s.logger))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Travel Event Management API is running!"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", s.handleRegister)
		authGroup.POST("/login", s.handleLogin)
		authGroup.GET("/profile", s.requireAuth(), s.handleProfile)
		authGroup.PUT("/profile", s.requireAuth(), s.handleUpdateProfile)
	}

	users := api.Group("/users", s.requireAuth())
	{
		users.GET("", s.handleListUsers)
		users.GET("/mutual-followers", s.handleMutualFollowers)
		users.PUT("/interests", s.handleUpdateInterests)
		users.GET("/:id", s.handleGetUser)
		users.DELETE("/:id", s.handleDeleteUser)
		users.POST("/:id/follow", s.handleFollow)
		users.GET("/:id/follow-status", s.handleFollowStatus)
		users.DELETE("/:id/follow", s.handleUnfollow)
		users.GET("/:id/following", s.handleFollowing)
		users.GET("/:id/followers", s.handleFollowers)
	}

	events := api.Group("/events")
	{
		events.GET("", s.handleListEvents)
		events.GET("/:id", s.handleGetEvent)
		events.GET("/:id/preview", s.requireAuth(), s.handleEventPreview)
		events.POST("", s.requireAuth(), s.requireTripManager(), s.handleCreateEvent)
		events.PUT("/:id", s.requireAuth(), s.requireTripManager(), s.handleUpdateEvent)
		events.DELETE("/:id", s.requireAuth(), s.requireTripManager(), s.handleDeleteEvent)
	}

	itineraries := api.Group("/itineraries")
	{
		itineraries.GET("", s.handleListItineraries)
		itineraries.GET("/my-itineraries", s.requireAuth(), s.requireTripManager(), s.handleMyItineraries)
		itineraries.GET("/:id", s.handleGetItinerary)
		itineraries.POST("", s.requireAuth(), s.requireTripManager(), s.handleCreateItinerary)
		itineraries.PUT("/:id", s.requireAuth(), s.requireTripManager(), s.handleUpdateItinerary)
		itineraries.DELETE("/:id", s.requireAuth(), s.requireTripManager(), s.handleDeleteItinerary)
	}

	wishlist := api.Group("/wishlist", s.requireAuth())
	{
		wishlist.GET("", s.handleGetWishlist)
		wishlist.GET("/check/:type/:id", s.handleWishlistCheck)
		wishlist.POST("/events/:id", s.handleWishlistAddEvent)
		wishlist.DELETE("/events/:id", s.handleWishlistRemoveEvent)
		wishlist.POST("/itineraries/:id", s.handleWishlistAddItinerary)
		wishlist.DELETE("/itineraries/:id", s.handleWishlistRemoveItinerary)
	}

	messages := api.Group("/messages", s.requireAuth())
	{
		messages.POST("", s.handleSendMessage)
		messages.GET("/conversations", s.handleConversations)
		messages.GET("/:otherUserId", s.handleMessagesWith)
		messages.PUT("/:otherUserId/read", s.handleMarkRead)
	}

	return router
}
