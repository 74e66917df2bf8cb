package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/echoverse/backend/internal/config"
	"github.com/echoverse/backend/internal/database"
	"github.com/echoverse/backend/internal/handlers"
	"github.com/echoverse/backend/internal/middleware"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	handler *handlers.Handler
}

// New wires the router and returns a configured HTTP server. The database
// handle is constructed and owned by the caller.
func New(cfg *config.Config, db database.Service, handler *handlers.Handler) *http.Server {
	s := &Server{
		cfg:     cfg,
		db:      db,
		handler: handler,
	}

	router := s.RegisterRoutes()

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", cfg.Port)

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)
		api.POST("/auth/google", s.handler.Auth.GoogleLogin)

		// User upsert after social login (public)
		api.POST("/users", s.handler.User.UpsertUser)

		// Post routes (public reads)
		api.GET("/posts", s.handler.Post.GetPosts)
		api.GET("/posts/:id", s.handler.Post.GetPost)
		api.GET("/posts/:id/comments", s.handler.Comment.GetComments)
		api.GET("/authors/:email/posts", s.handler.Post.GetPostsByAuthor)

		// Tag and announcement routes (public reads)
		api.GET("/tags", s.handler.Tag.GetTags)
		api.GET("/announcements", s.handler.Announcement.GetAnnouncements)
		api.GET("/announcements/count", s.handler.Announcement.CountAnnouncements)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.Auth([]byte(s.cfg.JWTSecret)))
		{
			protected.GET("/me", s.handler.Auth.GetMe)

			// Post protected routes
			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.DELETE("/posts/:id", s.handler.Post.DeletePost)
			protected.PATCH("/posts/:id/vote", s.handler.Post.VotePost)
			protected.POST("/posts/:id/comments", s.handler.Comment.CreateComment)

			// Reports and payments
			protected.POST("/reports", s.handler.Report.CreateReport)
			protected.POST("/payments", s.handler.Payment.SavePayment)
			protected.POST("/create-payment-intent", s.handler.Payment.CreatePaymentIntent)

			// Admin routes (moderation)
			admin := protected.Group("")
			admin.Use(middleware.AdminOnly())
			{
				admin.GET("/users", s.handler.User.GetUsers)
				admin.PATCH("/users/status/:email", s.handler.User.UpdateUserStatus)
				admin.PATCH("/users/admin/:id", s.handler.User.MakeAdmin)
				admin.POST("/tags", s.handler.Tag.CreateTag)
				admin.POST("/announcements", s.handler.Announcement.CreateAnnouncement)
				admin.GET("/reports", s.handler.Report.GetReports)
				admin.DELETE("/reports/:id", s.handler.Report.DeleteReport)
			}
		}
	}

	return r
}
