package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/petsustain/petsustain-backend/internal/database"
	"github.com/petsustain/petsustain-backend/internal/handlers"
	"github.com/petsustain/petsustain-backend/internal/middleware"
	"github.com/petsustain/petsustain-backend/internal/models"
	"github.com/petsustain/petsustain-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize Storage (S3 or local fallback)
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve uploaded donation photos
	r.Static("/uploads", "/app/uploads")

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(db, hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// User routes
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
			}

			// Role selection routes
			roles := protected.Group("/roles")
			{
				roles.POST("", handlers.SelectRole(db))
				roles.GET("/me", handlers.GetMyRole(db))
			}

			// Donation routes
			donations := protected.Group("/donations")
			{
				donations.POST("", middleware.RequireRole(db, models.RoleDonor), handlers.CreateDonation(db, hub))
				donations.POST("/:id/photo", middleware.RequireRole(db, models.RoleDonor), handlers.UploadDonationPhoto(db))
				donations.GET("/mine", middleware.RequireRole(db, models.RoleDonor), handlers.GetMyDonations(db))
				donations.GET("/open", middleware.RequireRole(db, models.RoleRider), handlers.GetOpenDonations(db))
				donations.POST("/:id/accept", middleware.RequireRole(db, models.RoleRider), handlers.AcceptDonation(db, hub))
				donations.POST("/:id/quality-check", middleware.RequireRole(db, models.RoleRider), handlers.QualityCheckDonation(db, hub))
				donations.POST("/:id/deliver", middleware.RequireRole(db, models.RoleRider), handlers.DeliverDonation(db, hub))
				donations.GET("/assigned", middleware.RequireRole(db, models.RoleRider), handlers.GetRiderAssignedDonations(db))
				donations.GET("/:id", handlers.GetDonation(db))
			}

			// Shelter routes
			shelters := protected.Group("/shelters")
			{
				shelters.POST("", middleware.RequireRole(db, models.RoleShelter), handlers.RegisterShelter(db))
				shelters.GET("/me", middleware.RequireRole(db, models.RoleShelter), handlers.GetMyShelter(db))
				shelters.GET("/me/donations", middleware.RequireRole(db, models.RoleShelter), handlers.GetShelterDonations(db))
				shelters.GET("", middleware.RequireRole(db, models.RoleRider), handlers.ListShelters(db))
				shelters.GET("/nearest", middleware.RequireRole(db, models.RoleRider), handlers.GetNearestShelter(db))
			}

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(db, models.RoleAdmin))
			{
				admin.GET("/stats", handlers.GetAdminStats(db))
				admin.GET("/donations/recent", handlers.GetRecentDonations(db))
			}

			// Analytics is open to any authenticated user
			protected.GET("/analytics", handlers.GetAnalytics(db))
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
