package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"go-quote-backend/internal/database"
	"go-quote-backend/internal/handlers"
	"go-quote-backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: No .env file found")
	}

	database.Connect()
	r := gin.Default()

	// Bridge to the React client
	clientURL := os.Getenv("CLIENT_URL")
	if clientURL == "" {
		clientURL = "http://localhost:5173"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{clientURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check: server up + DB reachable
	r.GET("/health", func(c *gin.Context) {
		dbState := "connected"
		if sqlDB, err := database.DB.DB(); err != nil || sqlDB.Ping() != nil {
			dbState = "disconnected"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"env":     os.Getenv("GIN_MODE"),
			"dbState": dbState,
		})
	})

	// --- PUBLIC AUTH ROUTES ---
	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/register", handlers.Register)
		authRoutes.POST("/login", handlers.Login)
		authRoutes.POST("/forgot-password", handlers.ForgotPassword)
		authRoutes.POST("/reset-password/:token", handlers.ResetPassword)
	}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		quotes := api.Group("/quotes")
		{
			quotes.POST("", handlers.CreateQuote)
			quotes.GET("", handlers.ListQuotes)
			quotes.GET("/:id", handlers.GetQuote)
			quotes.PUT("/:id", handlers.UpdateQuote)
			quotes.DELETE("/:id", handlers.DeleteQuote)
		}

		materials := api.Group("/materials")
		{
			materials.POST("", handlers.CreateMaterialQuote)
			materials.GET("", handlers.ListMaterialQuotes)
			materials.GET("/:id", handlers.GetMaterialQuote)
			materials.PUT("/:id", handlers.UpdateMaterialQuote)
			materials.DELETE("/:id", handlers.DeleteMaterialQuote)
		}

		api.GET("/reports", handlers.GetQuoteReport)
		api.POST("/ask", handlers.AskAI)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	log.Println("🚀 Server listening on port " + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
