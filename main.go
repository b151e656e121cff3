package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/config"
	"storefront/internal/credentials"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/session"
)

func main() {
	config.Load()

	if config.AppEnv.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	provider := credentials.MemoryProvider()
	var db *mongo.Database
	if config.AppEnv.MongoURI != "" {
		client, err := database.Connect(config.AppEnv.MongoURI)
		if err != nil {
			log.Fatal(err)
		}
		db = client.Database(config.AppEnv.DBName)
		log.Println("MongoDB connected to:", db.Name())

		if err := database.EnsureSessionIndexes(db, config.AppEnv.TokenCookieTTL); err != nil {
			log.Printf("session index warning: %v", err)
		}
		provider = credentials.MongoProvider(db)
	} else {
		log.Println("MONGO_URI not set, keeping credentials in memory")
	}

	log.Println("Backend API:", config.AppEnv.APIBaseURL)

	manager := session.NewManager(config.AppEnv.APIBaseURL, provider, config.AppEnv.SessionIdleTTL)
	go manager.Run(context.Background(), time.Minute)

	cookies := credentials.CookieOptions{
		TTL:    config.AppEnv.TokenCookieTTL,
		Secure: config.AppEnv.CookieSecure,
	}

	r := gin.Default()
	if len(config.AppEnv.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     config.AppEnv.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.LoadHTMLGlob("templates/**/*")
	r.Static("/public", "./public")

	r.GET("/healthz", handlers.Health(db, manager))

	site := r.Group("/")
	site.Use(middleware.Session(manager, cookies, config.AppEnv.SessionCookieTTL), middleware.RouteGuard())
	{
		site.GET("/", handlers.Home())
		site.GET("/search/select", handlers.SelectSuggestion())

		site.GET("/login", handlers.LoginPage())
		site.POST("/login", handlers.Login(cookies))
		site.GET("/signup", handlers.SignupPage())
		site.POST("/signup", handlers.Signup())
		site.POST("/verify-otp", handlers.VerifyOTP(cookies))
		site.POST("/logout", handlers.Logout(cookies))

		site.GET("/checkout", handlers.CheckoutPage())
		site.POST("/checkout/quantity", handlers.ChangeQuantity())

		site.GET("/live", handlers.Live(config.AppEnv.AllowedOrigins))
	}

	api := site.Group("/api")
	{
		api.GET("/products/more", handlers.LoadMoreProducts())
		api.GET("/filters/toggle", handlers.ToggleFilter())
		api.GET("/search", handlers.Suggestions())

		api.GET("/profile", handlers.GetProfile())
		api.POST("/profile/refresh", handlers.RefreshProfile())

		api.GET("/cart", handlers.GetCart())
		api.POST("/cart", handlers.AddToCart())
		api.PUT("/cart/:id", handlers.UpdateCartItem())
		api.DELETE("/cart/:id", handlers.RemoveCartItem())
		api.POST("/cart/clear", handlers.ClearCart())
		api.POST("/cart/refresh", handlers.RefreshCart())
	}

	r.Run(":" + config.AppEnv.Port)
}
