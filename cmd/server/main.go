package main

import (
	"context"

	"budget_buddy/internal/api"
	"budget_buddy/internal/auth"
	"budget_buddy/internal/config"
	"budget_buddy/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig()

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	// Setup Redis client. Caching is optional: with no REDIS_ADDR the
	// summary endpoints just hit the database every time.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	} else {
		logrus.Info("REDIS_ADDR not set, summary caching disabled")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default()

	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	tokens := auth.NewTokenService(db)

	// Auth routes. Logout and current_user resolve the token themselves:
	// logout must succeed for expired sessions and current_user answers
	// 200 with a null user instead of 401.
	r.POST("/signup", api.SignupHandler(db, tokens))
	r.POST("/login", api.LoginHandler(db, tokens))
	r.DELETE("/logout", api.LogoutHandler(tokens))
	r.GET("/current_user", api.CurrentUserHandler(tokens))

	// Domain routes (protected by bearer token)
	protected := r.Group("/")
	protected.Use(middleware.BearerAuth(tokens))
	protected.GET("/incomes", api.ListIncomesHandler(db, redisClient))
	protected.POST("/incomes", api.CreateIncomeHandler(db, redisClient))
	protected.GET("/budgets", api.ListBudgetsHandler(db))
	protected.GET("/budgets/current", api.CurrentBudgetHandler(db))
	protected.POST("/budgets", api.CreateBudgetHandler(db))
	protected.GET("/expenses", api.ListExpensesHandler(db, redisClient))
	protected.POST("/expenses", api.CreateExpenseHandler(db, redisClient))

	logrus.Info("Server running on " + cfg.AppPort)
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
