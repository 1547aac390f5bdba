package api

import (
	"context"
	"net/http"

	"budget_buddy/internal/domain"
	"budget_buddy/internal/middleware"
	"budget_buddy/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// IncomeRequest carries the nested income payload. Amount is a pointer so a
// missing field can be told apart from an explicit zero.
type IncomeRequest struct {
	Income struct {
		Amount *float64 `json:"amount"`
		Month  string   `json:"month"`
	} `json:"income"`
}

// totalIncome sums all income amounts for a user
func totalIncome(db *gorm.DB, userID uint) (float64, error) {
	var total float64
	err := db.Model(&domain.Income{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// ListIncomesHandler returns every income record for the authenticated user
// plus the lifetime total. Unlike expenses there is no month window on income.
func ListIncomesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()
		cacheKey := utils.UserKey("incomes", user.ID)
		var cached struct {
			Incomes     []domain.Income `json:"incomes"`
			TotalIncome float64         `json:"total_income"`
		}
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"incomes":      cached.Incomes,
				"total_income": cached.TotalIncome,
			})
			return
		}
		incomes := []domain.Income{}
		if err := db.Where("user_id = ?", user.ID).Find(&incomes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch incomes"})
			return
		}
		total, err := totalIncome(db, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sum incomes"})
			return
		}
		resp := gin.H{"incomes": incomes, "total_income": total}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, utils.SummaryTTL)
		c.JSON(http.StatusOK, resp)
	}
}

// CreateIncomeHandler records an income for the authenticated user and
// returns it together with the updated lifetime total
func CreateIncomeHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req IncomeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"errors": []string{"Amount is not a number"},
				"status": "error",
			})
			return
		}
		if req.Income.Amount == nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"errors": []string{"Amount can't be blank", "Amount is not a number"},
				"status": "error",
			})
			return
		}
		income := domain.Income{
			UserID: user.ID,
			Amount: *req.Income.Amount,
			Month:  req.Income.Month,
		}
		if err := db.Create(&income).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Error("Failed to create income")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create income"})
			return
		}
		total, err := totalIncome(db, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sum incomes"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,
			"income_id": income.ID,
			"amount":    income.Amount,
			"month":     income.Month,
		}).Info("Income recorded")
		_ = utils.DeleteCache(context.Background(), rdb, utils.UserKey("incomes", user.ID))
		c.JSON(http.StatusCreated, gin.H{"income": income, "total_income": total})
	}
}
