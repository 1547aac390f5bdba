package api

import (
	"context"
	"net/http"
	"time"

	"budget_buddy/internal/domain"
	"budget_buddy/internal/middleware"
	"budget_buddy/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/now"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ExpenseRequest carries the nested expense payload
type ExpenseRequest struct {
	Expense struct {
		Amount   *float64 `json:"amount"`
		Category string   `json:"category"`
		Note     string   `json:"note"`
	} `json:"expense"`
}

// monthWindow is the current calendar month in server local time, evaluated
// at call time. Results shift as the clock crosses a month boundary.
func monthWindow() (time.Time, time.Time) {
	return now.BeginningOfMonth(), now.EndOfMonth()
}

// ListExpensesHandler summarizes the authenticated user's spending:
// lifetime total, per-category sums for the current calendar month, and the
// month's expense records newest first.
func ListExpensesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()
		cacheKey := utils.UserKey("expenses", user.ID)
		var cached struct {
			TotalSpending float64            `json:"total_spending"`
			Summary       map[string]float64 `json:"summary"`
			Notes         []domain.Expense   `json:"notes"`
		}
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"total_spending": cached.TotalSpending,
				"summary":        cached.Summary,
				"notes":          cached.Notes,
			})
			return
		}

		var total float64
		err := db.Model(&domain.Expense{}).
			Where("user_id = ?", user.ID).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&total).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sum expenses"})
			return
		}

		monthStart, monthEnd := monthWindow()
		var sums []struct {
			Category string
			Total    float64
		}
		err = db.Model(&domain.Expense{}).
			Select("category, COALESCE(SUM(amount), 0) AS total").
			Where("user_id = ? AND created_at BETWEEN ? AND ?", user.ID, monthStart, monthEnd).
			Group("category").
			Scan(&sums).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to summarize expenses"})
			return
		}
		summary := map[string]float64{}
		for _, s := range sums {
			summary[s.Category] = s.Total
		}

		notes := []domain.Expense{}
		err = db.Where("user_id = ? AND created_at BETWEEN ? AND ?", user.ID, monthStart, monthEnd).
			Order("created_at desc").
			Find(&notes).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
			return
		}

		resp := gin.H{"total_spending": total, "summary": summary, "notes": notes}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, utils.SummaryTTL)
		c.JSON(http.StatusOK, resp)
	}
}

// CreateExpenseHandler records an expense for the authenticated user
func CreateExpenseHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req ExpenseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"errors": []string{"Amount is not a number"},
				"status": "error",
			})
			return
		}
		if req.Expense.Amount == nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"errors": []string{"Amount can't be blank", "Amount is not a number"},
				"status": "error",
			})
			return
		}
		expense := domain.Expense{
			UserID:   user.ID,
			Amount:   *req.Expense.Amount,
			Category: req.Expense.Category,
			Note:     req.Expense.Note,
		}
		if errs := expense.Validate(); len(errs) > 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs, "status": "error"})
			return
		}
		if err := db.Create(&expense).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Error("Failed to create expense")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,
			"expense_id": expense.ID,
			"amount":     expense.Amount,
			"category":   expense.Category,
		}).Info("Expense recorded")
		_ = utils.DeleteCache(context.Background(), rdb, utils.UserKey("expenses", user.ID))
		c.JSON(http.StatusCreated, expense)
	}
}
