package api

import (
	"errors"
	"net/http"

	"budget_buddy/internal/domain"
	"budget_buddy/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BudgetRequest carries the nested budget payload
type BudgetRequest struct {
	Budget struct {
		NeedsPercent   int `json:"needs_percent"`
		WantsPercent   int `json:"wants_percent"`
		SavingsPercent int `json:"savings_percent"`
	} `json:"budget"`
}

// ListBudgetsHandler returns every budget for the authenticated user in
// creation order. A user with no budgets gets an empty array, not an error.
func ListBudgetsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		budgets := []domain.Budget{}
		if err := db.Where("user_id = ?", user.ID).Order("created_at asc").Find(&budgets).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch budgets"})
			return
		}
		c.JSON(http.StatusOK, budgets)
	}
}

// CurrentBudgetHandler returns the most recently created budget. When the
// user has none, it answers with a zero-percent allocation to signal
// "unconfigured" rather than failing.
func CurrentBudgetHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var budget domain.Budget
		err := db.Where("user_id = ?", user.ID).Order("created_at desc, id desc").First(&budget).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"needs_percent":   0,
				"wants_percent":   0,
				"savings_percent": 0,
			})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch budget"})
			return
		}
		c.JSON(http.StatusOK, budget)
	}
}

// CreateBudgetHandler records a budget allocation for the authenticated user.
// The three percentages must sum to exactly 100.
func CreateBudgetHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req BudgetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		budget := domain.Budget{
			UserID:         user.ID,
			NeedsPercent:   req.Budget.NeedsPercent,
			WantsPercent:   req.Budget.WantsPercent,
			SavingsPercent: req.Budget.SavingsPercent,
		}
		if errs := budget.Validate(); len(errs) > 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs, "status": "error"})
			return
		}
		if err := db.Create(&budget).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Error("Failed to create budget")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create budget"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,
			"budget_id": budget.ID,
			"needs":     budget.NeedsPercent,
			"wants":     budget.WantsPercent,
			"savings":   budget.SavingsPercent,
		}).Info("Budget recorded")
		c.JSON(http.StatusCreated, budget)
	}
}
