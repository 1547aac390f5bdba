package main

import (
	"flag"
	"math/rand"

	"budget_buddy/internal/config"
	"budget_buddy/internal/domain"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var categories = []string{domain.CategoryNeed, domain.CategoryWant, domain.CategorySaving}

// Seeds the database with a fixed demo account plus optional random users
// for local development. Run cmd/migrate first.
func main() {
	users := flag.Int("users", 0, "number of random users to generate in addition to the demo account")
	flag.Parse()

	cfg := config.LoadConfig()
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	seedUser(db, "Demo", "test@example.com", "password")
	for i := 0; i < *users; i++ {
		seedUser(db, gofakeit.Name(), gofakeit.Email(), gofakeit.Password(true, true, true, false, false, 10))
	}
}

// seedUser creates a user with a handful of incomes, expenses and a budget.
// An existing user with the same email is left untouched.
func seedUser(db *gorm.DB, name, email, password string) {
	var count int64
	db.Model(&domain.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		logrus.Infof("user %s already seeded, skipping", email)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.Fatalf("failed to hash password: %v", err)
	}
	user := domain.User{Name: name, Email: email, PasswordDigest: string(hash)}
	if err := db.Create(&user).Error; err != nil {
		logrus.Fatalf("failed to create user %s: %v", email, err)
	}

	for i := 0; i < 3; i++ {
		income := domain.Income{
			UserID: user.ID,
			Amount: gofakeit.Price(500, 5000),
			Month:  gofakeit.Date().Format("2006-01"),
		}
		if err := db.Create(&income).Error; err != nil {
			logrus.Fatalf("failed to create income: %v", err)
		}
	}
	for i := 0; i < 6; i++ {
		expense := domain.Expense{
			UserID:   user.ID,
			Amount:   gofakeit.Price(5, 1500),
			Category: categories[rand.Intn(len(categories))],
			Note:     gofakeit.ProductName(),
		}
		if err := db.Create(&expense).Error; err != nil {
			logrus.Fatalf("failed to create expense: %v", err)
		}
	}
	budget := domain.Budget{UserID: user.ID, NeedsPercent: 50, WantsPercent: 30, SavingsPercent: 20}
	if err := db.Create(&budget).Error; err != nil {
		logrus.Fatalf("failed to create budget: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("Seeded user")
}
