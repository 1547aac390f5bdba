package api

import (
	"net/http"
	"strings"

	"budget_buddy/internal/auth"
	"budget_buddy/internal/domain"
	"budget_buddy/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SignupRequest carries the nested signup payload
type SignupRequest struct {
	User struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
}

// LoginRequest carries the login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// normalizeEmail lowercases and trims an email so uniqueness and login
// lookups are case-insensitive
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// signupErrors collects field-level validation messages for a signup attempt
func signupErrors(db *gorm.DB, name, email, password string) []string {
	var errs []string
	if name == "" {
		errs = append(errs, "Name can't be blank")
	}
	if email == "" {
		errs = append(errs, "Email can't be blank")
	} else {
		var count int64
		db.Model(&domain.User{}).Where("email = ?", email).Count(&count)
		if count > 0 {
			errs = append(errs, "Email has already been taken")
		}
	}
	if password == "" {
		errs = append(errs, "Password can't be blank")
	} else if len(password) < 6 {
		errs = append(errs, "Password is too short (minimum is 6 characters)")
	}
	return errs
}

// SignupHandler creates a user and immediately issues a token (auto-login)
func SignupHandler(db *gorm.DB, tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		email := normalizeEmail(req.User.Email)
		if errs := signupErrors(db, req.User.Name, email, req.User.Password); len(errs) > 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs, "status": "error"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.User.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user := domain.User{Name: req.User.Name, Email: email, PasswordDigest: string(hash)}
		if err := db.Create(&user).Error; err != nil {
			// Unique index race: another signup with the same email committed first
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"errors": []string{"Email has already been taken"},
				"status": "error",
			})
			return
		}
		token, err := tokens.Issue(&user)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Error("Token issue failed after signup")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"email":   user.Email,
		}).Info("User signed up")
		c.JSON(http.StatusCreated, gin.H{
			"user":   user.Public(),
			"token":  token,
			"status": "success",
		})
	}
}

// LoginHandler authenticates by email and password and issues a fresh token.
// A fresh token supersedes any previous session for the user. The failure
// message never says whether the email or the password was wrong.
func LoginHandler(db *gorm.DB, tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User
		if err := db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password", "status": "error"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password", "status": "error"})
			return
		}
		token, err := tokens.Issue(&user)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Error("Token issue failed on login")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"email":   user.Email,
		}).Info("User logged in")
		c.JSON(http.StatusOK, gin.H{
			"user":   user.Public(),
			"token":  token,
			"status": "success",
		})
	}
}

// LogoutHandler revokes the presented token. The lookup ignores expiry so an
// expired session can still be cleared, and the response is success no matter
// whether a session was found.
func LogoutHandler(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := middleware.BearerToken(c); token != "" {
			if user, err := tokens.FindByToken(token); err == nil {
				if err := tokens.Revoke(user); err == nil {
					logrus.WithFields(logrus.Fields{
						"user_id": user.ID,
						"email":   user.Email,
					}).Info("User logged out")
				}
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out", "status": "success"})
	}
}

// CurrentUserHandler resolves the bearer token itself instead of sitting
// behind BearerAuth: an unauthenticated client gets 200 with a null user, not
// a 401.
func CurrentUserHandler(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := tokens.Validate(middleware.BearerToken(c))
		if err != nil {
			c.JSON(http.StatusOK, gin.H{
				"user":    nil,
				"status":  "error",
				"message": "Not authenticated",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user.Public(), "status": "success"})
	}
}
