package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"budget_buddy/internal/auth"
	"budget_buddy/internal/domain"
	"budget_buddy/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh in-memory database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // one connection so :memory: is shared

	err = db.AutoMigrate(&domain.User{}, &domain.Income{}, &domain.Expense{}, &domain.Budget{})
	require.NoError(t, err, "failed to migrate test database")
	return db
}

// setupRouter wires the full route table the way cmd/server does, with
// caching disabled (nil redis client)
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	tokens := auth.NewTokenService(db)

	r := gin.New()
	r.POST("/signup", SignupHandler(db, tokens))
	r.POST("/login", LoginHandler(db, tokens))
	r.DELETE("/logout", LogoutHandler(tokens))
	r.GET("/current_user", CurrentUserHandler(tokens))

	protected := r.Group("/")
	protected.Use(middleware.BearerAuth(tokens))
	protected.GET("/incomes", ListIncomesHandler(db, nil))
	protected.POST("/incomes", CreateIncomeHandler(db, nil))
	protected.GET("/budgets", ListBudgetsHandler(db))
	protected.GET("/budgets/current", CurrentBudgetHandler(db))
	protected.POST("/budgets", CreateBudgetHandler(db))
	protected.GET("/expenses", ListExpensesHandler(db, nil))
	protected.POST("/expenses", CreateExpenseHandler(db, nil))
	return r, db
}

// doRequest performs a JSON request against the router and records the response
func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// newRawRequest builds a GET /incomes request with a verbatim Authorization
// header, for exercising malformed credentials
func newRawRequest(t *testing.T, r *gin.Engine, header string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/incomes", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	return req, httptest.NewRecorder()
}

// decodeBody unmarshals a recorded JSON object response
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// signupUser registers a user through the API and returns its bearer token
func signupUser(t *testing.T, r *gin.Engine, name, email, password string) string {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/signup", "", gin.H{
		"user": gin.H{"name": name, "email": email, "password": password},
	})
	require.Equal(t, http.StatusCreated, w.Code, "signup failed: %s", w.Body.String())
	body := decodeBody(t, w)
	token, ok := body["token"].(string)
	require.True(t, ok, "signup response missing token")
	return token
}
