package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodshare/backend/internal/database"
	"github.com/foodshare/backend/internal/middleware"
	"github.com/foodshare/backend/internal/model"
	"github.com/foodshare/backend/internal/service"
)

// testEnv wires the full handler stack against an in-memory database,
// skipping the process-level concerns (CORS, rate limiting) the router
// adds in production.
type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	dsn := fmt.Sprintf("file:api-%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	auth := service.NewAuthService(db, "test-secret")
	recipes := service.NewRecipeService(db)
	engagement := service.NewEngagementService(db)
	follows := service.NewFollowService(db)
	catalog := service.NewCatalogService(db)
	shopping := service.NewShoppingListService(db)
	images := service.NewImageService(nil)
	views := NewViews(engagement, follows, recipes)

	router := gin.New()
	var validator middleware.TokenValidator = auth
	v1 := router.Group("/api")
	NewAuthHandler(auth, views).RegisterRoutes(v1)
	NewUserHandler(auth, follows, views).RegisterRoutes(v1, validator)
	NewCatalogHandler(catalog).RegisterRoutes(v1, validator)
	NewRecipeHandler(recipes, engagement, shopping, images, views).RegisterRoutes(v1, validator)

	return &testEnv{router: router, db: db, auth: auth}
}

// createUser registers an account and returns it with a bearer token.
func (e *testEnv) createUser(t *testing.T, username string, admin bool) (*model.User, string) {
	t.Helper()

	user, err := e.auth.Register(context.Background(), service.RegisterInput{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "secret-password",
	})
	require.NoError(t, err)

	if admin {
		require.NoError(t, e.db.Model(user).Update("is_admin", true).Error)
		user.IsAdmin = true
	}

	token, err := e.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

// request performs an HTTP call against the test router. A non-nil body
// is JSON-encoded; an empty token leaves the request anonymous.
func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func (e *testEnv) createTag(t *testing.T, name string) *model.Tag {
	t.Helper()
	tag := model.Tag{Name: name, Slug: name, Color: "#49B64E"}
	require.NoError(t, e.db.Create(&tag).Error)
	return &tag
}

func (e *testEnv) createIngredient(t *testing.T, name, unit string) *model.Ingredient {
	t.Helper()
	ingredient := model.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, e.db.Create(&ingredient).Error)
	return &ingredient
}
