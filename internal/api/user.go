package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodshare/backend/internal/middleware"
	"github.com/foodshare/backend/internal/service"
)

type UserHandler struct {
	auth    *service.AuthService
	follows *service.FollowService
	views   *Views
}

func NewUserHandler(auth *service.AuthService, follows *service.FollowService, views *Views) *UserHandler {
	return &UserHandler{auth: auth, follows: follows, views: views}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, validator middleware.TokenValidator) {
	users := router.Group("/users")
	{
		users.GET("", middleware.OptionalAuthMiddleware(validator), h.ListUsers)
		users.GET("/me", middleware.AuthMiddleware(validator), h.Me)
		users.GET("/subscriptions", middleware.AuthMiddleware(validator), h.Subscriptions)
		users.GET("/:id", middleware.OptionalAuthMiddleware(validator), h.GetUser)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(validator), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(validator), h.Unsubscribe)
	}
}

func viewer(c *gin.Context) *uuid.UUID {
	if id, ok := middleware.UserID(c); ok {
		return &id
	}
	return nil
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	offset, limit := pagination(c)
	users, total, err := h.auth.ListUsers(c.Request.Context(), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]UserResponse, len(users))
	for i := range users {
		resp, err := h.views.BuildUser(c.Request.Context(), &users[i], viewer(c))
		if err != nil {
			respondError(c, err)
			return
		}
		results[i] = resp
	}

	c.JSON(http.StatusOK, gin.H{"count": total, "results": results})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.views.BuildUser(c.Request.Context(), user, viewer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	user, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.views.BuildUser(c.Request.Context(), user, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	followeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	userID, _ := middleware.UserID(c)

	followee, err := h.follows.Subscribe(c.Request.Context(), userID, followeeID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.views.BuildFollow(c.Request.Context(), followee, &userID, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	followeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.follows.Unsubscribe(c.Request.Context(), userID, followeeID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	offset, limit := pagination(c)

	authors, total, err := h.follows.Subscriptions(c.Request.Context(), userID, offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	capped := recipesLimit(c)
	results := make([]FollowResponse, len(authors))
	for i := range authors {
		resp, err := h.views.BuildFollow(c.Request.Context(), &authors[i], &userID, capped)
		if err != nil {
			respondError(c, err)
			return
		}
		results[i] = resp
	}

	c.JSON(http.StatusOK, gin.H{"count": total, "results": results})
}

// recipesLimit caps the recipes embedded per followed author; 0 means all.
func recipesLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
