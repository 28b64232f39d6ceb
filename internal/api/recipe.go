package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodshare/backend/internal/middleware"
	"github.com/foodshare/backend/internal/model"
	"github.com/foodshare/backend/internal/service"
)

type RecipeHandler struct {
	recipes    *service.RecipeService
	engagement *service.EngagementService
	shopping   *service.ShoppingListService
	images     *service.ImageService
	views      *Views
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	engagement *service.EngagementService,
	shopping *service.ShoppingListService,
	images *service.ImageService,
	views *Views,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:    recipes,
		engagement: engagement,
		shopping:   shopping,
		images:     images,
		views:      views,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, validator middleware.TokenValidator) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(validator), h.ListRecipes)
		recipes.GET("/download_shopping_cart", middleware.AuthMiddleware(validator), h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(validator), h.GetRecipe)
		recipes.POST("", middleware.AuthMiddleware(validator), h.CreateRecipe)
		recipes.PATCH("/:id", middleware.AuthMiddleware(validator), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthMiddleware(validator), h.DeleteRecipe)
		recipes.POST("/:id/favorite", middleware.AuthMiddleware(validator), h.Favorite)
		recipes.DELETE("/:id/favorite", middleware.AuthMiddleware(validator), h.Unfavorite)
		recipes.POST("/:id/shopping_cart", middleware.AuthMiddleware(validator), h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", middleware.AuthMiddleware(validator), h.RemoveFromCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	offset, limit := pagination(c)
	filter := service.RecipeFilter{Offset: offset, Limit: limit}

	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &id
	}
	if tags := c.QueryArray("tags"); len(tags) > 0 {
		filter.TagSlugs = tags
	}
	// Viewer-relative filters are meaningless for anonymous requests.
	if v := viewer(c); v != nil {
		if c.Query("is_favorited") == "1" {
			filter.FavoritedBy = v
		}
		if c.Query("is_in_shopping_cart") == "1" {
			filter.InShoppingCartOf = v
		}
	}

	recipes, total, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]RecipeResponse, len(recipes))
	for i := range recipes {
		resp, err := h.views.BuildRecipe(c.Request.Context(), &recipes[i], viewer(c))
		if err != nil {
			respondError(c, err)
			return
		}
		results[i] = resp
	}

	c.JSON(http.StatusOK, gin.H{"count": total, "results": results})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.views.BuildRecipe(c.Request.Context(), recipe, viewer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) recipeInput(c *gin.Context, req RecipeRequest) (service.RecipeInput, error) {
	imageURL, err := h.images.ResolveImage(c.Request.Context(), req.Image)
	if err != nil {
		return service.RecipeInput{}, err
	}

	lines := make([]service.IngredientAmount, len(req.Ingredients))
	for i, line := range req.Ingredients {
		lines[i] = service.IngredientAmount{IngredientID: line.ID, Amount: line.Amount}
	}

	return service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageURL:    imageURL,
		TagIDs:      req.Tags,
		Ingredients: lines,
	}, nil
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := middleware.UserID(c)

	input, err := h.recipeInput(c, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.views.BuildRecipe(c.Request.Context(), recipe, &userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _ := middleware.UserID(c)

	input, err := h.recipeInput(c, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, userID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.views.BuildRecipe(c.Request.Context(), recipe, &userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.recipes.Delete(c.Request.Context(), id, userID, c.GetBool(middleware.ContextIsAdmin)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.addEngagement(c, h.engagement.AddFavorite)
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	h.removeEngagement(c, h.engagement.RemoveFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addEngagement(c, h.engagement.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeEngagement(c, h.engagement.RemoveFromCart)
}

func (h *RecipeHandler) addEngagement(c *gin.Context, add func(ctx context.Context, userID, recipeID uuid.UUID) (*model.Recipe, error)) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	userID, _ := middleware.UserID(c)

	recipe, err := add(c.Request.Context(), userID, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summarize(recipe))
}

func (h *RecipeHandler) removeEngagement(c *gin.Context, remove func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	userID, _ := middleware.UserID(c)

	if err := remove(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	body, err := h.shopping.Render(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_cart.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}
