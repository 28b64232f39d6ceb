package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/foodshare/backend/internal/model"
	"github.com/foodshare/backend/internal/service"
)

// Views builds read representations. Every recipe write responds through
// BuildRecipe so clients always see the same canonical shape.
type Views struct {
	engagement *service.EngagementService
	follows    *service.FollowService
	recipes    *service.RecipeService
}

func NewViews(engagement *service.EngagementService, follows *service.FollowService, recipes *service.RecipeService) *Views {
	return &Views{engagement: engagement, follows: follows, recipes: recipes}
}

// BuildUser renders a user profile. is_subscribed is false for anonymous
// viewers, else a membership lookup for the (viewer, user) pair.
func (v *Views) BuildUser(ctx context.Context, user *model.User, viewer *uuid.UUID) (UserResponse, error) {
	resp := UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if viewer != nil {
		subscribed, err := v.follows.IsSubscribed(ctx, *viewer, user.ID)
		if err != nil {
			return resp, err
		}
		resp.IsSubscribed = subscribed
	}
	return resp, nil
}

// BuildRecipe renders the canonical recipe read view relative to an
// optional viewer. The recipe must be loaded with Author, Tags and
// Ingredients.Ingredient preloads.
func (v *Views) BuildRecipe(ctx context.Context, recipe *model.Recipe, viewer *uuid.UUID) (RecipeResponse, error) {
	author, err := v.BuildUser(ctx, &recipe.Author, viewer)
	if err != nil {
		return RecipeResponse{}, err
	}

	lines := make([]IngredientLineResponse, len(recipe.Ingredients))
	for i, line := range recipe.Ingredients {
		lines[i] = IngredientLineResponse{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		}
	}

	tags := recipe.Tags
	if tags == nil {
		tags = []model.Tag{}
	}

	resp := RecipeResponse{
		ID:          recipe.ID,
		Author:      author,
		Tags:        tags,
		Ingredients: lines,
		Name:        recipe.Name,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		Image:       recipe.ImageURL,
		PubDate:     recipe.CreatedAt,
	}

	if viewer != nil {
		if resp.IsFavorited, err = v.engagement.IsFavorited(ctx, *viewer, recipe.ID); err != nil {
			return resp, err
		}
		if resp.IsInShoppingCart, err = v.engagement.IsInCart(ctx, *viewer, recipe.ID); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// BuildFollow renders a followed author with their recipes, optionally
// capped to recipesLimit, and a total recipe count.
func (v *Views) BuildFollow(ctx context.Context, user *model.User, viewer *uuid.UUID, recipesLimit int) (FollowResponse, error) {
	base, err := v.BuildUser(ctx, user, viewer)
	if err != nil {
		return FollowResponse{}, err
	}

	recipes, err := v.recipes.ListByAuthor(ctx, user.ID, recipesLimit)
	if err != nil {
		return FollowResponse{}, err
	}
	count, err := v.recipes.CountByAuthor(ctx, user.ID)
	if err != nil {
		return FollowResponse{}, err
	}

	summaries := make([]RecipeSummary, len(recipes))
	for i := range recipes {
		summaries[i] = summarize(&recipes[i])
	}

	return FollowResponse{
		UserResponse: base,
		Recipes:      summaries,
		RecipesCount: count,
	}, nil
}
