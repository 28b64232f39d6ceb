package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/foodshare/backend/internal/model"
)

// Request payloads

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,min=3,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type IngredientAmountRequest struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount"`
}

type RecipeRequest struct {
	Name        string                    `json:"name" binding:"required,max=200"`
	Text        string                    `json:"text" binding:"required"`
	CookingTime int                       `json:"cooking_time"`
	Image       string                    `json:"image"`
	Tags        []uuid.UUID               `json:"tags"`
	Ingredients []IngredientAmountRequest `json:"ingredients"`
}

type TagRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Slug  string `json:"slug" binding:"required,slug,max=200"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

type IngredientRequest struct {
	Name            string `json:"name" binding:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" binding:"required,max=50"`
}

// Response shapes

type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

type IngredientLineResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeResponse is the canonical read view: denormalized author, full tag
// objects, joined ingredient lines and the two viewer-relative booleans.
type RecipeResponse struct {
	ID                uuid.UUID                `json:"id"`
	Author            UserResponse             `json:"author"`
	Tags              []model.Tag              `json:"tags"`
	Ingredients       []IngredientLineResponse `json:"ingredients"`
	IsFavorited       bool                     `json:"is_favorited"`
	IsInShoppingCart  bool                     `json:"is_in_shopping_cart"`
	Name              string                   `json:"name"`
	Text              string                   `json:"text"`
	CookingTime       int                      `json:"cooking_time"`
	Image             string                   `json:"image"`
	PubDate           time.Time                `json:"pub_date"`
}

// RecipeSummary is the compact representation returned by the engagement
// endpoints and embedded in subscription listings.
type RecipeSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// FollowResponse annotates a followed author with their recipes.
type FollowResponse struct {
	UserResponse
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

func summarize(r *model.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}
