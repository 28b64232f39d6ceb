package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteLifecycle(t *testing.T) {
	db := setupTestDB(t)
	recipes := NewRecipeService(db)
	svc := NewEngagementService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	fan := createTestUser(t, db, "fan")
	tag := createTestTag(t, db, "dinner")
	salt := createTestIngredient(t, db, "Salt", "g")

	recipe, err := recipes.Create(ctx, author.ID, validInput(tag, IngredientAmount{IngredientID: salt.ID, Amount: 1}))
	require.NoError(t, err)

	got, err := svc.AddFavorite(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, got.ID)
	assert.Equal(t, recipe.Name, got.Name)

	// Duplicate add is a conflict, never a no-op.
	_, err = svc.AddFavorite(ctx, fan.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrAlreadyFavorite)

	favorited, err := svc.IsFavorited(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, favorited)

	require.NoError(t, svc.RemoveFavorite(ctx, fan.ID, recipe.ID))
	assert.ErrorIs(t, svc.RemoveFavorite(ctx, fan.ID, recipe.ID), ErrNotFound)
}

func TestAddFavoriteMissingRecipe(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEngagementService(db)

	fan := createTestUser(t, db, "fan")
	_, err := svc.AddFavorite(context.Background(), fan.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShoppingCartLifecycle(t *testing.T) {
	db := setupTestDB(t)
	recipes := NewRecipeService(db)
	svc := NewEngagementService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	shopper := createTestUser(t, db, "shopper")
	tag := createTestTag(t, db, "dinner")
	salt := createTestIngredient(t, db, "Salt", "g")

	recipe, err := recipes.Create(ctx, author.ID, validInput(tag, IngredientAmount{IngredientID: salt.ID, Amount: 1}))
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, shopper.ID, recipe.ID)
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, shopper.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrAlreadyInCart)

	inCart, err := svc.IsInCart(ctx, shopper.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, inCart)

	require.NoError(t, svc.RemoveFromCart(ctx, shopper.ID, recipe.ID))
	assert.ErrorIs(t, svc.RemoveFromCart(ctx, shopper.ID, recipe.ID), ErrNotFound)
}
