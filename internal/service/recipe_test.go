package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/backend/internal/model"
)

func validInput(tag *model.Tag, lines ...IngredientAmount) RecipeInput {
	return RecipeInput{
		Name:        "Borscht",
		Text:        "Simmer until done.",
		CookingTime: 45,
		TagIDs:      []uuid.UUID{tag.ID},
		Ingredients: lines,
	}
}

func TestCreateRecipeStoresPayloadSets(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	dinner := createTestTag(t, db, "dinner")
	quick := createTestTag(t, db, "quick")
	beet := createTestIngredient(t, db, "Beet", "pc")
	salt := createTestIngredient(t, db, "Salt", "g")

	in := validInput(dinner,
		IngredientAmount{IngredientID: beet.ID, Amount: 3},
		IngredientAmount{IngredientID: salt.ID, Amount: 5},
	)
	in.TagIDs = []uuid.UUID{dinner.ID, quick.ID}

	recipe, err := svc.Create(ctx, author.ID, in)
	require.NoError(t, err)
	assert.Equal(t, author.ID, recipe.AuthorID)
	assert.Len(t, recipe.Tags, 2)
	require.Len(t, recipe.Ingredients, 2)

	amounts := map[uuid.UUID]int{}
	for _, line := range recipe.Ingredients {
		amounts[line.IngredientID] = line.Amount
	}
	assert.Equal(t, 3, amounts[beet.ID])
	assert.Equal(t, 5, amounts[salt.ID])
}

func TestCreateRecipeValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	tag := createTestTag(t, db, "dinner")
	salt := createTestIngredient(t, db, "Salt", "g")
	line := IngredientAmount{IngredientID: salt.ID, Amount: 1}

	t.Run("cooking time zero fails", func(t *testing.T) {
		in := validInput(tag, line)
		in.CookingTime = 0
		_, err := svc.Create(ctx, author.ID, in)
		assert.True(t, IsValidation(err))
	})

	t.Run("cooking time one succeeds", func(t *testing.T) {
		in := validInput(tag, line)
		in.CookingTime = 1
		_, err := svc.Create(ctx, author.ID, in)
		assert.NoError(t, err)
	})

	t.Run("empty tag set fails", func(t *testing.T) {
		in := validInput(tag, line)
		in.TagIDs = nil
		_, err := svc.Create(ctx, author.ID, in)
		assert.True(t, IsValidation(err))
	})

	t.Run("unknown tag fails", func(t *testing.T) {
		in := validInput(tag, line)
		in.TagIDs = []uuid.UUID{uuid.New()}
		_, err := svc.Create(ctx, author.ID, in)
		assert.True(t, IsValidation(err))
	})

	t.Run("empty ingredient list fails", func(t *testing.T) {
		in := validInput(tag)
		_, err := svc.Create(ctx, author.ID, in)
		assert.True(t, IsValidation(err))
	})

	t.Run("duplicate ingredient fails regardless of amounts", func(t *testing.T) {
		in := validInput(tag,
			IngredientAmount{IngredientID: salt.ID, Amount: 2},
			IngredientAmount{IngredientID: salt.ID, Amount: 7},
		)
		_, err := svc.Create(ctx, author.ID, in)
		assert.True(t, IsValidation(err))
	})

	t.Run("non-positive amount fails", func(t *testing.T) {
		in := validInput(tag, IngredientAmount{IngredientID: salt.ID, Amount: 0})
		_, err := svc.Create(ctx, author.ID, in)
		assert.True(t, IsValidation(err))
	})

	t.Run("unknown ingredient fails", func(t *testing.T) {
		in := validInput(tag, IngredientAmount{IngredientID: uuid.New(), Amount: 1})
		_, err := svc.Create(ctx, author.ID, in)
		assert.True(t, IsValidation(err))
	})
}

func TestUpdateRecipeFullReplace(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	dinner := createTestTag(t, db, "dinner")
	quick := createTestTag(t, db, "quick")
	a := createTestIngredient(t, db, "A", "g")
	b := createTestIngredient(t, db, "B", "g")
	c := createTestIngredient(t, db, "C", "g")

	recipe, err := svc.Create(ctx, author.ID, validInput(dinner,
		IngredientAmount{IngredientID: a.ID, Amount: 2},
		IngredientAmount{IngredientID: b.ID, Amount: 3},
	))
	require.NoError(t, err)

	in := validInput(quick, IngredientAmount{IngredientID: c.ID, Amount: 1})
	in.Name = "Updated"
	updated, err := svc.Update(ctx, recipe.ID, author.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "Updated", updated.Name)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, c.ID, updated.Ingredients[0].IngredientID)
	assert.Equal(t, 1, updated.Ingredients[0].Amount)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, quick.ID, updated.Tags[0].ID)

	// No orphaned lines survive the replace.
	var lineCount int64
	require.NoError(t, db.Model(&model.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&lineCount).Error)
	assert.EqualValues(t, 1, lineCount)
}

func TestUpdateRecipeAuthorization(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	other := createTestUser(t, db, "other")
	tag := createTestTag(t, db, "dinner")
	salt := createTestIngredient(t, db, "Salt", "g")

	recipe, err := svc.Create(ctx, author.ID, validInput(tag, IngredientAmount{IngredientID: salt.ID, Amount: 1}))
	require.NoError(t, err)

	_, err = svc.Update(ctx, recipe.ID, other.ID, validInput(tag, IngredientAmount{IngredientID: salt.ID, Amount: 2}))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteRecipeCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	engagement := NewEngagementService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	fan := createTestUser(t, db, "fan")
	tag := createTestTag(t, db, "dinner")
	salt := createTestIngredient(t, db, "Salt", "g")

	recipe, err := svc.Create(ctx, author.ID, validInput(tag, IngredientAmount{IngredientID: salt.ID, Amount: 1}))
	require.NoError(t, err)

	_, err = engagement.AddFavorite(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)
	_, err = engagement.AddToCart(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, recipe.ID, author.ID, false))

	_, err = svc.Get(ctx, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&model.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&model.Favorite{}).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&model.ShoppingCart{}).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListRecipesFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	engagement := NewEngagementService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	dinner := createTestTag(t, db, "dinner")
	quick := createTestTag(t, db, "quick")
	salt := createTestIngredient(t, db, "Salt", "g")
	line := IngredientAmount{IngredientID: salt.ID, Amount: 1}

	aliceRecipe, err := svc.Create(ctx, alice.ID, validInput(dinner, line))
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob.ID, validInput(quick, line))
	require.NoError(t, err)

	_, err = engagement.AddFavorite(ctx, bob.ID, aliceRecipe.ID)
	require.NoError(t, err)

	t.Run("by author", func(t *testing.T) {
		recipes, total, err := svc.List(ctx, RecipeFilter{AuthorID: &alice.ID, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, recipes, 1)
		assert.Equal(t, aliceRecipe.ID, recipes[0].ID)
	})

	t.Run("by tag slug", func(t *testing.T) {
		recipes, total, err := svc.List(ctx, RecipeFilter{TagSlugs: []string{"quick"}, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, recipes, 1)
		assert.Equal(t, bob.ID, recipes[0].AuthorID)
	})

	t.Run("favorited by viewer", func(t *testing.T) {
		recipes, total, err := svc.List(ctx, RecipeFilter{FavoritedBy: &bob.ID, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, recipes, 1)
		assert.Equal(t, aliceRecipe.ID, recipes[0].ID)
	})
}
