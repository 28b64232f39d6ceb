package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodshare/backend/internal/model"
)

// RecipeService validates and persists recipe writes. A recipe row, its
// ingredient lines and its tag links always change inside one transaction,
// so readers never observe a recipe with zero tags or zero ingredients.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// IngredientAmount is one (ingredient, amount) line in a write payload.
type IngredientAmount struct {
	IngredientID uuid.UUID
	Amount       int
}

// RecipeInput is the write payload for create and update.
type RecipeInput struct {
	Name        string
	Text        string
	CookingTime int
	ImageURL    string
	TagIDs      []uuid.UUID
	Ingredients []IngredientAmount
}

func (s *RecipeService) validate(ctx context.Context, in RecipeInput) ([]model.Tag, error) {
	if in.CookingTime < 1 {
		return nil, newValidationError("cooking_time", "cooking time must be at least 1 minute")
	}
	if len(in.TagIDs) == 0 {
		return nil, newValidationError("tags", "at least one tag is required")
	}
	if len(in.Ingredients) == 0 {
		return nil, newValidationError("ingredients", "at least one ingredient is required")
	}

	seen := make(map[uuid.UUID]bool, len(in.Ingredients))
	for _, line := range in.Ingredients {
		if seen[line.IngredientID] {
			return nil, newValidationError("ingredients", "ingredients must be unique within a recipe")
		}
		seen[line.IngredientID] = true
		if line.Amount < 1 {
			return nil, newValidationError("ingredients", "ingredient amount must be at least 1")
		}
	}

	var tags []model.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", in.TagIDs).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(uniqueIDs(in.TagIDs)) {
		return nil, newValidationError("tags", "one or more tags do not exist")
	}

	ids := make([]uuid.UUID, 0, len(in.Ingredients))
	for _, line := range in.Ingredients {
		ids = append(ids, line.IngredientID)
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return nil, err
	}
	if int(count) != len(ids) {
		return nil, newValidationError("ingredients", "one or more ingredients do not exist")
	}

	return tags, nil
}

// Create persists the recipe, its ingredient lines and its tag set atomically.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, in RecipeInput) (*model.Recipe, error) {
	tags, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	recipe := model.Recipe{
		AuthorID:    authorID,
		Name:        in.Name,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		ImageURL:    in.ImageURL,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Create(ingredientLines(recipe.ID, in.Ingredients)).Error; err != nil {
			return err
		}
		return tx.Model(&recipe).Association("Tags").Replace(tags)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID)
}

// Update replaces the recipe's fields, its full ingredient-line set and its
// full tag set with the payload's. Never a diff: existing lines and links
// are discarded wholesale.
func (s *RecipeService) Update(ctx context.Context, recipeID, actorID uuid.UUID, in RecipeInput) (*model.Recipe, error) {
	recipe, err := s.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != actorID {
		return nil, ErrForbidden
	}

	tags, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         in.Name,
			"text":         in.Text,
			"cooking_time": in.CookingTime,
		}
		if in.ImageURL != "" {
			updates["image_url"] = in.ImageURL
		}
		if err := tx.Model(&model.Recipe{}).Where("id = ?", recipeID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Create(ingredientLines(recipeID, in.Ingredients)).Error; err != nil {
			return err
		}
		return tx.Model(recipe).Association("Tags").Replace(tags)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipeID)
}

// Delete removes a recipe. The author may always delete it, admins may
// delete anything. Ingredient lines, favorites and cart entries go with it.
func (s *RecipeService) Delete(ctx context.Context, recipeID, actorID uuid.UUID, isAdmin bool) error {
	recipe, err := s.Get(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != actorID && !isAdmin {
		return ErrForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.Recipe{}, "id = ?", recipeID).Error
	})
}

// Get loads a recipe with author, tags and ingredient lines.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// RecipeFilter narrows List. Zero values mean "no filter".
type RecipeFilter struct {
	AuthorID         *uuid.UUID
	TagSlugs         []string
	FavoritedBy      *uuid.UUID
	InShoppingCartOf *uuid.UUID
	Offset           int
	Limit            int
}

// List returns recipes newest-first plus the unpaginated total.
func (s *RecipeService) List(ctx context.Context, f RecipeFilter) ([]model.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Recipe{})

	if f.AuthorID != nil {
		query = query.Where("author_id = ?", *f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if f.FavoritedBy != nil {
		favorited := s.db.Table("favorites").
			Select("favorites.recipe_id").
			Where("favorites.user_id = ?", *f.FavoritedBy)
		query = query.Where("recipes.id IN (?)", favorited)
	}
	if f.InShoppingCartOf != nil {
		carted := s.db.Table("shopping_carts").
			Select("shopping_carts.recipe_id").
			Where("shopping_carts.user_id = ?", *f.InShoppingCartOf)
		query = query.Where("recipes.id IN (?)", carted)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []model.Recipe
	err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.created_at DESC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ListByAuthor returns an author's recipes newest-first, optionally capped.
func (s *RecipeService) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]model.Recipe, error) {
	query := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []model.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// CountByAuthor returns the author's total recipe count.
func (s *RecipeService) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

func ingredientLines(recipeID uuid.UUID, in []IngredientAmount) []model.RecipeIngredient {
	lines := make([]model.RecipeIngredient, len(in))
	for i, line := range in {
		lines[i] = model.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
		}
	}
	return lines
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
