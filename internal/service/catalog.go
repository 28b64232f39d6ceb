package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodshare/backend/internal/model"
)

// CatalogService serves the tag and ingredient reference data.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	var tag model.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// CreateTag is admin-only; handlers enforce the capability check.
func (s *CatalogService) CreateTag(ctx context.Context, tag *model.Tag) error {
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return newValidationError("name", "a tag with this name or slug already exists")
		}
		return err
	}
	return nil
}

// likeEscaper neutralizes LIKE wildcards so a prefix matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListIngredients filters by case-insensitive name prefix when name != "".
func (s *CatalogService) ListIngredients(ctx context.Context, name string) ([]model.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name ASC")
	if name != "" {
		pattern := likeEscaper.Replace(strings.ToLower(name)) + "%"
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}
	var ingredients []model.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

func (s *CatalogService) CreateIngredient(ctx context.Context, ingredient *model.Ingredient) error {
	if err := s.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return newValidationError("name", "an ingredient with this name and unit already exists")
		}
		return err
	}
	return nil
}

// ImportIngredients upserts (name, unit) rows from a tabular source.
// Used by the deployment-time CSV loader, not at request time.
func (s *CatalogService) ImportIngredients(ctx context.Context, rows [][2]string) (int, error) {
	imported := 0
	for _, row := range rows {
		name, unit := strings.TrimSpace(row[0]), strings.TrimSpace(row[1])
		if name == "" || unit == "" {
			continue
		}
		ingredient := model.Ingredient{Name: name, MeasurementUnit: unit}
		err := s.db.WithContext(ctx).
			Where("name = ? AND measurement_unit = ?", name, unit).
			FirstOrCreate(&ingredient).Error
		if err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
