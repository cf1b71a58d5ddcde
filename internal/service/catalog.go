package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

// CatalogService serves the read-only tag and ingredient catalog.
type CatalogService struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ ICatalogService = (*CatalogService)(nil)

func NewCatalogService(db *gorm.DB, log *zap.Logger) *CatalogService {
	return &CatalogService{db: db, log: log}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, storeError(s.log, err, "tags")
	}
	return tags, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, storeError(s.log, err, "tag")
	}
	return &tag, nil
}

// ListIngredients searches by name, case-insensitively. Names starting with
// the query come first, then names that only contain it.
func (s *CatalogService) ListIngredients(ctx context.Context, query string) ([]models.Ingredient, error) {
	q := s.db.WithContext(ctx)
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		var all []models.Ingredient
		if err := q.Order("name ASC, measurement_unit ASC").Find(&all).Error; err != nil {
			return nil, storeError(s.log, err, "ingredients")
		}
		return all, nil
	}

	pattern := "%" + escapeLike(query) + "%"
	prefix := escapeLike(query) + "%"
	var found []models.Ingredient
	err := q.Where("search_name LIKE ? ESCAPE '\\'", pattern).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "CASE WHEN search_name LIKE ? ESCAPE '\\' THEN 0 ELSE 1 END, name ASC, measurement_unit ASC",
			Vars:               []interface{}{prefix},
			WithoutParentheses: true,
		}}).
		Find(&found).Error
	if err != nil {
		return nil, storeError(s.log, err, "ingredients")
	}
	return found, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, storeError(s.log, err, "ingredient")
	}
	return &ing, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
