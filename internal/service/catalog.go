package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodgram/backend/internal/apperr"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
	"github.com/foodgram/backend/internal/validation"
)

const importBatchSize = 500

// CatalogService serves tag and ingredient reference data.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]types.TagView, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, err
	}
	views := make([]types.TagView, len(tags))
	for i := range tags {
		views[i] = tagView(&tags[i])
	}
	return views, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uint) (*types.TagView, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("tag %d not found", id)
		}
		return nil, err
	}
	view := tagView(&tag)
	return &view, nil
}

// CreateTag adds a tag. Only administrators may do this.
func (s *CatalogService) CreateTag(ctx context.Context, actorID uint, req *types.TagRequest) (*types.TagView, error) {
	actor, err := loadUser(ctx, s.db, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, apperr.PermissionDenied("only administrators can create tags")
	}
	if err := validation.ValidateHexColor(req.Color); err != nil {
		return nil, err
	}
	if err := validation.ValidateSlug(req.Slug); err != nil {
		return nil, err
	}

	tag := &models.Tag{Name: req.Name, Color: strings.ToUpper(req.Color), Slug: req.Slug}
	db := s.db.WithContext(ctx)
	var count int64
	err = db.Model(&models.Tag{}).
		Where("name = ? OR color = ? OR slug = ?", tag.Name, tag.Color, tag.Slug).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.AlreadyExists("a tag with this name, colour or slug already exists")
	}
	if err := db.Create(tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.AlreadyExists("a tag with this name, colour or slug already exists")
		}
		return nil, err
	}
	view := tagView(tag)
	return &view, nil
}

// ListIngredients returns ingredients ordered by name, optionally only those
// whose name starts with namePrefix (case-insensitive).
func (s *CatalogService) ListIngredients(ctx context.Context, namePrefix string) ([]types.IngredientView, error) {
	q := s.db.WithContext(ctx).Order("name").Order("id")
	namePrefix = strings.TrimSpace(namePrefix)
	// sqlite's LOWER and LIKE fold ASCII only, so there the prefix is matched
	// in Go to keep non-Latin names case-insensitive.
	foldInGo := namePrefix != "" && s.db.Dialector.Name() != "postgres"
	if namePrefix != "" && !foldInGo {
		q = q.Where(`name ILIKE ? ESCAPE '\'`, escapeLike(namePrefix)+"%")
	}

	var ingredients []models.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	views := make([]types.IngredientView, 0, len(ingredients))
	for i := range ingredients {
		if foldInGo && !hasFoldPrefix(ingredients[i].Name, namePrefix) {
			continue
		}
		views = append(views, ingredientView(&ingredients[i]))
	}
	return views, nil
}

func hasFoldPrefix(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*types.IngredientView, error) {
	var ing models.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("ingredient %d not found", id)
		}
		return nil, err
	}
	view := ingredientView(&ing)
	return &view, nil
}

// ImportResult summarises an ingredient import.
type ImportResult struct {
	Read     int
	Inserted int64
}

// ImportIngredients loads "name,measurement_unit" rows. A header row is
// skipped when present; rows already in the table are left untouched.
func (s *CatalogService) ImportIngredients(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var rows []models.Ingredient
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperr.Validation("file", "invalid csv: %v", err)
		}
		line++

		name, unit := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if line == 1 && strings.EqualFold(name, "name") && strings.EqualFold(unit, "measurement_unit") {
			continue
		}
		if name == "" || unit == "" {
			return nil, apperr.Validation("file", "line %d: name and measurement unit are required", line)
		}
		rows = append(rows, models.Ingredient{Name: name, MeasurementUnit: unit})
	}

	result := &ImportResult{Read: len(rows)}
	if len(rows) == 0 {
		return result, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rows, importBatchSize)
		if res.Error != nil {
			return fmt.Errorf("failed to insert ingredients: %w", res.Error)
		}
		result.Inserted = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info().Int("read", result.Read).Int64("inserted", result.Inserted).Msg("ingredients imported")
	return result, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
