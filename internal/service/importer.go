package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/models"
)

// IngredientSeed is one catalog ingredient in a seed file.
type IngredientSeed struct {
	Name            string `json:"name" yaml:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" yaml:"measurement_unit" validate:"required,max=200"`
}

// TagSeed is one catalog tag in a seed file.
type TagSeed struct {
	Name  string `json:"name" yaml:"name" validate:"required,max=200"`
	Color string `json:"color" yaml:"color" validate:"required,len=7,hexcolor"`
	Slug  string `json:"slug" yaml:"slug" validate:"required,max=200"`
}

type ImportResult struct {
	Total   int
	Created int
}

// Importer loads catalog seed files. Rows that already exist are left
// untouched, so loading the same file twice is a no-op.
type Importer struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewImporter(db *gorm.DB, log *zap.Logger) *Importer {
	return &Importer{db: db, log: log}
}

func (im *Importer) LoadIngredients(ctx context.Context, path string) (*ImportResult, error) {
	var seeds []IngredientSeed
	if err := decodeSeedFile(path, &seeds, func(rec []string) (IngredientSeed, error) {
		if len(rec) < 2 {
			return IngredientSeed{}, fmt.Errorf("expected name,measurement_unit, got %d columns", len(rec))
		}
		return IngredientSeed{Name: rec[0], MeasurementUnit: rec[1]}, nil
	}); err != nil {
		return nil, err
	}

	rows := make([]models.Ingredient, 0, len(seeds))
	for i, seed := range seeds {
		seed.Name = strings.TrimSpace(seed.Name)
		seed.MeasurementUnit = strings.TrimSpace(seed.MeasurementUnit)
		if err := validate.Struct(seed); err != nil {
			return nil, seedError(path, i, err)
		}
		rows = append(rows, models.Ingredient{Name: seed.Name, MeasurementUnit: seed.MeasurementUnit})
	}
	return im.insert(ctx, path, "ingredients", &models.Ingredient{}, rows, len(rows))
}

func (im *Importer) LoadTags(ctx context.Context, path string) (*ImportResult, error) {
	var seeds []TagSeed
	if err := decodeSeedFile(path, &seeds, func(rec []string) (TagSeed, error) {
		if len(rec) < 3 {
			return TagSeed{}, fmt.Errorf("expected name,color,slug, got %d columns", len(rec))
		}
		return TagSeed{Name: rec[0], Color: rec[1], Slug: rec[2]}, nil
	}); err != nil {
		return nil, err
	}

	rows := make([]models.Tag, 0, len(seeds))
	for i, seed := range seeds {
		seed.Name = strings.TrimSpace(seed.Name)
		seed.Color = strings.ToUpper(strings.TrimSpace(seed.Color))
		seed.Slug = strings.TrimSpace(seed.Slug)
		if err := validate.Struct(seed); err != nil {
			return nil, seedError(path, i, err)
		}
		rows = append(rows, models.Tag{Name: seed.Name, Color: seed.Color, Slug: seed.Slug})
	}
	return im.insert(ctx, path, "tags", &models.Tag{}, rows, len(rows))
}

// insert writes rows in one transaction, skipping conflicts, and reports how
// many were new.
func (im *Importer) insert(ctx context.Context, path, table string, model any, rows any, total int) (*ImportResult, error) {
	result := &ImportResult{Total: total}
	if total == 0 {
		return result, nil
	}
	err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var before, after int64
		if err := tx.Model(model).Count(&before).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rows, 500).Error; err != nil {
			return err
		}
		if err := tx.Model(model).Count(&after).Error; err != nil {
			return err
		}
		result.Created = int(after - before)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load %s from %s: %w", table, path, err)
	}
	im.log.Info("catalog loaded",
		zap.String("table", table),
		zap.String("file", path),
		zap.Int("total", result.Total),
		zap.Int("created", result.Created),
	)
	return result, nil
}

// decodeSeedFile reads a JSON, YAML or CSV list into out, picking the
// format from the file extension. CSV files may start with a header row.
func decodeSeedFile[T any](path string, out *[]T, fromCSV func([]string) (T, error)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.NewDecoder(f).Decode(out); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(f).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	case ".csv":
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		r.TrimLeadingSpace = true
		records, err := r.ReadAll()
		if err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		for i, rec := range records {
			if i == 0 && len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "name") {
				continue
			}
			item, err := fromCSV(rec)
			if err != nil {
				return fmt.Errorf("%s line %d: %w", path, i+1, err)
			}
			*out = append(*out, item)
		}
	default:
		return errs.Validation("file", fmt.Sprintf("unsupported seed format %q", ext))
	}
	return nil
}

func seedError(path string, index int, err error) error {
	fields := validationFields(err)
	if fields == nil {
		return fmt.Errorf("%s entry %d: %w", path, index+1, err)
	}
	return fmt.Errorf("%s entry %d: %w", path, index+1, errs.ValidationFields(fields))
}
