package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadIngredients(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "ingredients.json", `[{"name":"salt","measurement_unit":"g"},{"name":"milk","measurement_unit":"ml"}]`},
		{"yaml", "ingredients.yaml", "- name: salt\n  measurement_unit: g\n- name: milk\n  measurement_unit: ml\n"},
		{"csv", "ingredients.csv", "name,measurement_unit\nsalt,g\nmilk, ml\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testhelpers.NewSQLiteDB(t)
			importer := service.NewImporter(db, zap.NewNop())
			path := writeFile(t, tt.file, tt.content)

			res, err := importer.LoadIngredients(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, 2, res.Total)
			assert.Equal(t, 2, res.Created)

			again, err := importer.LoadIngredients(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, 0, again.Created)

			var milk models.Ingredient
			require.NoError(t, db.First(&milk, "name = ?", "milk").Error)
			assert.Equal(t, "ml", milk.MeasurementUnit)
		})
	}
}

func TestLoadTags(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	importer := service.NewImporter(db, zap.NewNop())
	testhelpers.CreateTag(t, db, "Lunch", "#49B64E", "lunch")

	path := writeFile(t, "tags.json", `[
		{"name":"Breakfast","color":"#e26c2d","slug":"breakfast"},
		{"name":"Lunch","color":"#49B64E","slug":"lunch"}
	]`)
	res, err := importer.LoadTags(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Created)

	var breakfast models.Tag
	require.NoError(t, db.First(&breakfast, "slug = ?", "breakfast").Error)
	assert.Equal(t, "#E26C2D", breakfast.Color)
}

func TestLoadRejectsBadInput(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	importer := service.NewImporter(db, zap.NewNop())
	ctx := context.Background()

	_, err := importer.LoadTags(ctx, writeFile(t, "tags.json", `[{"name":"Odd","color":"green","slug":"odd"}]`))
	assert.True(t, errs.IsValidation(err), "got %v", err)

	_, err = importer.LoadIngredients(ctx, writeFile(t, "ingredients.xml", `<x/>`))
	assert.True(t, errs.IsValidation(err))

	_, err = importer.LoadIngredients(ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	var total int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&total).Error)
	assert.Zero(t, total)
}
