package mock

import (
	"context"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "feira/internal/log"
	"feira/internal/sample"
	"feira/models"
)

// New returns an in-memory sqlite database seeded with the starter catalog
// and recipes.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	db, err := gorm.Open(sqlite.Open("file:feira-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeItem{},
	); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func seed(ctx context.Context, db *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	doc := sample.Document()

	for _, ing := range doc.Ingredients {
		record := models.CatalogRecord(ing)
		if err := db.WithContext(ctx).Create(&record).Error; err != nil {
			return err
		}
	}

	for _, recipe := range doc.Recipes {
		record := models.RecipeRecord(recipe)
		if err := db.WithContext(ctx).Create(&record).Error; err != nil {
			return err
		}
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
