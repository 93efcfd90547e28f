package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"productiondb/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrDuplicateRows means an existing table holds rows that break a natural key, so its
// unique index cannot be added.
var ErrDuplicateRows = errors.New("existing rows duplicate a natural key")

// naturalKey is a unique index the seed guard relies on. Files written by the
// older generator script have the tables but none of these indexes.
type naturalKey struct {
	value   interface{}
	table   string
	index   string // index name, or field name for single column indexes
	columns []string
}

var naturalKeys = []naturalKey{
	{&model.Product{}, model.ProductTable, "Name", []string{"name"}},
	{&model.RawMaterial{}, model.RawMaterialTable, "Name", []string{"name"}},
	{&model.Sale{}, model.SalesTable, "idx_sales_product_date", []string{"product_id", "date"}},
	{&model.ConversionRate{}, model.ConversionRateTable, "idx_conversion_product_material", []string{"product_id", "raw_material_id"}},
}

// ensureSchema creates the tables that are missing and adds any missing natural key
// index. Existing tables are never rebuilt.
func ensureSchema(ctx context.Context, db *gorm.DB, logger *zap.SugaredLogger) error {
	m := db.WithContext(ctx).Migrator()
	for _, table := range model.All() {
		if m.HasTable(table) {
			continue
		}
		if err := m.CreateTable(table); err != nil {
			return fmt.Errorf("creating table for %T: %w", table, err)
		}
		logger.Debugf("created table for %T", table)
	}

	for _, k := range naturalKeys {
		if m.HasIndex(k.value, k.index) {
			continue
		}
		dups, err := countDuplicates(ctx, db, k)
		if err != nil {
			return err
		}
		if dups > 0 {
			return fmt.Errorf("%w: %s has %d duplicated (%s) groups",
				ErrDuplicateRows, k.table, dups, strings.Join(k.columns, ", "))
		}
		if err := m.CreateIndex(k.value, k.index); err != nil {
			return fmt.Errorf("creating unique index on %s(%s): %w", k.table, strings.Join(k.columns, ", "), err)
		}
		logger.Infof("added unique index on %s(%s)", k.table, strings.Join(k.columns, ", "))
	}
	return nil
}

func countDuplicates(ctx context.Context, db *gorm.DB, k naturalKey) (int64, error) {
	var n int64
	cols := strings.Join(k.columns, ", ")
	q := fmt.Sprintf("SELECT COUNT(*) FROM (SELECT 1 FROM %s GROUP BY %s HAVING COUNT(*) > 1)", k.table, cols)
	if err := db.WithContext(ctx).Raw(q).Scan(&n).Error; err != nil {
		return 0, fmt.Errorf("checking %s for duplicate (%s): %w", k.table, cols, err)
	}
	return n, nil
}
