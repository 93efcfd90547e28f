package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"productiondb/model"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	ErrSeederClosed = errors.New("seeder is closed")
	ErrSeedConflict = errors.New("existing row conflicts with seed data")

	ErrDatabaseNotFound = errors.New("database file does not exist")
)

// Seeder creates the production schema and loads the reference data set into it.
//
// A Seeder owns its database handle from Initialize until Finalize.
type Seeder struct {
	db     *gorm.DB
	path   string
	logger *zap.SugaredLogger
	closed bool
}

// OpenSQLite opens (or creates) the SQLite file at dbPath with foreign key enforcement on.
// gorm reports slow statements and errors through logger.
func OpenSQLite(dbPath string, logger *zap.SugaredLogger) (*gorm.DB, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	db, err := gorm.Open(sqlite.Open(foreignKeysDSN(dbPath)), &gorm.Config{
		Logger: gormlogger.New(zap.NewStdLog(logger.Desugar()), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open DB %s: %w", dbPath, err)
	}
	return db, nil
}

// OpenExistingSQLite is OpenSQLite for readers: a missing file is ErrDatabaseNotFound
// rather than a new empty database.
func OpenExistingSQLite(dbPath string, logger *zap.SugaredLogger) (*gorm.DB, error) {
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		}
		return nil, err
	}
	return OpenSQLite(dbPath, logger)
}

func foreignKeysDSN(dbPath string) string {
	if strings.Contains(dbPath, "?") {
		return dbPath + "&_foreign_keys=on"
	}
	return dbPath + "?_foreign_keys=on"
}

// Initialize opens the database at dbPath and creates any missing table, then adds the
// natural key indexes Seed relies on if they are absent. Existing tables and rows are
// not rewritten, so files made by the older generator script open as they are; one
// holding duplicate natural keys fails with ErrDuplicateRows.
func Initialize(ctx context.Context, dbPath string, logger *zap.SugaredLogger) (*Seeder, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	db, err := OpenSQLite(dbPath, logger)
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(ctx, db, logger); err != nil {
		closeDB(db, logger)
		return nil, fmt.Errorf("initialize %s: %w", dbPath, err)
	}
	logger.Debugw("schema ready", "path", dbPath)
	return &Seeder{db: db, path: dbPath, logger: logger}, nil
}

// DB returns the underlying handle, or nil once the Seeder is finalized.
func (s *Seeder) DB() *gorm.DB {
	if s.closed {
		return nil
	}
	return s.db
}

// Seed inserts the reference products, raw materials, conversion rates and sales in a
// single transaction.
//
// Rows are matched on their natural key first, so seeding an already seeded database
// adds nothing. A matching row holding a different quantity is reported as ErrSeedConflict
// and the whole transaction is rolled back.
func (s *Seeder) Seed(ctx context.Context) error {
	if s.closed {
		return ErrSeederClosed
	}
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products, err := seedNamed(tx, seedProducts, func(name string) *model.Product {
			return &model.Product{Name: name}
		}, func(p *model.Product) uint { return p.ID })
		if err != nil {
			return err
		}
		materials, err := seedNamed(tx, seedRawMaterials, func(name string) *model.RawMaterial {
			return &model.RawMaterial{Name: name}
		}, func(m *model.RawMaterial) uint { return m.ID })
		if err != nil {
			return err
		}
		if err := insertConversionRates(tx, products, materials); err != nil {
			return err
		}
		return insertSales(tx, products)
	}); err != nil {
		return fmt.Errorf("seed %s: %w", s.path, err)
	}

	counts, err := NewSQLStore(s.db, s.logger).CountRows()
	if err != nil {
		return fmt.Errorf("seed %s: counting rows: %w", s.path, err)
	}
	s.logger.Infow("database populated successfully", "path", s.path, "rows", counts.String())
	return nil
}

// Finalize releases the database handle. It is safe to call more than once.
func (s *Seeder) Finalize() error {
	if s.closed {
		return nil
	}
	s.closed = true
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("finalize %s: %w", s.path, err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", s.path, err)
	}
	return nil
}

// seedNamed does FirstOrCreate on every name and returns the ids keyed by name.
func seedNamed[T any](tx *gorm.DB, names []string, newRow func(string) *T, id func(*T) uint) (map[string]uint, error) {
	ids := make(map[string]uint, len(names))
	for _, name := range names {
		row := newRow(name)
		if err := tx.Where("name = ?", name).FirstOrCreate(row).Error; err != nil {
			return nil, fmt.Errorf("failed to insert %T %q: %w", row, name, err)
		}
		ids[name] = id(row)
	}
	return ids, nil
}

func insertConversionRates(tx *gorm.DB, products, materials map[string]uint) error {
	for _, r := range seedConversionRates {
		rate := model.ConversionRate{
			ProductID:      products[r.Product],
			RawMaterialID:  materials[r.RawMaterial],
			QuantityNeeded: r.QuantityNeeded,
		}
		if err := tx.Where("product_id = ? AND raw_material_id = ?", rate.ProductID, rate.RawMaterialID).
			FirstOrCreate(&rate).Error; err != nil {
			return fmt.Errorf("failed to insert conversion rate %s/%s: %w", r.Product, r.RawMaterial, err)
		}
		if rate.QuantityNeeded != r.QuantityNeeded {
			return fmt.Errorf("%w: %s %s/%s quantity_needed is %v, seed has %v",
				ErrSeedConflict, model.ConversionRateTable, r.Product, r.RawMaterial,
				rate.QuantityNeeded, r.QuantityNeeded)
		}
	}
	return nil
}

func insertSales(tx *gorm.DB, products map[string]uint) error {
	for _, s := range seedSales {
		sale := model.Sale{
			ProductID: products[s.Product],
			Date:      s.Date,
			Sales:     s.Sales,
		}
		if err := tx.Where("product_id = ? AND date = ?", sale.ProductID, sale.Date).
			FirstOrCreate(&sale).Error; err != nil {
			return fmt.Errorf("failed to insert sale %s/%s: %w", s.Product, s.Date, err)
		}
		if sale.Sales != s.Sales {
			return fmt.Errorf("%w: %s %s/%s sales is %v, seed has %v",
				ErrSeedConflict, model.SalesTable, s.Product, s.Date, sale.Sales, s.Sales)
		}
	}
	return nil
}

// BootstrapSQLite creates the schema at dbPath and, when seed is set, loads the seed data.
// The returned handle stays open; the caller closes it.
func BootstrapSQLite(ctx context.Context, dbPath string, seed bool, logger *zap.SugaredLogger) (*gorm.DB, error) {
	s, err := Initialize(ctx, dbPath, logger)
	if err != nil {
		return nil, err
	}
	if !seed {
		s.logger.Infof("bootstrap: database schema created at %s but no seed data loaded", dbPath)
		return s.db, nil
	}
	if err := s.Seed(ctx); err != nil {
		closeDB(s.db, s.logger)
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	return s.db, nil
}

func closeDB(db *gorm.DB, logger *zap.SugaredLogger) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warnf("failed to get sql.DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warnf("failed to close database: %v", err)
	}
}
