package db

import (
	"context"
	"errors"
	"fmt"

	"productiondb/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SQLStore struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewSQLStore(db *gorm.DB, logger *zap.SugaredLogger) *SQLStore {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SQLStore{db: db, logger: logger}
}

// Ping checks that the database answers and holds the production schema, so readers
// pointed at an unrelated or empty file fail with ErrSchemaMissing before querying.
func (s *SQLStore) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("sql store is not initialized")
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	m := s.db.WithContext(ctx).Migrator()
	for _, table := range model.All() {
		if !m.HasTable(table) {
			return fmt.Errorf("%w: no table for %T", ErrSchemaMissing, table)
		}
	}
	return nil
}

// ListProducts returns all products ordered by id.
func (s *SQLStore) ListProducts() ([]model.Product, error) {
	var products []model.Product
	if err := s.db.Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *SQLStore) GetProduct(productID uint) (*model.Product, error) {
	var p model.Product
	err := s.db.First(&p, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *SQLStore) GetProductByName(name string) (*model.Product, error) {
	var p model.Product
	err := s.db.Where("name = ?", name).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetSalesByProduct returns the sales of a product in date order. A product
// without sales yields an empty slice.
func (s *SQLStore) GetSalesByProduct(productID uint) ([]model.Sale, error) {
	var sales []model.Sale
	err := s.db.
		Where("product_id = ?", productID).
		Order("date").
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("querying %s for product_id %d: %w", model.SalesTable, productID, err)
	}
	return sales, nil
}

// GetMaterialRequirements returns, for each raw material the product uses, the
// quantity needed per unit of product.
func (s *SQLStore) GetMaterialRequirements(productID uint) ([]model.MaterialRequirement, error) {
	var reqs []model.MaterialRequirement
	err := s.db.
		Table(model.ConversionRateTable+" AS cr").
		Select("rm.id AS raw_material_id, rm.name AS name, cr.quantity_needed AS quantity_needed").
		Joins("JOIN "+model.RawMaterialTable+" rm ON cr.raw_material_id = rm.id").
		Where("cr.product_id = ?", productID).
		Order("rm.id").
		Scan(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("querying %s for product_id %d: %w", model.ConversionRateTable, productID, err)
	}
	return reqs, nil
}

func (s *SQLStore) GetConversionRate(productID, rawMaterialID uint) (*model.ConversionRate, error) {
	var rate model.ConversionRate
	err := s.db.
		Where("product_id = ? AND raw_material_id = ?", productID, rawMaterialID).
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversionRateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// CountRows returns the number of rows in each of the four tables.
func (s *SQLStore) CountRows() (model.TableCounts, error) {
	var c model.TableCounts
	counts := []struct {
		table any
		dst   *int64
	}{
		{&model.Product{}, &c.Products},
		{&model.RawMaterial{}, &c.RawMaterials},
		{&model.ConversionRate{}, &c.ConversionRates},
		{&model.Sale{}, &c.Sales},
	}
	for _, q := range counts {
		if err := s.db.Model(q.table).Count(q.dst).Error; err != nil {
			s.logger.Errorf("failed to count rows of %T: %v", q.table, err)
			return model.TableCounts{}, err
		}
	}
	return c, nil
}
