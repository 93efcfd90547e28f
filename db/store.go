package db

import (
	"context"
	"errors"

	"productiondb/model"
)

var (
	ErrProductNotFound        = errors.New("product not found")
	ErrConversionRateNotFound = errors.New("conversion rate not found")
	ErrSchemaMissing          = errors.New("database has no production schema")
)

type Store interface {
	Ping(ctx context.Context) error
	ListProducts() ([]model.Product, error)
	GetProduct(productID uint) (*model.Product, error)
	GetProductByName(name string) (*model.Product, error)
	GetSalesByProduct(productID uint) ([]model.Sale, error)
	GetMaterialRequirements(productID uint) ([]model.MaterialRequirement, error)
	GetConversionRate(productID, rawMaterialID uint) (*model.ConversionRate, error)
	CountRows() (model.TableCounts, error)
}
