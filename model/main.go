package model

import (
	"fmt"
)

// Table names are kept from the database layout the forecasting tools already read.
const (
	ProductTable        = "Product"
	RawMaterialTable    = "Raw_Material"
	SalesTable          = "Sales"
	ConversionRateTable = "Conversion_Rate"
)

// SalesDateLayout is the layout of Sale.Date, e.g. 20240101.
const SalesDateLayout = "20060102"

// A Product is something the bakery sells.
type Product struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
}

func (Product) TableName() string { return ProductTable }

// A RawMaterial is consumed when producing a Product.
type RawMaterial struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
}

func (RawMaterial) TableName() string { return RawMaterialTable }

// A Sale is the quantity of a Product sold on Date.
type Sale struct {
	ID        uint    `gorm:"primaryKey"`
	ProductID uint    `gorm:"uniqueIndex:idx_sales_product_date"` // FK to Product
	Date      string  `gorm:"uniqueIndex:idx_sales_product_date"`
	Sales     float64 `gorm:"type:real"`
	Product   Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Sale) TableName() string { return SalesTable }

// A ConversionRate is the quantity of a RawMaterial needed per unit of a Product.
//
// Quantities are grams, except Eggs which are counted in units.
type ConversionRate struct {
	ID             uint        `gorm:"primaryKey"`
	ProductID      uint        `gorm:"uniqueIndex:idx_conversion_product_material"` // FK to Product
	RawMaterialID  uint        `gorm:"uniqueIndex:idx_conversion_product_material"` // FK to RawMaterial
	QuantityNeeded float64     `gorm:"type:real"`
	Product        Product     `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	RawMaterial    RawMaterial `gorm:"foreignKey:RawMaterialID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (ConversionRate) TableName() string { return ConversionRateTable }

// MaterialRequirement is a ConversionRate joined with its raw material name.
type MaterialRequirement struct {
	RawMaterialID  uint
	Name           string
	QuantityNeeded float64
}

// TableCounts holds the number of rows in each table.
type TableCounts struct {
	Products        int64
	RawMaterials    int64
	ConversionRates int64
	Sales           int64
}

func (c TableCounts) String() string {
	return fmt.Sprintf("%s=%d %s=%d %s=%d %s=%d",
		ProductTable, c.Products,
		RawMaterialTable, c.RawMaterials,
		ConversionRateTable, c.ConversionRates,
		SalesTable, c.Sales)
}

// All returns every model in foreign key order.
func All() []interface{} {
	return []interface{}{
		&Product{},
		&RawMaterial{},
		&Sale{},
		&ConversionRate{},
	}
}
