package forecast

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"productiondb/db"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrNoSalesData = errors.New("no sales data")

// Report is the demand forecast for one product.
type Report struct {
	ProductID       uint
	Product         string
	PredictedDemand decimal.Decimal
	Materials       []MaterialNeed
}

// Forecaster builds Reports from a Store.
type Forecaster struct {
	Store  db.Store
	Logger *zap.SugaredLogger
}

func NewForecaster(store db.Store, logger *zap.SugaredLogger) *Forecaster {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Forecaster{Store: store, Logger: logger}
}

// ForProduct predicts demand for productID from its sales and computes the raw
// materials needed. The predicted demand is rounded to a whole unit before the
// material quantities are derived from it.
func (f *Forecaster) ForProduct(ctx context.Context, productID uint) (*Report, error) {
	if err := f.Store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	product, err := f.Store.GetProduct(productID)
	if err != nil {
		return nil, fmt.Errorf("forecast: product %d: %w", productID, err)
	}
	sales, err := f.Store.GetSalesByProduct(productID)
	if err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	if len(sales) == 0 {
		return nil, fmt.Errorf("forecast: product %d (%s): %w", productID, product.Name, ErrNoSalesData)
	}
	points, err := PointsFromSales(sales)
	if err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	demand := decimal.NewFromFloat(PredictDemand(points)).Round(0)

	reqs, err := f.Store.GetMaterialRequirements(productID)
	if err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	if len(reqs) == 0 {
		f.Logger.Warnf("forecast: product %d (%s) has no conversion rates", productID, product.Name)
	}
	f.Logger.Debugw("forecast computed", "product", product.Name, "points", len(points), "demand", demand.String())

	return &Report{
		ProductID:       product.ID,
		Product:         product.Name,
		PredictedDemand: demand,
		Materials:       MaterialNeeds(demand, reqs),
	}, nil
}

// WriteCSV writes the report as
//
//	Product,Predicted Demand
//	<product>,<demand>
//
//	Required Materials
//	Raw Material,Quantity
//	<material>,<quantity>
func WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll([][]string{
		{"Product", "Predicted Demand"},
		{r.Product, r.PredictedDemand.String()},
	}); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	// csv.Writer has no way to emit an empty line
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	cw = csv.NewWriter(w)
	records := [][]string{
		{"Required Materials"},
		{"Raw Material", "Quantity"},
	}
	for _, m := range r.Materials {
		records = append(records, []string{m.RawMaterial, m.Quantity.String()})
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
