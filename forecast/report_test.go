package forecast

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"productiondb/db"
	"productiondb/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *db.SQLStore {
	t.Helper()
	conn, err := db.BootstrapSQLite(context.Background(), filepath.Join(t.TempDir(), "production.db"), true, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := conn.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db.NewSQLStore(conn, nil)
}

func TestForProduct(t *testing.T) {
	f := NewForecaster(setupTestStore(t), nil)
	ctx := context.Background()

	t.Run("cake", func(t *testing.T) {
		r, err := f.ForProduct(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Cake", r.Product)
		assert.Equal(t, "30", r.PredictedDemand.String())

		got := map[string]string{}
		for _, m := range r.Materials {
			got[m.RawMaterial] = m.Quantity.String()
		}
		assert.Equal(t, map[string]string{
			"Wheat Flour":   "6000",
			"Sugar":         "3000",
			"Yeast":         "300",
			"Eggs":          "90",
			"Powdered Milk": "1500",
			"Butter":        "2400",
		}, got)
	})

	t.Run("bread", func(t *testing.T) {
		r, err := f.ForProduct(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "60", r.PredictedDemand.String())
		require.Len(t, r.Materials, 4)
		assert.Equal(t, "Wheat Flour", r.Materials[0].RawMaterial)
		assert.Equal(t, "18000", r.Materials[0].Quantity.String())
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := f.ForProduct(ctx, 99)
		assert.ErrorIs(t, err, db.ErrProductNotFound)
	})
}

type stubStore struct {
	db.Store
	product *model.Product
	sales   []model.Sale
	pingErr error
}

func (s *stubStore) Ping(context.Context) error { return s.pingErr }

func (s *stubStore) GetProduct(uint) (*model.Product, error) { return s.product, nil }

func (s *stubStore) GetSalesByProduct(uint) ([]model.Sale, error) { return s.sales, nil }

func (s *stubStore) GetMaterialRequirements(uint) ([]model.MaterialRequirement, error) {
	return nil, nil
}

func TestForProductErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("no sales", func(t *testing.T) {
		f := NewForecaster(&stubStore{product: &model.Product{ID: 4, Name: "Muffin"}}, nil)
		_, err := f.ForProduct(ctx, 4)
		assert.ErrorIs(t, err, ErrNoSalesData)
	})

	t.Run("store unavailable", func(t *testing.T) {
		down := errors.New("database is locked")
		f := NewForecaster(&stubStore{pingErr: down}, nil)
		_, err := f.ForProduct(ctx, 1)
		assert.ErrorIs(t, err, down)
	})

	t.Run("product without conversion rates", func(t *testing.T) {
		f := NewForecaster(&stubStore{
			product: &model.Product{ID: 4, Name: "Muffin"},
			sales:   []model.Sale{{Date: "20240101", Sales: 4}, {Date: "20240102", Sales: 6}},
		}, nil)
		r, err := f.ForProduct(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, "6", r.PredictedDemand.String())
		assert.Empty(t, r.Materials)
	})
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, &Report{
		Product:         "Cookie",
		PredictedDemand: decimal.NewFromInt(50),
		Materials: []MaterialNeed{
			{RawMaterial: "Wheat Flour", Quantity: decimal.NewFromInt(7500)},
			{RawMaterial: "Powdered Milk", Quantity: decimal.NewFromInt(1500)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Product,Predicted Demand\n"+
		"Cookie,50\n"+
		"\n"+
		"Required Materials\n"+
		"Raw Material,Quantity\n"+
		"Wheat Flour,7500\n"+
		"Powdered Milk,1500\n", buf.String())
}
