package db

import (
	"context"
	"path/filepath"
	"testing"

	"productiondb/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// legacyDDL is the schema the older generator script wrote: no unique keys, and
// foreign keys declared as table constraints.
var legacyDDL = []string{
	`CREATE TABLE IF NOT EXISTS Product (
		id INTEGER PRIMARY KEY,
		name TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS Sales (
		id INTEGER PRIMARY KEY,
		product_id INTEGER,
		date TEXT,
		sales REAL,
		FOREIGN KEY(product_id) REFERENCES Product(id)
	)`,
	`CREATE TABLE IF NOT EXISTS Raw_Material (
		id INTEGER PRIMARY KEY,
		name TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS Conversion_Rate (
		id INTEGER PRIMARY KEY,
		product_id INTEGER,
		raw_material_id INTEGER,
		quantity_needed REAL,
		FOREIGN KEY(product_id) REFERENCES Product(id),
		FOREIGN KEY(raw_material_id) REFERENCES Raw_Material(id)
	)`,
}

// createLegacyDB writes the legacy schema plus the given statements to a new file.
func createLegacyDB(t *testing.T, stmts ...string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "production.db")
	conn, err := OpenSQLite(dbPath, nil)
	require.NoError(t, err)
	for _, stmt := range append(legacyDDL, stmts...) {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	closeDB(conn, zap.NewNop().Sugar())
	return dbPath
}

func TestInitializeLegacySchema(t *testing.T) {
	ctx := context.Background()

	t.Run("empty legacy file is initialized and seeded", func(t *testing.T) {
		dbPath := createLegacyDB(t)

		s := newTestSeeder(t, dbPath)
		require.NoError(t, s.Seed(ctx))
		require.NoError(t, s.Seed(ctx))

		counts, err := NewSQLStore(s.DB(), nil).CountRows()
		require.NoError(t, err)
		assert.Equal(t, model.TableCounts{Products: 3, RawMaterials: 6, ConversionRates: 14, Sales: 9}, counts)

		rate, err := NewSQLStore(s.DB(), nil).GetConversionRate(1, 4)
		require.NoError(t, err)
		assert.Equal(t, 3.0, rate.QuantityNeeded)

		m := s.DB().Migrator()
		for _, k := range naturalKeys {
			assert.True(t, m.HasIndex(k.value, k.index), k.table)
		}
	})

	t.Run("legacy file seeded by the old script keeps its rows", func(t *testing.T) {
		dbPath := createLegacyDB(t,
			`INSERT INTO Product (name) VALUES ('Cake'), ('Bread'), ('Cookie')`,
			`INSERT INTO Sales (product_id, date, sales) VALUES (1, '20240101', 20)`,
		)

		s := newTestSeeder(t, dbPath)
		require.NoError(t, s.Seed(ctx))

		counts, err := NewSQLStore(s.DB(), nil).CountRows()
		require.NoError(t, err)
		assert.Equal(t, model.TableCounts{Products: 3, RawMaterials: 6, ConversionRates: 14, Sales: 9}, counts)
	})

	t.Run("second Initialize leaves the schema alone", func(t *testing.T) {
		dbPath := createLegacyDB(t)
		first := newTestSeeder(t, dbPath)
		require.NoError(t, first.Finalize())

		second := newTestSeeder(t, dbPath)
		var sql string
		require.NoError(t, second.DB().Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", model.SalesTable).Scan(&sql).Error)
		assert.Contains(t, sql, "FOREIGN KEY(product_id) REFERENCES Product(id)")
	})

	t.Run("duplicate legacy rows are reported", func(t *testing.T) {
		dbPath := createLegacyDB(t, `INSERT INTO Product (name) VALUES ('Cake'), ('Cake')`)

		s, err := Initialize(ctx, dbPath, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicateRows)
		assert.ErrorContains(t, err, model.ProductTable)
		assert.Nil(t, s)
	})
}
