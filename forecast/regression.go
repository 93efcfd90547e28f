// Package forecast predicts product demand from recorded sales and derives the raw
// materials needed to meet it.
package forecast

import (
	"fmt"
	"time"

	"productiondb/model"

	"gonum.org/v1/gonum/stat"
)

// A Point is one sales observation.
type Point struct {
	Date  time.Time
	Sales float64
}

// ParseSalesDate parses a YYYYMMDD sales date.
func ParseSalesDate(s string) (time.Time, error) {
	t, err := time.Parse(model.SalesDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid sales date %q: %w", s, err)
	}
	return t, nil
}

// PointsFromSales converts stored sales into regression points, keeping their order.
func PointsFromSales(sales []model.Sale) ([]Point, error) {
	points := make([]Point, 0, len(sales))
	for _, s := range sales {
		d, err := ParseSalesDate(s.Date)
		if err != nil {
			return nil, fmt.Errorf("sale %d: %w", s.ID, err)
		}
		points = append(points, Point{Date: d, Sales: s.Sales})
	}
	return points, nil
}

// PredictDemand fits sales against days since the first point by ordinary least
// squares and returns the fitted value at the last point.
//
// Fewer than two points give 0. Points that all fall on the same day give their mean.
func PredictDemand(points []Point) float64 {
	n := len(points)
	if n < 2 {
		return 0
	}
	first := points[0].Date
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range points {
		xs[i] = p.Date.Sub(first).Hours() / 24
		ys[i] = p.Sales
	}
	if stat.Variance(xs, nil) == 0 {
		return stat.Mean(ys, nil)
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return alpha + beta*xs[n-1]
}
