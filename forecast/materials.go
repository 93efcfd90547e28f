package forecast

import (
	"productiondb/model"

	"github.com/shopspring/decimal"
)

// MaterialNeed is the quantity of one raw material needed for a predicted demand.
type MaterialNeed struct {
	RawMaterial string
	Quantity    decimal.Decimal
}

// MaterialNeeds multiplies the demand by each conversion rate, rounded half away from
// zero to a whole quantity.
func MaterialNeeds(demand decimal.Decimal, reqs []model.MaterialRequirement) []MaterialNeed {
	needs := make([]MaterialNeed, 0, len(reqs))
	for _, r := range reqs {
		needs = append(needs, MaterialNeed{
			RawMaterial: r.Name,
			Quantity:    demand.Mul(decimal.NewFromFloat(r.QuantityNeeded)).Round(0),
		})
	}
	return needs
}
