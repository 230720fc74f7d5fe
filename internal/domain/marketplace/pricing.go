package marketplace

import "sort"

// PriceTier is one band of the observed price distribution.
type PriceTier struct {
	Label string  `json:"label"` // budget | mid-range | premium
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// PriceReport is the deterministic tiering of the quotes of the professionals
// matching one category. No external pricing data is consulted.
type PriceReport struct {
	SampleSize int         `json:"sample_size"`
	AverageMin float64     `json:"average_min"`
	AverageMax float64     `json:"average_max"`
	Tiers      []PriceTier `json:"tiers"`
}

const (
	TierBudget   = "budget"
	TierMidRange = "mid-range"
	TierPremium  = "premium"
)

// ComputePriceTiers partitions the professionals that carry a minimum price
// into budget/mid-range/premium bands cut at the 33rd and 66th percentile
// indices of the sorted minimum prices. A professional without a maximum price
// contributes its minimum on both ends. With no priced professionals the
// report has zero tiers and callers attach an explanatory note instead.
func ComputePriceTiers(pros []Professional) PriceReport {
	var mins, maxs []float64
	for _, p := range pros {
		if p.PriceMin == nil {
			continue
		}
		mins = append(mins, *p.PriceMin)
		if p.PriceMax != nil {
			maxs = append(maxs, *p.PriceMax)
		} else {
			maxs = append(maxs, *p.PriceMin)
		}
	}

	if len(mins) == 0 {
		return PriceReport{}
	}

	sort.Float64s(mins)
	sort.Float64s(maxs)

	avgMin := mean(mins)
	avgMax := mean(maxs)

	p33 := cutPoint(mins, 0.33, avgMin)
	p66 := cutPoint(mins, 0.66, avgMin)

	return PriceReport{
		SampleSize: len(mins),
		AverageMin: avgMin,
		AverageMax: avgMax,
		Tiers: []PriceTier{
			{Label: TierBudget, Min: mins[0], Max: p33},
			{Label: TierMidRange, Min: p33, Max: p66},
			{Label: TierPremium, Min: p66, Max: maxs[len(maxs)-1]},
		},
	}
}

func cutPoint(sorted []float64, fraction, fallback float64) float64 {
	idx := int(fraction * float64(len(sorted)))
	if idx < 0 || idx >= len(sorted) {
		return fallback
	}
	return sorted[idx]
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
