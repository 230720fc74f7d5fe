package marketplace

import "testing"

func fp(v float64) *float64 { return &v }

func TestComputePriceTiers(t *testing.T) {
	pros := []Professional{
		{ID: "p1", PriceMin: fp(100), PriceMax: fp(180)},
		{ID: "p2", PriceMin: fp(150), PriceMax: fp(220)},
		{ID: "p3", PriceMin: fp(200), PriceMax: fp(300)},
		{ID: "p4", PriceMin: fp(250), PriceMax: fp(350)},
		{ID: "p5", PriceMin: fp(300), PriceMax: fp(400)},
	}

	report := ComputePriceTiers(pros)

	if report.SampleSize != 5 {
		t.Fatalf("expected sample size 5, got %d", report.SampleSize)
	}
	if len(report.Tiers) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(report.Tiers))
	}

	// Cut points land on sorted mins at index int(0.33*5)=1 and int(0.66*5)=3.
	budget := report.Tiers[0]
	if budget.Label != TierBudget || budget.Min != 100 || budget.Max != 150 {
		t.Errorf("unexpected budget tier: %+v", budget)
	}
	mid := report.Tiers[1]
	if mid.Label != TierMidRange || mid.Min != 150 || mid.Max != 250 {
		t.Errorf("unexpected mid-range tier: %+v", mid)
	}
	premium := report.Tiers[2]
	if premium.Label != TierPremium || premium.Min != 250 || premium.Max != 400 {
		t.Errorf("unexpected premium tier: %+v", premium)
	}

	if report.AverageMin != 200 {
		t.Errorf("expected average min 200, got %v", report.AverageMin)
	}
}

func TestComputePriceTiersSkipsUnpriced(t *testing.T) {
	pros := []Professional{
		{ID: "p1"},
		{ID: "p2", PriceMin: fp(120)},
	}

	report := ComputePriceTiers(pros)

	if report.SampleSize != 1 {
		t.Fatalf("expected sample size 1, got %d", report.SampleSize)
	}
	// A professional without a max contributes its min on both ends.
	if report.AverageMax != 120 {
		t.Errorf("expected average max 120, got %v", report.AverageMax)
	}
	if len(report.Tiers) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(report.Tiers))
	}
	// With one sample both percentile cuts land on it.
	if report.Tiers[1].Max != 120 {
		t.Errorf("expected mid tier max 120, got %v", report.Tiers[1].Max)
	}
}

func TestComputePriceTiersEmpty(t *testing.T) {
	report := ComputePriceTiers(nil)

	if report.SampleSize != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
	if len(report.Tiers) != 0 {
		t.Fatalf("expected no tiers, got %d", len(report.Tiers))
	}
}
