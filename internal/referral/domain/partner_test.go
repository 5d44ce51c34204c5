package domain

import "testing"

func TestResolveCommission(t *testing.T) {
	cases := []struct {
		referrals int
		wantTier  Tier
		wantRate  float64
	}{
		{0, Tier1, 1},
		{1, Tier1, 1},
		{10, Tier1, 1},
		{11, Tier2, 2.5},
		{15, Tier2, 2.5},
		{20, Tier2, 2.5},
		{21, Tier3, 5},
		{40, Tier3, 5},
		{41, Tier4, 10},
		{100, Tier4, 10},
	}
	for _, c := range cases {
		tier, rate := ResolveCommission(c.referrals)
		if tier != c.wantTier || rate != c.wantRate {
			t.Errorf("ResolveCommission(%d): got (%s, %v), want (%s, %v)",
				c.referrals, tier, rate, c.wantTier, c.wantRate)
		}
	}
}

// TestRecalculateMovesTierAndRateTogether checks that a partner's tier and
// rate never disagree after recomputation.
func TestRecalculateMovesTierAndRateTogether(t *testing.T) {
	p := &ReferralPartner{TotalReferrals: 0}
	for i := 0; i <= 50; i++ {
		p.TotalReferrals = i
		p.Recalculate()
		wantTier, wantRate := ResolveCommission(i)
		if p.Tier != wantTier || p.CommissionRate != wantRate {
			t.Fatalf("after %d referrals: got (%s, %v), want (%s, %v)",
				i, p.Tier, p.CommissionRate, wantTier, wantRate)
		}
	}
}
