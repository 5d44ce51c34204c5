package domain

import "math"

// Platform keeps 10% of every captured payment; the teacher takes 70% of
// what remains after the platform fee and referral commission, and the
// university absorbs the rounding remainder.
const (
	platformFeeBps  = 1000
	teacherShareBps = 7000
)

// Split is the one-time division of a captured payment's amount.
// Platform + Teacher + University + Referral always equals the amount.
type Split struct {
	Platform   int64 `json:"platform"`
	Teacher    int64 `json:"teacher"`
	University int64 `json:"university"`
	Referral   int64 `json:"referral"`
}

// Total returns the sum of all four legs.
func (s Split) Total() int64 {
	return s.Platform + s.Teacher + s.University + s.Referral
}

// ComputeSplit divides amount among the platform, teacher, university and
// referral partner. referralCommission is the commission stamped on the
// payment at order creation, 0 when no partner is attached.
func ComputeSplit(amount, referralCommission int64) Split {
	platform := bpsShare(amount, platformFeeBps)
	remaining := amount - platform - referralCommission
	teacher := bpsShare(remaining, teacherShareBps)

	return Split{
		Platform:   platform,
		Teacher:    teacher,
		University: remaining - teacher,
		Referral:   referralCommission,
	}
}

// PercentShare returns the rounded share of amount at a percent rate,
// e.g. PercentShare(1000, 2.5) == 25. Used for referral commissions.
func PercentShare(amount int64, ratePercent float64) int64 {
	bps := int64(math.Round(ratePercent * 100))
	return bpsShare(amount, bps)
}

// bpsShare computes amount * bps / 10000 with round-half-up, in integer
// arithmetic so equal inputs always split identically.
func bpsShare(amount, bps int64) int64 {
	if amount <= 0 || bps <= 0 {
		return 0
	}
	return (amount*bps + 5000) / 10000
}
