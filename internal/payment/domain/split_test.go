package domain

import "testing"

func TestComputeSplitWithoutReferral(t *testing.T) {
	s := ComputeSplit(1000, 0)

	if s.Platform != 100 {
		t.Errorf("platform: got %d, want 100", s.Platform)
	}
	if s.Teacher != 630 {
		t.Errorf("teacher: got %d, want 630", s.Teacher)
	}
	if s.University != 270 {
		t.Errorf("university: got %d, want 270", s.University)
	}
	if s.Referral != 0 {
		t.Errorf("referral: got %d, want 0", s.Referral)
	}
}

func TestComputeSplitWithReferral(t *testing.T) {
	// 1000 with a 50 commission: platform 100, remaining 850,
	// teacher 595, university 255.
	s := ComputeSplit(1000, 50)

	if s.Platform != 100 {
		t.Errorf("platform: got %d, want 100", s.Platform)
	}
	if s.Teacher != 595 {
		t.Errorf("teacher: got %d, want 595", s.Teacher)
	}
	if s.University != 255 {
		t.Errorf("university: got %d, want 255", s.University)
	}
	if s.Referral != 50 {
		t.Errorf("referral: got %d, want 50", s.Referral)
	}
}

// TestComputeSplitConservation checks that the four legs always sum back
// to the amount, including awkward amounts that do not divide evenly.
func TestComputeSplitConservation(t *testing.T) {
	amounts := []int64{1, 2, 3, 7, 99, 101, 333, 999, 1000, 1001, 12345, 99999, 7777777}
	for _, amount := range amounts {
		for _, rate := range []float64{0, 1, 2.5, 5, 10} {
			commission := PercentShare(amount, rate)
			s := ComputeSplit(amount, commission)
			if got := s.Total(); got != amount {
				t.Errorf("ComputeSplit(%d, %d): legs sum to %d, want %d", amount, commission, got, amount)
			}
			if s.Platform < 0 || s.Teacher < 0 || s.University < 0 || s.Referral < 0 {
				t.Errorf("ComputeSplit(%d, %d): negative leg in %+v", amount, commission, s)
			}
		}
	}
}

// TestComputeSplitDeterministic checks that equal inputs always produce
// identical splits.
func TestComputeSplitDeterministic(t *testing.T) {
	first := ComputeSplit(12345, 309)
	for i := 0; i < 100; i++ {
		if got := ComputeSplit(12345, 309); got != first {
			t.Fatalf("split changed between runs: got %+v, want %+v", got, first)
		}
	}
}

func TestPercentShare(t *testing.T) {
	cases := []struct {
		amount int64
		rate   float64
		want   int64
	}{
		{1000, 1, 10},
		{1000, 2.5, 25},
		{1000, 5, 50},
		{1000, 10, 100},
		{999, 1, 10},   // 9.99 rounds up
		{949, 1, 9},    // 9.49 rounds down
		{950, 1, 10},   // 9.50 rounds half up
		{0, 10, 0},
		{1000, 0, 0},
	}
	for _, c := range cases {
		if got := PercentShare(c.amount, c.rate); got != c.want {
			t.Errorf("PercentShare(%d, %v): got %d, want %d", c.amount, c.rate, got, c.want)
		}
	}
}
