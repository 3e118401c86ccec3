package feed

import "testing"

func TestParsePrice(t *testing.T) {
	scale := Scale{PriceDecimals: 4, SizeDecimals: 8}

	cases := []struct {
		raw  string
		want int64
	}{
		{"0.0001", 1},
		{"1020.55", 10205500},
		{"0", 0},
		{"", Sentinel},
		{"abc", Sentinel},
		{"-1.5", Sentinel},
		{"1.00005", 10000}, // excess precision truncated
	}

	for _, c := range cases {
		if got := scale.ParsePrice(c.raw); got != c.want {
			t.Errorf("ParsePrice(%q) = %d, want %d", c.raw, got, c.want)
		}
	}
}

func TestParseSize(t *testing.T) {
	scale := DefaultScale

	if got := scale.ParseSize("0.00000001"); got != 1 {
		t.Errorf("expected 1 sat, got %d", got)
	}
	if got := scale.ParseSize("2.5"); got != 250000000 {
		t.Errorf("expected 250000000, got %d", got)
	}
	if got := scale.ParseSize("not-a-number"); got != Sentinel {
		t.Errorf("malformed size must yield sentinel, got %d", got)
	}
}

func TestParseFundsCombinedScale(t *testing.T) {
	scale := Scale{PriceDecimals: 2, SizeDecimals: 3}

	// funds / price = size must hold in scaled integers:
	// 100.00 quote at price 25.00 -> 4.000 base
	funds := scale.ParseFunds("100")
	price := scale.ParsePrice("25")
	if funds/price != 4000 {
		t.Errorf("expected funds/price = 4000, got %d", funds/price)
	}
}
