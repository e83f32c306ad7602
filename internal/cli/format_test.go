package cli

import "testing"

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "$0"},
		{1234.5, "$1,234.50"},
		{1200000, "$1,200,000"},
		{-450.25, "-$450.25"},
		{999.999, "$1,000"},
	}

	for _, c := range cases {
		if got := FormatMoney("$", c.amount); got != c.want {
			t.Errorf("FormatMoney($, %v) = %q, want %q", c.amount, got, c.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-5000, "-5,000"},
	}

	for _, c := range cases {
		if got := FormatNumber(c.n); got != c.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		min  int
		want string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h"},
		{330, "5h 30m"},
	}

	for _, c := range cases {
		if got := FormatMinutes(c.min); got != c.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", c.min, got, c.want)
		}
	}
}

func TestFormatCountdown(t *testing.T) {
	cases := []struct {
		days int
		want string
	}{
		{45, "in 45 days"},
		{1, "tomorrow"},
		{0, "today"},
		{-1, "1 day ago"},
		{-10, "10 days ago"},
	}

	for _, c := range cases {
		if got := FormatCountdown(c.days); got != c.want {
			t.Errorf("FormatCountdown(%d) = %q, want %q", c.days, got, c.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(40.0); got != "40.0%" {
		t.Errorf("FormatPercent(40.0) = %q, want %q", got, "40.0%")
	}
	if got := FormatPercent(33.33); got != "33.3%" {
		t.Errorf("FormatPercent(33.33) = %q, want %q", got, "33.3%")
	}
}
