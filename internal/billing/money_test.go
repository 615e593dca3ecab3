package billing

import "testing"

func TestMinorToMajor(t *testing.T) {
	tests := []struct {
		amount   int64
		currency string
		want     string
	}{
		{amount: 2599, currency: "usd", want: "25.99"},
		{amount: 100, currency: "EUR", want: "1"},
		{amount: 5, currency: "gbp", want: "0.05"},
		{amount: 500, currency: "jpy", want: "500"},
		{amount: 0, currency: "usd", want: "0"},
	}
	for _, tt := range tests {
		if got := MinorToMajor(tt.amount, tt.currency).String(); got != tt.want {
			t.Fatalf("MinorToMajor(%d, %s) = %s, want %s", tt.amount, tt.currency, got, tt.want)
		}
	}
}
