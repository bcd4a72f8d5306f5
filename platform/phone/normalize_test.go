package phone

import "testing"

func TestFormatE164(t *testing.T) {
	tests := []struct {
		input  string
		region string
		want   string
		ok     bool
	}{
		{"(650) 253-0000", "US", "+16502530000", true},
		{"650.253.0000", "", "+16502530000", true},
		{"+44 121 234 5678", "US", "+441212345678", true},
		{"0121 234 5678", "gb", "+441212345678", true},
		{"555-123-4567", "US", "", false},
		{"   ", "US", "", false},
		{"not a number", "US", "", false},
	}

	for _, tt := range tests {
		got, ok := FormatE164(tt.input, tt.region)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("FormatE164(%q, %q) = %q, %v; want %q, %v", tt.input, tt.region, got, ok, tt.want, tt.ok)
		}
	}
}
