package validation

import "testing"

func TestIsValidTrackingNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		valid  bool
	}{
		{name: "tracking number", number: "123456789015", valid: true},
		{name: "all zeros", number: "000000000000", valid: true},
		{name: "classic luhn sample", number: "79927398713", valid: true},
		{name: "wrong check digit", number: "123456789014", valid: false},
		{name: "swapped digits", number: "213456789015", valid: false},
		{name: "leading space", number: " 123456789015", valid: false},
		{name: "letters", number: "12345678901a", valid: false},
		{name: "empty", number: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidTrackingNumber(tt.number)
			if got != tt.valid {
				t.Fatalf("IsValidTrackingNumber(%q) = %v, want %v", tt.number, got, tt.valid)
			}
		})
	}
}

func TestLuhnCheckDigit(t *testing.T) {
	payloads := []string{"7992739871", "453957876362148", "0", "00000000000", "12345678901"}

	for _, p := range payloads {
		number := p + string(LuhnCheckDigit(p))
		if !IsValidTrackingNumber(number) {
			t.Fatalf("number %q built from %q fails Luhn check", number, p)
		}
	}

	if d := LuhnCheckDigit("12345678901"); d != '5' {
		t.Fatalf("check digit = %c, want 5", d)
	}
}
