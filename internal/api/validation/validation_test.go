package validation

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"driver@fleet.example.com", true},
		{"a@b.co", true},
		{"missing-at.example.com", false},
		{"@no-local.example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestIsValidVIN(t *testing.T) {
	tests := []struct {
		vin  string
		want bool
	}{
		{"1HGBH41JXMN109186", true},
		{"1HGBH41JXMN10918", false},  // too short
		{"1HGBH41JXMN109I86", false}, // contains I
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidVIN(tt.vin); got != tt.want {
			t.Errorf("IsValidVIN(%q) = %v, want %v", tt.vin, got, tt.want)
		}
	}
}

func TestIsValidLogDate(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2024-06-15", true},
		{"2024-13-01", false},
		{"06/15/2024", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidLogDate(tt.date); got != tt.want {
			t.Errorf("IsValidLogDate(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	if !IsValidUUID("d9428888-122b-11e1-b85c-61cd3cbb3210") {
		t.Error("expected valid UUID to pass")
	}
	if IsValidUUID("not-a-uuid") {
		t.Error("expected invalid UUID to fail")
	}
}
