package matching

import (
	"testing"
)

func TestRemoveDiacritics(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Jalapeño", "Jalapeno"},
		{"Crème Fraîche", "Creme Fraiche"},
		{"Häagen-Dazs", "Haagen-Dazs"},
		{"Straße", "Strasse"},
		{"Ørsted", "Orsted"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := RemoveDiacritics(tt.input)
			if result != tt.expected {
				t.Errorf("RemoveDiacritics(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFoldKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Lowercases", "Whole MILK", "whole milk"},
		{"Collapses whitespace", "  whole \t milk  ", "whole milk"},
		{"Strips diacritics", "Jalapeño Chips", "jalapeno chips"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FoldKey(tt.input)
			if result != tt.expected {
				t.Errorf("FoldKey(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestEqualFold(t *testing.T) {
	if !EqualFold("Dairy", "dairy") {
		t.Error("expected Dairy and dairy to be equal")
	}
	if !EqualFold("Crème", "CREME") {
		t.Error("expected Crème and CREME to be equal")
	}
	if EqualFold("Dairy", "Bakery") {
		t.Error("expected Dairy and Bakery to differ")
	}
}

func TestContainsAny(t *testing.T) {
	fields := []string{"Organic Whole Milk", "Dairy", "Horizon", "gluten-free"}

	tests := []struct {
		name     string
		query    string
		expected bool
	}{
		{"Empty query matches", "", true},
		{"Whitespace query matches", "   ", true},
		{"Name substring", "whole", true},
		{"Category", "DAIRY", true},
		{"Brand", "horiz", true},
		{"Tag", "Gluten", true},
		{"No match", "bread", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ContainsAny(fields, tt.query)
			if result != tt.expected {
				t.Errorf("ContainsAny(%q) = %v, want %v", tt.query, result, tt.expected)
			}
		})
	}
}

func TestNormalizeUnit(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		quantity string
		expected string
	}{
		{"Liters alias", "LTR", "2", "2l"},
		{"Milliliters promoted", "ml", "1500", "1.5l"},
		{"Grams promoted", "g", "1000", "1kg"},
		{"Ounces promoted", "oz", "32", "2lb"},
		{"Ounces kept", "oz", "12", "12oz"},
		{"Count alias", "count", "12", "12ct"},
		{"Pounds alias", "lbs", "3", "3lb"},
		{"No quantity", "each", "", "ea"},
		{"Unknown unit passes through", "bunch", "1", "1bunch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeUnit(tt.unit, tt.quantity)
			if result != tt.expected {
				t.Errorf("NormalizeUnit(%q, %q) = %q, want %q", tt.unit, tt.quantity, result, tt.expected)
			}
		})
	}
}
