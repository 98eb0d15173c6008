package models

import "testing"

func TestDeriveConfidence(t *testing.T) {
	tests := []struct {
		name        string
		functionFit FitLevel
		industryFit FitLevel
		expected    Confidence
	}{
		{"Both high", FitHigh, FitHigh, ConfidenceHigh},
		{"Function high, industry medium", FitHigh, FitMedium, ConfidenceMedium},
		{"Function medium, industry high", FitMedium, FitHigh, ConfidenceMedium},
		{"Both medium", FitMedium, FitMedium, ConfidenceMedium},
		{"Low function disqualifies", FitLow, FitHigh, ConfidenceLow},
		{"Low industry disqualifies", FitHigh, FitLow, ConfidenceLow},
		{"Both low", FitLow, FitLow, ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveConfidence(tt.functionFit, tt.industryFit)
			if got != tt.expected {
				t.Errorf("DeriveConfidence(%s, %s) = %s, want %s", tt.functionFit, tt.industryFit, got, tt.expected)
			}
		})
	}
}

func TestFitLevelAcceptable(t *testing.T) {
	tests := []struct {
		level    FitLevel
		expected bool
	}{
		{FitHigh, true},
		{FitMedium, true},
		{FitLow, false},
		{FitLevel("Unknown"), false},
		{FitLevel(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := tt.level.Acceptable(); got != tt.expected {
				t.Errorf("FitLevel(%q).Acceptable() = %v, want %v", tt.level, got, tt.expected)
			}
		})
	}
}

func TestFitLevelValid(t *testing.T) {
	for _, level := range []FitLevel{FitHigh, FitMedium, FitLow} {
		if !level.Valid() {
			t.Errorf("FitLevel(%q).Valid() = false, want true", level)
		}
	}
	if FitLevel("Very High").Valid() {
		t.Error("FitLevel(\"Very High\").Valid() = true, want false")
	}
}
