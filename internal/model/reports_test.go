package model

import "testing"

func TestPointsForCategory(t *testing.T) {
	tests := []struct {
		category ReportCategory
		want     int
		known    bool
	}{
		{CategoryWaste, 10, true},
		{CategoryFlood, 15, true},
		{CategoryElectricity, 12, true},
		{ReportCategory("potholes"), 0, false},
		{ReportCategory(""), 0, false},
		{ReportCategory("Waste"), 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			got, ok := PointsForCategory(tt.category)
			if ok != tt.known {
				t.Fatalf("known = %v, want %v", ok, tt.known)
			}
			if got != tt.want {
				t.Fatalf("points = %d, want %d", got, tt.want)
			}
		})
	}
}
