package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestFeatureColumnsOrder(t *testing.T) {
	cols := FeatureColumns()
	if len(cols) != FeatureWidth() {
		t.Fatalf("len: got %d, want %d", len(cols), FeatureWidth())
	}
	if FeatureWidth() != 28 {
		t.Errorf("FeatureWidth: got %d, want 28", FeatureWidth())
	}
	if cols[0] != ColInches || cols[9] != ColHDD {
		t.Errorf("numeric block out of order: %v", cols[:10])
	}
	if cols[10] != "Company_Apple" || cols[len(cols)-1] != "Company_Xiaomi" {
		t.Errorf("brand block out of order: %v", cols[10:])
	}
}

func TestRecordValue(t *testing.T) {
	r := &LaptopRecord{Inches: 15.6, RAM: 8, IPSPanel: 1, Price: 999}

	tests := []struct {
		col  string
		want float64
		ok   bool
	}{
		{ColInches, 15.6, true},
		{ColRAM, 8, true},
		{ColIPS, 1, true},
		{ColPrice, 999, true},
		{"Company_Dell", 0, false},
	}
	for _, tt := range tests {
		got, ok := r.Value(tt.col)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Value(%q) = %v, %v; want %v, %v", tt.col, got, ok, tt.want, tt.ok)
		}
	}
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("boom")

	var dle error = &DataLoadError{Source: "x.csv", Column: ColPrice, Err: cause}
	if !errors.Is(dle, cause) {
		t.Error("DataLoadError should unwrap to its cause")
	}

	var ale error = fmt.Errorf("startup: %w", &ArtifactLoadError{Path: "m.json", Err: cause})
	var target *ArtifactLoadError
	if !errors.As(ale, &target) || target.Path != "m.json" {
		t.Error("ArtifactLoadError should be reachable with errors.As")
	}
}
