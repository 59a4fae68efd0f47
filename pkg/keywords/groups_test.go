package keywords

import (
	"errors"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	names := cfg.GroupNames()
	expected := []string{"risparmio", "lavoro_extra", "vendite_desperate", "assistenza", "debiti"}
	if len(names) != len(expected) {
		t.Fatalf("Expected %d groups, got %d", len(expected), len(names))
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("Group %d: expected %s, got %s", i, expected[i], names[i])
		}
	}

	if w := cfg.Weight("banco alimentare"); w != 2.0 {
		t.Errorf("Expected weight 2.0, got %v", w)
	}
	if w := cfg.Weight("sussidi"); w != DefaultWeight {
		t.Errorf("Expected default weight for unknown keyword, got %v", w)
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name          string
		groups        []Group
		weights       map[string]float64
		defaultWeight float64
	}{
		{"no groups", nil, nil, 1.0},
		{"zero default weight", []Group{{Name: "a", Keywords: []string{"x"}}}, nil, 0},
		{"empty group name", []Group{{Name: " ", Keywords: []string{"x"}}}, nil, 1.0},
		{"reserved group name", []Group{{Name: IndexColumn, Keywords: []string{"x"}}}, nil, 1.0},
		{"duplicate group", []Group{{Name: "a", Keywords: []string{"x"}}, {Name: "a", Keywords: []string{"y"}}}, nil, 1.0},
		{"group without keywords", []Group{{Name: "a", Keywords: []string{" "}}}, nil, 1.0},
		{"negative weight", []Group{{Name: "a", Keywords: []string{"x"}}}, map[string]float64{"x": -1}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.groups, tt.weights, tt.defaultWeight)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestConfig_IsImmutable(t *testing.T) {
	groups := []Group{{Name: "a", Keywords: []string{"x", "y"}}}
	weights := map[string]float64{"x": 2.0}

	cfg, err := New(groups, weights, 1.0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	groups[0].Keywords[0] = "changed"
	weights["x"] = 9.0

	got := cfg.Groups()
	if got[0].Keywords[0] != "x" {
		t.Errorf("Config was affected by caller mutation: %v", got[0].Keywords)
	}
	if cfg.Weight("x") != 2.0 {
		t.Errorf("Weight was affected by caller mutation: %v", cfg.Weight("x"))
	}

	got[0].Keywords[1] = "mutated"
	if g, _ := cfg.Group("a"); g.Keywords[1] != "y" {
		t.Errorf("Groups() returned shared slice")
	}
}

func TestWeight_UnicodeNormalization(t *testing.T) {
	// "è" precomposed in the weight map, decomposed in the lookup
	cfg, err := New([]Group{{Name: "a", Keywords: []string{"caffè"}}}, map[string]float64{"caff\u00e8": 3.0}, 1.0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if w := cfg.Weight("caffe\u0300"); w != 3.0 {
		t.Errorf("Expected normalized lookup to find weight 3.0, got %v", w)
	}
}
