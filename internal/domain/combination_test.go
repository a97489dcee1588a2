package domain

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestNewCombinations_Order(t *testing.T) {
	c, err := NewCombinations([]string{"c", "a", "b", "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]string{
		{"a", "b", "c"},
		{"a", "b"}, {"a", "c"}, {"b", "c"},
		{"a"}, {"b"}, {"c"},
		{},
	}
	if !reflect.DeepEqual(c.All(), want) {
		t.Errorf("expected %v, got %v", want, c.All())
	}
	if c.Len() != 8 {
		t.Errorf("expected 8 combinations, got %d", c.Len())
	}
	if !reflect.DeepEqual(c.Names(), []string{"a", "b", "c"}) {
		t.Errorf("unexpected names %v", c.Names())
	}
}

func TestCombinations_IndexAndLabel(t *testing.T) {
	c, err := NewCombinations([]string{"Basil", "Mint", "Thyme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		subset []string
		index  int
		label  string
	}{
		{subset: []string{"Thyme", "Basil", "Mint"}, index: 0, label: "00: Basil, Mint, Thyme"},
		{subset: []string{"Thyme", "Basil"}, index: 2, label: "02: Basil, Thyme"},
		{subset: []string{"Mint"}, index: 5, label: "05: Mint"},
		{subset: nil, index: 7, label: "07: None"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			idx, err := c.Index(tt.subset)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if idx != tt.index {
				t.Errorf("expected index %d, got %d", tt.index, idx)
			}
			if got := c.Label(idx); got != tt.label {
				t.Errorf("expected label %q, got %q", tt.label, got)
			}

			back, err := c.Combination(idx)
			if err != nil {
				t.Fatalf("Combination(%d): %v", idx, err)
			}
			again, _ := c.Index(back)
			if again != idx {
				t.Errorf("expected Index(Combination(%d)) = %d, got %d", idx, idx, again)
			}
		})
	}

	if _, err := c.Index([]string{"Oregano"}); !errors.Is(err, ErrRange) {
		t.Errorf("expected ErrRange for unknown name, got %v", err)
	}
	if _, err := c.Combination(8); !errors.Is(err, ErrRange) {
		t.Errorf("expected ErrRange for index 8, got %v", err)
	}
}

func TestNewCombinations_TooManyNames(t *testing.T) {
	names := make([]string, MaxCombinationNames+1)
	for i := range names {
		names[i] = fmt.Sprintf("plant-%02d", i)
	}
	if _, err := NewCombinations(names); !errors.Is(err, ErrRange) {
		t.Errorf("expected ErrRange, got %v", err)
	}
}

func TestMapSelections(t *testing.T) {
	loc := testLocation(t, nil, 0, 0)
	dli := flatDLI(t, 5, 12, 15, 20)
	alpha := testPlant(t, PlantSpec{Name: "Alpha", DLI: "10 15"})
	beta := testPlant(t, PlantSpec{Name: "Beta", DLI: "14 25"})
	opts := SelectionOptions{Threshold: 0.4}

	m, err := MapSelections([]*Selection{
		AnalyzeSelection(beta, loc, dli, opts),
		AnalyzeSelection(alpha, loc, dli, opts),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// (Alpha, Beta)=0, (Alpha)=1, (Beta)=2, ()=3
	if want := []int{3, 1, 0, 2}; !reflect.DeepEqual(m.PointIndex, want) {
		t.Errorf("expected point index %v, got %v", want, m.PointIndex)
	}
	if !reflect.DeepEqual(m.Selection, []string{"Alpha", "Beta"}) || m.SelectionIndex != 0 {
		t.Errorf("expected both plants selected at index 0, got %v at %d", m.Selection, m.SelectionIndex)
	}
	if !reflect.DeepEqual(m.SelectionGrid, []int{0, 0, 0, 0}) {
		t.Errorf("unexpected selection grid %v", m.SelectionGrid)
	}
	if !reflect.DeepEqual(m.UsedIndices, []int{0, 1, 2, 3}) {
		t.Errorf("unexpected used indices %v", m.UsedIndices)
	}
	if want := "00: Alpha, Beta\n01: Alpha\n02: Beta\n03: None"; m.Legend() != want {
		t.Errorf("expected legend %q, got %q", want, m.Legend())
	}
}

func TestMapSelections_Errors(t *testing.T) {
	loc := testLocation(t, nil, 0, 0)
	plant := testPlant(t, PlantSpec{Name: "Alpha", DLI: "10 15"})

	_, err := MapSelections([]*Selection{
		AnalyzeSelection(plant, loc, flatDLI(t, 1, 2), SelectionOptions{}),
		AnalyzeSelection(plant, loc, flatDLI(t, 1, 2, 3), SelectionOptions{}),
	})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}

	if _, err := MapSelections(nil); !errors.Is(err, ErrRange) {
		t.Errorf("expected ErrRange for no selections, got %v", err)
	}
}
