package domain

import (
	"fmt"
	"sort"
	"strings"
)

// MaxCombinationNames bounds the 2^n subsets NewCombinations enumerates
const MaxCombinationNames = 20

// Combinations enumerates every subset of a set of plant names, largest
// subsets first, lexicographic within a size, with the empty set last.
type Combinations struct {
	names   []string
	subsets [][]string
	index   map[string]int
}

// NewCombinations de-duplicates and sorts names, then enumerates their subsets
func NewCombinations(names []string) (*Combinations, error) {
	sorted := uniqueSorted(names)
	if len(sorted) > MaxCombinationNames {
		return nil, fmt.Errorf("%w: %d plant names exceed the limit of %d for combinations",
			ErrRange, len(sorted), MaxCombinationNames)
	}

	c := &Combinations{names: sorted, index: make(map[string]int, 1<<len(sorted))}
	for size := len(sorted); size >= 1; size-- {
		c.choose(nil, 0, size)
	}
	c.add([]string{})
	return c, nil
}

// choose appends, in lexicographic order, every subset of size that
// extends prefix with names from position from onwards
func (c *Combinations) choose(prefix []string, from, size int) {
	if len(prefix) == size {
		c.add(append([]string(nil), prefix...))
		return
	}
	for i := from; i <= len(c.names)-(size-len(prefix)); i++ {
		c.choose(append(prefix, c.names[i]), i+1, size)
	}
}

func (c *Combinations) add(subset []string) {
	c.index[subsetKey(subset)] = len(c.subsets)
	c.subsets = append(c.subsets, subset)
}

// Names returns the sorted, de-duplicated names
func (c *Combinations) Names() []string {
	return append([]string(nil), c.names...)
}

// Len returns the number of subsets, 2^n
func (c *Combinations) Len() int {
	return len(c.subsets)
}

// All returns every subset in index order
func (c *Combinations) All() [][]string {
	out := make([][]string, len(c.subsets))
	for i, s := range c.subsets {
		out[i] = append([]string{}, s...)
	}
	return out
}

// Combination returns the subset at index i
func (c *Combinations) Combination(i int) ([]string, error) {
	if i < 0 || i >= len(c.subsets) {
		return nil, fmt.Errorf("%w: combination index %d outside 0..%d", ErrRange, i, len(c.subsets)-1)
	}
	return append([]string{}, c.subsets[i]...), nil
}

// Index returns the position of subset, which need not be sorted
func (c *Combinations) Index(subset []string) (int, error) {
	i, ok := c.index[subsetKey(uniqueSorted(subset))]
	if !ok {
		return 0, fmt.Errorf("%w: combination (%s) uses unknown plant names", ErrRange, strings.Join(subset, ", "))
	}
	return i, nil
}

// Label formats index i as "07: a, b", or "07: None" for the empty set
func (c *Combinations) Label(i int) string {
	subset, err := c.Combination(i)
	if err != nil || len(subset) == 0 {
		return fmt.Sprintf("%02d: None", i)
	}
	return fmt.Sprintf("%02d: %s", i, strings.Join(subset, ", "))
}

// SelectionMap combines several plant selections over one grid
type SelectionMap struct {
	Combinations *Combinations
	// PointIndex holds, per grid point, the combination of plants whose
	// DLI range contains that point
	PointIndex []int
	// Selection is the sorted set of plants selected for the whole grid
	Selection      []string
	SelectionIndex int
	SelectionGrid  []int
	// UsedIndices are the distinct values of PointIndex, ascending
	UsedIndices []int
}

// MapSelections maps every grid point to the combination of plants that can
// grow there. All selections must cover the same grid.
func MapSelections(selections []*Selection) (*SelectionMap, error) {
	if len(selections) == 0 {
		return nil, fmt.Errorf("%w: no plant selections to map", ErrRange)
	}

	points := len(selections[0].Labels)
	names := make([]string, 0, len(selections))
	var selected []string
	for _, s := range selections {
		if len(s.Labels) != points {
			return nil, fmt.Errorf("%w: selection for %s covers %d points, want %d",
				ErrShapeMismatch, s.Plant.Name, len(s.Labels), points)
		}
		names = append(names, s.Plant.Name)
		if s.Selected() {
			selected = append(selected, s.Plant.Name)
		}
	}

	combos, err := NewCombinations(names)
	if err != nil {
		return nil, err
	}

	m := &SelectionMap{
		Combinations:  combos,
		PointIndex:    make([]int, points),
		Selection:     uniqueSorted(selected),
		SelectionGrid: make([]int, points),
	}
	if m.SelectionIndex, err = combos.Index(m.Selection); err != nil {
		return nil, err
	}

	used := make(map[int]bool)
	for p := 0; p < points; p++ {
		var within []string
		for _, s := range selections {
			if s.Labels[p] == LabelWithin {
				within = append(within, s.Plant.Name)
			}
		}
		idx, err := combos.Index(within)
		if err != nil {
			return nil, err
		}
		m.PointIndex[p] = idx
		m.SelectionGrid[p] = m.SelectionIndex
		if !used[idx] {
			used[idx] = true
			m.UsedIndices = append(m.UsedIndices, idx)
		}
	}
	sort.Ints(m.UsedIndices)
	return m, nil
}

// Legend lists the label of every combination present in the point map
func (m *SelectionMap) Legend() string {
	lines := make([]string, len(m.UsedIndices))
	for i, idx := range m.UsedIndices {
		lines[i] = m.Combinations.Label(idx)
	}
	return strings.Join(lines, "\n")
}

func uniqueSorted(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

func subsetKey(subset []string) string {
	return strings.Join(subset, "\x1f")
}
