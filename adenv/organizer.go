package adenv

import "fmt"

// DefaultMaxSteps bounds the number of blocks the organizer emits
const DefaultMaxSteps = 5000

// Organizer reshapes keyword-major rows into time-major blocks of width K
type Organizer struct {
	MaxSteps int
}

// NewOrganizer returns an organizer emitting at most maxSteps blocks.
// A non-positive maxSteps falls back to DefaultMaxSteps.
func NewOrganizer(maxSteps int) *Organizer {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Organizer{MaxSteps: maxSteps}
}

// Organize groups rows by keyword (in order of first appearance, keeping each
// keyword's row order) and interleaves them by position:
// block s = [kw_1@s, kw_2@s, ..., kw_K@s].
// The output stops at the first block that would be underfilled.
func (o *Organizer) Organize(rows []RawRecord) (Dataset, error) {
	order := make([]string, 0)
	groups := make(map[string][]KeywordMetrics)
	for _, r := range rows {
		if _, ok := groups[r.Keyword]; !ok {
			order = append(order, r.Keyword)
		}
		groups[r.Keyword] = append(groups[r.Keyword], r.KeywordMetrics)
	}
	if len(order) < 1 {
		return nil, fmt.Errorf("%w: no keywords in input", ErrConfiguration)
	}

	steps := o.MaxSteps
	for _, kw := range order {
		if n := len(groups[kw]); n < steps {
			steps = n
		}
	}
	// every group holds at least one row, so steps is zero only when MaxSteps is
	if steps < 1 {
		return nil, fmt.Errorf("%w: no complete block", ErrConfiguration)
	}

	k := len(order)
	organized := make(Dataset, 0, steps*k)
	for s := 0; s < steps; s++ {
		for _, kw := range order {
			organized = append(organized, groups[kw][s])
		}
	}
	return organized, nil
}
