package plan

import "fmt"

// Source is the origin of a prospect relationship.
type Source string

// Allowed prospect sources.
const (
	SourceSelfAcquired Source = "Self Acquired"
	SourceInherited    Source = "Inherited"
	SourceFinder       Source = "Finder"
)

// ValidSource reports whether s is one of the allowed prospect sources.
func ValidSource(s Source) bool {
	switch s {
	case SourceSelfAcquired, SourceInherited, SourceFinder:
		return true
	}
	return false
}

// Prospect is one row of the prospects (NNA) table. All monetary figures are
// in M CHF. Names are not required to be unique.
type Prospect struct {
	Name     string  `json:"name"`
	Source   Source  `json:"source"`
	WealthM  float64 `json:"wealth_m"`
	BestNNM  float64 `json:"best_nnm_m"`
	WorstNNM float64 `json:"worst_nnm_m"`
}

// Validate returns a list of human-readable problems with p, empty when the
// row is acceptable.
func (p Prospect) Validate() []string {
	var errs []string
	if p.Name == "" {
		errs = append(errs, "Name is required.")
	}
	if !ValidSource(p.Source) {
		errs = append(errs, "Source must be Self Acquired / Inherited / Finder.")
	}
	for _, f := range []struct {
		label string
		val   float64
	}{
		{"Wealth (M)", p.WealthM},
		{"Best NNM (M)", p.BestNNM},
		{"Worst NNM (M)", p.WorstNNM},
	} {
		if f.val < 0 {
			errs = append(errs, fmt.Sprintf("%s must be ≥ 0.", f.label))
		}
	}
	return errs
}

// ProspectList is the ordered, positionally-editable list of prospects for
// one session.
type ProspectList []Prospect

// Add validates p and appends it to the list.
func (l *ProspectList) Add(p Prospect) error {
	if errs := p.Validate(); len(errs) > 0 {
		return fmt.Errorf("prospect: %s", errs[0])
	}
	*l = append(*l, p)
	return nil
}

// Update validates p and replaces the entry at position i.
func (l *ProspectList) Update(i int, p Prospect) error {
	if i < 0 || i >= len(*l) {
		return fmt.Errorf("prospect: index %d out of range [0, %d)", i, len(*l))
	}
	if errs := p.Validate(); len(errs) > 0 {
		return fmt.Errorf("prospect: %s", errs[0])
	}
	(*l)[i] = p
	return nil
}

// Delete removes the entry at position i, preserving the order of the rest.
func (l *ProspectList) Delete(i int) error {
	if i < 0 || i >= len(*l) {
		return fmt.Errorf("prospect: index %d out of range [0, %d)", i, len(*l))
	}
	*l = append((*l)[:i], (*l)[i+1:]...)
	return nil
}

// BestSum returns the sum of the prospects' best-case NNM figures in M CHF.
// Used by the consistency criterion against the declared Year-1 NNM.
func (l ProspectList) BestSum() float64 {
	var sum float64
	for _, p := range l {
		sum += p.BestNNM
	}
	return sum
}

// Totals returns the TOTAL row appended to the prospects table in reports.
func (l ProspectList) Totals() Prospect {
	t := Prospect{Name: "TOTAL"}
	for _, p := range l {
		t.WealthM += p.WealthM
		t.BestNNM += p.BestNNM
		t.WorstNNM += p.WorstNNM
	}
	return t
}
