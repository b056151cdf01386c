package plan

// LocationPlaceholder is the sentinel value the form shows before the
// candidate picks a concrete location. A record carrying it is not savable.
const LocationPlaceholder = "— Select —"

// Years is the number of projection years captured by the form.
const Years = 3

// Candidate is the flat record of all form inputs for one candidate.
// Numeric fields are expected to be non-negative; Sanitize() enforces that
// for values arriving from an untrusted client.
type Candidate struct {
	Name     string
	Email    string
	Role     string
	Location string
	Employer string
	Market   string
	Currency string

	YearsExperience  int
	InheritedBookPct int // share of AUM expected to be inherited, 0–100

	BaseSalary float64
	LastBonus  float64

	NumClients  int
	AUMMillions float64 // current AUM in M CHF

	NNM [Years]float64 // net new money per projection year, M CHF
	ROA [Years]float64 // return on assets per projection year, percent

	ProjectedClients [Years]int
}

// AvgROA returns the mean of the three yearly ROA percentages.
func (c Candidate) AvgROA() float64 {
	var sum float64
	for _, r := range c.ROA {
		sum += r
	}
	return sum / Years
}

// TotalNNM returns the sum of the three yearly NNM figures in M CHF.
func (c Candidate) TotalNNM() float64 {
	var sum float64
	for _, n := range c.NNM {
		sum += n
	}
	return sum
}

// Sanitize returns a copy of c with all negative numeric inputs floored at
// zero. Scoring and projection treat absent values as zero rather than
// failing, so a clamped copy keeps both total.
func (c Candidate) Sanitize() Candidate {
	out := c
	if out.YearsExperience < 0 {
		out.YearsExperience = 0
	}
	if out.InheritedBookPct < 0 {
		out.InheritedBookPct = 0
	}
	out.BaseSalary = clampNonNeg(out.BaseSalary)
	out.LastBonus = clampNonNeg(out.LastBonus)
	if out.NumClients < 0 {
		out.NumClients = 0
	}
	out.AUMMillions = clampNonNeg(out.AUMMillions)
	for i := range out.NNM {
		out.NNM[i] = clampNonNeg(out.NNM[i])
	}
	for i := range out.ROA {
		out.ROA[i] = clampNonNeg(out.ROA[i])
	}
	for i := range out.ProjectedClients {
		if out.ProjectedClients[i] < 0 {
			out.ProjectedClients[i] = 0
		}
	}
	return out
}

func clampNonNeg(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
