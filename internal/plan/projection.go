package plan

// fixedCostMultiplier converts base salary into the fully-loaded yearly cost
// of the hire.
const fixedCostMultiplier = 1.25

// millionCHF scales M CHF figures to CHF.
const millionCHF = 1_000_000

// YearFigures is one row of the revenue/cost/margin table, all in CHF.
type YearFigures struct {
	Year         string
	GrossRevenue float64
	FixedCost    float64
	NetMargin    float64
}

// Projection is the derived three-year financial picture for a candidate.
type Projection struct {
	Years [Years]YearFigures

	TotalRevenue    float64 // sum of gross revenue, CHF
	TotalCost       float64 // fixed cost × 3, CHF
	TotalNet        float64 // total revenue − total cost, CHF
	ProfitMarginPct float64 // TotalNet / TotalRevenue × 100, 0 when revenue is 0
}

// Project derives the projection from the candidate's NNM and ROA inputs.
// Revenue per year is NNM × ROA% applied to the M CHF figure; the fixed cost
// is the same every year.
func Project(c Candidate) Projection {
	var p Projection
	fixed := c.BaseSalary * fixedCostMultiplier

	labels := [Years]string{"Year 1", "Year 2", "Year 3"}
	for i := 0; i < Years; i++ {
		rev := c.NNM[i] * c.ROA[i] / 100 * millionCHF
		p.Years[i] = YearFigures{
			Year:         labels[i],
			GrossRevenue: rev,
			FixedCost:    fixed,
			NetMargin:    rev - fixed,
		}
		p.TotalRevenue += rev
	}

	p.TotalCost = fixed * Years
	p.TotalNet = p.TotalRevenue - p.TotalCost
	if p.TotalRevenue > 0 {
		p.ProfitMarginPct = p.TotalNet / p.TotalRevenue * 100
	}
	return p
}

// Rows returns the three yearly rows plus the Total row, in table order.
func (p Projection) Rows() []YearFigures {
	rows := make([]YearFigures, 0, Years+1)
	rows = append(rows, p.Years[:]...)
	rows = append(rows, YearFigures{
		Year:         "Total",
		GrossRevenue: p.TotalRevenue,
		FixedCost:    p.TotalCost,
		NetMargin:    p.TotalNet,
	})
	return rows
}
