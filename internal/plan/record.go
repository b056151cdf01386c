package plan

import "time"

// Column names shared between the record, the signature field list, and the
// sheet header contract.
const (
	ColTimestamp     = "Timestamp"
	ColName          = "Candidate Name"
	ColEmail         = "Candidate Email"
	ColRole          = "Current Role"
	ColLocation      = "Candidate Location"
	ColEmployer      = "Current Employer"
	ColMarket        = "Current Market"
	ColCurrency      = "Currency"
	ColBaseSalary    = "Base Salary"
	ColLastBonus     = "Last Bonus"
	ColNumClients    = "Current Number of Clients"
	ColAUM           = "Current AUM (M CHF)"
	ColNNMY1         = "NNM Year 1 (M CHF)"
	ColNNMY2         = "NNM Year 2 (M CHF)"
	ColNNMY3         = "NNM Year 3 (M CHF)"
	ColRevenueY1     = "Revenue Year 1 (CHF)"
	ColRevenueY2     = "Revenue Year 2 (CHF)"
	ColRevenueY3     = "Revenue Year 3 (CHF)"
	ColTotalRevenue  = "Total Revenue 3Y (CHF)"
	ColProfitMargin  = "Profit Margin (%)"
	ColTotalProfit   = "Total Profit 3Y (CHF)"
	ColScore         = "Score"
	ColVerdictNotes  = "AI Evaluation Notes"
)

// HeaderOrder is the column contract for the external sheet. If the store's
// header row differs from this list it is rewritten before any append.
var HeaderOrder = []string{
	ColTimestamp, ColName, ColEmail, ColRole, ColLocation,
	ColEmployer, ColMarket, ColCurrency, ColBaseSalary, ColLastBonus,
	ColNumClients, ColAUM,
	ColNNMY1, ColNNMY2, ColNNMY3,
	ColRevenueY1, ColRevenueY2, ColRevenueY3,
	ColTotalRevenue, ColProfitMargin, ColTotalProfit,
	ColScore, ColVerdictNotes,
}

// Record is one flat submission: column name → value (string, int or float64).
type Record map[string]any

// timestampLayout matches the format already present in the shared sheet.
const timestampLayout = "2006-01-02 15:04:05"

// NewRecord assembles the full persisted record from the candidate, its
// projection, and the scoring outcome.
func NewRecord(c Candidate, p Projection, score int, verdictNotes string, now time.Time) Record {
	return Record{
		ColTimestamp:    now.Format(timestampLayout),
		ColName:         c.Name,
		ColEmail:        c.Email,
		ColRole:         c.Role,
		ColLocation:     c.Location,
		ColEmployer:     c.Employer,
		ColMarket:       c.Market,
		ColCurrency:     c.Currency,
		ColBaseSalary:   c.BaseSalary,
		ColLastBonus:    c.LastBonus,
		ColNumClients:   c.NumClients,
		ColAUM:          c.AUMMillions,
		ColNNMY1:        c.NNM[0],
		ColNNMY2:        c.NNM[1],
		ColNNMY3:        c.NNM[2],
		ColRevenueY1:    p.Years[0].GrossRevenue,
		ColRevenueY2:    p.Years[1].GrossRevenue,
		ColRevenueY3:    p.Years[2].GrossRevenue,
		ColTotalRevenue: p.TotalRevenue,
		ColProfitMargin: p.ProfitMarginPct,
		ColTotalProfit:  p.TotalNet,
		ColScore:        score,
		ColVerdictNotes: verdictNotes,
	}
}

// RowValues returns the record's values ordered by header. Columns absent
// from the record become empty strings.
func (r Record) RowValues(header []string) []any {
	row := make([]any, len(header))
	for i, col := range header {
		if v, ok := r[col]; ok {
			row[i] = v
		} else {
			row[i] = ""
		}
	}
	return row
}
