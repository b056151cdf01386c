package api

import (
	"github.com/execpartners/bpsim/internal/plan"
	"github.com/execpartners/bpsim/internal/scoring"
)

// CandidateRequest is the JSON shape of the candidate form. It maps 1:1 onto
// plan.Candidate; absent fields stay at their zero values.
type CandidateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Location string `json:"location"`
	Employer string `json:"employer"`
	Market   string `json:"market"`
	Currency string `json:"currency"`

	YearsExperience  int `json:"years_experience"`
	InheritedBookPct int `json:"inherited_book_pct"`

	BaseSalary float64 `json:"base_salary"`
	LastBonus  float64 `json:"last_bonus"`

	NumClients  int     `json:"num_clients"`
	AUMMillions float64 `json:"aum_m"`

	NNM              [plan.Years]float64 `json:"nnm_m"`
	ROA              [plan.Years]float64 `json:"roa_pct"`
	ProjectedClients [plan.Years]int     `json:"projected_clients"`
}

// Candidate converts the request into the domain type, clamping negative
// numeric inputs.
func (r CandidateRequest) Candidate() plan.Candidate {
	return plan.Candidate{
		Name:             r.Name,
		Email:            r.Email,
		Role:             r.Role,
		Location:         r.Location,
		Employer:         r.Employer,
		Market:           r.Market,
		Currency:         r.Currency,
		YearsExperience:  r.YearsExperience,
		InheritedBookPct: r.InheritedBookPct,
		BaseSalary:       r.BaseSalary,
		LastBonus:        r.LastBonus,
		NumClients:       r.NumClients,
		AUMMillions:      r.AUMMillions,
		NNM:              r.NNM,
		ROA:              r.ROA,
		ProjectedClients: r.ProjectedClients,
	}.Sanitize()
}

// toCandidateRequest is the inverse mapping, used when echoing session state.
func toCandidateRequest(c plan.Candidate) CandidateRequest {
	return CandidateRequest{
		Name:             c.Name,
		Email:            c.Email,
		Role:             c.Role,
		Location:         c.Location,
		Employer:         c.Employer,
		Market:           c.Market,
		Currency:         c.Currency,
		YearsExperience:  c.YearsExperience,
		InheritedBookPct: c.InheritedBookPct,
		BaseSalary:       c.BaseSalary,
		LastBonus:        c.LastBonus,
		NumClients:       c.NumClients,
		AUMMillions:      c.AUMMillions,
		NNM:              c.NNM,
		ROA:              c.ROA,
		ProjectedClients: c.ProjectedClients,
	}
}

// YearRow is one row of the revenue/cost/margin table in JSON responses.
type YearRow struct {
	Year         string  `json:"year"`
	GrossRevenue float64 `json:"gross_revenue_chf"`
	FixedCost    float64 `json:"fixed_cost_chf"`
	NetMargin    float64 `json:"net_margin_chf"`
}

// ProjectionResponse is the derived three-year financial picture.
type ProjectionResponse struct {
	Rows            []YearRow `json:"rows"`
	TotalRevenue    float64   `json:"total_revenue_chf"`
	TotalCost       float64   `json:"total_cost_chf"`
	TotalNet        float64   `json:"total_net_chf"`
	ProfitMarginPct float64   `json:"profit_margin_pct"`
}

// EvaluationResponse is the payload for POST /api/v1/evaluate and the
// evaluation part of PUT /api/v1/candidate.
type EvaluationResponse struct {
	Score      int                `json:"score"`
	Verdict    string             `json:"verdict"`
	Positives  []string           `json:"positives"`
	Negatives  []string           `json:"negatives"`
	Flags      []string           `json:"flags"`
	Projection ProjectionResponse `json:"projection"`
}

// CandidateUpdateResponse is the payload for PUT /api/v1/candidate.
type CandidateUpdateResponse struct {
	Evaluation EvaluationResponse `json:"evaluation"`
	AutoSave   *SaveResponse      `json:"auto_save,omitempty"`
}

// SaveResponse is the payload for POST /api/v1/save and the save part of
// the report and candidate-update responses.
type SaveResponse struct {
	Status    string   `json:"status"`
	Trigger   string   `json:"trigger"`
	Signature string   `json:"signature,omitempty"`
	Missing   []string `json:"missing,omitempty"`
	Message   string   `json:"message"`
}

// ProspectsResponse is the payload for GET /api/v1/prospects.
type ProspectsResponse struct {
	Prospects []plan.Prospect `json:"prospects"`
	Total     plan.Prospect   `json:"total"`
}

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status         string `json:"status"`
	SheetConnected bool   `json:"sheet_connected"`
	SaveMode       string `json:"save_mode"`
	SessionCount   int    `json:"session_count"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

func toProjectionResponse(p plan.Projection) ProjectionResponse {
	rows := make([]YearRow, 0, plan.Years+1)
	for _, r := range p.Rows() {
		rows = append(rows, YearRow{
			Year:         r.Year,
			GrossRevenue: r.GrossRevenue,
			FixedCost:    r.FixedCost,
			NetMargin:    r.NetMargin,
		})
	}
	return ProjectionResponse{
		Rows:            rows,
		TotalRevenue:    p.TotalRevenue,
		TotalCost:       p.TotalCost,
		TotalNet:        p.TotalNet,
		ProfitMarginPct: p.ProfitMarginPct,
	}
}

func toEvaluationResponse(res scoring.Result, p plan.Projection) EvaluationResponse {
	return EvaluationResponse{
		Score:      res.Score,
		Verdict:    res.Verdict,
		Positives:  emptyNotNil(res.Positives),
		Negatives:  emptyNotNil(res.Negatives),
		Flags:      emptyNotNil(res.Flags),
		Projection: toProjectionResponse(p),
	}
}

// emptyNotNil keeps reason lists as [] rather than null in JSON.
func emptyNotNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
