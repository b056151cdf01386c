package scoring

import (
	"strings"
	"testing"

	"github.com/execpartners/bpsim/internal/plan"
)

// strongCandidate returns inputs that pass every criterion.
func strongCandidate() (plan.Candidate, plan.ProspectList) {
	c := plan.Candidate{
		Market:          "CH Onshore",
		YearsExperience: 7,
		AUMMillions:     260,
		BaseSalary:      250_000,
		LastBonus:       150_000,
		NumClients:      40,
		NNM:             [plan.Years]float64{10, 12, 14},
		ROA:             [plan.Years]float64{1.2, 1.1, 1.0},
	}
	pros := plan.ProspectList{
		{Name: "A", Source: plan.SourceSelfAcquired, BestNNM: 6},
		{Name: "B", Source: plan.SourceFinder, BestNNM: 4.5},
	}
	return c, pros
}

func TestEvaluate_EndToEndStrong(t *testing.T) {
	c, pros := strongCandidate()
	res := Evaluate(c, pros, DefaultConfig())

	// 2 (experience) + 2 (AUM) + 2 (comp) + 2 (ROA) + 1 (clients) + 1 (consistency)
	if res.Score != 10 {
		t.Errorf("Score: got %d, want 10 (positives: %v)", res.Score, res.Positives)
	}
	if res.Verdict != VerdictStrong {
		t.Errorf("Verdict: got %q, want %q", res.Verdict, VerdictStrong)
	}
	if len(res.Positives) != 6 || len(res.Negatives) != 0 || len(res.Flags) != 0 {
		t.Errorf("categories: pos=%d neg=%d flags=%d, want 6/0/0",
			len(res.Positives), len(res.Negatives), len(res.Flags))
	}
	// CH Onshore at 260M cites the CH target, not the generic threshold.
	if !strings.Contains(res.Positives[1], "CH 250M target") {
		t.Errorf("AUM positive: got %q, want CH target mention", res.Positives[1])
	}
}

func TestEvaluate_ZeroValueIsTotal(t *testing.T) {
	// A completely empty candidate must evaluate without panicking.
	res := Evaluate(plan.Candidate{}, nil, DefaultConfig())
	if res.Verdict != VerdictWeak {
		t.Errorf("Verdict: got %q, want %q", res.Verdict, VerdictWeak)
	}
	// Experience, AUM, ROA negatives; comp low-portability negative (-1);
	// clients and consistency flags.
	if res.Score != -1 {
		t.Errorf("Score: got %d, want -1", res.Score)
	}
	if len(res.Flags) != 2 {
		t.Errorf("Flags: got %v, want 2 entries", res.Flags)
	}
}

func TestExperience(t *testing.T) {
	tests := []struct {
		years     int
		wantDelta int
		wantCat   category
	}{
		{0, 0, negative},
		{5, 0, negative},
		{6, 1, positive},
		{7, 2, positive},
		{25, 2, positive},
	}
	for _, tc := range tests {
		f := experience(input{years: tc.years}, DefaultConfig())
		if f.delta != tc.wantDelta || f.cat != tc.wantCat {
			t.Errorf("experience(%d): got (%d, %v), want (%d, %v)",
				tc.years, f.delta, f.cat, tc.wantDelta, tc.wantCat)
		}
	}
}

func TestAUM_Boundary(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name      string
		market    string
		aum       float64
		wantDelta int
	}{
		{"exactly at threshold", "UK", 200, 2},
		{"one unit below", "UK", 199, 0},
		{"well above", "MEA", 500, 2},
		{"zero", "UK", 0, 0},
		{"ch onshore above target", "CH Onshore", 250, 2},
		{"ch onshore between bar and target", "CH Onshore", 210, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := assetsUnderManagement(input{market: tc.market, aum: tc.aum}, cfg)
			if f.delta != tc.wantDelta {
				t.Errorf("delta: got %d, want %d (%s)", f.delta, tc.wantDelta, f.msg)
			}
		})
	}
}

func TestAUM_MarketOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MarketAUMThresholdsM = map[string]float64{"LATAM": 100}

	if f := assetsUnderManagement(input{market: "LATAM", aum: 120}, cfg); f.delta != 2 {
		t.Errorf("LATAM 120M vs 100M bar: got delta %d, want 2", f.delta)
	}
	if f := assetsUnderManagement(input{market: "UK", aum: 120}, cfg); f.delta != 0 {
		t.Errorf("UK 120M vs default 200M bar: got delta %d, want 0", f.delta)
	}
}

func TestAUM_SegmentTargeting(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MarketAUMThresholdsM = map[string]float64{"UK": 100}

	// UHNWI raises the bar to 300M for every market, including overridden ones.
	cfg.TargetSegment = SegmentUHNWI
	if got := cfg.AUMThreshold("UK"); got != 300 {
		t.Errorf("UHNWI bar for UK: got %v, want 300", got)
	}
	if f := assetsUnderManagement(input{market: "UK", aum: 260}, cfg); f.delta != 0 {
		t.Errorf("260M vs UHNWI 300M bar: got delta %d, want 0 (%s)", f.delta, f.msg)
	}

	// HNWI keeps the 200M bar.
	cfg.TargetSegment = SegmentHNWI
	if f := assetsUnderManagement(input{market: "MEA", aum: 260}, cfg); f.delta != 2 {
		t.Errorf("260M vs HNWI 200M bar: got delta %d, want 2", f.delta)
	}

	// An unknown segment falls through to the market override.
	cfg.TargetSegment = "Affluent"
	if got := cfg.AUMThreshold("UK"); got != 100 {
		t.Errorf("unknown segment for UK: got %v, want market override 100", got)
	}

	// No segment selected — market rules apply unchanged.
	cfg.TargetSegment = ""
	if got := cfg.AUMThreshold("MEA"); got != 200 {
		t.Errorf("no segment for MEA: got %v, want default 200", got)
	}
}

func TestAUM_ShortfallMessage(t *testing.T) {
	f := assetsUnderManagement(input{market: "UK", aum: 150}, DefaultConfig())
	if f.cat != negative || !strings.Contains(f.msg, "50M") {
		t.Errorf("shortfall: got %+v, want negative mentioning 50M", f)
	}
}

func TestCompensation(t *testing.T) {
	tests := []struct {
		name      string
		base      float64
		bonus     float64
		wantDelta int
		wantCat   category
	}{
		{"hunter", 250_000, 150_000, 2, positive},
		{"hunter boundary excluded", 200_000, 100_000, 0, flag},
		{"low portability", 150_000, 50_000, -1, negative},
		{"neutral", 180_000, 80_000, 0, flag},
		{"high base low bonus", 300_000, 10_000, 0, flag},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := compensation(input{base: tc.base, bonus: tc.bonus}, DefaultConfig())
			if f.delta != tc.wantDelta || f.cat != tc.wantCat {
				t.Errorf("got (%d, %v), want (%d, %v)", f.delta, f.cat, tc.wantDelta, tc.wantCat)
			}
		})
	}
}

func TestAverageROA(t *testing.T) {
	tests := []struct {
		roa       float64
		wantDelta int
		wantCat   category
	}{
		{1.2, 2, positive},
		{1.0, 2, positive},
		{0.9, 1, positive},
		{0.8, 1, positive},
		{0.79, 0, negative},
		{0, 0, negative},
	}
	for _, tc := range tests {
		f := averageROA(input{avgROA: tc.roa}, DefaultConfig())
		if f.delta != tc.wantDelta || f.cat != tc.wantCat {
			t.Errorf("averageROA(%.2f): got (%d, %v), want (%d, %v)",
				tc.roa, f.delta, f.cat, tc.wantDelta, tc.wantCat)
		}
	}
}

func TestClientLoad(t *testing.T) {
	tests := []struct {
		clients   int
		wantDelta int
		wantCat   category
	}{
		{0, 0, flag},
		{1, 1, positive},
		{80, 1, positive},
		{81, 0, negative},
		{500, 0, negative},
	}
	for _, tc := range tests {
		f := clientLoad(input{clients: tc.clients}, DefaultConfig())
		if f.delta != tc.wantDelta || f.cat != tc.wantCat {
			t.Errorf("clientLoad(%d): got (%d, %v), want (%d, %v)",
				tc.clients, f.delta, f.cat, tc.wantDelta, tc.wantCat)
		}
	}
}

func TestProspectConsistency(t *testing.T) {
	cfg := DefaultConfig() // 10% tolerance
	tests := []struct {
		name      string
		nnmY1     float64
		bestSum   float64
		wantDelta int
		wantCat   category
	}{
		{"both zero", 0, 0, 0, flag},
		{"within tolerance", 10, 10.5, 1, positive},
		{"exactly at tolerance", 10, 11, 1, positive},
		{"just outside", 10, 11.01, 0, negative},
		{"zero nnm nonzero prospects", 0, 5, 0, negative},
		{"exact match", 7, 7, 1, positive},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := prospectConsistency(input{nnmY1: tc.nnmY1, bestSum: tc.bestSum}, cfg)
			if f.delta != tc.wantDelta || f.cat != tc.wantCat {
				t.Errorf("got (%d, %v, %q), want (%d, %v)",
					f.delta, f.cat, f.msg, tc.wantDelta, tc.wantCat)
			}
		})
	}
}

func TestVerdictTiers(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{10, VerdictStrong},
		{7, VerdictStrong},
		{6, VerdictMedium},
		{4, VerdictMedium},
		{3, VerdictWeak},
		{0, VerdictWeak},
		{-1, VerdictWeak},
	}
	for _, tc := range tests {
		if got := verdictFromScore(tc.score); got != tc.want {
			t.Errorf("verdictFromScore(%d): got %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestEvaluate_OneCategoryPerCriterion(t *testing.T) {
	// Six criteria → the three lists together always hold six messages.
	cases := []plan.Candidate{
		{},
		{YearsExperience: 6, AUMMillions: 300, NumClients: 90},
		{BaseSalary: 180_000, LastBonus: 80_000, NNM: [plan.Years]float64{5, 0, 0}},
	}
	for i, c := range cases {
		res := Evaluate(c, nil, DefaultConfig())
		total := len(res.Positives) + len(res.Negatives) + len(res.Flags)
		if total != len(criteria) {
			t.Errorf("case %d: got %d messages, want %d", i, total, len(criteria))
		}
	}
}
