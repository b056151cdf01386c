package scoring

import (
	"fmt"
	"math"

	"github.com/execpartners/bpsim/internal/plan"
)

// Verdict labels returned alongside the numeric score.
const (
	VerdictStrong = "Strong Candidate"
	VerdictMedium = "Medium Potential"
	VerdictWeak   = "Weak Candidate"
)

// Thresholds that map a total score to a verdict tier.
const (
	ThresholdStrong = 7
	ThresholdMedium = 4
)

// Point thresholds used by the individual criteria.
const (
	hunterBaseSalary = 200_000
	hunterBonus      = 100_000
	lowBaseSalary    = 150_000
	lowBonus         = 50_000
	maxClientLoad    = 80
	excellentROA     = 1.0
	acceptableROA    = 0.8
)

// consistencyEpsilon keeps the tolerance denominator nonzero when the
// declared Year-1 NNM is 0 but prospects are not.
const consistencyEpsilon = 1e-9

// Target client segments for AUM bar selection.
const (
	SegmentHNWI  = "HNWI"
	SegmentUHNWI = "UHNWI"
)

// Config holds the tunable scoring thresholds. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// DefaultAUMThresholdM is the AUM bar in M CHF applied to markets without
	// an explicit entry in MarketAUMThresholdsM.
	DefaultAUMThresholdM float64 `yaml:"default_aum_threshold_m"`

	// MarketAUMThresholdsM overrides the AUM bar per market name.
	MarketAUMThresholdsM map[string]float64 `yaml:"market_aum_thresholds_m"`

	// SegmentThresholdsM maps a target client segment (HNWI, UHNWI) to its
	// AUM bar in M CHF. Consulted only when TargetSegment is set.
	SegmentThresholdsM map[string]float64 `yaml:"segment_thresholds_m"`

	// TargetSegment selects the segment whose bar overrides both the market
	// override and the default. Empty disables segment targeting.
	TargetSegment string `yaml:"target_segment"`

	// CHOnshoreTargetM is the stricter CH Onshore target; meeting it is
	// called out explicitly in the positives.
	CHOnshoreTargetM float64 `yaml:"ch_onshore_target_m"`

	// TolerancePct is the allowed deviation between the prospects' best-case
	// NNM sum and the declared Year-1 NNM, as a percentage of the latter.
	TolerancePct float64 `yaml:"tolerance_pct"`
}

// DefaultConfig returns the scoring thresholds used when none are configured.
func DefaultConfig() Config {
	return Config{
		DefaultAUMThresholdM: 200,
		SegmentThresholdsM: map[string]float64{
			SegmentHNWI:  200,
			SegmentUHNWI: 300,
		},
		CHOnshoreTargetM: 250,
		TolerancePct:     10,
	}
}

// AUMThreshold returns the AUM bar in M CHF for the given market. A selected
// target segment takes precedence over the market override; an unknown
// segment falls through to the market rules.
func (c Config) AUMThreshold(market string) float64 {
	if c.TargetSegment != "" {
		if t, ok := c.SegmentThresholdsM[c.TargetSegment]; ok {
			return t
		}
	}
	if t, ok := c.MarketAUMThresholdsM[market]; ok {
		return t
	}
	return c.DefaultAUMThresholdM
}

// Result is the outcome of one evaluation. Message lists preserve criterion
// order; each criterion contributes to at most one list.
type Result struct {
	Score     int
	Verdict   string
	Positives []string
	Negatives []string
	Flags     []string
}

// category classifies a criterion's message.
type category int

const (
	positive category = iota
	negative
	flag
)

// finding is one criterion's contribution: a point delta and one message.
type finding struct {
	delta int
	cat   category
	msg   string
}

// input is the derived view of the candidate the criteria evaluate.
type input struct {
	years   int
	market  string
	aum     float64
	base    float64
	bonus   float64
	avgROA  float64
	clients int
	nnmY1   float64
	bestSum float64
}

// criterion evaluates one independent scoring rule.
type criterion func(in input, cfg Config) finding

// criteria is the ordered rule set. Order is part of the contract: the
// reasons lists follow it.
var criteria = []criterion{
	experience,
	assetsUnderManagement,
	compensation,
	averageROA,
	clientLoad,
	prospectConsistency,
}

// Evaluate scores the candidate against the configured thresholds.
func Evaluate(c plan.Candidate, prospects plan.ProspectList, cfg Config) Result {
	in := input{
		years:   c.YearsExperience,
		market:  c.Market,
		aum:     c.AUMMillions,
		base:    c.BaseSalary,
		bonus:   c.LastBonus,
		avgROA:  c.AvgROA(),
		clients: c.NumClients,
		nnmY1:   c.NNM[0],
		bestSum: prospects.BestSum(),
	}

	var res Result
	for _, crit := range criteria {
		f := crit(in, cfg)
		res.Score += f.delta
		switch f.cat {
		case positive:
			res.Positives = append(res.Positives, f.msg)
		case negative:
			res.Negatives = append(res.Negatives, f.msg)
		case flag:
			res.Flags = append(res.Flags, f.msg)
		}
	}
	res.Verdict = verdictFromScore(res.Score)
	return res
}

// verdictFromScore maps a total score to its verdict tier.
func verdictFromScore(score int) string {
	switch {
	case score >= ThresholdStrong:
		return VerdictStrong
	case score >= ThresholdMedium:
		return VerdictMedium
	default:
		return VerdictWeak
	}
}

// --- criteria ---------------------------------------------------------------

func experience(in input, _ Config) finding {
	switch {
	case in.years >= 7:
		return finding{2, positive, "Experience ≥7 years in market"}
	case in.years >= 6:
		return finding{1, positive, "Experience 6 years"}
	default:
		return finding{0, negative, "Experience <6 years"}
	}
}

func assetsUnderManagement(in input, cfg Config) finding {
	threshold := cfg.AUMThreshold(in.market)
	if in.aum >= threshold {
		if in.market == "CH Onshore" && in.aum >= cfg.CHOnshoreTargetM {
			return finding{2, positive, fmt.Sprintf("AUM meets CH %.0fM target", cfg.CHOnshoreTargetM)}
		}
		return finding{2, positive, fmt.Sprintf("AUM ≥ %.0fM", threshold)}
	}
	shortfall := math.Max(0, threshold-in.aum)
	return finding{0, negative, fmt.Sprintf("AUM shortfall: %.0fM", shortfall)}
}

func compensation(in input, _ Config) finding {
	switch {
	case in.base > hunterBaseSalary && in.bonus > hunterBonus:
		return finding{2, positive, "Comp indicates hunter profile"}
	case in.base <= lowBaseSalary && in.bonus <= lowBonus:
		return finding{-1, negative, "Low comp indicates inherited/low portability"}
	default:
		return finding{0, flag, "Comp neutral – clarify origin of book"}
	}
}

func averageROA(in input, _ Config) finding {
	switch {
	case in.avgROA >= excellentROA:
		return finding{2, positive, fmt.Sprintf("Avg ROA %.2f%% (excellent)", in.avgROA)}
	case in.avgROA >= acceptableROA:
		return finding{1, positive, fmt.Sprintf("Avg ROA %.2f%% (acceptable)", in.avgROA)}
	default:
		return finding{0, negative, fmt.Sprintf("Avg ROA %.2f%% is low", in.avgROA)}
	}
}

func clientLoad(in input, _ Config) finding {
	switch {
	case in.clients == 0:
		return finding{0, flag, "Clients not provided"}
	case in.clients > maxClientLoad:
		return finding{0, negative, fmt.Sprintf("High client count (%d) – likely lower segment", in.clients)}
	default:
		return finding{1, positive, fmt.Sprintf("Client load appropriate (≤%d)", maxClientLoad)}
	}
}

func prospectConsistency(in input, cfg Config) finding {
	if in.nnmY1 == 0 && in.bestSum == 0 {
		return finding{0, flag, "Prospects & NNM Y1 both zero"}
	}
	tol := cfg.TolerancePct / 100
	if math.Abs(in.bestSum-in.nnmY1) <= tol*math.Max(in.nnmY1, consistencyEpsilon) {
		return finding{1, positive, fmt.Sprintf("Prospects Best NNM %.1fM ≈ NNM Y1 %.1fM", in.bestSum, in.nnmY1)}
	}
	return finding{0, negative, fmt.Sprintf("Prospects %.1fM vs NNM Y1 %.1fM (> %.0f%% dev)", in.bestSum, in.nnmY1, cfg.TolerancePct)}
}
