package signature

import (
	"testing"
	"time"

	"github.com/execpartners/bpsim/internal/plan"
)

func record(t *testing.T) plan.Record {
	t.Helper()
	c := plan.Candidate{
		Name:        "Jane Smith",
		Email:       "jane@bank.com",
		Market:      "CH Onshore",
		Location:    "Zurich",
		BaseSalary:  250_000,
		LastBonus:   150_000,
		AUMMillions: 260,
		NNM:         [plan.Years]float64{10, 12, 14},
		ROA:         [plan.Years]float64{1.2, 1.1, 1.0},
	}
	return plan.NewRecord(c, plan.Project(c), 10, "Strong Candidate",
		time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC))
}

func TestCompute_Deterministic(t *testing.T) {
	a, b := record(t), record(t)
	if Compute(a) != Compute(b) {
		t.Error("identical records produced different signatures")
	}
	if len(Compute(a)) != 64 {
		t.Errorf("signature length: got %d, want 64 hex chars", len(Compute(a)))
	}
}

func TestCompute_IgnoresTimestampAndNotes(t *testing.T) {
	a, b := record(t), record(t)
	b[plan.ColTimestamp] = "2030-01-01 00:00:00"
	b[plan.ColVerdictNotes] = "totally different notes"
	b[plan.ColScore] = 0

	if Compute(a) != Compute(b) {
		t.Error("timestamp/notes/score change altered the signature")
	}
}

func TestCompute_FloatNoiseBelowMicro(t *testing.T) {
	a, b := record(t), record(t)
	b[plan.ColAUM] = 260.0000004 // below the 1e-6 rounding grain

	if Compute(a) != Compute(b) {
		t.Error("sub-microscopic float noise altered the signature")
	}

	b[plan.ColAUM] = 260.1
	if Compute(a) == Compute(b) {
		t.Error("a real value change did not alter the signature")
	}
}

func TestCompute_SubstantiveChangesDiffer(t *testing.T) {
	base := Compute(record(t))
	for _, col := range []string{plan.ColEmail, plan.ColEmployer, plan.ColNNMY2, plan.ColBaseSalary} {
		r := record(t)
		switch r[col].(type) {
		case string:
			r[col] = "changed"
		default:
			r[col] = 99999.0
		}
		if Compute(r) == base {
			t.Errorf("changing %q did not alter the signature", col)
		}
	}
}

func TestCompute_NumericStringCanonicalization(t *testing.T) {
	// A numeric value arriving as a string must digest like the number.
	a, b := record(t), record(t)
	a[plan.ColBaseSalary] = 250000.0
	b[plan.ColBaseSalary] = "250000"
	if Compute(a) != Compute(b) {
		t.Error("numeric string and number produced different signatures")
	}
}

func TestCompute_MissingFieldsDefaultEmpty(t *testing.T) {
	a := plan.Record{plan.ColName: "Jane"}
	b := plan.Record{plan.ColName: "Jane", plan.ColEmployer: ""}
	if Compute(a) != Compute(b) {
		t.Error("absent field and empty string produced different signatures")
	}
}

func TestCoreFingerprint_TracksCoreOnly(t *testing.T) {
	a, b := record(t), record(t)
	b[plan.ColEmployer] = "another bank" // not a core field
	if CoreFingerprint(a) != CoreFingerprint(b) {
		t.Error("non-core change altered the core fingerprint")
	}

	b[plan.ColNNMY1] = 55.0
	if CoreFingerprint(a) == CoreFingerprint(b) {
		t.Error("core NNM change did not alter the core fingerprint")
	}
}
