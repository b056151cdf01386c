package signature

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"strconv"

	"github.com/execpartners/bpsim/internal/plan"
)

// Fields is the ordered set of record columns covered by the signature.
// Timestamp, Score and AI Evaluation Notes are excluded on purpose: they vary
// between attempts without the submission itself changing.
var Fields = []string{
	plan.ColName, plan.ColEmail, plan.ColRole, plan.ColLocation,
	plan.ColEmployer, plan.ColMarket, plan.ColCurrency,
	plan.ColBaseSalary, plan.ColLastBonus,
	plan.ColNumClients, plan.ColAUM,
	plan.ColNNMY1, plan.ColNNMY2, plan.ColNNMY3,
	plan.ColRevenueY1, plan.ColRevenueY2, plan.ColRevenueY3,
	plan.ColTotalRevenue, plan.ColProfitMargin, plan.ColTotalProfit,
}

// coreFields is the identity/financial subset whose change triggers an
// auto-save when the save mode is "always".
var coreFields = []string{
	plan.ColEmail,
	plan.ColNNMY1, plan.ColNNMY2, plan.ColNNMY3,
	plan.ColAUM, plan.ColBaseSalary,
}

// Compute returns the hex SHA-256 signature of the record's signature fields.
func Compute(rec plan.Record) string {
	return digest(rec, Fields)
}

// CoreFingerprint returns the digest of the identity/financial core fields.
func CoreFingerprint(rec plan.Record) string {
	return digest(rec, coreFields)
}

func digest(rec plan.Record, fields []string) string {
	payload := make(map[string]any, len(fields))
	for _, f := range fields {
		payload[f] = canonicalize(rec[f])
	}
	// json.Marshal sorts map keys and emits no insignificant whitespace, so
	// the byte string is deterministic regardless of input field order.
	raw, err := json.Marshal(payload)
	if err != nil {
		// Only reachable with non-serializable values, which Record never
		// holds; fall back to an empty payload rather than failing the save.
		raw = []byte("{}")
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// canonicalize rounds every numeric value (including numeric strings) to
// 6 decimal places so float jitter below 1e-6 cannot produce a different
// signature. Missing values become empty strings.
func canonicalize(v any) any {
	switch n := v.(type) {
	case nil:
		return ""
	case float64:
		return round6(n)
	case float32:
		return round6(float64(n))
	case int:
		return round6(float64(n))
	case int32:
		return round6(float64(n))
	case int64:
		return round6(float64(n))
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return round6(f)
		}
		return n
	default:
		return v
	}
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
