package api

import (
	"fmt"
	"net/http"

	"github.com/execpartners/bpsim/internal/save"
	"github.com/execpartners/bpsim/internal/scoring"
	"github.com/execpartners/bpsim/internal/sheet"
)

// DiagnosticHint is one human-readable insight about the current submission.
// The UI displays these as chips next to the evaluation panel.
type DiagnosticHint struct {
	// Key is a stable machine-readable identifier (used for dedup/ordering).
	Key string `json:"key"`
	// Level is "ok" | "info" | "warning" | "critical".
	Level string `json:"level"`
	// Title is a short label shown on the chip.
	Title string `json:"title"`
	// Detail is the full explanation shown on click/hover.
	Detail string `json:"detail"`
}

// DiagnosticsResponse is the payload for GET /api/v1/diagnostics.
type DiagnosticsResponse struct {
	Sheet    *sheet.Info      `json:"sheet,omitempty"`
	SaveMode string           `json:"save_mode"`
	Hints    []DiagnosticHint `json:"hints"`
}

// diagnostics returns GET /api/v1/diagnostics — connection details plus
// hints derived from the session's current evaluation and save state.
func (h *Handler) diagnostics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sess := h.session(r)

	h.mu.Lock()
	res := scoring.Evaluate(sess.Candidate, sess.Prospects, h.scoringConfig())
	missing := save.MissingFields(sess.Candidate)
	saved := sess.LastSignature != ""
	h.mu.Unlock()

	resp := DiagnosticsResponse{
		Sheet:    h.sheetInfo,
		SaveMode: string(h.saver.Mode()),
		Hints:    computeHints(res, missing, saved, h.sheetInfo != nil),
	}
	jsonResp(w, http.StatusOK, resp)
}

// computeHints derives diagnostic hints: critical first, then warnings,
// then info.
func computeHints(res scoring.Result, missing []string, saved, connected bool) []DiagnosticHint {
	var hints []DiagnosticHint

	if !connected {
		hints = append(hints, DiagnosticHint{
			Key:   "store_offline",
			Level: "critical",
			Title: "Store offline",
			Detail: "No spreadsheet connection is configured or the connection failed at startup. " +
				"Scoring and reports still work, but nothing will be persisted. " +
				"Check the credentials and spreadsheet id in the configuration.",
		})
	}

	if len(missing) > 0 {
		detail := "This submission cannot be saved until the following are provided: "
		for i, m := range missing {
			if i > 0 {
				detail += ", "
			}
			detail += m
		}
		detail += ". Saving is blocked before any signature or append is attempted."
		hints = append(hints, DiagnosticHint{
			Key:    "not_savable",
			Level:  "warning",
			Title:  "Missing required fields",
			Detail: detail,
		})
	}

	for i, f := range res.Flags {
		hints = append(hints, DiagnosticHint{
			Key:    fmt.Sprintf("flag_%d", i),
			Level:  "warning",
			Title:  "Needs clarification",
			Detail: f,
		})
	}
	for i, n := range res.Negatives {
		hints = append(hints, DiagnosticHint{
			Key:    fmt.Sprintf("negative_%d", i),
			Level:  "info",
			Title:  "Weak point",
			Detail: n,
		})
	}

	if saved {
		hints = append(hints, DiagnosticHint{
			Key:   "already_saved",
			Level: "info",
			Title: "Saved this session",
			Detail: "The current state has already been appended to the spreadsheet. " +
				"Submitting again without changing any field will be suppressed as a duplicate.",
		})
	}

	if len(hints) == 0 {
		hints = append(hints, DiagnosticHint{
			Key:   "all_clear",
			Level: "ok",
			Title: "All clear",
			Detail: fmt.Sprintf(
				"The submission scores %d (%s) with no open flags, and all required fields are present. "+
					"It is ready to save or to hand over as a PDF report.",
				res.Score, res.Verdict,
			),
		})
	}

	return hints
}
