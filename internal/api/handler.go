package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/execpartners/bpsim/internal/plan"
	"github.com/execpartners/bpsim/internal/report"
	"github.com/execpartners/bpsim/internal/save"
	"github.com/execpartners/bpsim/internal/scoring"
	"github.com/execpartners/bpsim/internal/session"
	"github.com/execpartners/bpsim/internal/sheet"
)

// SessionHeader carries the caller's session ID. Requests without it share
// the "default" session.
const SessionHeader = "X-Session-ID"

// maxBodyBytes caps request bodies; the largest legitimate payload is a
// prospect CSV import.
const maxBodyBytes = 1 << 20

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	sessions  *session.Store
	saver     *save.Saver
	reports   *report.Builder
	sheetInfo *sheet.Info // nil when the external store is offline

	// mu serializes session mutation; sessions themselves are not
	// concurrency-safe.
	mu sync.Mutex

	cfgMu sync.RWMutex
	cfg   scoring.Config

	now func() time.Time
	mux *http.ServeMux
}

// New creates a Handler and registers all routes. sheetInfo may be nil when
// no spreadsheet connection is available.
func New(sessions *session.Store, sv *save.Saver, rb *report.Builder, cfg scoring.Config, sheetInfo *sheet.Info) *Handler {
	h := &Handler{
		sessions:  sessions,
		saver:     sv,
		reports:   rb,
		sheetInfo: sheetInfo,
		cfg:       cfg,
		now:       time.Now,
		mux:       http.NewServeMux(),
	}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/diagnostics", h.diagnostics)
	h.mux.HandleFunc("/api/v1/candidate", h.candidate)
	h.mux.HandleFunc("/api/v1/evaluate", h.evaluate)
	h.mux.HandleFunc("/api/v1/prospects", h.prospects)
	h.mux.HandleFunc("/api/v1/prospects/import", h.importProspects)
	h.mux.HandleFunc("/api/v1/prospects/", h.prospectByIndex) // subtree — extracts {index}
	h.mux.HandleFunc("/api/v1/save", h.saveRecord)
	h.mux.HandleFunc("/api/v1/report", h.generateReport)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	h.mux.ServeHTTP(w, r)
}

// SetScoringConfig swaps the active scoring thresholds. Safe to call while
// requests are in flight; used by the config hot-reload watcher.
func (h *Handler) SetScoringConfig(cfg scoring.Config) {
	h.cfgMu.Lock()
	h.cfg = cfg
	h.cfgMu.Unlock()
}

func (h *Handler) scoringConfig() scoring.Config {
	h.cfgMu.RLock()
	defer h.cfgMu.RUnlock()
	return h.cfg
}

// Snapshot returns the live evaluation state for one session, or false when
// the session does not exist. Used by the WebSocket hub.
func (h *Handler) Snapshot(sessionID string) (any, bool) {
	sess, ok := h.sessions.Lookup(sessionID)
	if !ok {
		return nil, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	res := scoring.Evaluate(sess.Candidate, sess.Prospects, h.scoringConfig())
	return toEvaluationResponse(res, plan.Project(sess.Candidate)), true
}

// session resolves the request's session, creating it on first use.
func (h *Handler) session(r *http.Request) *session.Session {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		id = "default"
	}
	return h.sessions.Get(id)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health — store connectivity and session count.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:         "ok",
		SheetConnected: h.sheetInfo != nil,
		SaveMode:       string(h.saver.Mode()),
		SessionCount:   h.sessions.Count(),
	})
}

// candidate serves GET/PUT /api/v1/candidate. PUT replaces the session's
// candidate, re-evaluates, and runs the change-triggered auto-save.
func (h *Handler) candidate(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sess := h.session(r)
		h.mu.Lock()
		c := sess.Candidate
		h.mu.Unlock()
		jsonResp(w, http.StatusOK, toCandidateRequest(c))

	case http.MethodPut:
		var req CandidateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonErr(w, http.StatusBadRequest, "invalid candidate payload: "+err.Error())
			return
		}
		sess := h.session(r)

		h.mu.Lock()
		defer h.mu.Unlock()
		sess.Candidate = req.Candidate()

		res := scoring.Evaluate(sess.Candidate, sess.Prospects, h.scoringConfig())
		sess.LastScore, sess.LastVerdict = res.Score, res.Verdict
		proj := plan.Project(sess.Candidate)

		resp := CandidateUpdateResponse{Evaluation: toEvaluationResponse(res, proj)}

		rec := plan.NewRecord(sess.Candidate, proj, res.Score, evaluationNotes(res), h.now())
		if sres, attempted, _ := h.saver.OnChange(r.Context(), sess, sess.Candidate, rec); attempted {
			sr := toSaveResponse(sres)
			resp.AutoSave = &sr
		}
		jsonResp(w, http.StatusOK, resp)

	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// evaluate returns POST /api/v1/evaluate — re-scores the session state.
func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sess := h.session(r)

	h.mu.Lock()
	defer h.mu.Unlock()
	res := scoring.Evaluate(sess.Candidate, sess.Prospects, h.scoringConfig())
	sess.LastScore, sess.LastVerdict = res.Score, res.Verdict
	jsonResp(w, http.StatusOK, toEvaluationResponse(res, plan.Project(sess.Candidate)))
}

// prospects serves GET/POST /api/v1/prospects.
func (h *Handler) prospects(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)

	switch r.Method {
	case http.MethodGet:
		h.mu.Lock()
		resp := ProspectsResponse{
			Prospects: append(plan.ProspectList{}, sess.Prospects...),
			Total:     sess.Prospects.Totals(),
		}
		h.mu.Unlock()
		if resp.Prospects == nil {
			resp.Prospects = plan.ProspectList{}
		}
		jsonResp(w, http.StatusOK, resp)

	case http.MethodPost:
		var p plan.Prospect
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			jsonErr(w, http.StatusBadRequest, "invalid prospect payload: "+err.Error())
			return
		}
		h.mu.Lock()
		err := sess.Prospects.Add(p)
		h.mu.Unlock()
		if err != nil {
			jsonErr(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		jsonResp(w, http.StatusCreated, p)

	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// prospectByIndex serves PUT/DELETE /api/v1/prospects/{index}.
func (h *Handler) prospectByIndex(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/v1/prospects/")
	if raw == "" {
		h.prospects(w, r)
		return
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid prospect index "+strconv.Quote(raw))
		return
	}
	sess := h.session(r)

	switch r.Method {
	case http.MethodPut:
		var p plan.Prospect
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			jsonErr(w, http.StatusBadRequest, "invalid prospect payload: "+err.Error())
			return
		}
		h.mu.Lock()
		err = sess.Prospects.Update(i, p)
		sess.EditIndex = -1
		h.mu.Unlock()
		if err != nil {
			jsonErr(w, statusForIndexErr(err), err.Error())
			return
		}
		jsonResp(w, http.StatusOK, p)

	case http.MethodDelete:
		h.mu.Lock()
		err = sess.Prospects.Delete(i)
		sess.EditIndex = -1
		h.mu.Unlock()
		if err != nil {
			jsonErr(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// importProspects serves POST /api/v1/prospects/import — replaces the
// session's prospect list with the parsed CSV body.
func (h *Handler) importProspects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	imported, err := plan.ImportProspectsCSV(r.Body)
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	sess := h.session(r)

	h.mu.Lock()
	sess.Prospects = imported
	sess.EditIndex = -1
	resp := ProspectsResponse{
		Prospects: append(plan.ProspectList{}, sess.Prospects...),
		Total:     sess.Prospects.Totals(),
	}
	h.mu.Unlock()
	if resp.Prospects == nil {
		resp.Prospects = plan.ProspectList{}
	}
	jsonResp(w, http.StatusOK, resp)
}

// saveRecord serves POST /api/v1/save — the explicit manual save.
func (h *Handler) saveRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sess := h.session(r)

	h.mu.Lock()
	defer h.mu.Unlock()
	res := scoring.Evaluate(sess.Candidate, sess.Prospects, h.scoringConfig())
	sess.LastScore, sess.LastVerdict = res.Score, res.Verdict
	rec := plan.NewRecord(sess.Candidate, plan.Project(sess.Candidate), res.Score, evaluationNotes(res), h.now())

	sres, err := h.saver.Save(r.Context(), sess, sess.Candidate, rec, save.TriggerManual)
	code := http.StatusOK
	switch sres.Status {
	case save.StatusRejected:
		code = http.StatusUnprocessableEntity
	case save.StatusUnavailable:
		code = http.StatusServiceUnavailable
	case save.StatusFailed:
		code = http.StatusBadGateway
	}
	if err != nil && sres.Status != save.StatusFailed {
		jsonErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	jsonResp(w, code, toSaveResponse(sres))
}

// generateReport serves POST /api/v1/report — renders the PDF and runs the
// report-triggered save. The save outcome travels in response headers so the
// body can stay a plain PDF stream.
func (h *Handler) generateReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sess := h.session(r)

	h.mu.Lock()
	defer h.mu.Unlock()
	res := scoring.Evaluate(sess.Candidate, sess.Prospects, h.scoringConfig())
	sess.LastScore, sess.LastVerdict = res.Score, res.Verdict
	proj := plan.Project(sess.Candidate)

	pdf, err := h.reports.Build(sess.Candidate, sess.Prospects, proj)
	if err != nil {
		jsonErr(w, http.StatusInternalServerError, "report generation failed: "+err.Error())
		return
	}

	rec := plan.NewRecord(sess.Candidate, proj, res.Score, evaluationNotes(res), h.now())
	if sres, attempted, _ := h.saver.OnReport(r.Context(), sess, sess.Candidate, rec); attempted {
		w.Header().Set("X-Save-Status", string(sres.Status))
		w.Header().Set("X-Save-Message", sres.Message)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", reportFilename(sess.Candidate.Name)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf) //nolint:errcheck
}

// --- helpers ----------------------------------------------------------------

func toSaveResponse(res save.Result) SaveResponse {
	return SaveResponse{
		Status:    string(res.Status),
		Trigger:   string(res.Trigger),
		Signature: res.Signature,
		Missing:   res.Missing,
		Message:   res.Message,
	}
}

// evaluationNotes flattens an evaluation into the single notes column
// persisted with the record.
func evaluationNotes(res scoring.Result) string {
	parts := []string{fmt.Sprintf("%s (score %d)", res.Verdict, res.Score)}
	for _, m := range res.Positives {
		parts = append(parts, "+ "+m)
	}
	for _, m := range res.Negatives {
		parts = append(parts, "- "+m)
	}
	for _, m := range res.Flags {
		parts = append(parts, "? "+m)
	}
	return strings.Join(parts, " | ")
}

// reportFilename derives a safe download name from the candidate name.
func reportFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Candidate"
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '_'
		}
		return -1
	}, name)
	return "Business_Plan_" + name + ".pdf"
}

func statusForIndexErr(err error) int {
	if strings.Contains(err.Error(), "out of range") {
		return http.StatusNotFound
	}
	return http.StatusUnprocessableEntity
}

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
