package api

import "net/http"

// AnalysisRoutes are the reviewer-facing endpoints: the evaluation verdict
// and the connection diagnostics. The candidate-facing routes (form state,
// prospects, save, report download) are deliberately not listed — candidates
// must be able to complete a submission without the reviewer PIN.
var AnalysisRoutes = []string{
	"/api/v1/evaluate",
	"/api/v1/diagnostics",
}

// Gate wraps h so that mw guards only the analysis endpoints; every other
// route reaches h directly.
func Gate(h http.Handler, mw func(http.Handler) http.Handler) http.Handler {
	guarded := mw(h)
	mux := http.NewServeMux()
	for _, route := range AnalysisRoutes {
		mux.Handle(route, guarded)
	}
	mux.Handle("/", h)
	return mux
}
