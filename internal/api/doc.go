// Package api implements the HTTP REST API.
//
// New(sessions, saver, reports, cfg, sheetInfo) returns a *Handler serving:
//
//	GET  /api/v1/health            — store connectivity, save mode, session count
//	GET  /api/v1/diagnostics       — sheet details + hints for the current session
//	GET  /api/v1/candidate         — the session's candidate form state
//	PUT  /api/v1/candidate         — replace form state; re-evaluate; change-triggered save
//	POST /api/v1/evaluate          — re-score the session state
//	GET  /api/v1/prospects         — prospect list + TOTAL row
//	POST /api/v1/prospects         — add one validated prospect
//	PUT  /api/v1/prospects/{i}     — replace the prospect at position i
//	DELETE /api/v1/prospects/{i}   — remove the prospect at position i
//	POST /api/v1/prospects/import  — replace the list with a parsed CSV body
//	POST /api/v1/save              — explicit manual save through the dedupe gate
//	POST /api/v1/report            — render the PDF; report-triggered save
//
// The caller's session is selected by the X-Session-ID header; requests
// without it share the "default" session. All JSON endpoints respond with
// Content-Type: application/json and return 405 for unsupported methods;
// /api/v1/report streams application/pdf and reports the save outcome in the
// X-Save-Status / X-Save-Message headers.
//
// SetScoringConfig swaps scoring thresholds at runtime (config hot-reload).
// No external HTTP framework is used.
package api
