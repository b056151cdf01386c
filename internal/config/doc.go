// Package config loads the server configuration from config.yaml.
//
// Config sections:
//   - server  — HTTP port, reviewer-PIN auth, session TTL, WebSocket push interval
//   - sheet   — spreadsheet id, worksheet, credential sources (env or file)
//   - save    — auto-save mode: manual | on_report | always | off
//   - report  — company name on the generated PDF
//   - scoring — tunable evaluation thresholds (AUM bars, tolerance)
//
// Secrets (the reviewer PIN and the service-account key) are never stored in
// the file itself; the file names the environment variables that hold them.
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, onChange) hot-reloads the file on change; the scoring
// section takes effect without a restart.
package config
