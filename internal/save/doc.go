// Package save decides whether a submission is appended to the external
// store, suppressing exact repeats within a session.
//
// The gate runs in a fixed order: required-field validation (plausible email,
// concrete location) → store availability → signature comparison against the
// session's last successful save → append. A rejected record never gets a
// signature computed; a failed append never updates the stored signature, so
// retrying after a transient failure is not treated as a duplicate.
//
// Three triggers route through the same gate: an explicit manual action, a
// report-generated event, and a detected change to the identity/financial
// core (modes on_report / always / manual / off select which are active).
package save
