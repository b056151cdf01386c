package save

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/execpartners/bpsim/internal/plan"
	"github.com/execpartners/bpsim/internal/session"
	"github.com/execpartners/bpsim/internal/signature"
)

// Appender is the external append-row primitive. *sheet.Client implements it.
type Appender interface {
	Append(ctx context.Context, rec plan.Record) error
}

// Mode selects which automatic save triggers are active.
type Mode string

const (
	// ModeManual saves only on the explicit save action.
	ModeManual Mode = "manual"
	// ModeOnReport additionally saves once per report-generated event.
	ModeOnReport Mode = "on_report"
	// ModeAlways additionally saves whenever the identity/financial core
	// changes.
	ModeAlways Mode = "always"
	// ModeOff disables all saving.
	ModeOff Mode = "off"
)

// ParseMode validates a configured mode string.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeManual, ModeOnReport, ModeAlways, ModeOff:
		return m, nil
	}
	return "", fmt.Errorf("save: unknown mode %q: want manual|on_report|always|off", s)
}

// Trigger identifies what initiated a save attempt.
type Trigger string

const (
	TriggerManual Trigger = "manual"
	TriggerReport Trigger = "report generated"
	TriggerChange Trigger = "field change"
)

// Status is the outcome class of one save attempt.
type Status string

const (
	// StatusSaved — a row was appended.
	StatusSaved Status = "saved"
	// StatusDuplicate — identical to the last saved record; nothing appended.
	StatusDuplicate Status = "duplicate"
	// StatusRejected — required fields missing or invalid; no signature
	// computed, no append attempted.
	StatusRejected Status = "rejected"
	// StatusUnavailable — no connection to the external store.
	StatusUnavailable Status = "unavailable"
	// StatusFailed — the append call itself failed; dedupe state unchanged.
	StatusFailed Status = "failed"
)

// Result describes one save attempt.
type Result struct {
	Status    Status   `json:"status"`
	Trigger   Trigger  `json:"trigger"`
	Signature string   `json:"signature,omitempty"`
	Missing   []string `json:"missing,omitempty"`
	Message   string   `json:"message"`
}

// Saver runs the validation + dedupe gate in front of an Appender.
type Saver struct {
	app  Appender
	mode Mode
}

// New creates a Saver. app may be nil when the external store is offline;
// every attempt then reports StatusUnavailable.
func New(app Appender, mode Mode) *Saver {
	return &Saver{app: app, mode: mode}
}

// Mode returns the configured auto-save mode.
func (s *Saver) Mode() Mode { return s.mode }

// Save runs one gated save attempt. The session's LastSignature is updated
// only after a successful append. The returned error is non-nil only for
// StatusFailed and carries the append failure.
func (s *Saver) Save(ctx context.Context, sess *session.Session, c plan.Candidate, rec plan.Record, trigger Trigger) (Result, error) {
	if missing := MissingFields(c); len(missing) > 0 {
		return Result{
			Status:  StatusRejected,
			Trigger: trigger,
			Missing: missing,
			Message: "not saved — missing: " + strings.Join(missing, ", "),
		}, nil
	}

	if s.app == nil {
		return Result{
			Status:  StatusUnavailable,
			Trigger: trigger,
			Message: "external store connection not available",
		}, nil
	}

	sig := signature.Compute(rec)
	if sess.LastSignature == sig {
		return Result{
			Status:    StatusDuplicate,
			Trigger:   trigger,
			Signature: sig,
			Message:   "already saved, no duplicate created",
		}, nil
	}

	if err := s.app.Append(ctx, rec); err != nil {
		slog.Error("save: append failed", "trigger", trigger, "err", err)
		return Result{
			Status:    StatusFailed,
			Trigger:   trigger,
			Signature: sig,
			Message:   "error saving to external store",
		}, err
	}

	sess.LastSignature = sig
	slog.Info("save: row appended", "trigger", trigger)
	return Result{
		Status:    StatusSaved,
		Trigger:   trigger,
		Signature: sig,
		Message:   fmt.Sprintf("saved (%s)", trigger),
	}, nil
}

// OnReport runs the report-generated trigger when the mode enables it.
// The boolean reports whether a save was attempted at all.
func (s *Saver) OnReport(ctx context.Context, sess *session.Session, c plan.Candidate, rec plan.Record) (Result, bool, error) {
	if s.mode != ModeOnReport && s.mode != ModeAlways {
		return Result{}, false, nil
	}
	res, err := s.Save(ctx, sess, c, rec, TriggerReport)
	return res, true, err
}

// OnChange runs the change trigger: when the mode is "always" and the
// identity/financial core differs from the last auto-saved fingerprint, a
// save is attempted. The fingerprint advances only when the save succeeds.
// The boolean reports whether a save was attempted.
func (s *Saver) OnChange(ctx context.Context, sess *session.Session, c plan.Candidate, rec plan.Record) (Result, bool, error) {
	if s.mode != ModeAlways {
		return Result{}, false, nil
	}
	fp := signature.CoreFingerprint(rec)
	if fp == sess.AutosaveFingerprint {
		return Result{}, false, nil
	}
	res, err := s.Save(ctx, sess, c, rec, TriggerChange)
	if res.Status == StatusSaved || res.Status == StatusDuplicate {
		sess.AutosaveFingerprint = fp
	}
	return res, true, err
}

// MissingFields returns the enumerated required-field problems that block a
// save. Empty means the record may proceed to the signature gate.
func MissingFields(c plan.Candidate) []string {
	var missing []string
	if !emailPlausible(c.Email) {
		missing = append(missing, "Candidate Email (valid)")
	}
	if c.Location == "" || c.Location == plan.LocationPlaceholder {
		missing = append(missing, "Candidate Location")
	}
	return missing
}

// emailPlausible is the syntactic gate: an "@" with a "." somewhere after it.
func emailPlausible(s string) bool {
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return false
	}
	return strings.Contains(s[at+1:], ".")
}
