// Package sheet wraps the Google Sheets append-row primitive used to persist
// submissions.
//
// Connect builds a client from service-account credentials (JSON blob from an
// environment variable, or a local file for development). EnsureHeader
// enforces the column contract: if the worksheet's first row differs from
// plan.HeaderOrder it is rewritten before any append; a missing worksheet is
// created. Append writes one record in header order, retrying transient API
// errors (429/5xx) with exponential backoff.
//
// Permission and not-found errors are wrapped with actionable hints (share
// the sheet with the service account, check the spreadsheet ID) since they
// are the two failure modes operators actually hit.
package sheet
