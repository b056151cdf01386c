// Package auth provides the reviewer-PIN middleware for the HTTP API.
//
// PINMiddleware(mode, header, pin) wraps an http.Handler and validates the
// PIN from the named header (or the "pin" query parameter as a fallback).
//
// When mode != "pin" or pin == "", all requests pass through (useful for
// local development with auth disabled). A missing or incorrect PIN gets
// 401 with a JSON error body.
package auth
