package sheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/execpartners/bpsim/internal/plan"
)

// appendRetries caps the number of backoff retries for one append call.
const appendRetries = 3

// Config holds everything needed to reach the shared spreadsheet.
type Config struct {
	SpreadsheetID string
	Worksheet     string

	// CredentialsJSON is the raw service-account key, typically resolved
	// from an environment variable. Takes precedence over CredentialsFile.
	CredentialsJSON []byte

	// CredentialsFile is a path to a service-account key file, used for
	// local development when CredentialsJSON is empty.
	CredentialsFile string
}

// Client talks to one worksheet of one spreadsheet.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string

	saEmail    string
	credSource string
}

// Info describes the active connection for the diagnostics endpoint.
type Info struct {
	SpreadsheetID       string `json:"spreadsheet_id"`
	Worksheet           string `json:"worksheet"`
	ServiceAccountEmail string `json:"service_account_email,omitempty"`
	CredentialSource    string `json:"credential_source"`
}

// Connect builds a Client from cfg. It does not touch the spreadsheet; call
// EnsureHeader to verify reachability and the column contract.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("sheet: spreadsheet id not configured")
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	var saEmail, source string

	switch {
	case len(cfg.CredentialsJSON) > 0:
		saEmail = clientEmail(cfg.CredentialsJSON)
		source = "env"
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	case cfg.CredentialsFile != "":
		if data, err := os.ReadFile(cfg.CredentialsFile); err == nil {
			saEmail = clientEmail(data)
		}
		source = "file:" + cfg.CredentialsFile
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	default:
		return nil, errors.New("sheet: no Google credentials configured (set the credentials env var or provide a key file)")
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheet: build service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     cfg.Worksheet,
		saEmail:       saEmail,
		credSource:    source,
	}, nil
}

// Info returns connection details for diagnostics.
func (c *Client) Info() Info {
	return Info{
		SpreadsheetID:       c.spreadsheetID,
		Worksheet:           c.worksheet,
		ServiceAccountEmail: c.saEmail,
		CredentialSource:    c.credSource,
	}
}

// EnsureHeader verifies that the worksheet's first row equals the expected
// column list and rewrites it when it differs. A missing worksheet is
// created first.
func (c *Client) EnsureHeader(ctx context.Context) error {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.worksheet+"!1:1").
		Context(ctx).Do()
	if err != nil {
		if isMissingWorksheet(err) {
			if err := c.createWorksheet(ctx); err != nil {
				return err
			}
			return c.writeHeader(ctx)
		}
		return c.describe("read header", err)
	}

	var current []string
	if len(resp.Values) > 0 {
		for _, v := range resp.Values[0] {
			current = append(current, fmt.Sprint(v))
		}
	}
	if headerMatches(current) {
		return nil
	}
	return c.writeHeader(ctx)
}

// Append writes one record as a row in header order. Transient API errors
// (rate limiting, server errors) are retried with exponential backoff;
// anything else fails immediately.
func (c *Client) Append(ctx context.Context, rec plan.Record) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{rec.RowValues(plan.HeaderOrder)}}

	op := func() error {
		_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.worksheet, vr).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).Do()
		if err == nil {
			return nil
		}
		if transient(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), appendRetries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return c.describe("append row", err)
	}
	return nil
}

// --- internal ---------------------------------------------------------------

func (c *Client) writeHeader(ctx context.Context) error {
	header := make([]interface{}, len(plan.HeaderOrder))
	for i, col := range plan.HeaderOrder {
		header[i] = col
	}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, c.worksheet+"!A1",
		&sheets.ValueRange{Values: [][]interface{}{header}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return c.describe("write header", err)
	}
	return nil
}

func (c *Client) createWorksheet(ctx context.Context) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: c.worksheet},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return c.describe("create worksheet", err)
	}
	return nil
}

// describe wraps a Sheets API error with an actionable hint for the two
// failure modes operators actually hit.
func (c *Client) describe(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 403:
			who := c.saEmail
			if who == "" {
				who = "the service account"
			}
			return fmt.Errorf("sheet: %s: permission denied — share the spreadsheet with %s as an editor: %w", op, who, err)
		case 404:
			return fmt.Errorf("sheet: %s: spreadsheet not found — check the spreadsheet id: %w", op, err)
		}
	}
	return fmt.Errorf("sheet: %s: %w", op, err)
}

// transient reports whether the error is worth retrying.
func transient(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		// Network-level errors (no HTTP status) are retryable.
		return true
	}
	switch gerr.Code {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}

// isMissingWorksheet detects the "Unable to parse range" error the API
// returns when the named worksheet does not exist.
func isMissingWorksheet(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == 400 &&
		strings.Contains(gerr.Message, "Unable to parse range")
}

func headerMatches(current []string) bool {
	if len(current) != len(plan.HeaderOrder) {
		return false
	}
	for i, col := range plan.HeaderOrder {
		if current[i] != col {
			return false
		}
	}
	return true
}

// clientEmail extracts client_email from a service-account key, best effort.
func clientEmail(key []byte) string {
	var info struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(key, &info); err != nil {
		return ""
	}
	return info.ClientEmail
}
