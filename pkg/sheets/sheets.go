package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Column labels written to the worksheet header row.
var headerRow = []interface{}{"Date", "Time", "Name", "Status", "Shift", "Recorded By"}

// Well-known cell values used by the attendance mirror.
const (
	StatusPresent = "present"
	ShiftStudent  = "student"
)

// nameColumn is the worksheet column holding the subject name, used by the
// row-lookup fallback after an append.
const nameColumn = "C"

// Row is one attendance event in the external ledger's column layout.
type Row struct {
	Date       string
	Time       string
	Name       string
	Status     string
	Shift      string
	RecordedBy string
}

// Config contains credentials and the target worksheet.
type Config struct {
	CredentialsJSON string
	SpreadsheetID   string
	Worksheet       string
}

// Client mirrors attendance rows into a Google Sheets worksheet. When the
// backend is not configured the client is a no-op: Append returns no row
// reference and Delete reports false, both without error, so attendance
// recording proceeds with the mirror entirely unreachable.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	worksheet     string
	logger        zerolog.Logger

	mu      sync.Mutex
	sheetID int64
	haveID  bool
}

// New constructs a sheets mirror client. Missing configuration yields a
// disabled client rather than an error.
func New(ctx context.Context, cfg Config, logger zerolog.Logger) (*Client, error) {
	client := &Client{
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     cfg.Worksheet,
		logger:        logger.With().Str("component", "sheets_mirror").Logger(),
	}

	if cfg.CredentialsJSON == "" || cfg.SpreadsheetID == "" || cfg.Worksheet == "" {
		client.logger.Warn().Msg("sheets mirror not configured, attendance will only be stored locally")
		return client, nil
	}

	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	client.svc = svc
	return client, nil
}

// Enabled reports whether the remote backend is configured.
func (c *Client) Enabled() bool {
	return c.svc != nil
}

// EnsureWorksheet creates the worksheet with a header row when it does not
// exist yet. Safe to call repeatedly; intended for startup.
func (c *Client) EnsureWorksheet(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}

	if _, err := c.resolveSheetID(ctx); err == nil {
		return nil
	}

	addSheet := &sheetsapi.Request{
		AddSheet: &sheetsapi.AddSheetRequest{
			Properties: &sheetsapi.SheetProperties{Title: c.worksheet},
		},
	}
	_, err := c.svc.Spreadsheets.
		BatchUpdate(c.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{Requests: []*sheetsapi.Request{addSheet}}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to create worksheet %q: %w", c.worksheet, err)
	}

	header := &sheetsapi.ValueRange{Values: [][]interface{}{headerRow}}
	_, err = c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.dataRange(), header).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write worksheet header: %w", err)
	}

	c.logger.Info().Str("worksheet", c.worksheet).Msg("worksheet created")
	return nil
}

// Append adds one attendance row and returns its 1-based row number, or 0 when
// the backend is disabled or the row could not be located.
func (c *Client) Append(ctx context.Context, row Row) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}

	values := &sheetsapi.ValueRange{
		Values: [][]interface{}{{row.Date, row.Time, row.Name, row.Status, row.Shift, row.RecordedBy}},
	}

	resp, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.dataRange(), values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to append attendance row: %w", err)
	}

	if resp.Updates != nil {
		if ref := rowFromRange(resp.Updates.UpdatedRange); ref > 0 {
			return ref, nil
		}
	}

	// Fallback: find the highest row whose name cell matches. Ambiguous when
	// the same name appears more than once; the reference is best-effort.
	ref, err := c.findRowByName(ctx, row.Name)
	if err != nil {
		c.logger.Warn().Err(err).Str("name", row.Name).Msg("could not resolve appended row reference")
		return 0, nil
	}

	return ref, nil
}

// Delete removes the referenced row. Returns false without error when the
// backend is disabled or no reference was given.
func (c *Client) Delete(ctx context.Context, row int64) (bool, error) {
	if !c.Enabled() || row <= 0 {
		return false, nil
	}

	sheetID, err := c.resolveSheetID(ctx)
	if err != nil {
		return false, err
	}

	request := &sheetsapi.Request{
		DeleteDimension: &sheetsapi.DeleteDimensionRequest{
			Range: &sheetsapi.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "ROWS",
				StartIndex: row - 1,
				EndIndex:   row,
			},
		},
	}

	_, err = c.svc.Spreadsheets.
		BatchUpdate(c.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{Requests: []*sheetsapi.Request{request}}).
		Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("failed to delete row %d: %w", row, err)
	}

	return true, nil
}

func (c *Client) dataRange() string {
	return fmt.Sprintf("%s!A:F", c.worksheet)
}

func (c *Client) findRowByName(ctx context.Context, name string) (int64, error) {
	result, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, fmt.Sprintf("%s!%s:%s", c.worksheet, nameColumn, nameColumn)).
		Context(ctx).Do()
	if err != nil {
		return 0, err
	}

	var match int64
	for i, cells := range result.Values {
		if len(cells) == 0 {
			continue
		}
		if cell, ok := cells[0].(string); ok && cell == name {
			match = int64(i + 1)
		}
	}

	return match, nil
}

func (c *Client) resolveSheetID(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.haveID {
		return c.sheetID, nil
	}

	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to read spreadsheet metadata: %w", err)
	}

	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == c.worksheet {
			c.sheetID = sheet.Properties.SheetId
			c.haveID = true
			return c.sheetID, nil
		}
	}

	return 0, fmt.Errorf("worksheet %q not found", c.worksheet)
}

// rowFromRange extracts the row number from an A1-notation range such as
// "Attendance!A12:F12".
func rowFromRange(a1 string) int64 {
	if a1 == "" {
		return 0
	}

	if idx := strings.LastIndex(a1, "!"); idx >= 0 {
		a1 = a1[idx+1:]
	}
	if idx := strings.Index(a1, ":"); idx >= 0 {
		a1 = a1[:idx]
	}

	digits := strings.TrimLeftFunc(a1, func(r rune) bool {
		return r < '0' || r > '9'
	})
	row, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}

	return row
}
