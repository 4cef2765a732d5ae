// Package sheets appends collected ranking rows to a Google Sheets
// worksheet and keeps it sorted newest-first.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Default dimensions for a worksheet created on demand.
const (
	defaultRowCount    = 10000
	defaultColumnCount = 20
)

// RowAppender is the slice of the Sheets API the collector needs. It is an
// interface so the collector can be tested without credentials.
type RowAppender interface {
	EnsureWorksheet(ctx context.Context) error
	AppendRow(ctx context.Context, cells []string) error
	SortByFirstColumnDesc(ctx context.Context) error
}

// Client talks to one worksheet of one spreadsheet.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	worksheet     string
}

var _ RowAppender = (*Client)(nil)

// NewClient builds a client from a service account credentials file.
func NewClient(ctx context.Context, credentialsPath, spreadsheetID, worksheet string) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, worksheet: worksheet}, nil
}

// NewClientFromJSON builds a client from in-memory credentials JSON.
func NewClientFromJSON(ctx context.Context, credentialsJSON []byte, spreadsheetID, worksheet string) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, worksheet: worksheet}, nil
}

// sheetID looks up the numeric sheet ID of the worksheet, or -1 when the
// worksheet does not exist.
func (c *Client) sheetID(ctx context.Context) (int64, error) {
	spreadsheet, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to get spreadsheet %s: %w", c.spreadsheetID, err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == c.worksheet {
			return sheet.Properties.SheetId, nil
		}
	}
	return -1, nil
}

// EnsureWorksheet creates the worksheet when the spreadsheet does not have
// it yet.
func (c *Client) EnsureWorksheet(ctx context.Context) error {
	id, err := c.sheetID(ctx)
	if err != nil {
		return err
	}
	if id >= 0 {
		return nil
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{
			{
				AddSheet: &sheetsapi.AddSheetRequest{
					Properties: &sheetsapi.SheetProperties{
						Title: c.worksheet,
						GridProperties: &sheetsapi.GridProperties{
							RowCount:    defaultRowCount,
							ColumnCount: defaultColumnCount,
						},
					},
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to add worksheet %s: %w", c.worksheet, err)
	}
	return nil
}

// AppendRow appends cells as one row after the worksheet's current data.
func (c *Client) AppendRow(ctx context.Context, cells []string) error {
	values := make([]interface{}, len(cells))
	for i, cell := range cells {
		values[i] = cell
	}

	_, err := c.svc.Spreadsheets.Values.Append(
		c.spreadsheetID,
		c.worksheet,
		&sheetsapi.ValueRange{Values: [][]interface{}{values}},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

// SortByFirstColumnDesc sorts the whole worksheet by its first column,
// newest timestamp on top.
func (c *Client) SortByFirstColumnDesc(ctx context.Context) error {
	id, err := c.sheetID(ctx)
	if err != nil {
		return err
	}
	if id < 0 {
		return fmt.Errorf("worksheet %s not found in spreadsheet %s", c.worksheet, c.spreadsheetID)
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{
			{
				SortRange: &sheetsapi.SortRangeRequest{
					Range: &sheetsapi.GridRange{SheetId: id},
					SortSpecs: []*sheetsapi.SortSpec{
						{DimensionIndex: 0, SortOrder: "DESCENDING"},
					},
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to sort worksheet %s: %w", c.worksheet, err)
	}
	return nil
}
