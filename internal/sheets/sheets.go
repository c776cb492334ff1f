// Package sheets publishes a day's datasets to the shared spreadsheet.
//
// The spreadsheet carries a sheet titled TEMPLATE with the day layout and
// formulas prewired. Publishing duplicates that sheet under the date's name
// and batch-writes the two datasets into its fixed ranges.
package sheets

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/spellgrid/gridder/internal/grid"
)

const (
	templateTitle = "TEMPLATE"

	// Fixed ranges of the template layout. Lengths fill B3:D, pairs F3:G.
	lengthsRange = "B3:D"
	pairsRange   = "F3:G"

	// The new day sheet slots in right after the template.
	insertIndex = 1
)

// Publisher writes day sheets into one spreadsheet.
type Publisher struct {
	svc           *gsheets.Service
	spreadsheetID string
}

// NewPublisher authenticates with the service account credentials file and
// returns a publisher bound to the spreadsheet. A missing or unreadable
// credentials file surfaces here, at run time.
func NewPublisher(ctx context.Context, spreadsheetID, serviceAccountFile string) (*Publisher, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(serviceAccountFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate as service account: %w", err)
	}

	return &Publisher{
		svc:           svc,
		spreadsheetID: spreadsheetID,
	}, nil
}

// PublishForDate creates and fills the sheet for a puzzle date. Returns the
// name of the created sheet.
func (p *Publisher) PublishForDate(ctx context.Context, date time.Time, pairs grid.Pairs, lengths grid.Lengths) (string, error) {
	templateID, err := p.findTemplate(ctx)
	if err != nil {
		return "", fmt.Errorf("could not identify template sheet: %w", err)
	}

	name, err := p.duplicateTemplate(ctx, date, templateID)
	if err != nil {
		return "", fmt.Errorf("could not duplicate template sheet: %w", err)
	}

	if err := p.populate(ctx, name, pairs, lengths); err != nil {
		return "", fmt.Errorf("could not populate data in new sheet: %w", err)
	}

	return name, nil
}

// findTemplate locates the sheet titled TEMPLATE.
func (p *Publisher) findTemplate(ctx context.Context) (int64, error) {
	spreadsheet, err := p.svc.Spreadsheets.Get(p.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("error reaching sheets api: %w", err)
	}
	if len(spreadsheet.Sheets) == 0 {
		return 0, fmt.Errorf("no sheets in spreadsheet")
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == templateTitle {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("did not find template sheet")
}

// duplicateTemplate copies the template into a sheet named after the date.
func (p *Publisher) duplicateTemplate(ctx context.Context, date time.Time, templateID int64) (string, error) {
	name := date.Format("2006-01-02")

	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{
			{
				DuplicateSheet: &gsheets.DuplicateSheetRequest{
					SourceSheetId:    templateID,
					InsertSheetIndex: insertIndex,
					NewSheetName:     name,
				},
			},
		},
	}

	resp, err := p.svc.Spreadsheets.BatchUpdate(p.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("api request failed: %w", err)
	}

	if len(resp.Replies) == 0 ||
		resp.Replies[0].DuplicateSheet == nil ||
		resp.Replies[0].DuplicateSheet.Properties == nil {
		return "", fmt.Errorf("response missing duplicated sheet properties")
	}

	return resp.Replies[0].DuplicateSheet.Properties.Title, nil
}

// populate batch-writes both datasets into the named sheet.
func (p *Publisher) populate(ctx context.Context, sheetName string, pairs grid.Pairs, lengths grid.Lengths) error {
	req := &gsheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data: []*gsheets.ValueRange{
			{
				MajorDimension: "ROWS",
				Range:          fmt.Sprintf("'%s'!%s", sheetName, lengthsRange),
				Values:         lengthsToValues(lengths),
			},
			{
				MajorDimension: "ROWS",
				Range:          fmt.Sprintf("'%s'!%s", sheetName, pairsRange),
				Values:         pairsToValues(pairs),
			},
		},
	}

	_, err := p.svc.Spreadsheets.Values.BatchUpdate(p.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("api request failed: %w", err)
	}
	return nil
}

// pairsToValues renders the pair counts as spreadsheet rows in the shared
// sorted order.
func pairsToValues(pairs grid.Pairs) [][]interface{} {
	records := grid.SortedPairs(pairs)
	values := make([][]interface{}, 0, len(records))
	for _, r := range records {
		values = append(values, []interface{}{r.Prefix, r.Count})
	}
	return values
}

// lengthsToValues renders the grid counts as spreadsheet rows in the shared
// sorted order.
func lengthsToValues(lengths grid.Lengths) [][]interface{} {
	records := grid.SortedLengths(lengths)
	values := make([][]interface{}, 0, len(records))
	for _, r := range records {
		values = append(values, []interface{}{r.Letter, r.Length, r.Count})
	}
	return values
}
