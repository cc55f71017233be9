package ledger

import "context"

// Store is the spreadsheet-shaped contract of the booking ledger: a header
// row, appended positional rows, whole-sheet reads. Row indexes are 1-based
// and the header is row 1, like the sheet the operators read.
type Store interface {
	EnsureHeaderRow(ctx context.Context, columns []string) error

	// AppendRow appends a data row and returns its row index.
	AppendRow(ctx context.Context, columns []string) (int64, error)

	// ReadRows returns every data row (the header excluded) in append order.
	ReadRows(ctx context.Context) ([][]string, error)

	// UpdateStatus transitions the status cell of the row whose first cell
	// matches reservationID. Rows are never deleted.
	UpdateStatus(ctx context.Context, reservationID, status string) error
}
