// Package ledger is the durable booking record: append-mostly positional
// rows behind a spreadsheet-shaped store, plus the read-side queries.
package ledger

import (
	"fmt"
	"strconv"

	"groundbook/pkg/model"
)

// Column positions are a compatibility contract for any reader of the
// ledger; changing the order breaks downstream tooling.
const (
	ColReservationID = iota
	ColReceivedAt
	ColDate
	ColDayOfWeek
	ColStartTime
	ColEndTime
	ColCourt
	ColName
	ColPhone
	ColCategoryLabel
	ColHours
	ColRatePerHour
	ColTotal
	ColDayType
	ColStatus
	ColCalendarEventID
	ColNotes

	ColumnCount
)

var Header = []string{
	"reservation_id", "received_at", "date", "day_of_week", "start_time",
	"end_time", "court", "name", "phone", "category", "hours", "rate",
	"total", "day_type", "status", "calendar_event_id", "notes",
}

// RecordToRow flattens a booking record into its positional row form.
func RecordToRow(rec *model.BookingRecord) []string {
	row := make([]string, ColumnCount)
	row[ColReservationID] = rec.ReservationID
	row[ColReceivedAt] = rec.ReceivedAt
	row[ColDate] = rec.Date
	row[ColDayOfWeek] = rec.DayOfWeek
	row[ColStartTime] = rec.StartTime
	row[ColEndTime] = rec.EndTime
	row[ColCourt] = rec.Court
	row[ColName] = rec.Name
	row[ColPhone] = rec.Phone
	row[ColCategoryLabel] = rec.CategoryLabel
	row[ColHours] = strconv.Itoa(rec.Hours)
	row[ColRatePerHour] = strconv.Itoa(rec.RatePerHour)
	row[ColTotal] = strconv.Itoa(rec.Total)
	row[ColDayType] = rec.DayType
	row[ColStatus] = rec.Status
	row[ColCalendarEventID] = rec.CalendarEventID
	row[ColNotes] = rec.Notes
	return row
}

// RowToRecord rebuilds a record from a positional row. Short rows are
// padded rather than rejected; numeric cells that do not parse come back
// zero and the error tells the caller which cell was bad.
func RowToRecord(row []string) (*model.BookingRecord, error) {
	if len(row) < ColumnCount {
		padded := make([]string, ColumnCount)
		copy(padded, row)
		row = padded
	}

	rec := &model.BookingRecord{
		ReservationID:   row[ColReservationID],
		ReceivedAt:      row[ColReceivedAt],
		Date:            row[ColDate],
		DayOfWeek:       row[ColDayOfWeek],
		StartTime:       row[ColStartTime],
		EndTime:         row[ColEndTime],
		Court:           row[ColCourt],
		Name:            row[ColName],
		Phone:           row[ColPhone],
		CategoryLabel:   row[ColCategoryLabel],
		DayType:         row[ColDayType],
		Status:          row[ColStatus],
		CalendarEventID: row[ColCalendarEventID],
		Notes:           row[ColNotes],
	}

	var err error
	if row[ColHours] != "" {
		if rec.Hours, err = strconv.Atoi(row[ColHours]); err != nil {
			return rec, fmt.Errorf("malformed hours cell %q: %w", row[ColHours], err)
		}
	}
	if row[ColRatePerHour] != "" {
		if rec.RatePerHour, err = strconv.Atoi(row[ColRatePerHour]); err != nil {
			return rec, fmt.Errorf("malformed rate cell %q: %w", row[ColRatePerHour], err)
		}
	}
	if row[ColTotal] != "" {
		if rec.Total, err = strconv.Atoi(row[ColTotal]); err != nil {
			return rec, fmt.Errorf("malformed total cell %q: %w", row[ColTotal], err)
		}
	}

	return rec, nil
}
