package model

import "time"

// CalendarEvent is the slice of the calendar store's representation the
// pipeline needs: an identifier, a label to match courts against, and the
// occupied time window.
type CalendarEvent struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Summary     string    `json:"summary" bson:"summary"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Start       time.Time `json:"start" bson:"start"`
	End         time.Time `json:"end" bson:"end"`
	ColorTag    string    `json:"color_tag,omitempty" bson:"color_tag,omitempty"`
}
