package extract

import (
	"context"

	"groundbook/pkg/model"
)

// Extractor turns a free-form message into a structured reservation
// candidate. The candidate's IsWeekend field is a pointer so downstream
// normalization can distinguish "absent" from "false".
type Extractor interface {
	ExtractText(ctx context.Context, text string) (*model.ReservationCandidate, error)
	ExtractImage(ctx context.Context, imageData []byte, mimeType string) (*model.ReservationCandidate, error)
}
