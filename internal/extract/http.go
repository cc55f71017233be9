package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"groundbook/pkg/client"
	apperrors "groundbook/pkg/errors"
	"groundbook/pkg/logger"
	"groundbook/pkg/model"
)

// HTTPExtractor calls the external extraction service. The service wraps
// an LLM, so the client treats the response as a candidate to be
// normalized, never as a validated reservation.
type HTTPExtractor struct {
	client *client.HttpClient
	log    *logger.Logger
}

func NewHTTPExtractor(baseURL string, timeout time.Duration, log *logger.Logger) *HTTPExtractor {
	return &HTTPExtractor{
		client: client.NewHttpClient(baseURL, timeout),
		log:    log,
	}
}

type textRequest struct {
	Text string `json:"text"`
}

type imageRequest struct {
	ImageData string `json:"image_data"`
	MimeType  string `json:"mime_type"`
}

func (e *HTTPExtractor) ExtractText(ctx context.Context, text string) (*model.ReservationCandidate, error) {
	return e.extract(ctx, "/extract/text", textRequest{Text: text})
}

func (e *HTTPExtractor) ExtractImage(ctx context.Context, imageData []byte, mimeType string) (*model.ReservationCandidate, error) {
	return e.extract(ctx, "/extract/image", imageRequest{
		ImageData: base64.StdEncoding.EncodeToString(imageData),
		MimeType:  mimeType,
	})
}

func (e *HTTPExtractor) extract(ctx context.Context, path string, body any) (*model.ReservationCandidate, error) {
	resp, err := e.client.POST(ctx, path, body)
	if err != nil {
		e.log.Error("Extraction request failed", "path", path, "error", err)
		return nil, apperrors.Extraction("Extraction service unreachable", err)
	}
	if resp.StatusCode != http.StatusOK {
		e.log.Error("Extraction service returned an error",
			"path", path,
			"status", resp.StatusCode,
		)
		return nil, apperrors.Extraction(
			fmt.Sprintf("Extraction service returned status %d", resp.StatusCode), nil)
	}

	var candidate model.ReservationCandidate
	if err := resp.DecodeJSON(&candidate); err != nil {
		return nil, apperrors.Extraction("Extraction response is not valid JSON", err)
	}
	return &candidate, nil
}
