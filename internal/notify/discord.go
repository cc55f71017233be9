package notify

import (
	"context"
	"fmt"
	"time"

	"groundbook/pkg/client"
	"groundbook/pkg/logger"
	"groundbook/pkg/model"
)

const (
	colorConfirmed = 0x2ECC71
	colorConflict  = 0xE74C3C
	colorCancelled = 0x95A5A6
	colorSummary   = 0x3498DB
)

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color"`
	Fields      []discordField `json:"fields,omitempty"`
	Timestamp   string         `json:"timestamp"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

// DiscordSink posts reservation lifecycle events to a Discord webhook as
// embeds. An empty webhook URL turns every call into a silent no-op so
// callers never need to branch on configuration.
type DiscordSink struct {
	client *client.HttpClient
	log    *logger.Logger
}

func NewDiscordSink(webhookURL string, timeout time.Duration, log *logger.Logger) *DiscordSink {
	s := &DiscordSink{log: log}
	if webhookURL != "" {
		s.client = client.NewHttpClient(webhookURL, timeout)
	}
	return s
}

func (s *DiscordSink) ReservationConfirmed(ctx context.Context, conf *model.Confirmation) error {
	req := conf.Request
	return s.post(ctx, discordEmbed{
		Title: "Reservation confirmed",
		Color: colorConfirmed,
		Fields: []discordField{
			{Name: "ID", Value: conf.ReservationID, Inline: true},
			{Name: "Date", Value: fmt.Sprintf("%s (%s)", req.Date, req.DayOfWeek()), Inline: true},
			{Name: "Time", Value: fmt.Sprintf("%s-%s", req.StartTime, req.EndTime), Inline: true},
			{Name: "Court", Value: req.Court, Inline: true},
			{Name: "Name", Value: req.Name, Inline: true},
			{Name: "Fee", Value: fmt.Sprintf("¥%d (%s × %dh)", conf.Fee.Total, conf.Fee.CategoryLabel, conf.Fee.Hours), Inline: true},
		},
	})
}

func (s *DiscordSink) ConflictDetected(ctx context.Context, req *model.ReservationRequest) error {
	return s.post(ctx, discordEmbed{
		Title:       "Booking conflict",
		Description: "The requested slot overlaps an existing reservation.",
		Color:       colorConflict,
		Fields: []discordField{
			{Name: "Date", Value: req.Date, Inline: true},
			{Name: "Time", Value: fmt.Sprintf("%s-%s", req.StartTime, req.EndTime), Inline: true},
			{Name: "Court", Value: req.Court, Inline: true},
			{Name: "Name", Value: req.Name, Inline: true},
		},
	})
}

func (s *DiscordSink) CancelRequested(ctx context.Context, record *model.BookingRecord) error {
	// The same event covers a relayed request (status still confirmed) and
	// a completed admin cancellation.
	title := "Cancellation requested"
	if record.Status == model.StatusCancelled {
		title = "Reservation cancelled"
	}
	return s.post(ctx, discordEmbed{
		Title: title,
		Color: colorCancelled,
		Fields: []discordField{
			{Name: "ID", Value: record.ReservationID, Inline: true},
			{Name: "Date", Value: record.Date, Inline: true},
			{Name: "Time", Value: record.TimeRange(), Inline: true},
			{Name: "Name", Value: record.Name, Inline: true},
		},
	})
}

func (s *DiscordSink) DailySummary(ctx context.Context, records []*model.BookingRecord) error {
	if len(records) == 0 {
		return s.post(ctx, discordEmbed{
			Title:       "Today's bookings",
			Description: "No bookings today.",
			Color:       colorSummary,
		})
	}

	fields := make([]discordField, 0, len(records))
	for _, r := range records {
		fields = append(fields, discordField{
			Name:  fmt.Sprintf("%s %s", r.TimeRange(), r.Court),
			Value: fmt.Sprintf("%s (¥%d)", r.Name, r.Total),
		})
	}
	return s.post(ctx, discordEmbed{
		Title:  fmt.Sprintf("Today's bookings (%d)", len(records)),
		Color:  colorSummary,
		Fields: fields,
	})
}

func (s *DiscordSink) post(ctx context.Context, embed discordEmbed) error {
	if s.client == nil {
		return nil
	}
	embed.Timestamp = time.Now().UTC().Format(time.RFC3339)

	resp, err := s.client.POST(ctx, "", discordPayload{Embeds: []discordEmbed{embed}})
	if err != nil {
		return fmt.Errorf("discord webhook request failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook returned status %d: %s", resp.StatusCode, string(resp.Body))
	}
	return nil
}
