package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"groundbook/internal/extract"
	"groundbook/internal/ledger"
	reservationerrors "groundbook/internal/reservations/errors"
	"groundbook/internal/reservations/service"
	"groundbook/pkg/config"
	apperrors "groundbook/pkg/errors"
	httputil "groundbook/pkg/http"
	"groundbook/pkg/logger"
	"groundbook/pkg/model"
)

const (
	messageTypeText  = "text"
	messageTypeImage = "image"
)

type webhookRequest struct {
	Sender    string `json:"sender,omitempty"`
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	ImageData string `json:"image_data,omitempty"`
	MimeType  string `json:"mime_type,omitempty"`
}

type webhookResponse struct {
	Reply string `json:"reply"`
}

// WebhookHandler is the conversational entry point: it accepts operator
// messages, routes slash commands, and pushes everything else through the
// extraction and commit pipeline. Pipeline rejections are conversational
// replies with status 200, not HTTP errors; the sender is a person in a
// chat, not an API client.
type WebhookHandler struct {
	extractor extract.Extractor
	committer *service.Committer
	queries   *ledger.QueryService
	log       *logger.Logger
}

func NewWebhookHandler(
	extractor extract.Extractor,
	committer *service.Committer,
	queries *ledger.QueryService,
	cfg *config.Config,
) *WebhookHandler {
	return &WebhookHandler{
		extractor: extractor,
		committer: committer,
		queries:   queries,
		log:       cfg.Log,
	}
}

func (h *WebhookHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/webhook", h.Receive)
}

func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Request body is not valid JSON"))
		return
	}

	h.log.Debug("Webhook message received", "sender", req.Sender, "type", req.Type)

	switch {
	case req.Type == messageTypeImage:
		h.reply(w, h.handleImage(r, &req))
	case strings.HasPrefix(strings.TrimSpace(req.Text), "/"):
		h.reply(w, h.handleCommand(r, strings.TrimSpace(req.Text)))
	case req.Type == "" || req.Type == messageTypeText:
		h.reply(w, h.handleText(r, req.Text))
	default:
		httputil.WriteError(w, apperrors.InvalidInput(
			fmt.Sprintf("Unsupported message type: %s", req.Type)))
	}
}

func (h *WebhookHandler) handleText(r *http.Request, text string) string {
	if strings.TrimSpace(text) == "" {
		return "Please send the reservation details: date, time, court and a contact name."
	}

	candidate, err := h.extractor.ExtractText(r.Context(), text)
	if err != nil {
		h.log.Error("Text extraction failed", "error", err)
		return "Sorry, I could not read that message. Please try rephrasing it."
	}
	return h.commit(r, candidate)
}

func (h *WebhookHandler) handleImage(r *http.Request, req *webhookRequest) string {
	data, err := base64.StdEncoding.DecodeString(req.ImageData)
	if err != nil {
		return "The image could not be decoded. Please resend it."
	}

	candidate, err := h.extractor.ExtractImage(r.Context(), data, req.MimeType)
	if err != nil {
		h.log.Error("Image extraction failed", "error", err)
		return "Sorry, I could not read that image. Please try sending the details as text."
	}
	return h.commit(r, candidate)
}

func (h *WebhookHandler) commit(r *http.Request, candidate *model.ReservationCandidate) string {
	conf, err := h.committer.Commit(r.Context(), candidate)
	if err != nil {
		return h.rejectionReply(err)
	}
	return renderConfirmation(conf)
}

func (h *WebhookHandler) rejectionReply(err error) string {
	if errors.Is(err, reservationerrors.ErrNotReservation) {
		return "I could not find reservation details in that message. " +
			"Send the date, time, court and a contact name, or /help for commands."
	}

	appErr := apperrors.AsAppError(err)
	switch appErr.Code {
	case apperrors.CodeValidation:
		return "The reservation is missing some details: " + validationFields(appErr) +
			". Please resend the message with those included."
	case apperrors.CodeConflict:
		return appErr.Message + ". Please pick a different time."
	default:
		h.log.Error("Reservation commit failed", "error", err)
		return "Something went wrong while booking. Please try again in a moment."
	}
}

func (h *WebhookHandler) handleCommand(r *http.Request, text string) string {
	parts := strings.Fields(text)
	switch parts[0] {
	case "/list":
		return h.commandList(r)
	case "/cancel":
		if len(parts) < 2 {
			return "Usage: /cancel <reservation-id>"
		}
		return h.commandCancel(r, parts[1])
	case "/help":
		return helpText
	default:
		return fmt.Sprintf("Unknown command %s. %s", parts[0], helpText)
	}
}

func (h *WebhookHandler) commandList(r *http.Request) string {
	records, err := h.queries.ListToday(r.Context())
	if err != nil {
		h.log.Error("Failed to list today's bookings", "error", err)
		return "Could not read today's bookings. Please try again."
	}
	return renderTodayList(records)
}

// commandCancel only relays the request to the staff sinks. The ledger is
// untouched; an operator confirms via the admin cancellation endpoint.
func (h *WebhookHandler) commandCancel(r *http.Request, reservationID string) string {
	record, err := h.committer.RequestCancel(r.Context(), reservationID)
	if err != nil {
		appErr := apperrors.AsAppError(err)
		if appErr.Code == apperrors.CodeNotFound {
			return fmt.Sprintf("No reservation found with id %s.", reservationID)
		}
		h.log.Error("Cancellation request failed", "reservation_id", reservationID, "error", err)
		return "Could not forward the cancellation request. Please try again."
	}
	return fmt.Sprintf("Cancellation request for %s (%s %s, %s) was forwarded to the staff.",
		record.ReservationID, record.Date, record.TimeRange(), record.Name)
}

func (h *WebhookHandler) reply(w http.ResponseWriter, text string) {
	if err := httputil.WriteJSON(w, http.StatusOK, webhookResponse{Reply: text}); err != nil {
		h.log.Error("Failed to write webhook response", "error", err)
	}
}

const helpText = "Commands: /list shows today's bookings, /cancel <id> cancels a reservation, /help shows this message. " +
	"Anything else is read as a reservation request."

func validationFields(appErr *apperrors.AppError) string {
	if fields, ok := appErr.Details["fields"].([]string); ok && len(fields) > 0 {
		return strings.Join(fields, ", ")
	}
	return "date, time or name"
}

func renderConfirmation(conf *model.Confirmation) string {
	req := conf.Request
	return fmt.Sprintf(
		"Reservation confirmed!\nID: %s\nDate: %s (%s)\nTime: %s-%s\nCourt: %s\nName: %s\nFee: %d yen (%d/h x %dh, %s)\nPayment: %s",
		conf.ReservationID,
		req.Date, req.DayOfWeek(),
		req.StartTime, req.EndTime,
		req.Court,
		req.Name,
		conf.Fee.Total, conf.Fee.RatePerHour, conf.Fee.Hours, model.DayTypeLabel(req.Weekend),
		conf.Fee.PaymentMethod,
	)
}

func renderTodayList(records []*model.BookingRecord) string {
	if len(records) == 0 {
		return "No bookings today."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Today's bookings (%d):", len(records))
	for _, rec := range records {
		fmt.Fprintf(&b, "\n%s %s - %s (%s, %d yen) [%s]",
			rec.TimeRange(), rec.Court, rec.Name, rec.CategoryLabel, rec.Total, rec.ReservationID)
	}
	return b.String()
}
