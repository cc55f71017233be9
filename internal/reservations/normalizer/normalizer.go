// Package normalizer turns untrusted extractor candidates into
// invariant-bearing reservation requests. It is the single validation
// boundary: nothing downstream re-checks or re-derives fields.
package normalizer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"groundbook/pkg/config"
	"groundbook/pkg/logger"
	"groundbook/pkg/model"
	"groundbook/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Fields returns the offending field names, for error details.
func (v ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v))
	for _, err := range v {
		fields = append(fields, err.Field)
	}
	return fields
}

type Normalizer struct {
	validate *validator.Validate
	cfg      *config.Config
	log      *logger.Logger
}

func NewNormalizer(cfg *config.Config) *Normalizer {
	return &Normalizer{
		validate: validator.New(),
		cfg:      cfg,
		log:      cfg.Log,
	}
}

// Normalize validates the candidate and applies the derivation rules in
// order: hours, end time, court, category, day-type. Every missing or
// invalid field is reported, not just the first, so the caller can send one
// complete remediation message. Never panics.
func (n *Normalizer) Normalize(c *model.ReservationCandidate) (*model.ReservationRequest, error) {
	date := strings.TrimSpace(c.Date)
	start := sanitizer.NormalizeClock(c.StartTime)
	end := sanitizer.NormalizeClock(c.EndTime)
	name := sanitizer.NormalizeName(c.Name)
	court := sanitizer.NormalizeKey(c.Court)
	category := sanitizer.NormalizeKey(c.Category)

	var errs ValidationErrors

	// Required fields first; all of them are reported together.
	if date == "" {
		errs = append(errs, ValidationError{Field: "date", Message: "date is required"})
	}
	if start == "" {
		errs = append(errs, ValidationError{Field: "start_time", Message: "start_time is required"})
	}
	if name == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name is required"})
	}

	var day time.Time
	if date != "" {
		var err error
		day, err = time.Parse(model.DateLayout, date)
		if err != nil {
			errs = append(errs, ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
		}
	}

	var startAt time.Time
	if start != "" {
		var err error
		startAt, err = time.Parse(model.TimeLayout, start)
		if err != nil {
			errs = append(errs, ValidationError{Field: "start_time", Message: "start_time must be in HH:MM format"})
		}
	}

	var endAt time.Time
	endValid := false
	if end != "" {
		var err error
		endAt, err = time.Parse(model.TimeLayout, end)
		if err != nil {
			errs = append(errs, ValidationError{Field: "end_time", Message: "end_time must be in HH:MM format"})
		} else {
			endValid = true
		}
	}

	if court == "" {
		court = n.cfg.DefaultCourt
	} else if n.cfg.CourtByID(court) == nil {
		errs = append(errs, ValidationError{
			Field:   "court",
			Message: fmt.Sprintf("court must be one of: %s", strings.Join(n.courtIDs(), ", ")),
		})
	}

	if _, ok := n.cfg.Categories[category]; !ok {
		if category != "" {
			n.log.Warn("Unrecognized category on candidate, using default",
				"category", category,
				"default_category", n.cfg.DefaultCategory,
			)
		}
		category = n.cfg.DefaultCategory
	}

	if len(errs) > 0 {
		return nil, errs
	}

	hours := n.deriveHours(c.Hours, startAt, endAt, endValid)

	// End time is always recomputed from start + hours so the window
	// invariant holds even when the extractor supplied an inconsistent end.
	end = startAt.Add(time.Duration(hours) * time.Hour).Format(model.TimeLayout)

	weekend := n.cfg.IsWeekendDay(day.Weekday())
	if c.IsWeekend != nil {
		// Explicit flag covers holidays the weekday derivation cannot see.
		weekend = *c.IsWeekend
	}

	req := &model.ReservationRequest{
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Hours:     hours,
		Court:     court,
		Category:  category,
		Weekend:   weekend,
		Name:      name,
		Phone:     sanitizer.NormalizePhone(c.Phone),
		Notes:     sanitizer.NormalizeNotes(c.Notes),
	}

	if err := n.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, n.translateValidationErrors(validationErrs)
		}
		return nil, ValidationErrors{{Field: "request", Message: err.Error()}}
	}

	return req, nil
}

// deriveHours applies the rounding policy. Missing durations default to
// the minimum, short ones are raised to it, and non-conforming ones are
// rounded up to the next unit. Rounding down would under-charge.
func (n *Normalizer) deriveHours(hours int, startAt, endAt time.Time, endValid bool) int {
	if hours <= 0 && endValid && endAt.After(startAt) {
		hours = int(endAt.Sub(startAt).Hours())
		if endAt.Sub(startAt)%time.Hour != 0 {
			hours++
		}
	}
	if hours < n.cfg.MinBookingHours {
		hours = n.cfg.MinBookingHours
	}
	if rem := hours % n.cfg.UnitHours; rem != 0 {
		hours += n.cfg.UnitHours - rem
	}
	return hours
}

func (n *Normalizer) courtIDs() []string {
	ids := make([]string, 0, len(n.cfg.Courts))
	for _, c := range n.cfg.Courts {
		ids = append(ids, c.ID)
	}
	return ids
}

func (n *Normalizer) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must match layout %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
