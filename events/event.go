package events

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	apperrors "github.com/jrsteele09/go-calendar-client/internal/errors"
	"github.com/jrsteele09/go-calendar-client/internal/utils"
	"github.com/rs/zerolog"
)

type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
)

// Validation codes for events.
const (
	CodeRequired       = "required"
	CodeEndBeforeStart = "endBeforeStart"
	CodeRecurrence     = "recurrence"
	CodeUntilBefore    = "repeatUntilBeforeStart"
)

var messages = map[string]string{
	CodeRequired:       "This field is required",
	CodeEndBeforeStart: "End date must not be before the start date",
	CodeRecurrence:     "Recurrence must be one of none, daily, weekly or monthly",
	CodeUntilBefore:    "Repeat until must not be before the start date",
}

// Message returns the text for a validation code.
func Message(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return code
}

// Recurrence describes how an event repeats. A nil RepeatUntil repeats forever.
type Recurrence struct {
	Type        RecurrenceType `json:"type"`
	RepeatUntil *time.Time     `json:"repeatUntil,omitempty"`
}

func (r Recurrence) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.In(
			RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly,
		).Error(CodeRecurrence)),
	)
}

// Repeats reports whether the recurrence produces more than one occurrence.
func (r Recurrence) Repeats() bool {
	return r.Type != "" && r.Type != RecurrenceNone
}

type Event struct {
	ID          int64      `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     time.Time  `json:"endDate"`
	Recurrence  Recurrence `json:"recurrence"`
	UserID      string     `json:"userId"`
}

// Validate checks the event before it is sent. Failures are a
// *errors.ValidationError keyed by json field name.
func (e Event) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(&e.Title, validation.Required.Error(CodeRequired)),
		validation.Field(&e.StartDate, validation.Required.Error(CodeRequired)),
		validation.Field(&e.EndDate,
			validation.Required.Error(CodeRequired),
			validation.By(notBefore(e.StartDate, CodeEndBeforeStart)),
		),
		validation.Field(&e.Recurrence),
		validation.Field(&e.UserID, validation.Required.Error(CodeRequired)),
	)
	if err != nil {
		return apperrors.Validation(err, Message)
	}
	if e.Recurrence.RepeatUntil != nil && e.Recurrence.RepeatUntil.Before(midnight(e.StartDate)) {
		return apperrors.FieldErrors(validation.Errors{
			"recurrence": validation.Errors{"repeatUntil": errors.New(CodeUntilBefore)},
		}, Message)
	}
	return nil
}

func notBefore(start time.Time, code string) validation.RuleFunc {
	return func(value interface{}) error {
		t, _ := value.(time.Time)
		if t.IsZero() || start.IsZero() {
			return nil
		}
		if t.Before(start) {
			return errors.New(code)
		}
		return nil
	}
}

// DescriptionText returns the description or "" when unset.
func (e *Event) DescriptionText() string {
	return utils.Value(e.Description)
}

func (e *Event) MarshalZerologObject(ev *zerolog.Event) {
	ev.Int64("id", e.ID).
		Str("title", e.Title).
		Time("start", e.StartDate).
		Time("end", e.EndDate).
		Str("recurrence", string(e.Recurrence.Type)).
		Str("user_id", e.UserID)
}
