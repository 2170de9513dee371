package server

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"brambling/internal/checkout"
	"brambling/internal/store"
)

// Submission errors. Each is answered with 400 by the submit handler.
var (
	ErrInvalidSubmission      = errors.New("invalid submission")
	ErrUnknownItem            = errors.New("unknown item")
	ErrUnknownAttendee        = errors.New("unknown attendee")
	ErrCheckPaymentNotAllowed = errors.New("payment by check is not accepted for this event")
)

// Payment methods accepted in a [PaymentInput].
const (
	PaymentCard  = "card"
	PaymentCheck = "check"
)

// AttendeeInput is one attendee as posted to the attendees step.
type AttendeeInput struct {
	ID            string              `json:"id"`
	GivenName     string              `json:"given_name"`
	Surname       string              `json:"surname"`
	Email         string              `json:"email"`
	HousingStatus store.HousingStatus `json:"housing_status"`
}

// PaymentInput is a payment posted to the payment step. Amount is in cents.
type PaymentInput struct {
	Amount int    `json:"amount"`
	Method string `json:"method"`
}

// Submission is the JSON body accepted by [BindJSONSubmission]. Only the
// fields belonging to the submitted step are applied.
type Submission struct {
	// Attendees replaces the order's attendees (attendees step).
	Attendees []AttendeeInput `json:"attendees"`

	// Assignments maps item IDs to attendee IDs (attendees step).
	Assignments map[string]string `json:"assignments"`

	// HousingCompleted lists attendees whose housing details are done
	// (housing step).
	HousingCompleted []string `json:"housing_completed"`

	// SurveyCompleted marks the order's survey (survey step).
	SurveyCompleted bool `json:"survey_completed"`

	// Payment is applied to the balance (payment step).
	Payment *PaymentInput `json:"payment"`
}

// BindJSONSubmission is the [SubmitFunc] used by the brambling server. It
// binds a [Submission] from the request body and applies the part that
// belongs to step. An empty body leaves the order unchanged.
func BindJSONSubmission(c *gin.Context, step *checkout.Step, order *store.Order) error {
	if c.Request.ContentLength == 0 {
		return nil
	}

	var sub Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}

	switch step.Slug() {
	case checkout.StepAttendees:
		return applyAttendees(order, sub.Attendees, sub.Assignments)
	case checkout.StepHousing:
		return applyHousing(order, sub.HousingCompleted)
	case checkout.StepSurvey:
		order.SurveyCompleted = sub.SurveyCompleted
	case checkout.StepPayment:
		return applyPayment(step.Workflow().Context().Event, order, sub.Payment)
	}
	return nil
}

func applyAttendees(order *store.Order, attendees []AttendeeInput, assignments map[string]string) error {
	if attendees != nil {
		updated := make([]store.Attendee, 0, len(attendees))
		for _, in := range attendees {
			if in.ID == "" {
				return fmt.Errorf("%w: attendee id is required", ErrInvalidSubmission)
			}
			a := store.Attendee{
				ID:            in.ID,
				GivenName:     in.GivenName,
				Surname:       in.Surname,
				Email:         in.Email,
				HousingStatus: in.HousingStatus,
			}
			if prev, ok := order.Attendee(in.ID); ok {
				a.HousingCompleted = prev.HousingCompleted
			}
			updated = append(updated, a)
		}
		order.Attendees = updated
	}

	for itemID, attendeeID := range assignments {
		idx := itemIndex(order, itemID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
		}
		if _, ok := order.Attendee(attendeeID); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownAttendee, attendeeID)
		}
		order.Items[idx].Attendee = attendeeID
	}
	return nil
}

func applyHousing(order *store.Order, completed []string) error {
	for _, id := range completed {
		found := false
		for i := range order.Attendees {
			if order.Attendees[i].ID == id {
				order.Attendees[i].HousingCompleted = true
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrUnknownAttendee, id)
		}
	}
	return nil
}

// applyPayment adds the payment to the order. Once nothing is owed, reserved
// and unpaid items become bought.
func applyPayment(event *store.Event, order *store.Order, p *PaymentInput) error {
	if p == nil {
		return nil
	}
	if p.Amount <= 0 {
		return fmt.Errorf("%w: payment amount must be positive", ErrInvalidSubmission)
	}

	switch p.Method {
	case "", PaymentCard:
	case PaymentCheck:
		if event == nil || !event.CheckPaymentAllowed {
			return ErrCheckPaymentNotAllowed
		}
	default:
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidSubmission, p.Method)
	}

	order.Paid += p.Amount
	if order.Balance() <= 0 {
		for i := range order.Items {
			if order.Items[i].Status == store.ItemReserved || order.Items[i].Status == store.ItemUnpaid {
				order.Items[i].Status = store.ItemBought
			}
		}
	}
	return nil
}

func itemIndex(order *store.Order, id string) int {
	for i, item := range order.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
