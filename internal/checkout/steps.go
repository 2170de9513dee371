package checkout

import (
	"fmt"

	"brambling/internal/store"
)

// liveItems are the items that still count towards an order.
func (c Context) liveItems() []store.BoughtItem {
	if c.Order == nil {
		return nil
	}
	return c.Order.ItemsWithStatus(store.ItemReserved, store.ItemUnpaid, store.ItemBought)
}

func (c Context) attendees() []store.Attendee {
	if c.Order == nil {
		return nil
	}
	return c.Order.Attendees
}

type shopStep struct{}

func (shopStep) Completed(ctx Context) bool {
	return len(ctx.liveItems()) > 0
}

func (shopStep) Errors(ctx Context) []error {
	if ctx.Order == nil {
		return nil
	}
	if len(ctx.Order.ItemsWithStatus(store.ItemReserved)) > 0 && ctx.Order.CartExpiredFor(ctx.Event, ctx.Now) {
		return []error{fmt.Errorf("your cart expired after %d minutes; add your items again", ctx.Event.CartTimeout)}
	}
	return nil
}

type attendeesStep struct{}

// Completed holds once there is an attendee and every live item is
// assigned to one.
func (attendeesStep) Completed(ctx Context) bool {
	if len(ctx.attendees()) == 0 {
		return false
	}
	for _, item := range ctx.liveItems() {
		if item.Attendee == "" {
			return false
		}
	}
	return true
}

func (attendeesStep) Errors(ctx Context) []error {
	var errs []error
	for _, a := range ctx.attendees() {
		if !a.BasicCompleted() {
			name := a.FullName()
			if name == "" {
				name = a.ID
			}
			errs = append(errs, fmt.Errorf("%s is missing a name or email address", name))
		}
	}
	if ctx.Order != nil {
		for _, item := range ctx.liveItems() {
			if item.Attendee == "" {
				continue
			}
			if _, ok := ctx.Order.Attendee(item.Attendee); !ok {
				errs = append(errs, fmt.Errorf("%s is assigned to an unknown attendee", item.Name))
			}
		}
	}
	return errs
}

type housingStep struct{}

// Active is false when nobody on the order needs housing.
func (housingStep) Active(ctx Context) bool {
	for _, a := range ctx.attendees() {
		if a.HousingStatus == store.HousingNeed {
			return true
		}
	}
	return false
}

func (housingStep) Completed(ctx Context) bool {
	for _, a := range ctx.attendees() {
		if a.HousingStatus == store.HousingNeed && !a.HousingCompleted {
			return false
		}
	}
	return true
}

type surveyStep struct{}

func (surveyStep) Completed(ctx Context) bool {
	return ctx.Order != nil && ctx.Order.SurveyCompleted
}

type paymentStep struct{}

func (paymentStep) Completed(ctx Context) bool {
	return len(ctx.liveItems()) > 0 && ctx.Order.Balance() <= 0
}
