// Package store reads and writes the event and order records that checkout
// steps consult.
//
// Records live in a single YAML document. The workflow core only reads from
// the store; writes happen in request handlers and maintenance commands.
//
// Key types:
//   - [Document] is the root of the YAML file
//   - [Event] holds the organizer's configuration for one event
//   - [Order] holds an attendee group's cart, attendees and payments
//   - [Reader] and [Writer] load and persist the document
package store

import "time"

// ItemStatus is the lifecycle state of a bought item.
type ItemStatus string

// Item status values.
const (
	// ItemReserved is an item held in a cart that has not been paid for.
	// Reserved items expire after the event's cart timeout.
	ItemReserved ItemStatus = "reserved"

	// ItemUnpaid is an item committed to an order but not yet paid for,
	// e.g. while a mailed check is outstanding.
	ItemUnpaid ItemStatus = "unpaid"

	// ItemBought is a paid item.
	ItemBought ItemStatus = "bought"

	// ItemRefunded is an item whose payment was returned.
	ItemRefunded ItemStatus = "refunded"
)

// IsValid reports whether s is a known item status.
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemReserved, ItemUnpaid, ItemBought, ItemRefunded:
		return true
	}
	return false
}

// HousingStatus records whether an attendee needs housing.
type HousingStatus string

// Housing status values.
const (
	HousingNeed HousingStatus = "need"
	HousingHave HousingStatus = "have"
	HousingHome HousingStatus = "home"
)

// Event is the organizer-side configuration of one event.
type Event struct {
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`

	// CollectHousingData enables the housing step.
	CollectHousingData bool `yaml:"collect_housing_data"`

	// CollectSurveyData enables the survey step.
	CollectSurveyData bool `yaml:"collect_survey_data"`

	// CartTimeout is the number of minutes a reserved item is held. Zero
	// holds reserved items indefinitely.
	CartTimeout int `yaml:"cart_timeout"`

	// CheckPaymentAllowed lets attendees pay the balance by check.
	CheckPaymentAllowed bool `yaml:"check_payment_allowed"`
}

// BoughtItem is one pass, class or piece of merchandise on an order.
type BoughtItem struct {
	ID       string     `yaml:"id"`
	Name     string     `yaml:"name"`
	Price    int        `yaml:"price"` // in cents
	Status   ItemStatus `yaml:"status"`
	Attendee string     `yaml:"attendee,omitempty"`
}

// Attendee is a person attending on an order's items.
type Attendee struct {
	ID               string        `yaml:"id"`
	GivenName        string        `yaml:"given_name"`
	Surname          string        `yaml:"surname"`
	Email            string        `yaml:"email"`
	HousingStatus    HousingStatus `yaml:"housing_status,omitempty"`
	HousingCompleted bool          `yaml:"housing_completed,omitempty"`
}

// BasicCompleted reports whether the attendee's required fields are filled.
func (a Attendee) BasicCompleted() bool {
	return a.GivenName != "" && a.Surname != "" && a.Email != ""
}

// FullName returns the attendee's display name.
func (a Attendee) FullName() string {
	switch {
	case a.GivenName == "":
		return a.Surname
	case a.Surname == "":
		return a.GivenName
	}
	return a.GivenName + " " + a.Surname
}

// Order is an attendee group's purchase for an event.
type Order struct {
	Code            string       `yaml:"code"`
	EventSlug       string       `yaml:"event"`
	CartStartTime   *time.Time   `yaml:"cart_start_time,omitempty"`
	Items           []BoughtItem `yaml:"items"`
	Attendees       []Attendee   `yaml:"attendees"`
	SurveyCompleted bool         `yaml:"survey_completed"`
	Paid            int          `yaml:"paid"` // in cents
}

// ItemsWithStatus returns the order's items in any of the given statuses.
func (o *Order) ItemsWithStatus(statuses ...ItemStatus) []BoughtItem {
	var items []BoughtItem
	for _, item := range o.Items {
		for _, s := range statuses {
			if item.Status == s {
				items = append(items, item)
				break
			}
		}
	}
	return items
}

// Attendee returns the attendee with the given ID.
func (o *Order) Attendee(id string) (Attendee, bool) {
	for _, a := range o.Attendees {
		if a.ID == id {
			return a, true
		}
	}
	return Attendee{}, false
}

// Total returns the price of every item that has not been refunded.
func (o *Order) Total() int {
	total := 0
	for _, item := range o.Items {
		if item.Status != ItemRefunded {
			total += item.Price
		}
	}
	return total
}

// Balance returns the amount still owed on the order.
func (o *Order) Balance() int {
	return o.Total() - o.Paid
}

// CartExpired reports whether the order's cart was started more than
// timeout ago.
func (o *Order) CartExpired(timeout time.Duration, now time.Time) bool {
	if o.CartStartTime == nil {
		return false
	}
	return !o.CartStartTime.After(now.Add(-timeout))
}

// CartExpiredFor reports whether the order's cart has outlived the event's
// cart timeout at now. A cart timeout of zero or less disables expiry, and so
// does a zero now.
func (o *Order) CartExpiredFor(event *Event, now time.Time) bool {
	if event == nil || event.CartTimeout <= 0 || now.IsZero() {
		return false
	}
	return o.CartExpired(time.Duration(event.CartTimeout)*time.Minute, now)
}

// Document is the root of the store file.
type Document struct {
	Events []Event `yaml:"events"`
	Orders []Order `yaml:"orders"`
}
