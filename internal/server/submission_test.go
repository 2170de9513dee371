package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brambling/internal/store"
)

func doJSON(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestBindJSONSubmission(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		body         string
		wantStatus   int
		wantLocation string
		wantBody     string
		check        func(t *testing.T, order *store.Order)
	}{
		{
			name: "attendees are saved and items assigned",
			path: "/events/spring-swing/orders/CART/attendees",
			body: `{"attendees":[{"id":"a1","given_name":"Norma","surname":"Miller","email":"n@example.com"}],
				"assignments":{"pass":"a1"}}`,
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/events/spring-swing/orders/CART/payment",
			check: func(t *testing.T, order *store.Order) {
				require.Len(t, order.Attendees, 1)
				assert.Equal(t, "Norma", order.Attendees[0].GivenName)
				assert.Equal(t, "a1", order.Items[0].Attendee)
			},
		},
		{
			name:       "assignment of an unknown item",
			path:       "/events/spring-swing/orders/READY/attendees",
			body:       `{"assignments":{"shirt":"a1"}}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "unknown item",
		},
		{
			name:       "assignment to an unknown attendee",
			path:       "/events/spring-swing/orders/READY/attendees",
			body:       `{"assignments":{"pass":"a9"}}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "unknown attendee",
		},
		{
			name:       "attendee without id",
			path:       "/events/spring-swing/orders/READY/attendees",
			body:       `{"attendees":[{"given_name":"Norma"}]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "attendee id is required",
		},
		{
			name:       "check payment not allowed",
			path:       "/events/spring-swing/orders/READY/payment",
			body:       `{"payment":{"amount":10000,"method":"check"}}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "check",
		},
		{
			name:       "card payment completes the order",
			path:       "/events/spring-swing/orders/READY/payment",
			body:       `{"payment":{"amount":10000,"method":"card"}}`,
			wantStatus: http.StatusOK,
			wantBody:   `"complete":true`,
			check: func(t *testing.T, order *store.Order) {
				assert.Equal(t, 10000, order.Paid)
				assert.Equal(t, store.ItemBought, order.Items[0].Status)
			},
		},
		{
			name:       "malformed body",
			path:       "/events/spring-swing/orders/READY/payment",
			body:       `{"payment":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "invalid submission",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, reader := newTestServer(t)
			srv.SetSubmitFunc(BindJSONSubmission)

			rec := doJSON(t, srv, tt.path, tt.body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			if tt.check != nil {
				code := strings.Split(tt.path, "/")[4]
				_, order, err := reader.Order("spring-swing", code)
				require.NoError(t, err)
				tt.check(t, order)
			}
		})
	}
}

func TestBindJSONSubmission_EmptyBody(t *testing.T) {
	srv, reader := newTestServer(t)
	srv.SetSubmitFunc(BindJSONSubmission)

	rec := do(t, srv, http.MethodPost, "/events/spring-swing/orders/READY/payment", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	_, order, err := reader.Order("spring-swing", "READY")
	require.NoError(t, err)
	assert.Zero(t, order.Paid)
}

func TestApplyPayment(t *testing.T) {
	tests := []struct {
		name     string
		event    *store.Event
		payment  *PaymentInput
		wantErr  error
		wantPaid int
		wantItem store.ItemStatus
	}{
		{
			name:     "no payment",
			event:    &store.Event{},
			wantItem: store.ItemUnpaid,
		},
		{
			name:     "check accepted when allowed",
			event:    &store.Event{CheckPaymentAllowed: true},
			payment:  &PaymentInput{Amount: 10000, Method: PaymentCheck},
			wantPaid: 10000,
			wantItem: store.ItemBought,
		},
		{
			name:    "check rejected when not allowed",
			event:   &store.Event{},
			payment: &PaymentInput{Amount: 10000, Method: PaymentCheck},
			wantErr: ErrCheckPaymentNotAllowed,
		},
		{
			name:     "partial payment leaves items unpaid",
			event:    &store.Event{},
			payment:  &PaymentInput{Amount: 4000},
			wantPaid: 4000,
			wantItem: store.ItemUnpaid,
		},
		{
			name:    "non-positive amount",
			event:   &store.Event{},
			payment: &PaymentInput{Amount: 0},
			wantErr: ErrInvalidSubmission,
		},
		{
			name:    "unknown method",
			event:   &store.Event{},
			payment: &PaymentInput{Amount: 100, Method: "barter"},
			wantErr: ErrInvalidSubmission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &store.Order{Items: []store.BoughtItem{{ID: "pass", Price: 10000, Status: store.ItemUnpaid}}}

			err := applyPayment(tt.event, order, tt.payment)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, order.Paid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPaid, order.Paid)
			assert.Equal(t, tt.wantItem, order.Items[0].Status)
		})
	}
}

func TestApplyHousing(t *testing.T) {
	order := &store.Order{Attendees: []store.Attendee{{ID: "a1", HousingStatus: store.HousingNeed}}}

	require.NoError(t, applyHousing(order, []string{"a1"}))
	assert.True(t, order.Attendees[0].HousingCompleted)

	assert.ErrorIs(t, applyHousing(order, []string{"a2"}), ErrUnknownAttendee)
}
