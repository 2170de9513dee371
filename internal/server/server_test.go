package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brambling/internal/checkout"
	"brambling/internal/store"
)

const fixture = `events:
  - slug: spring-swing
    name: Spring Swing
    cart_timeout: 15
orders:
  - code: EMPTY
    event: spring-swing
  - code: CART
    event: spring-swing
    items:
      - id: pass
        name: Full Pass
        price: 10000
        status: reserved
  - code: READY
    event: spring-swing
    items:
      - id: pass
        name: Full Pass
        price: 10000
        status: unpaid
        attendee: a1
    attendees:
      - id: a1
        given_name: Frankie
        surname: Manning
        email: frankie@example.com
`

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*Server, *store.Reader) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "brambling.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0644))
	t.Setenv("BRAMBLING_STORE_PATH", path)

	reader := store.NewReader("")
	srv := New(reader, store.NewWriter(""), zerolog.Nop())
	srv.SetClock(func() time.Time { return time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC) })
	return srv, reader
}

func do(t *testing.T, srv *Server, method, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestShowStep(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		wantStatus   int
		wantLocation string
		wantCurrent  string
	}{
		{
			name:        "first step of empty order",
			path:        "/events/spring-swing/orders/EMPTY/shop",
			wantStatus:  http.StatusOK,
			wantCurrent: "shop",
		},
		{
			name:         "locked step redirects to last reachable step",
			path:         "/events/spring-swing/orders/CART/payment",
			wantStatus:   http.StatusFound,
			wantLocation: "/events/spring-swing/orders/CART/attendees",
		},
		{
			name:         "excluded step redirects",
			path:         "/events/spring-swing/orders/READY/housing",
			wantStatus:   http.StatusFound,
			wantLocation: "/events/spring-swing/orders/READY/payment",
		},
		{
			name:        "reachable earlier step is served",
			path:        "/events/spring-swing/orders/READY/attendees",
			wantStatus:  http.StatusOK,
			wantCurrent: "attendees",
		},
		{
			name:       "unknown order",
			path:       "/events/spring-swing/orders/NOPE/shop",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown event",
			path:       "/events/winter-blues/orders/CART/shop",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t)

			rec := do(t, srv, http.MethodGet, tt.path, nil)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
			if tt.wantCurrent != "" {
				var resp stepResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantCurrent, resp.Current.Slug)
				assert.True(t, resp.Current.Accessible)
				assert.NotEmpty(t, resp.Workflow)
			}
		})
	}
}

func TestShowStep_IncludesNextStep(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/events/spring-swing/orders/READY/attendees", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp stepResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "payment", resp.Next)
	assert.Len(t, resp.Workflow, 3)
}

func TestShowPlan_AjaxRequired(t *testing.T) {
	srv, _ := newTestServer(t)
	path := "/events/spring-swing/orders/CART/workflow"

	rec := do(t, srv, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, path, map[string]string{"X-Requested-With": "XMLHttpRequest"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Workflow []map[string]any `json:"workflow"`
		Current  string           `json:"current"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "attendees", resp.Current)
	assert.Len(t, resp.Workflow, 3)
}

func TestSubmitStep(t *testing.T) {
	t.Run("valid submission advances to next step", func(t *testing.T) {
		srv, reader := newTestServer(t)
		srv.SetSubmitFunc(func(c *gin.Context, step *checkout.Step, order *store.Order) error {
			order.Attendees = []store.Attendee{{ID: "a1", GivenName: "Norma", Surname: "Miller", Email: "n@example.com"}}
			order.Items[0].Attendee = "a1"
			return nil
		})

		rec := do(t, srv, http.MethodPost, "/events/spring-swing/orders/CART/attendees", nil)

		require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
		assert.Equal(t, "/events/spring-swing/orders/CART/payment", rec.Header().Get("Location"))

		_, order, err := reader.Order("spring-swing", "CART")
		require.NoError(t, err)
		require.Len(t, order.Attendees, 1)
		assert.Equal(t, "Norma", order.Attendees[0].GivenName)
	})

	t.Run("invalid submission stays on the step", func(t *testing.T) {
		srv, _ := newTestServer(t)
		srv.SetSubmitFunc(func(c *gin.Context, step *checkout.Step, order *store.Order) error {
			order.Attendees = []store.Attendee{{ID: "a1", GivenName: "Norma"}}
			order.Items[0].Attendee = "a1"
			return nil
		})

		rec := do(t, srv, http.MethodPost, "/events/spring-swing/orders/CART/attendees", nil)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/events/spring-swing/orders/CART/attendees", rec.Header().Get("Location"))
	})

	t.Run("last step completes the workflow", func(t *testing.T) {
		srv, _ := newTestServer(t)
		srv.SetSubmitFunc(func(c *gin.Context, step *checkout.Step, order *store.Order) error {
			order.Paid = order.Total()
			order.Items[0].Status = store.ItemBought
			return nil
		})

		rec := do(t, srv, http.MethodPost, "/events/spring-swing/orders/READY/payment", nil)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp struct {
			Complete bool `json:"complete"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Complete)
	})

	t.Run("rejected submission", func(t *testing.T) {
		srv, _ := newTestServer(t)
		srv.SetSubmitFunc(func(c *gin.Context, step *checkout.Step, order *store.Order) error {
			return errors.New("card declined")
		})

		rec := do(t, srv, http.MethodPost, "/events/spring-swing/orders/READY/payment", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "card declined")
	})

	t.Run("submission to locked step is redirected", func(t *testing.T) {
		srv, _ := newTestServer(t)
		called := false
		srv.SetSubmitFunc(func(c *gin.Context, step *checkout.Step, order *store.Order) error {
			called = true
			return nil
		})

		rec := do(t, srv, http.MethodPost, "/events/spring-swing/orders/EMPTY/payment", nil)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/events/spring-swing/orders/EMPTY/shop", rec.Header().Get("Location"))
		assert.False(t, called)
	})

	t.Run("no submit func re-evaluates only", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := do(t, srv, http.MethodPost, "/events/spring-swing/orders/CART/shop", nil)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/events/spring-swing/orders/CART/attendees", rec.Header().Get("Location"))
	})
}
