package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStore = `events:
  - slug: spring-swing
    name: Spring Swing
    collect_housing_data: true
    collect_survey_data: false
    cart_timeout: 15
orders:
  - code: ABC123
    event: spring-swing
    cart_start_time: 2026-04-01T10:00:00Z
    items:
      - id: pass-1
        name: Full Pass
        price: 12000
        status: reserved
      - id: shirt-1
        name: T-Shirt
        price: 2000
        status: bought
        attendee: att-1
    attendees:
      - id: att-1
        given_name: Frankie
        surname: Manning
        email: frankie@example.com
        housing_status: need
    paid: 2000
  - code: XYZ789
    event: spring-swing
    cart_start_time: 2026-04-01T10:10:00Z
    items:
      - id: pass-2
        name: Full Pass
        price: 12000
        status: reserved
`

// writeStore creates a store file at the default location under tmpDir.
func writeStore(t *testing.T, tmpDir, content string) string {
	t.Helper()

	path := filepath.Join(tmpDir, DefaultPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewReader(t *testing.T) {
	reader := NewReader("/some/path")

	assert.NotNil(t, reader)
	assert.Contains(t, reader.Path(), "brambling.yaml")
}

func TestReader_Read_Success(t *testing.T) {
	tmpDir := t.TempDir()
	writeStore(t, tmpDir, sampleStore)

	doc, err := NewReader(tmpDir).Read()

	require.NoError(t, err)
	require.Len(t, doc.Events, 1)
	require.Len(t, doc.Orders, 2)
	assert.True(t, doc.Events[0].CollectHousingData)
	assert.Equal(t, 15, doc.Events[0].CartTimeout)
	assert.Equal(t, ItemReserved, doc.Orders[0].Items[0].Status)
	require.NotNil(t, doc.Orders[0].CartStartTime)
	assert.Equal(t, time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC), doc.Orders[0].CartStartTime.UTC())
}

func TestReader_Read_FileNotFound(t *testing.T) {
	doc, err := NewReader(t.TempDir()).Read()

	assert.Error(t, err)
	assert.Nil(t, doc)
	assert.Contains(t, err.Error(), "failed to read store")
}

func TestReader_Read_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	writeStore(t, tmpDir, `events:
  slug: - not
    a: list
`)

	doc, err := NewReader(tmpDir).Read()

	assert.Error(t, err)
	assert.Nil(t, doc)
}

func TestReader_Read_InvalidItemStatus(t *testing.T) {
	tmpDir := t.TempDir()
	writeStore(t, tmpDir, `orders:
  - code: A
    event: e
    items:
      - id: x
        status: stolen
`)

	_, err := NewReader(tmpDir).Read()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stolen")
}

func TestReader_Event(t *testing.T) {
	tmpDir := t.TempDir()
	writeStore(t, tmpDir, sampleStore)
	reader := NewReader(tmpDir)

	event, err := reader.Event("spring-swing")
	require.NoError(t, err)
	assert.Equal(t, "Spring Swing", event.Name)

	_, err = reader.Event("winter-blues")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestReader_Order(t *testing.T) {
	tmpDir := t.TempDir()
	writeStore(t, tmpDir, sampleStore)
	reader := NewReader(tmpDir)

	tests := []struct {
		name      string
		eventSlug string
		code      string
		wantErr   error
	}{
		{name: "found", eventSlug: "spring-swing", code: "ABC123"},
		{name: "unknown order", eventSlug: "spring-swing", code: "NOPE", wantErr: ErrOrderNotFound},
		{name: "unknown event", eventSlug: "winter-blues", code: "ABC123", wantErr: ErrEventNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, order, err := reader.Order(tt.eventSlug, tt.code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, order)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.eventSlug, event.Slug)
			assert.Equal(t, tt.code, order.Code)
		})
	}
}

func TestOrder_Helpers(t *testing.T) {
	order := Order{
		Items: []BoughtItem{
			{ID: "a", Price: 1000, Status: ItemBought},
			{ID: "b", Price: 500, Status: ItemReserved},
			{ID: "c", Price: 700, Status: ItemRefunded},
		},
		Attendees: []Attendee{{ID: "att-1", GivenName: "Norma"}},
		Paid:      1000,
	}

	assert.Equal(t, 1500, order.Total())
	assert.Equal(t, 500, order.Balance())
	assert.Len(t, order.ItemsWithStatus(ItemBought, ItemReserved), 2)
	assert.Empty(t, order.ItemsWithStatus(ItemUnpaid))

	att, ok := order.Attendee("att-1")
	assert.True(t, ok)
	assert.Equal(t, "Norma", att.FullName())
	assert.False(t, att.BasicCompleted())

	_, ok = order.Attendee("att-2")
	assert.False(t, ok)
}

func TestOrder_CartExpired(t *testing.T) {
	start := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	order := Order{CartStartTime: &start}

	assert.False(t, order.CartExpired(15*time.Minute, start.Add(14*time.Minute)))
	assert.True(t, order.CartExpired(15*time.Minute, start.Add(15*time.Minute)))
	assert.False(t, (&Order{}).CartExpired(time.Minute, start))
}

func TestOrder_CartExpiredFor(t *testing.T) {
	start := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	order := Order{CartStartTime: &start}

	tests := []struct {
		name  string
		event *Event
		now   time.Time
		want  bool
	}{
		{name: "inside timeout", event: &Event{CartTimeout: 15}, now: start.Add(14 * time.Minute), want: false},
		{name: "at timeout", event: &Event{CartTimeout: 15}, now: start.Add(15 * time.Minute), want: true},
		{name: "zero timeout never expires", event: &Event{CartTimeout: 0}, now: start.Add(time.Hour), want: false},
		{name: "negative timeout never expires", event: &Event{CartTimeout: -5}, now: start.Add(time.Hour), want: false},
		{name: "no event", event: nil, now: start.Add(time.Hour), want: false},
		{name: "zero clock", event: &Event{CartTimeout: 15}, now: time.Time{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, order.CartExpiredFor(tt.event, tt.now))
		})
	}
}

func TestResolvePath_EnvVarOverride(t *testing.T) {
	t.Setenv("BRAMBLING_STORE_PATH", "/env/brambling.yaml")
	assert.Equal(t, "/env/brambling.yaml", ResolvePath("/base", "explicit.yaml"))
}

func TestResolvePath_ExplicitPath(t *testing.T) {
	t.Setenv("BRAMBLING_STORE_PATH", "")
	assert.Equal(t, "explicit.yaml", ResolvePath("/base", "explicit.yaml"))
}

func TestResolvePath_FallsBackToLegacyPath(t *testing.T) {
	t.Setenv("BRAMBLING_STORE_PATH", "")
	tmpDir := t.TempDir()
	legacy := filepath.Join(tmpDir, LegacyPath)
	require.NoError(t, os.WriteFile(legacy, []byte("events: []\n"), 0644))

	assert.Equal(t, legacy, ResolvePath(tmpDir, ""))
}

func TestResolvePath_DefaultWhenNothingFound(t *testing.T) {
	t.Setenv("BRAMBLING_STORE_PATH", "")
	tmpDir := t.TempDir()

	assert.Equal(t, filepath.Join(tmpDir, DefaultPath), ResolvePath(tmpDir, ""))
}
