package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/robertarktes/capsule-hotel/internal/domain"
	apihttp "github.com/robertarktes/capsule-hotel/internal/http"
	"github.com/robertarktes/capsule-hotel/internal/observability"
	"github.com/robertarktes/capsule-hotel/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	svc := service.New(domain.NewHotel("test"), nil, nil, nil, nil, observability.NewLogger())
	h := apihttp.NewHandlers(svc, nil)
	srv := httptest.NewServer(apihttp.SetupRouter(h, observability.NewLogger(), nil))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestAPI_BookingLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/guests", map[string]string{
		"name": "ivan ivanov", "passport": "1234567890", "phone": "+79123456789",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var guest struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	decode(t, resp, &guest)
	assert.Equal(t, "Ivan Ivanov", guest.Name)

	resp = postJSON(t, srv.URL+"/v1/capsules", map[string]string{"type": "Lux"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var capsule struct {
		ID            int     `json:"id"`
		PricePerNight float64 `json:"price_per_night"`
	}
	decode(t, resp, &capsule)
	assert.InDelta(t, 2500, capsule.PricePerNight, 250)

	today := domain.Today()
	resp = postJSON(t, srv.URL+"/v1/bookings", map[string]interface{}{
		"guest_id":   guest.ID,
		"capsule_id": capsule.ID,
		"start_date": today.Format(domain.DateFormat),
		"end_date":   today.AddDate(0, 0, 3).Format(domain.DateFormat),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var booking struct {
		ID     int     `json:"id"`
		Nights int     `json:"nights"`
		Total  float64 `json:"total"`
		Paid   bool    `json:"paid"`
	}
	decode(t, resp, &booking)
	assert.Equal(t, 3, booking.Nights)
	assert.InDelta(t, 3*capsule.PricePerNight, booking.Total, 0.001)
	assert.False(t, booking.Paid)

	resp = postJSON(t, fmt.Sprintf("%s/v1/bookings/%d/payment", srv.URL, booking.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var paid struct {
		Paid bool `json:"paid"`
	}
	decode(t, resp, &paid)
	assert.True(t, paid.Paid)

	// Paying twice conflicts.
	resp = postJSON(t, fmt.Sprintf("%s/v1/bookings/%d/payment", srv.URL, booking.ID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Paid bookings cannot be checked out.
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/v1/bookings/%d", srv.URL, booking.ID), nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_CheckOutFreesCapsule(t *testing.T) {
	srv := newTestServer(t)

	var guest, capsule struct {
		ID int `json:"id"`
	}
	resp := postJSON(t, srv.URL+"/v1/guests", map[string]string{
		"name": "petr petrov", "passport": "0987654321", "phone": "+79098765432",
	})
	decode(t, resp, &guest)
	resp = postJSON(t, srv.URL+"/v1/capsules", map[string]string{"type": "Standard"})
	decode(t, resp, &capsule)

	today := domain.Today()
	var booking struct {
		ID int `json:"id"`
	}
	resp = postJSON(t, srv.URL+"/v1/bookings", map[string]interface{}{
		"guest_id":   guest.ID,
		"capsule_id": capsule.ID,
		"start_date": today.Format(domain.DateFormat),
		"end_date":   today.AddDate(0, 0, 2).Format(domain.DateFormat),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decode(t, resp, &booking)

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/v1/bookings/%d", srv.URL, booking.ID), nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/v1/capsules/available")
	require.NoError(t, err)
	var available []struct {
		ID int `json:"id"`
	}
	decode(t, resp, &available)
	require.Len(t, available, 1)
	assert.Equal(t, capsule.ID, available[0].ID)
}

func TestAPI_ValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	var guest, capsule struct {
		ID int `json:"id"`
	}
	resp := postJSON(t, srv.URL+"/v1/guests", map[string]string{
		"name": "anna sidorova", "passport": "5555555555", "phone": "+79005550055",
	})
	decode(t, resp, &guest)
	resp = postJSON(t, srv.URL+"/v1/capsules", map[string]string{"type": "Premium"})
	decode(t, resp, &capsule)

	today := domain.Today()
	cases := []struct {
		name       string
		start, end string
		want       int
	}{
		{"end before start", today.AddDate(0, 0, 3).Format(domain.DateFormat), today.Format(domain.DateFormat), http.StatusBadRequest},
		{"start in past", today.AddDate(0, 0, -1).Format(domain.DateFormat), today.AddDate(0, 0, 2).Format(domain.DateFormat), http.StatusBadRequest},
		{"too long", today.Format(domain.DateFormat), today.AddDate(0, 0, 31).Format(domain.DateFormat), http.StatusBadRequest},
		{"malformed date", "23-08-2026", today.AddDate(0, 0, 2).Format(domain.DateFormat), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/v1/bookings", map[string]interface{}{
				"guest_id":   guest.ID,
				"capsule_id": capsule.ID,
				"start_date": tc.start,
				"end_date":   tc.end,
			})
			assert.Equal(t, tc.want, resp.StatusCode)
			resp.Body.Close()
		})
	}

	// Duplicate passport.
	resp = postJSON(t, srv.URL+"/v1/guests", map[string]string{
		"name": "other name", "passport": "5555555555", "phone": "+79000000000",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Unknown references.
	resp = postJSON(t, srv.URL+"/v1/bookings", map[string]interface{}{
		"guest_id":   999,
		"capsule_id": capsule.ID,
		"start_date": today.Format(domain.DateFormat),
		"end_date":   today.AddDate(0, 0, 2).Format(domain.DateFormat),
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/v1/bookings/999/payment", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_DoubleBookingConflicts(t *testing.T) {
	srv := newTestServer(t)

	var g1, g2, capsule struct {
		ID int `json:"id"`
	}
	resp := postJSON(t, srv.URL+"/v1/guests", map[string]string{
		"name": "ivan ivanov", "passport": "1111111111", "phone": "+79000000001",
	})
	decode(t, resp, &g1)
	resp = postJSON(t, srv.URL+"/v1/guests", map[string]string{
		"name": "petr petrov", "passport": "2222222222", "phone": "+79000000002",
	})
	decode(t, resp, &g2)
	resp = postJSON(t, srv.URL+"/v1/capsules", map[string]string{"type": "Standard"})
	decode(t, resp, &capsule)

	today := domain.Today()
	body := map[string]interface{}{
		"guest_id":   g1.ID,
		"capsule_id": capsule.ID,
		"start_date": today.Format(domain.DateFormat),
		"end_date":   today.AddDate(0, 0, 2).Format(domain.DateFormat),
	}
	resp = postJSON(t, srv.URL+"/v1/bookings", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	body["guest_id"] = g2.ID
	resp = postJSON(t, srv.URL+"/v1/bookings", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_StatsAndRecent(t *testing.T) {
	srv := newTestServer(t)

	var guest, capsule struct {
		ID int `json:"id"`
	}
	resp := postJSON(t, srv.URL+"/v1/guests", map[string]string{
		"name": "ivan ivanov", "passport": "1111111111", "phone": "+79000000001",
	})
	decode(t, resp, &guest)
	resp = postJSON(t, srv.URL+"/v1/capsules", map[string]string{"type": "Standard"})
	decode(t, resp, &capsule)

	today := domain.Today()
	var booking struct {
		ID    int     `json:"id"`
		Total float64 `json:"total"`
	}
	resp = postJSON(t, srv.URL+"/v1/bookings", map[string]interface{}{
		"guest_id":   guest.ID,
		"capsule_id": capsule.ID,
		"start_date": today.Format(domain.DateFormat),
		"end_date":   today.AddDate(0, 0, 2).Format(domain.DateFormat),
	})
	decode(t, resp, &booking)

	resp, err := http.Get(srv.URL + "/v1/stats/guests")
	require.NoError(t, err)
	var stats map[string]float64
	decode(t, resp, &stats)
	assert.InDelta(t, booking.Total, stats["Ivan Ivanov"], 0.001)

	resp, err = http.Get(srv.URL + "/v1/bookings/recent?count=10")
	require.NoError(t, err)
	var recent []struct {
		ID int `json:"id"`
	}
	decode(t, resp, &recent)
	require.Len(t, recent, 1)
	assert.Equal(t, booking.ID, recent[0].ID)
}

func TestAPI_Healthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
