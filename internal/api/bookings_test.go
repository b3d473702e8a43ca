package api_test

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/navikt/roomalloc/internal/allocation"
	"github.com/navikt/roomalloc/internal/api"
	"github.com/navikt/roomalloc/internal/building"
	"github.com/navikt/roomalloc/internal/models"
	"github.com/navikt/roomalloc/internal/repository/memory"
	"github.com/navikt/roomalloc/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T) (*http.ServeMux, *service.BookingService) {
	t.Helper()
	session := allocation.NewSession(building.Standard(), allocation.Options{Rand: rand.New(rand.NewSource(3))})
	svc := service.NewBookingService(session, memory.NewRepository(0))
	return api.SetupRoutes(svc), svc
}

func doRequest(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func decodeBooking(t *testing.T, rr *httptest.ResponseRecorder) api.BookingResponse {
	t.Helper()
	var resp api.BookingResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestBookRooms(t *testing.T) {
	mux, svc := setupTestServer(t)

	rr := doRequest(mux, http.MethodPost, "/api/bookings", `{"count": 3}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	resp := decodeBooking(t, rr)
	assert.Equal(t, []models.RoomID{101, 102, 103}, resp.Rooms)
	assert.Equal(t, 3, resp.Requested)
	assert.Equal(t, 3, resp.Allocated)
	assert.Equal(t, models.PolicySameFloor, resp.Policy)
	assert.Equal(t, 2, resp.TravelTime)
	assert.False(t, resp.Partial)
	assert.NotEmpty(t, resp.ID)

	assert.Equal(t, 94, svc.AvailableCount())
}

func TestBookRoomsCountAsString(t *testing.T) {
	mux, _ := setupTestServer(t)

	rr := doRequest(mux, http.MethodPost, "/api/bookings", `{"count": " 2 "}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, []models.RoomID{101, 102}, decodeBooking(t, rr).Rooms)
}

func TestBookRoomsInvalidInput(t *testing.T) {
	bodies := []string{
		`{"count": 0}`,
		`{"count": -2}`,
		`{"count": "abc"}`,
		`{"count": 2.5}`,
		`{"count": null}`,
		`{}`,
		`not json`,
		``,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			mux, svc := setupTestServer(t)

			rr := doRequest(mux, http.MethodPost, "/api/bookings", body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "invalid_input", decodeError(t, rr).Error)
			assert.Equal(t, 97, svc.AvailableCount())
		})
	}
}

func TestBookRoomsCapacityExceeded(t *testing.T) {
	mux, svc := setupTestServer(t)

	rr := doRequest(mux, http.MethodPost, "/api/bookings", `{"count": 6}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	resp := decodeError(t, rr)
	assert.Equal(t, "capacity_exceeded", resp.Error)
	assert.Equal(t, "You cannot book more than 5 rooms at once.", resp.Message)
	assert.Equal(t, 97, svc.AvailableCount())
	assert.Nil(t, svc.Latest())
}

func TestRandomOccupancy(t *testing.T) {
	mux, svc := setupTestServer(t)

	rr := doRequest(mux, http.MethodPost, "/api/occupancy/random", `{"count": 85}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Len(t, decodeBooking(t, rr).Rooms, 85)

	rr = doRequest(mux, http.MethodPost, "/api/occupancy/random", `{"count": 50}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	resp := decodeBooking(t, rr)
	assert.Len(t, resp.Rooms, 12)
	assert.Equal(t, 12, resp.Allocated)
	assert.True(t, resp.Partial)
	assert.Equal(t, 38, resp.Shortfall)
	assert.Equal(t, models.PolicyRandom, resp.Policy)
	assert.Equal(t, 0, svc.AvailableCount())

	rr = doRequest(mux, http.MethodPost, "/api/bookings", `{"count": 1}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "no_vacancy", decodeError(t, rr).Error)
}

func TestResetEndpoint(t *testing.T) {
	mux, svc := setupTestServer(t)

	doRequest(mux, http.MethodPost, "/api/bookings", `{"count": 4}`)
	rr := doRequest(mux, http.MethodPost, "/api/reset", "")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 97, svc.AvailableCount())
	assert.Nil(t, svc.Latest())
}

func TestLatestBooking(t *testing.T) {
	mux, _ := setupTestServer(t)

	rr := doRequest(mux, http.MethodGet, "/api/bookings/latest", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	doRequest(mux, http.MethodPost, "/api/bookings", `{"count": 5}`)
	doRequest(mux, http.MethodPost, "/api/bookings", `{"count": 5}`)
	doRequest(mux, http.MethodPost, "/api/bookings", `{"count": 2}`)

	rr = doRequest(mux, http.MethodGet, "/api/bookings/latest", "")
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeBooking(t, rr)
	assert.Equal(t, []models.RoomID{201, 202}, resp.Rooms)
	assert.Equal(t, 1, resp.TravelTime)
}

func TestBookingHistory(t *testing.T) {
	mux, _ := setupTestServer(t)

	first := decodeBooking(t, doRequest(mux, http.MethodPost, "/api/bookings", `{"count": 1}`))
	second := decodeBooking(t, doRequest(mux, http.MethodPost, "/api/bookings", `{"count": 2}`))

	rr := doRequest(mux, http.MethodGet, "/api/bookings/history", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.HistoryResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, second.ID, resp.Bookings[0].ID)
	assert.Equal(t, first.ID, resp.Bookings[1].ID)

	rr = doRequest(mux, http.MethodGet, "/api/bookings/"+first.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []models.RoomID{101}, decodeBooking(t, rr).Rooms)

	rr = doRequest(mux, http.MethodGet, "/api/bookings/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	doRequest(mux, http.MethodPost, "/api/reset", "")
	rr = doRequest(mux, http.MethodGet, "/api/bookings/history", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Empty(t, resp.Bookings)
}

func TestBookingMethodNotAllowed(t *testing.T) {
	mux, _ := setupTestServer(t)

	rr := doRequest(mux, http.MethodDelete, "/api/bookings", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
