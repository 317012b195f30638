package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-seating-backend/config"
	"restaurant-seating-backend/internal/metrics"
	"restaurant-seating-backend/internal/model"
	"restaurant-seating-backend/internal/seating"
	"restaurant-seating-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	reg := prometheus.NewRegistry()
	svc := seating.NewService(store.NewMemoryStore(), seating.Options{
		Now:     func() time.Time { return time.Date(2030, 1, 10, 12, 0, 0, 0, time.UTC) },
		Metrics: metrics.New(reg),
	})
	require.NoError(t, svc.Reseed(ctx))

	cfg := config.Default().Server
	cfg.RateLimitPerSec = 1000
	cfg.RateLimitBurst = 1000
	return NewRouter(ctx, svc, cfg, nil, reg)
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func reservationBody(area string, partySize int, date string) gin.H {
	return gin.H{"areaId": area, "partySize": partySize, "date": date, "startTime": "20:00", "duration": 90}
}

func TestRootAndHealth(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, welcomeBanner, w.Body.String())

	w = doJSON(router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	_, err := time.Parse(time.RFC3339, health["timestamp"])
	assert.NoError(t, err)
}

func TestGetAreas(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodGet, "/areas", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var areas []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &areas))
	require.Len(t, areas, 5)
	assert.Equal(t, "TERRACE", areas[0]["id"])
	assert.Equal(t, "Terrace", areas[0]["name"])
	assert.Equal(t, 8.0, areas[0]["maxTables"])
	assert.Equal(t, 8.0, areas[0]["currentTableCount"])
	assert.NotContains(t, areas[0], "Position")
}

func TestPostTable(t *testing.T) {
	router := setupRouter(t)

	testCases := []struct {
		name           string
		path           string
		body           any
		expectedStatus int
	}{
		{name: "Unknown area", path: "/areas/ROOFTOP/tables", body: gin.H{"capacity": 4}, expectedStatus: http.StatusNotFound},
		{name: "Area full", path: "/areas/BAR/tables", body: gin.H{"capacity": 4}, expectedStatus: http.StatusConflict},
		{name: "Composite not counted but VIP full", path: "/areas/VIP/tables", body: gin.H{"capacity": 4}, expectedStatus: http.StatusConflict},
		{name: "Bad capacity", path: "/areas/BAR/tables", body: gin.H{"capacity": 0}, expectedStatus: http.StatusBadRequest},
		{name: "Bad type", path: "/areas/BAR/tables", body: gin.H{"capacity": 2, "type": "BENCH"}, expectedStatus: http.StatusBadRequest},
		{name: "Empty body", path: "/areas/BAR/tables", body: nil, expectedStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}

	w := doJSON(router, http.MethodPost, "/areas/BAR/tables", gin.H{"capacity": 4})
	assert.Contains(t, w.Body.String(), "Bar (max: 5)")
}

func TestGetAvailability(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodGet, "/availability?areaId=BAR&date=2030-01-11&startTime=20:00&duration=60&partySize=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Available bool          `json:"available"`
		Tables    []model.Table `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Available)
	require.Len(t, got.Tables, 2)
	assert.Equal(t, "BAR-4", got.Tables[0].ID)

	w = doJSON(router, http.MethodGet, "/availability?areaId=BAR&date=2030-01-11&startTime=20:00&duration=60&partySize=9", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"available":false,"message":"No tables available for that party size or time."}`, w.Body.String())

	w = doJSON(router, http.MethodGet, "/availability?areaId=BAR&date=2030-01-11&startTime=20:00", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, missingParams), w.Body.String())

	w = doJSON(router, http.MethodGet, "/availability?areaId=BAR&date=2030-01-11&startTime=8pm&duration=60&partySize=2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReservationLifecycle(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/reservations", reservationBody("TERRACE", 2, "2030-01-11"))
	require.Equal(t, http.StatusCreated, w.Code)
	var created model.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "TERRACE-1", created.TableID)
	assert.Equal(t, "21:30", created.EndTime)
	assert.Equal(t, model.StatusConfirmed, created.Status)

	w = doJSON(router, http.MethodGet, "/reservations?date=2030-01-11&areaId=TERRACE", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []model.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	w = doJSON(router, http.MethodPatch, "/reservations/"+created.ID+"/status", gin.H{"status": "CANCELLED"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated model.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, model.StatusCancelled, updated.Status)

	// The cached listing must reflect the status change.
	w = doJSON(router, http.MethodGet, "/reservations?date=2030-01-11&areaId=TERRACE", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, model.StatusCancelled, listed[0].Status)

	w = doJSON(router, http.MethodPatch, "/reservations/"+created.ID+"/status", gin.H{"status": "SEATED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPatch, "/reservations/res_missing/status", gin.H{"status": "SEATED"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"reservation not found"}`, w.Body.String())
}

func TestPostReservation_Errors(t *testing.T) {
	router := setupRouter(t)

	for i := 0; i < 3; i++ {
		w := doJSON(router, http.MethodPost, "/reservations", reservationBody("BAR", 4, "2030-01-11"))
		if i < 2 {
			require.Equal(t, http.StatusCreated, w.Code)
		} else {
			assert.Equal(t, http.StatusConflict, w.Code)
		}
	}

	testCases := []struct {
		name           string
		body           any
		expectedStatus int
	}{
		{name: "Past date", body: reservationBody("TERRACE", 2, "2030-01-09"), expectedStatus: http.StatusUnprocessableEntity},
		{name: "Malformed date", body: reservationBody("TERRACE", 2, "soon"), expectedStatus: http.StatusUnprocessableEntity},
		{name: "Too large for area", body: reservationBody("BAR", 6, "2030-01-11"), expectedStatus: http.StatusUnprocessableEntity},
		{name: "Missing fields", body: gin.H{"areaId": "BAR"}, expectedStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/reservations", tc.body)
			assert.Equal(t, tc.expectedStatus, w.Code)
		})
	}
}

func TestPostSeed(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/reservations", reservationBody("LOBBY", 2, "2030-01-11"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/seed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "message")

	w = doJSON(router, http.MethodGet, "/reservations", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupRouter(t)

	doJSON(router, http.MethodPost, "/reservations", reservationBody("PATIO", 2, "2030-01-11"))
	w := doJSON(router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `seating_reservations_created_total{area="PATIO"} 1`)
}

func TestCORS(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/reservations", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_AuthorizedPreflight(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/reservations/res_1/status", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	router.ServeHTTP(w, req)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestErrorMapper(t *testing.T) {
	testCases := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{name: "Invalid date before generic validation", err: seating.ErrInvalidDate, expectedStatus: http.StatusUnprocessableEntity, expectedMessage: "date must be today or a future date"},
		{name: "Validation uses own text", err: &seating.ValidationError{Field: "status", Reason: "must be CONFIRMED or CANCELLED"}, expectedStatus: http.StatusBadRequest, expectedMessage: "status must be CONFIRMED or CANCELLED"},
		{name: "Wrapped conflict", err: fmt.Errorf("allocate: %w", seating.ErrScheduleConflict), expectedStatus: http.StatusConflict},
		{name: "Capacity", err: seating.ErrCapacityUnavailable, expectedStatus: http.StatusUnprocessableEntity},
		{name: "Area", err: seating.ErrAreaNotFound, expectedStatus: http.StatusNotFound, expectedMessage: "area not found"},
		{name: "Timeout", err: context.DeadlineExceeded, expectedStatus: http.StatusGatewayTimeout},
		{name: "Unknown", err: errors.New("disk on fire"), expectedStatus: http.StatusInternalServerError, expectedMessage: "internal server error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, message := seatingErrors.resolve(tc.err)
			assert.Equal(t, tc.expectedStatus, status)
			if tc.expectedMessage != "" {
				assert.Equal(t, tc.expectedMessage, message)
			}
		})
	}
}
