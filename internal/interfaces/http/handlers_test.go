package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/viajafacil/viajafacil/internal/assistant"
	"github.com/viajafacil/viajafacil/internal/attachment"
	"github.com/viajafacil/viajafacil/internal/backup"
	"github.com/viajafacil/viajafacil/internal/models"
	"github.com/viajafacil/viajafacil/internal/report"
	"github.com/viajafacil/viajafacil/internal/store"
)

type noopSaver struct{}

func (noopSaver) Save([]models.Trip) error { return nil }

func newTestServer(t *testing.T, initial ...models.Trip) *Server {
	t.Helper()
	logger := zap.NewNop()
	tripStore := store.New(initial, noopSaver{}, logger)
	return NewServer(
		ServerConfig{Host: "127.0.0.1", Port: 0},
		tripStore,
		backup.NewService("viajafacil", logger),
		nil,
		report.NewWriter(t.TempDir(), logger),
		logger,
	)
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func sampleTrip() models.Trip {
	trip := models.NewTrip("Portugal")
	trip.ID = "t1"
	trip.StartDate = "2024-06-01"
	trip.EndDate = "2024-06-03"
	trip.Budget = 5000
	trip.Destinations = []models.Destination{{ID: "d1", Name: "Lisboa"}}
	trip.Flights = []models.Flight{{ID: "f1", Airline: "TAP", FlightNumber: "TP82"}}
	return trip
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestCreateTrip(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodPost, "/api/trips",
		`{"name":"Peru","startDate":"2024-09-01","endDate":"2024-09-10","budget":8000}`)
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	require.True(t, resp.Success)
	trip := resp.Data.(map[string]interface{})
	assert.Equal(t, "Peru", trip["name"])
	assert.NotEmpty(t, trip["id"])

	// The new trip becomes the active selection.
	w = doJSON(t, srv, http.MethodGet, "/api/trips/active", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateTrip_RequiresName(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodPost, "/api/trips", `{"budget":100}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateTrip_NegativeBudgetCoercedToZero(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodPost, "/api/trips", `{"name":"Chile","budget":-500}`)
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	trip := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(0), trip["budget"])
}

func TestGetTrip_NotFound(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/api/trips/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestActiveTrip_NoSelection(t *testing.T) {
	srv := newTestServer(t, sampleTrip())
	w := doJSON(t, srv, http.MethodGet, "/api/trips/active", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelectAndClearSelection(t *testing.T) {
	srv := newTestServer(t, sampleTrip())

	w := doJSON(t, srv, http.MethodPost, "/api/trips/t1/select", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/api/trips/active", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/trips/selection/clear", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/api/trips/active", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelectTrip_UnknownID(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodPost, "/api/trips/ghost/select", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTrip_PartialMerge(t *testing.T) {
	srv := newTestServer(t, sampleTrip())

	w := doJSON(t, srv, http.MethodPatch, "/api/trips/t1", `{"budget":9000}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	trip := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(9000), trip["budget"])
	// Untouched fields survive the merge.
	assert.Equal(t, "Portugal", trip["name"])
	assert.Equal(t, "2024-06-01", trip["startDate"])
}

func TestDeleteTrip(t *testing.T) {
	srv := newTestServer(t, sampleTrip())

	w := doJSON(t, srv, http.MethodDelete, "/api/trips/t1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/api/trips/t1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTripDays(t *testing.T) {
	trip := sampleTrip()
	trip.Activities = []models.Activity{
		{ID: "a1", Description: "Museu", Date: "2024-06-02", Time: "10:00"},
	}
	srv := newTestServer(t, trip)

	w := doJSON(t, srv, http.MethodGet, "/api/trips/t1/days", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	days := resp.Data.([]interface{})
	require.Len(t, days, 3)
	second := days[1].(map[string]interface{})
	assert.Equal(t, "2024-06-02", second["date"])
	assert.Len(t, second["activities"], 1)
}

func TestExpenseSummary(t *testing.T) {
	trip := sampleTrip()
	trip.Expenses = []models.Expense{
		{ID: "e1", Description: "Pastel de nata", Amount: 30, Category: models.CategoryFood},
		{ID: "e2", Description: "Metro", Amount: 20, Category: models.CategoryTransport},
	}
	srv := newTestServer(t, trip)

	w := doJSON(t, srv, http.MethodGet, "/api/trips/t1/expenses/summary", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	summary := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(50), summary["total"])
	assert.Equal(t, float64(4950), summary["remaining"])
	assert.Equal(t, false, summary["overBudget"])
}

func TestAddFlight(t *testing.T) {
	srv := newTestServer(t, sampleTrip())

	w := doJSON(t, srv, http.MethodPost, "/api/trips/t1/flights",
		`{"airline":"LATAM","flightNumber":"LA8084","price":2500}`)
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	flight := resp.Data.(map[string]interface{})
	assert.Equal(t, "LATAM", flight["airline"])
	assert.NotEmpty(t, flight["id"])
}

func TestAddFlight_MissingAirline(t *testing.T) {
	srv := newTestServer(t, sampleTrip())
	w := doJSON(t, srv, http.MethodPost, "/api/trips/t1/flights", `{"flightNumber":"LA8084"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAddFlight_UnknownTrip(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodPost, "/api/trips/nope/flights",
		`{"airline":"GOL","flightNumber":"G31400"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAndRemoveFlight(t *testing.T) {
	srv := newTestServer(t, sampleTrip())

	w := doJSON(t, srv, http.MethodPut, "/api/trips/t1/flights/f1",
		`{"airline":"TAP","flightNumber":"TP83"}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	flight := resp.Data.(map[string]interface{})
	assert.Equal(t, "TP83", flight["flightNumber"])
	assert.Equal(t, "f1", flight["id"])

	w = doJSON(t, srv, http.MethodDelete, "/api/trips/t1/flights/f1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/api/trips/t1", "")
	resp = decodeResponse(t, w)
	trip := resp.Data.(map[string]interface{})
	assert.Empty(t, trip["flights"])
}

func TestAddExpense_LegacyCategoryCanonicalized(t *testing.T) {
	srv := newTestServer(t, sampleTrip())

	w := doJSON(t, srv, http.MethodPost, "/api/trips/t1/expenses",
		`{"description":"Ingresso","amount":80,"category":"Activity"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	exp := resp.Data.(map[string]interface{})
	assert.Equal(t, "Lazer", exp["category"])
}

func TestAddExpense_ForeignConversion(t *testing.T) {
	srv := newTestServer(t, sampleTrip())

	w := doJSON(t, srv, http.MethodPost, "/api/trips/t1/expenses",
		`{"description":"Jantar","amount":1,"category":"Alimentação","isForeign":true,"foreignAmount":10,"exchangeRate":5.5}`)
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	exp := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(55), exp["amount"])
}

func TestAddActivity_CompletedForcedFalse(t *testing.T) {
	srv := newTestServer(t, sampleTrip())

	w := doJSON(t, srv, http.MethodPost, "/api/trips/t1/activities",
		`{"description":"Trilha","date":"2024-06-02","completed":true}`)
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	act := resp.Data.(map[string]interface{})
	assert.Equal(t, false, act["completed"])
}

func TestExportBackup_SetsDownloadHeaders(t *testing.T) {
	srv := newTestServer(t, sampleTrip())

	w := doJSON(t, srv, http.MethodGet, "/api/backup/export", "")
	require.Equal(t, http.StatusOK, w.Code)

	disposition := w.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "backup_viajafacil_")
	assert.Contains(t, disposition, ".json")

	var trips []models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trips))
	require.Len(t, trips, 1)
	assert.Equal(t, "t1", trips[0].ID)
}

func TestImportBackup_ReplacesCollection(t *testing.T) {
	srv := newTestServer(t, sampleTrip())

	w := doJSON(t, srv, http.MethodPost, "/api/backup/import",
		`[{"id":"t9","name":"Importada"}]`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/api/trips", "")
	resp := decodeResponse(t, w)
	trips := resp.Data.([]interface{})
	require.Len(t, trips, 1)
	assert.Equal(t, "t9", trips[0].(map[string]interface{})["id"])
}

func TestImportBackup_RejectsObjectWithoutStateChange(t *testing.T) {
	srv := newTestServer(t, sampleTrip())

	w := doJSON(t, srv, http.MethodPost, "/api/backup/import", `{"id":"t9"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The existing collection is untouched.
	w = doJSON(t, srv, http.MethodGet, "/api/trips/t1", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSuggestItinerary_AssistantNotConfigured(t *testing.T) {
	srv := newTestServer(t, sampleTrip())
	w := doJSON(t, srv, http.MethodPost, "/api/trips/t1/suggestions", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAnalyzeReceipt_AssistantNotConfigured(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodPost, "/api/expenses/analyze", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAnalyzeReceipt_OversizedRejected(t *testing.T) {
	logger := zap.NewNop()
	srv := NewServer(
		ServerConfig{Host: "127.0.0.1", Port: 0},
		store.New(nil, noopSaver{}, logger),
		backup.NewService("viajafacil", logger),
		assistant.NewClient("test-key", "gpt-4o", 0.3, time.Second, logger),
		report.NewWriter(t.TempDir(), logger),
		logger,
	)

	body, contentType := multipartUpload(t, "file", "huge.pdf",
		bytes.Repeat([]byte{0x01}, maxReceiptSize+1))
	req := httptest.NewRequest(http.MethodPost, "/api/expenses/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	// Rejected from the declared size before the upstream call.
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func multipartUpload(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAttachToFlight(t *testing.T) {
	srv := newTestServer(t, sampleTrip())

	body, contentType := multipartUpload(t, "file", "cartao.pdf", []byte("boarding pass"))
	req := httptest.NewRequest(http.MethodPost, "/api/trips/t1/flights/f1/attachments", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	att := resp.Data.(map[string]interface{})
	assert.Equal(t, "cartao.pdf", att["name"])
	assert.Contains(t, att["data"], "base64,")
}

func TestAttachToFlight_OversizedRejected(t *testing.T) {
	srv := newTestServer(t, sampleTrip())

	body, contentType := multipartUpload(t, "file", "huge.bin",
		bytes.Repeat([]byte{0xab}, attachment.MaxSize+1))
	req := httptest.NewRequest(http.MethodPost, "/api/trips/t1/flights/f1/attachments", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestDetachFromFlight_UnknownAttachmentIsIdempotent(t *testing.T) {
	srv := newTestServer(t, sampleTrip())
	w := doJSON(t, srv, http.MethodDelete, "/api/trips/t1/flights/f1/attachments/nope", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAttachToFlight_UnknownFlight(t *testing.T) {
	srv := newTestServer(t, sampleTrip())

	body, contentType := multipartUpload(t, "file", "recibo.png", []byte{0x01})
	req := httptest.NewRequest(http.MethodPost, "/api/trips/t1/flights/ghost/attachments", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddDestinationAndRemove(t *testing.T) {
	srv := newTestServer(t, sampleTrip())

	w := doJSON(t, srv, http.MethodPost, "/api/trips/t1/destinations", `{"name":"Porto"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	dest := resp.Data.(map[string]interface{})

	w = doJSON(t, srv, http.MethodDelete, "/api/trips/t1/destinations/"+dest["id"].(string), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddDestination_RequiresName(t *testing.T) {
	srv := newTestServer(t, sampleTrip())
	w := doJSON(t, srv, http.MethodPost, "/api/trips/t1/destinations", `{"name":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
