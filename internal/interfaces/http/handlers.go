package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/viajafacil/viajafacil/internal/assistant"
	"github.com/viajafacil/viajafacil/internal/backup"
	"github.com/viajafacil/viajafacil/internal/expense"
	"github.com/viajafacil/viajafacil/internal/models"
	"github.com/viajafacil/viajafacil/internal/planner"
	"github.com/viajafacil/viajafacil/internal/report"
	"github.com/viajafacil/viajafacil/internal/store"
	"github.com/viajafacil/viajafacil/pkg/utils"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	store     *store.Store
	backup    *backup.Service
	assistant *assistant.Client
	reports   *report.Writer
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	tripStore *store.Store,
	backupSvc *backup.Service,
	assistantClient *assistant.Client,
	reportWriter *report.Writer,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		store:     tripStore,
		backup:    backupSvc,
		assistant: assistantClient,
		reports:   reportWriter,
		logger:    logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Success: false, Error: msg})
}

// storeError maps store sentinel errors to HTTP statuses.
func (h *Handlers) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrTripNotFound):
		fail(c, http.StatusNotFound, "trip not found")
	case errors.Is(err, store.ErrItemNotFound):
		fail(c, http.StatusNotFound, "item not found")
	case errors.Is(err, store.ErrDuplicateID):
		fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrValidation):
		fail(c, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("Unexpected store error", zap.Error(err))
		fail(c, http.StatusInternalServerError, "internal error")
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	ok(c, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ListTrips handles GET /api/trips
func (h *Handlers) ListTrips(c *gin.Context) {
	ok(c, h.store.Trips())
}

// CreateTripRequest is the payload for creating a trip. Only the name is
// required; everything else starts empty.
type CreateTripRequest struct {
	Name                string  `json:"name"`
	StartDate           string  `json:"startDate"`
	EndDate             string  `json:"endDate"`
	Budget              float64 `json:"budget"`
	ForeignCurrency     string  `json:"foreignCurrency"`
	DefaultExchangeRate float64 `json:"defaultExchangeRate"`
}

// CreateTrip handles POST /api/trips. The new trip becomes the active
// selection.
func (h *Handlers) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		fail(c, http.StatusUnprocessableEntity, "trip name is required")
		return
	}

	trip := models.NewTrip(req.Name)
	trip.StartDate = req.StartDate
	trip.EndDate = req.EndDate
	trip.Budget = utils.CoerceAmount(req.Budget)
	trip.ForeignCurrency = req.ForeignCurrency
	trip.DefaultExchangeRate = utils.CoerceAmount(req.DefaultExchangeRate)

	created, err := h.store.CreateTrip(trip)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: created})
}

// GetTrip handles GET /api/trips/:id
func (h *Handlers) GetTrip(c *gin.Context) {
	trip, found := h.store.Trip(c.Param("id"))
	if !found {
		fail(c, http.StatusNotFound, "trip not found")
		return
	}
	ok(c, trip)
}

// ActiveTrip handles GET /api/trips/active. A dangling or empty selection
// yields 404, which the client treats as "show trip list".
func (h *Handlers) ActiveTrip(c *gin.Context) {
	trip, found := h.store.ActiveTrip()
	if !found {
		fail(c, http.StatusNotFound, "no trip selected")
		return
	}
	ok(c, trip)
}

// UpdateTrip handles PATCH /api/trips/:id with a partial top-level merge.
func (h *Handlers) UpdateTrip(c *gin.Context) {
	var patch store.TripPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.Budget != nil {
		coerced := utils.CoerceAmount(*patch.Budget)
		patch.Budget = &coerced
	}
	if patch.DefaultExchangeRate != nil {
		coerced := utils.CoerceAmount(*patch.DefaultExchangeRate)
		patch.DefaultExchangeRate = &coerced
	}

	h.store.UpdateTrip(c.Param("id"), patch)

	trip, found := h.store.Trip(c.Param("id"))
	if !found {
		fail(c, http.StatusNotFound, "trip not found")
		return
	}
	ok(c, trip)
}

// DeleteTrip handles DELETE /api/trips/:id
func (h *Handlers) DeleteTrip(c *gin.Context) {
	h.store.DeleteTrip(c.Param("id"))
	ok(c, nil)
}

// SelectTrip handles POST /api/trips/:id/select
func (h *Handlers) SelectTrip(c *gin.Context) {
	id := c.Param("id")
	if _, found := h.store.Trip(id); !found {
		fail(c, http.StatusNotFound, "trip not found")
		return
	}
	h.store.SelectTrip(id)
	ok(c, nil)
}

// ClearSelection handles POST /api/trips/selection/clear
func (h *Handlers) ClearSelection(c *gin.Context) {
	h.store.ClearSelection()
	ok(c, nil)
}

// TripDays handles GET /api/trips/:id/days: the trip's day range with
// activities binned per day. An inverted or incomplete date range yields an
// empty schedule, not an error.
func (h *Handlers) TripDays(c *gin.Context) {
	trip, found := h.store.Trip(c.Param("id"))
	if !found {
		fail(c, http.StatusNotFound, "trip not found")
		return
	}
	ok(c, planner.Schedule(&trip))
}

// ExpenseSummary handles GET /api/trips/:id/expenses/summary
func (h *Handlers) ExpenseSummary(c *gin.Context) {
	trip, found := h.store.Trip(c.Param("id"))
	if !found {
		fail(c, http.StatusNotFound, "trip not found")
		return
	}
	ok(c, expense.Summarize(&trip))
}

// ExpenseReport handles GET /api/trips/:id/report, returning the generated
// spreadsheet as a download.
func (h *Handlers) ExpenseReport(c *gin.Context) {
	trip, found := h.store.Trip(c.Param("id"))
	if !found {
		fail(c, http.StatusNotFound, "trip not found")
		return
	}
	path, err := h.reports.WriteExpenseReport(&trip)
	if err != nil {
		h.logger.Error("Failed to write expense report", zap.Error(err))
		fail(c, http.StatusInternalServerError, "failed to generate report")
		return
	}
	c.FileAttachment(path, "despesas_"+trip.Name+".xlsx")
}

// ExportBackup handles GET /api/backup/export, streaming the full trip
// collection as an indented JSON document with the dated backup filename.
func (h *Handlers) ExportBackup(c *gin.Context) {
	trips := h.store.Trips()
	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", `attachment; filename="`+h.backup.FileName(time.Now())+`"`)
	if err := h.backup.Write(c.Writer, trips); err != nil {
		h.logger.Error("Backup export failed", zap.Error(err))
	}
}

// ImportBackup handles POST /api/backup/import. A document whose top-level
// value is not an array is rejected with no state change.
func (h *Handlers) ImportBackup(c *gin.Context) {
	trips, err := h.backup.Import(c.Request.Body)
	if err != nil {
		if errors.Is(err, backup.ErrNotArray) {
			fail(c, http.StatusBadRequest, "invalid backup: the file must contain a list of trips")
			return
		}
		fail(c, http.StatusBadRequest, "failed to read backup file")
		return
	}
	h.store.ReplaceAll(trips)
	ok(c, gin.H{"imported": len(trips)})
}

// SuggestItinerary handles POST /api/trips/:id/suggestions. One-shot call:
// a failure returns a single error and no partial results.
func (h *Handlers) SuggestItinerary(c *gin.Context) {
	if h.assistant == nil {
		fail(c, http.StatusServiceUnavailable, "assistant is not configured")
		return
	}
	trip, found := h.store.Trip(c.Param("id"))
	if !found {
		fail(c, http.StatusNotFound, "trip not found")
		return
	}

	destinations := ""
	for i, d := range trip.Destinations {
		if i > 0 {
			destinations += ", "
		}
		destinations += d.Name
	}
	if destinations == "" {
		fail(c, http.StatusUnprocessableEntity, "add at least one destination first")
		return
	}

	days := len(planner.TripDays(trip.StartDate, trip.EndDate))
	if days == 0 {
		days = 3
	}

	suggestions, err := h.assistant.SuggestItinerary(c.Request.Context(), destinations, days, trip.Budget)
	if err != nil {
		fail(c, http.StatusBadGateway, "could not generate suggestions")
		return
	}
	ok(c, suggestions)
}

// maxReceiptSize caps receipt uploads. The declared multipart size is
// client-controlled, so the read itself is bounded, not just the header.
const maxReceiptSize = 10 << 20

// AnalyzeReceipt handles POST /api/expenses/analyze with a multipart receipt
// file. Returns the extracted expense fields; nothing is persisted until the
// client saves the expense.
func (h *Handlers) AnalyzeReceipt(c *gin.Context) {
	if h.assistant == nil {
		fail(c, http.StatusServiceUnavailable, "assistant is not configured")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "receipt file is required")
		return
	}
	defer file.Close()

	if header.Size > maxReceiptSize {
		fail(c, http.StatusRequestEntityTooLarge, "receipt file exceeds the 10MB limit")
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, maxReceiptSize+1))
	if err != nil {
		fail(c, http.StatusBadRequest, "failed to read receipt file")
		return
	}
	if len(data) > maxReceiptSize {
		fail(c, http.StatusRequestEntityTooLarge, "receipt file exceeds the 10MB limit")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	extracted, err := h.assistant.AnalyzeReceipt(c.Request.Context(), data, mimeType)
	if err != nil {
		fail(c, http.StatusBadGateway, "could not analyze receipt")
		return
	}
	ok(c, extracted)
}
