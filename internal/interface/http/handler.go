package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yanqian/tithi-calendar/internal/domain/astronomy"
	"github.com/yanqian/tithi-calendar/internal/domain/calendar"
	"github.com/yanqian/tithi-calendar/internal/domain/generation"
	"github.com/yanqian/tithi-calendar/internal/domain/lunar"
)

// CalendarService is the location and range surface used by the handlers.
type CalendarService interface {
	GetDailyAstronomy(ctx context.Context, req calendar.RangeRequest) (calendar.RangeResult, error)
	CreateLocation(ctx context.Context, req calendar.CreateLocationRequest) (calendar.CreatedLocation, error)
	ListLocations(ctx context.Context) ([]calendar.Location, error)
	GetLocation(ctx context.Context, id int64) (calendar.Location, error)
	DeleteLocation(ctx context.Context, id int64) error
	SetActiveLocation(ctx context.Context, id int64) (calendar.Preferences, error)
	SetTemporaryLocation(ctx context.Context, req calendar.TemporaryLocationRequest) (calendar.Preferences, error)
	ClearTemporaryLocation(ctx context.Context) (calendar.Preferences, error)
	Preferences(ctx context.Context) (calendar.Preferences, error)
	CurrentHorizon() (time.Time, time.Time)
}

// JobService exposes bulk generation jobs.
type JobService interface {
	Submit(ctx context.Context, locationID int64, start, end time.Time) (generation.Job, error)
	Get(ctx context.Context, id uuid.UUID) (generation.Job, error)
	ListByLocation(ctx context.Context, locationID int64) ([]generation.Job, error)
}

// LunarService tags and audits occurrences.
type LunarService interface {
	Tag(ctx context.Context, req lunar.TagRequest) (lunar.Occurrence, error)
	List(ctx context.Context, startDate, endDate string) ([]lunar.Occurrence, error)
	Audit(ctx context.Context, startDate, endDate string) (lunar.AuditReport, error)
}

// CalendarEncoder renders records as an iCalendar document.
type CalendarEncoder interface {
	Encode(records []astronomy.DailyRecord, label string) string
}

var (
	_ CalendarService = (*calendar.Service)(nil)
	_ JobService      = (*generation.Service)(nil)
	_ LunarService    = (*lunar.Service)(nil)
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	calendarSvc CalendarService
	jobSvc      JobService
	lunarSvc    LunarService
	encoder     CalendarEncoder
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(calendarSvc CalendarService, jobSvc JobService, lunarSvc LunarService, encoder CalendarEncoder, logger *slog.Logger) *Handler {
	return &Handler{
		calendarSvc: calendarSvc,
		jobSvc:      jobSvc,
		lunarSvc:    lunarSvc,
		encoder:     encoder,
		logger:      logger.With("component", "http.handler"),
	}
}

// DailyAstronomy answers a range query from the temporary or the active saved location.
func (h *Handler) DailyAstronomy(c *gin.Context) {
	result, err := h.calendarSvc.GetDailyAstronomy(c.Request.Context(), rangeFromQuery(c))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, newRangeResponse(result))
}

// CalendarFeed exports the named-phase days of a range as an ICS document.
func (h *Handler) CalendarFeed(c *gin.Context) {
	ctx := c.Request.Context()
	result, err := h.calendarSvc.GetDailyAstronomy(ctx, rangeFromQuery(c))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	body := h.encoder.Encode(result.DailyAstronomy, h.feedLabel(ctx, result.Source))
	c.Header("Content-Disposition", `attachment; filename="moon-phases.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

// feedLabel names the place the feed was computed for. Lookup failures only
// cost the label.
func (h *Handler) feedLabel(ctx context.Context, source calendar.Source) string {
	prefs, err := h.calendarSvc.Preferences(ctx)
	if err != nil {
		h.logger.Warn("feed label lookup failed", "error", err)
		return ""
	}
	if source == calendar.SourceTemporary && prefs.TemporaryLocation != nil {
		return prefs.TemporaryLocation.Name
	}
	if prefs.ActiveLocationID == nil {
		return ""
	}
	loc, err := h.calendarSvc.GetLocation(ctx, *prefs.ActiveLocationID)
	if err != nil {
		return ""
	}
	return loc.Name
}

// CreateLocation saves a location and returns once its dataset is generated.
func (h *Handler) CreateLocation(c *gin.Context) {
	var req calendar.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	created, err := h.calendarSvc.CreateLocation(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListLocations returns every saved location.
func (h *Handler) ListLocations(c *gin.Context) {
	locs, err := h.calendarSvc.ListLocations(c.Request.Context())
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locs})
}

// GetLocation returns one saved location.
func (h *Handler) GetLocation(c *gin.Context) {
	id, ok := locationIDParam(c)
	if !ok {
		return
	}
	loc, err := h.calendarSvc.GetLocation(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, loc)
}

// DeleteLocation removes a saved location and its stored days.
func (h *Handler) DeleteLocation(c *gin.Context) {
	id, ok := locationIDParam(c)
	if !ok {
		return
	}
	if err := h.calendarSvc.DeleteLocation(c.Request.Context(), id); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

type generateRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// GenerateLocation queues a bulk generation job and returns without waiting.
// Without a body the current horizon is regenerated.
func (h *Handler) GenerateLocation(c *gin.Context) {
	id, ok := locationIDParam(c)
	if !ok {
		return
	}
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	start, end := h.calendarSvc.CurrentHorizon()
	if req.StartDate != "" || req.EndDate != "" {
		var err error
		if start, err = astronomy.ParseDate(req.StartDate); err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "startDate must be YYYY-MM-DD", err))
			return
		}
		if end, err = astronomy.ParseDate(req.EndDate); err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "endDate must be YYYY-MM-DD", err))
			return
		}
	}

	job, err := h.jobSvc.Submit(c.Request.Context(), id, start, end)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusAccepted, newJobResponse(job))
}

// ListLocationJobs returns the generation history of a location.
func (h *Handler) ListLocationJobs(c *gin.Context) {
	id, ok := locationIDParam(c)
	if !ok {
		return
	}
	jobs, err := h.jobSvc.ListByLocation(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	out := make([]jobResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, newJobResponse(job))
	}
	c.JSON(http.StatusOK, gin.H{"jobs": out})
}

// GetJob returns a generation job.
func (h *Handler) GetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "job id must be a UUID", err))
		return
	}
	job, err := h.jobSvc.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, newJobResponse(job))
}

// Preferences returns the active and temporary location selection.
func (h *Handler) Preferences(c *gin.Context) {
	prefs, err := h.calendarSvc.Preferences(c.Request.Context())
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, prefs)
}

type activeLocationRequest struct {
	LocationID *int64 `json:"locationId"`
}

// SetActiveLocation selects the saved location used for range queries.
func (h *Handler) SetActiveLocation(c *gin.Context) {
	var req activeLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if req.LocationID == nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "locationId is required", nil))
		return
	}
	prefs, err := h.calendarSvc.SetActiveLocation(c.Request.Context(), *req.LocationID)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// SetTemporaryLocation stores the ephemeral location override.
func (h *Handler) SetTemporaryLocation(c *gin.Context) {
	var req calendar.TemporaryLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	prefs, err := h.calendarSvc.SetTemporaryLocation(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// ClearTemporaryLocation drops the override.
func (h *Handler) ClearTemporaryLocation(c *gin.Context) {
	prefs, err := h.calendarSvc.ClearTemporaryLocation(c.Request.Context())
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// TagOccurrence stores a manual tithi assignment.
func (h *Handler) TagOccurrence(c *gin.Context) {
	var req lunar.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	occ, err := h.lunarSvc.Tag(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, newOccurrenceResponse(occ))
}

// ListOccurrences returns tagged occurrences in a date range.
func (h *Handler) ListOccurrences(c *gin.Context) {
	occs, err := h.lunarSvc.List(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	out := make([]occurrenceResponse, 0, len(occs))
	for _, occ := range occs {
		out = append(out, newOccurrenceResponse(occ))
	}
	c.JSON(http.StatusOK, gin.H{"occurrences": out, "count": len(out)})
}

// AuditOccurrences compares stored tithi labels with the computed phase.
func (h *Handler) AuditOccurrences(c *gin.Context) {
	report, err := h.lunarSvc.Audit(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, newAuditResponse(report))
}

// Vocabulary lists the accepted tithi and nakshatra names.
func (h *Handler) Vocabulary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tithis":     lunar.Tithis(),
		"nakshatras": lunar.Nakshatras(),
	})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func rangeFromQuery(c *gin.Context) calendar.RangeRequest {
	return calendar.RangeRequest{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}
}

func locationIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "location id must be a positive integer", err))
		return 0, false
	}
	return id, true
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
