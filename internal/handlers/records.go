package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"machine_efficiency/internal/models"
	"machine_efficiency/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	errRecordStatus  = "failed to record status"
	errRecordFailure = "failed to record failure"
	errListLogs      = "failed to load logs"
	errListFailures  = "failed to load failures"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// StatusLogRequest is an exported model for Swagger docs of the status
// log payload.
type StatusLogRequest struct {
	// Status to record. Allowed: RUNNING, IDLE, MAINTENANCE, FAILED, OFFLINE
	Status string `json:"status" example:"RUNNING"`
	// Entry timestamp; defaults to now
	Timestamp time.Time `json:"timestamp,omitempty"`
	// Time span this entry represents, in minutes
	DurationMinutes float64 `json:"duration_minutes" example:"90"`
	// Units produced during the entry
	ProductionCount int `json:"production_count,omitempty" example:"120"`
	// Free-text notes
	Notes string `json:"notes,omitempty"`
}

// FailureRequest is an exported model for Swagger docs of the failure
// payload.
type FailureRequest struct {
	// Failure category
	FailureType string `json:"failure_type" example:"Overheating"`
	// Event timestamp; defaults to now
	Timestamp time.Time `json:"timestamp,omitempty"`
	// Repair/outage duration in minutes
	DowntimeMinutes float64 `json:"downtime_minutes" example:"45"`
	// How the failure was resolved
	Resolution string `json:"resolution,omitempty" example:"Cooled down system"`
}

// @Summary      Record status entry
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "Machine ID"
// @Param        body  body  StatusLogRequest  true  "Status payload"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/machines/{id}/logs [post]
// @Security     BearerAuth
func (h *Handler) recordStatus(c *gin.Context) {
	var req StatusLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	ctx := c.Request.Context()
	entry := models.StatusLog{
		MachineID:       c.Param("id"),
		Status:          req.Status,
		Timestamp:       req.Timestamp,
		DurationMinutes: req.DurationMinutes,
		ProductionCount: req.ProductionCount,
		Notes:           req.Notes,
	}
	if err := h.services.RecordStatus(ctx, entry); err != nil {
		h.respondRecordError(c, err, errRecordStatus, "status_record_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusCreated})
}

// @Summary      Record failure
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        id    path  string          true  "Machine ID"
// @Param        body  body  FailureRequest  true  "Failure payload"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/machines/{id}/failures [post]
// @Security     BearerAuth
func (h *Handler) recordFailure(c *gin.Context) {
	var req FailureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	ctx := c.Request.Context()
	entry := models.FailureLog{
		MachineID:       c.Param("id"),
		FailureType:     req.FailureType,
		Timestamp:       req.Timestamp,
		DowntimeMinutes: req.DowntimeMinutes,
		Resolution:      req.Resolution,
	}
	if err := h.services.RecordFailure(ctx, entry); err != nil {
		h.respondRecordError(c, err, errRecordFailure, "failure_record_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusCreated})
}

// @Summary      List status logs
// @Description  Filter logs by machine and date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). If 'to' is date-only, it is treated as end-of-day inclusive.
// @Tags         records
// @Produce      json
// @Param        machine_id  query  string  false  "Machine ID"
// @Param        from        query  string  false  "Start of range"  example(2025-08-01)
// @Param        to          query  string  false  "End of range. Date-only treated as end of day."  example(2025-08-31)
// @Success      200  {object}  map[string]interface{}  "count, logs"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) listLogs(c *gin.Context) {
	q, ok := h.recordQueryFromRequest(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	logs, err := h.services.StatusLogs(ctx, q)
	if err != nil {
		if badRequestError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errListLogs, "logs_list_failed", err, "machine_id", q.MachineID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(logs),
		"logs":  logs,
	})
}

// @Summary      List failures
// @Description  Filter failures by machine and date range, same formats as /logs.
// @Tags         records
// @Produce      json
// @Param        machine_id  query  string  false  "Machine ID"
// @Param        from        query  string  false  "Start of range"  example(2025-08-01)
// @Param        to          query  string  false  "End of range. Date-only treated as end of day."  example(2025-08-31)
// @Success      200  {object}  map[string]interface{}  "count, failures"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/failures [get]
// @Security     BearerAuth
func (h *Handler) listFailures(c *gin.Context) {
	q, ok := h.recordQueryFromRequest(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	failures, err := h.services.FailureLogs(ctx, q)
	if err != nil {
		if badRequestError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errListFailures, "failures_list_failed", err, "machine_id", q.MachineID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(failures),
		"failures": failures,
	})
}

// respondRecordError maps domain errors from write paths to HTTP codes.
func (h *Handler) respondRecordError(c *gin.Context, err error, userMsg, logKey string) {
	switch {
	case errors.Is(err, service.ErrMachineNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case badRequestError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, userMsg, logKey, err)
	}
}

// recordQueryFromRequest parses machine_id/from/to query params. Writes
// the 400 response itself and returns ok=false on bad input.
func (h *Handler) recordQueryFromRequest(c *gin.Context) (service.RecordQuery, bool) {
	var (
		q   service.RecordQuery
		err error
	)
	q.MachineID = strings.TrimSpace(c.Query("machine_id"))

	// Parse 'from' (optional)
	if qs := c.Query("from"); qs != "" {
		q.From, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return service.RecordQuery{}, false
		}
	}
	// Parse 'to' (optional). If only a date is provided, make it end-of-day inclusive.
	if qs := c.Query("to"); qs != "" {
		q.To, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return service.RecordQuery{}, false
		}
		if isDateOnly(qs) {
			q.To = q.To.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	// Validate range if both provided
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return service.RecordQuery{}, false
	}
	return q, true
}

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
