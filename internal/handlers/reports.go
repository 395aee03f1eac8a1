package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"machine_efficiency/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errMachineReport = "failed to compute machine report"
	errFleetOverview = "failed to compute fleet overview"
	errSeedData      = "failed to generate sample data"
)

// SeedRequest is an exported model for Swagger docs of the sample-data
// payload.
type SeedRequest struct {
	// Number of machines to generate (default 5)
	Machines int `json:"machines,omitempty" example:"5"`
	// Days of history to cover (default 7)
	Days int `json:"days,omitempty" example:"7"`
	// Status logs per machine per day (default 15)
	LogsPerDay int `json:"logs_per_day,omitempty" example:"15"`
	// Failure count (default machines*3)
	Failures int `json:"failures,omitempty" example:"15"`
}

// @Summary      Machine KPI report
// @Description  Running/idle/downtime percentages, productivity, failure rate, MTBF/MTTR, and OEE for one machine. 'ideal_cycle_time' (minutes per unit) and 'planned_time' (minutes) override the configured OEE defaults.
// @Tags         reports
// @Produce      json
// @Param        id               path   string  true   "Machine ID"
// @Param        from             query  string  false  "Start of range"  example(2025-08-01)
// @Param        to               query  string  false  "End of range"    example(2025-08-31)
// @Param        ideal_cycle_time query  number  false  "Ideal cycle time in minutes per unit"
// @Param        planned_time     query  number  false  "Planned production time in minutes"
// @Success      200  {object}  service.MachineReport
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/machines/{id}/report [get]
// @Security     BearerAuth
func (h *Handler) machineReport(c *gin.Context) {
	q, ok := h.recordQueryFromRequest(c)
	if !ok {
		return
	}

	params, ok := oeeParamsFromRequest(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	report, err := h.services.MachineReport(ctx, c.Param("id"), q, params)
	if err != nil {
		if errors.Is(err, service.ErrMachineNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if badRequestError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errMachineReport, "machine_report_failed", err, "machine_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary      Fleet overview
// @Description  Dashboard header metrics plus one summary row per machine over the date range.
// @Tags         reports
// @Produce      json
// @Param        from  query  string  false  "Start of range"  example(2025-08-01)
// @Param        to    query  string  false  "End of range"    example(2025-08-31)
// @Success      200  {object}  service.FleetOverview
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/overview [get]
// @Security     BearerAuth
func (h *Handler) fleetOverview(c *gin.Context) {
	q, ok := h.recordQueryFromRequest(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	overview, err := h.services.FleetOverview(ctx, q)
	if err != nil {
		if badRequestError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errFleetOverview, "fleet_overview_failed", err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// @Summary      Generate sample data
// @Description  Seeds synthetic machines, status logs, and failures for demos.
// @Tags         system
// @Accept       json
// @Produce      json
// @Param        body  body  SeedRequest  false  "Seed parameters"
// @Success      200   {object}  service.SeedSummary
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/sample-data [post]
// @Security     BearerAuth
func (h *Handler) seedSampleData(c *gin.Context) {
	var req SeedRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
			return
		}
	}

	ctx := c.Request.Context()
	summary, err := h.services.Seed(ctx, service.SeedParams{
		Machines:   req.Machines,
		Days:       req.Days,
		LogsPerDay: req.LogsPerDay,
		Failures:   req.Failures,
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSeedData, "sample_data_failed", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// oeeParamsFromRequest parses the optional OEE override query params.
// Writes the 400 response itself and returns ok=false on bad input.
func oeeParamsFromRequest(c *gin.Context) (service.OEEParams, bool) {
	var p service.OEEParams

	if qs := c.Query("ideal_cycle_time"); qs != "" {
		v, err := strconv.ParseFloat(qs, 64)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'ideal_cycle_time'; must be a positive number of minutes"})
			return service.OEEParams{}, false
		}
		p.IdealCycleTimeMinutes = v
	}
	if qs := c.Query("planned_time"); qs != "" {
		v, err := strconv.ParseFloat(qs, 64)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'planned_time'; must be a positive number of minutes"})
			return service.OEEParams{}, false
		}
		p.PlannedProductionTimeMinutes = v
	}
	return p, true
}
