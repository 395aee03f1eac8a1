package handlers

import (
	"errors"
	"net/http"

	"machine_efficiency/internal/models"
	"machine_efficiency/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK      = "ok"
	statusCreated = "created"
	statusDeleted = "deleted"

	errCreateMachine = "failed to create machine"
	errListMachines  = "failed to list machines"
	errGetMachine    = "failed to load machine"
	errDeleteMachine = "failed to delete machine"

	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// badRequestError reports whether err is caller input the client can fix.
func badRequestError(err error) bool {
	for _, domain := range []error{
		service.ErrMachineIDRequired,
		service.ErrMachineNameRequired,
		service.ErrInvalidStatus,
		service.ErrNegativeDuration,
		service.ErrNegativeCount,
		service.ErrNegativeDowntime,
		service.ErrInvalidTimeRange,
		service.ErrFailureTypeNeeded,
	} {
		if errors.Is(err, domain) {
			return true
		}
	}
	return false
}

// CreateMachineRequest is an exported model for Swagger docs of the
// machine payload.
type CreateMachineRequest struct {
	// Unique machine identifier
	MachineID string `json:"machine_id" example:"M001"`
	// Human-readable name
	MachineName string `json:"machine_name" example:"CNC Machine 1"`
	// Equipment category
	MachineType string `json:"machine_type,omitempty" example:"CNC"`
	// Physical location
	Location string `json:"location,omitempty" example:"Floor A, Section 1"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Register machine
// @Description  Creates or replaces a machine record
// @Tags         machines
// @Accept       json
// @Produce      json
// @Param        body  body   CreateMachineRequest  true  "Machine payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/machines [post]
// @Security     BearerAuth
func (h *Handler) createMachine(c *gin.Context) {
	var req CreateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	ctx := c.Request.Context()
	m := models.Machine{
		MachineID:   req.MachineID,
		MachineName: req.MachineName,
		MachineType: req.MachineType,
		Location:    req.Location,
	}
	if err := h.services.CreateMachine(ctx, m); err != nil {
		if badRequestError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errCreateMachine, "machine_create_failed", err, "machine_id", req.MachineID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusCreated, "machine_id": req.MachineID})
}

// @Summary      List machines
// @Tags         machines
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, machines"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/machines [get]
// @Security     BearerAuth
func (h *Handler) listMachines(c *gin.Context) {
	ctx := c.Request.Context()
	machines, err := h.services.ListMachines(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListMachines, "machine_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(machines),
		"machines": machines,
	})
}

// @Summary      Get machine
// @Tags         machines
// @Produce      json
// @Param        id  path  string  true  "Machine ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/machines/{id} [get]
// @Security     BearerAuth
func (h *Handler) getMachine(c *gin.Context) {
	ctx := c.Request.Context()
	m, err := h.services.GetMachine(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrMachineNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetMachine, "machine_get_failed", err, "machine_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary      Delete machine
// @Description  Removes the machine and all of its logs and failures
// @Tags         machines
// @Produce      json
// @Param        id  path  string  true  "Machine ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/machines/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteMachine(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.services.DeleteMachine(ctx, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrMachineNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errDeleteMachine, "machine_delete_failed", err, "machine_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusDeleted})
}
