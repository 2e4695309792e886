package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/gradedesk/internal/app/models/dto"
	"github.com/yigit/gradedesk/internal/app/services"
	"github.com/yigit/gradedesk/internal/middleware"
)

// APIController exposes the session workspace as JSON
type APIController struct {
	console services.ConsoleService
}

// NewAPIController creates a new APIController
func NewAPIController(console services.ConsoleService) *APIController {
	return &APIController{console: console}
}

// GetWorkspace returns the caller's workspace
// @Summary Get the session workspace
// @Description Returns the active view, cached students and courses, every form and the status slot of the caller's session
// @Tags console
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.Workspace} "Workspace retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /console/workspace [get]
func (ac *APIController) GetWorkspace(ctx *gin.Context) {
	ws, err := ac.console.Workspace(ctx.Request.Context(), middleware.SessionID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(ws))
}

// GetStatus returns the status slot
// @Summary Get the status slot
// @Description Returns the outcome of the most recent console action
// @Tags console
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.StatusResponse} "Status retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /console/status [get]
func (ac *APIController) GetStatus(ctx *gin.Context) {
	id := middleware.SessionID(ctx)
	ws, err := ac.console.Workspace(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	inProgress := ws.Status.InProgress() && ac.console.InFlight(id, ws.Status.Operation)
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.StatusResponse{
		Status:     ws.Status,
		InProgress: inProgress,
	}))
}

// ProbeBackend checks that the results backend answers
// @Summary Probe the results backend
// @Description Lists courses with a short timeout and reports reachability and latency. The workspace is not modified.
// @Tags console
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.BackendProbeResponse} "Backend reachable"
// @Failure 502 {object} dto.APIResponse{data=dto.BackendProbeResponse} "Backend unreachable"
// @Router /console/backend [get]
func (ac *APIController) ProbeBackend(ctx *gin.Context) {
	probe := ac.console.ProbeBackend(ctx.Request.Context())
	status := http.StatusOK
	if !probe.Reachable {
		status = http.StatusBadGateway
	}
	ctx.JSON(status, dto.APIResponse{Success: probe.Reachable, Data: probe, Timestamp: time.Now()})
}
