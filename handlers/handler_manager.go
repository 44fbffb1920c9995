package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dnoglop/task-joule/constants"
	"github.com/dnoglop/task-joule/middleware"
	"github.com/dnoglop/task-joule/models"
	"github.com/dnoglop/task-joule/services"
)

type HandlerManager struct {
	AuthenticationHandler *AuthenticationHandler
	ProfileHandler        *ProfileHandler
	ProgramHandler        *ProgramHandler
	TaskHandler           *TaskHandler
	ImportHandler         *ImportHandler
	ReportHandler         *ReportHandler
}

func NewHandlerManager(sm *services.ServiceManager) *HandlerManager {
	return &HandlerManager{
		AuthenticationHandler: NewAuthenticationHandler(sm.AuthenticationService),
		ProfileHandler:        NewProfileHandler(sm.ProfileService, sm.InviteService, sm.AvatarService),
		ProgramHandler:        NewProgramHandler(sm.ProgramService),
		TaskHandler:           NewTaskHandler(sm.TaskService),
		ImportHandler:         NewImportHandler(sm.TaskImportService),
		ReportHandler:         NewReportHandler(sm.ReportService),
	}
}

// requester builds the service-level caller identity from the JWT claims.
// The bool is false when the context carries no usable claims.
func requester(c *gin.Context) (services.Requester, bool) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse(http.StatusUnauthorized, "unauthorized", nil))
		return services.Requester{}, false
	}
	profileID, err := uuid.Parse(claims.ProfileID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse(http.StatusUnauthorized, "invalid user claims", nil))
		return services.Requester{}, false
	}
	return services.Requester{
		ProfileID: profileID,
		Role:      constants.RoleEnum(claims.Role),
	}, true
}

// parseUUIDParam reads a :id style path parameter as a UUID.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, "invalid identifier", nil))
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service errors to HTTP statuses with a single
// human-readable message.
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProgramNotFound),
		errors.Is(err, services.ErrProfileNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, models.ErrorResponse(status, err.Error(), nil))
}
