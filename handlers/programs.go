package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dnoglop/task-joule/models"
	"github.com/dnoglop/task-joule/services"
)

type ProgramHandler struct {
	programService services.ProgramService
}

func NewProgramHandler(programService services.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

func (h *ProgramHandler) List(c *gin.Context) {
	programs, err := h.programService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("programs fetched", programs))
}

func (h *ProgramHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	program, err := h.programService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("program fetched", program))
}

func (h *ProgramHandler) Create(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}

	var in models.CreateProgramRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, err.Error(), nil))
		return
	}

	program, err := h.programService.Create(c.Request.Context(), req, &in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse("program created", program, http.StatusCreated))
}

func (h *ProgramHandler) Update(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var in models.UpdateProgramRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, err.Error(), nil))
		return
	}

	program, err := h.programService.Update(c.Request.Context(), req, id, &in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("program updated", program))
}

func (h *ProgramHandler) Delete(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.programService.Delete(c.Request.Context(), req, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("program deleted", nil))
}
