package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dnoglop/task-joule/models"
	"github.com/dnoglop/task-joule/services"
)

// maxCSVSize caps CSV uploads at 10MB.
const maxCSVSize = 10 << 20

type ImportHandler struct {
	importService services.TaskImportService
}

func NewImportHandler(importService services.TaskImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportTasks accepts a multipart CSV upload and runs the bulk-import
// pipeline. Row problems never fail the request on their own; the response
// reports inserted/skipped counts and the per-row reasons.
func (h *ImportHandler) ImportTasks(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, "CSV file is required", nil))
		return
	}
	if fileHeader.Size > maxCSVSize {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, "CSV exceeds the 10MB limit", nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, err.Error(), nil))
		return
	}
	defer file.Close()

	result, err := h.importService.Import(c.Request.Context(), req.ProfileID, file)
	if err != nil {
		if errors.Is(err, services.ErrNoValidRows) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, err.Error(), result))
			return
		}
		respondServiceError(c, err)
		return
	}

	message := fmt.Sprintf("%d task(s) imported", result.Inserted)
	if len(result.Skipped) > 0 {
		message = fmt.Sprintf("%s, %d row(s) skipped", message, len(result.Skipped))
	}
	c.JSON(http.StatusOK, models.SuccessResponse(message, result))
}
