package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dnoglop/task-joule/models"
	"github.com/dnoglop/task-joule/services"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// List supports the dashboard's filter surface via query parameters:
// assigned_to, program_id, status, due_gte, due_lte, order_by.
func (h *TaskHandler) List(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}

	filter, err := taskFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, err.Error(), nil))
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), req, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("tasks fetched", tasks))
}

func (h *TaskHandler) Get(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), req, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("task fetched", task))
}

func (h *TaskHandler) Create(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}

	var in models.CreateTaskRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, err.Error(), nil))
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), req, &in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse("task created", task, http.StatusCreated))
}

func (h *TaskHandler) Update(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var in models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, err.Error(), nil))
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), req, id, &in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("task updated", task))
}

func (h *TaskHandler) Delete(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), req, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("task deleted", nil))
}

func (h *TaskHandler) ListComments(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.taskService.ListComments(c.Request.Context(), req, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse("comments fetched", comments))
}

func (h *TaskHandler) AddComment(c *gin.Context) {
	req, ok := requester(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var in models.CreateTaskCommentRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, err.Error(), nil))
		return
	}

	comment, err := h.taskService.AddComment(c.Request.Context(), req, id, in.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse("comment added", comment, http.StatusCreated))
}

func taskFilterFromQuery(c *gin.Context) (models.TaskFilter, error) {
	var filter models.TaskFilter

	if raw := c.Query("assigned_to"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, err
		}
		filter.AssignedTo = &id
	}
	if raw := c.Query("program_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, err
		}
		filter.ProgramID = &id
	}
	filter.Status = c.Query("status")
	if raw := c.Query("due_gte"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, err
		}
		filter.DueAfter = &t
	}
	if raw := c.Query("due_lte"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, err
		}
		filter.DueBefore = &t
	}
	filter.OrderBy = c.Query("order_by")

	return filter, nil
}
