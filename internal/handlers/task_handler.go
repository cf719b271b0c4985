package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"todosync/internal/middleware"
	"todosync/internal/models"
	"todosync/internal/services"
)

type TaskHandler struct {
	service services.TaskService
}

func NewTaskHandler(service services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// POST /task
func (h *TaskHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req struct {
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description" binding:"required"`
		DueDate     string              `json:"dueDate"` // RFC3339
		Status      models.TaskStatus   `json:"status"`
		Priority    models.TaskPriority `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		failJSON(c, http.StatusBadRequest, "a task must have a title and a description")
		return
	}

	var due *time.Time
	if req.DueDate != "" {
		t, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			failJSON(c, http.StatusBadRequest, "invalid dueDate (RFC3339)")
			return
		}
		due = &t
	}
	if req.Status != "" && !models.IsAllowedTaskStatus(req.Status) {
		failJSON(c, http.StatusBadRequest, "invalid status")
		return
	}
	if req.Priority != "" && !models.IsAllowedTaskPriority(req.Priority) {
		failJSON(c, http.StatusBadRequest, "invalid priority")
		return
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		Status:      req.Status,
		Priority:    req.Priority,
	}

	created, err := h.service.Create(c.Request.Context(), user, task)
	if err != nil {
		log.Printf("[task][create][err] userID=%d: %v", user.ID, err)
		errorJSON(c, http.StatusInternalServerError, "there is an error adding task")
		return
	}
	log.Printf("[task][create][ok] id=%d userID=%d title=%q", created.ID, user.ID, created.Title)
	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"task":   created,
	})
}

// GET /tasks
func (h *TaskHandler) GetAll(c *gin.Context) {
	user := middleware.CurrentUser(c)

	tasks, err := h.service.GetAllForUser(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("[task][list][err] userID=%d: %v", user.ID, err)
		errorJSON(c, http.StatusInternalServerError, "failed to retrieve tasks")
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(tasks),
		"tasks":   tasks,
	})
}

// GET /task/:taskId
func (h *TaskHandler) GetByID(c *gin.Context) {
	task, ok := h.findTask(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"task":   task,
	})
}

// PATCH /task/:taskId
func (h *TaskHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	task, ok := h.findTask(c)
	if !ok {
		return
	}

	// явный allowlist полей: всё, чего здесь нет, не патчится
	var req models.TaskUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][update][bind][err] %v", err)
		failJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			task.DueDate = nil
		} else {
			t, err := time.Parse(time.RFC3339, *req.DueDate)
			if err != nil {
				failJSON(c, http.StatusBadRequest, "Invalid due date format")
				return
			}
			task.DueDate = &t
		}
	}
	if req.Status != nil {
		if !models.IsAllowedTaskStatus(*req.Status) {
			failJSON(c, http.StatusBadRequest, "invalid status")
			return
		}
		task.Status = *req.Status
	}
	if req.Priority != nil {
		if !models.IsAllowedTaskPriority(*req.Priority) {
			failJSON(c, http.StatusBadRequest, "invalid priority")
			return
		}
		task.Priority = *req.Priority
	}

	updated, err := h.service.Update(c.Request.Context(), user, task)
	if err != nil {
		log.Printf("[task][update][err] id=%d: %v", task.ID, err)
		errorJSON(c, http.StatusInternalServerError, "failed to update task")
		return
	}
	log.Printf("[task][update][ok] id=%d", updated.ID)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Task updated successfully",
		"task":    updated,
	})
}

// DELETE /task/:taskId
func (h *TaskHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	task, ok := h.findTask(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), user, task); err != nil {
		log.Printf("[task][delete][err] id=%d: %v", task.ID, err)
		errorJSON(c, http.StatusInternalServerError, "failed to delete task")
		return
	}
	log.Printf("[task][delete][ok] id=%d", task.ID)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Task deleted",
	})
}

// findTask parses :taskId and loads the task, answering 400/404/500 itself.
func (h *TaskHandler) findTask(c *gin.Context) (*models.Task, bool) {
	id, err := strconv.ParseInt(c.Param("taskId"), 10, 64)
	if err != nil {
		failJSON(c, http.StatusBadRequest, "invalid task id")
		return nil, false
	}
	task, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[task][find][err] id=%d: %v", id, err)
		errorJSON(c, http.StatusInternalServerError, "failed to get task")
		return nil, false
	}
	if task == nil {
		failJSON(c, http.StatusNotFound, "No task found with that ID")
		return nil, false
	}
	return task, true
}
