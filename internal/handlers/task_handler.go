package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"taskflow-api/internal/middleware"
	"taskflow-api/internal/models"
	"taskflow-api/internal/notify"
	"taskflow-api/internal/query"
	"taskflow-api/internal/realtime"
	"taskflow-api/internal/tasks"

	"github.com/gin-gonic/gin"
)

var (
	svc        *tasks.Service
	dispatcher notify.Dispatcher
)

// Init wires the handlers to a lifecycle service and notification dispatcher.
// Called once from route setup (and from tests with in-memory stores).
func Init(s *tasks.Service, d notify.Dispatcher) {
	svc = s
	dispatcher = d
}

// publish pushes an advisory event to everyone watching the task.
func publish(eventType string, task *models.Task, actorID string) {
	ids := append(append([]string{}, task.Assignees...), task.CreatedBy)
	realtime.GetHub().Publish(ids, realtime.Event{
		Type:    eventType,
		TaskID:  task.ID,
		ActorID: actorID,
	})
}

// multiValue gathers a query param that may be repeated or comma-separated.
func multiValue(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

/*
*
GetTasks handles GET /api/tasks
Lists the tasks visible to the authenticated actor, filtered and paginated.
Query params: page, limit, status, excludeStatus, priority, assignee,
assignees, tags, search, includeArchived.
*/
func GetTasks(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	req := tasks.ListRequest{
		Page:  page,
		Limit: limit,
		Filter: query.Filters{
			Status:          c.Query("status"),
			ExcludeStatus:   c.Query("excludeStatus"),
			Priority:        c.Query("priority"),
			Assignee:        c.Query("assignee"),
			Assignees:       multiValue(c, "assignees"),
			Tags:            multiValue(c, "tags"),
			Search:          c.Query("search"),
			IncludeArchived: c.Query("includeArchived") == "true",
		},
	}

	result, err := svc.List(actor, req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Tasks,
		"pagination": Pagination{
			Page:  result.Page,
			Limit: result.Limit,
			Total: result.Total,
			Pages: result.Pages,
		},
	})
}

// GetTask handles GET /api/tasks/:id
func GetTask(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	task, err := svc.Get(actor, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

// CreateTask handles POST /api/tasks
func CreateTask(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	var draft tasks.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	task, err := svc.Create(actor, draft)
	if err != nil {
		fail(c, err)
		return
	}

	publish("task_created", task, actor.ID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": task})
}

// UpdateTask handles PUT /api/tasks/:id
func UpdateTask(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	var patch tasks.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	task, err := svc.Update(actor, c.Param("id"), patch)
	if err != nil {
		fail(c, err)
		return
	}

	publish("task_updated", task, actor.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

// DeleteTask handles DELETE /api/tasks/:id
func DeleteTask(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	taskID := c.Param("id")
	if err := svc.Delete(actor, taskID); err != nil {
		fail(c, err)
		return
	}

	realtime.GetHub().Publish([]string{actor.ID}, realtime.Event{
		Type:    "task_deleted",
		TaskID:  taskID,
		ActorID: actor.ID,
	})
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task deleted successfully"})
}

// ArchiveTask handles PUT /api/tasks/:id/archive
func ArchiveTask(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	task, err := svc.Archive(actor, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	message := "Task unarchived successfully"
	if task.IsArchived {
		message = "Task archived successfully"
	}
	publish("task_updated", task, actor.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": task, "message": message})
}

// StartTimer handles POST /api/tasks/:id/timer/start
func StartTimer(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	task, err := svc.StartTimer(actor, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	publish("timer_started", task, actor.ID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    task,
		"message": "Timer started successfully",
	})
}

// StopTimer handles POST /api/tasks/:id/timer/stop
func StopTimer(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	task, duration, err := svc.StopTimer(actor, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	publish("timer_stopped", task, actor.ID)
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"data":            task,
		"message":         "Timer stopped successfully",
		"sessionDuration": duration,
	})
}

// AddCommentRequest is the body for POST /api/tasks/:id/comments
type AddCommentRequest struct {
	Content string `json:"content"`
}

// AddComment handles POST /api/tasks/:id/comments
func AddComment(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	task, err := svc.AddComment(actor, c.Param("id"), req.Content)
	if err != nil {
		fail(c, err)
		return
	}

	publish("comment_added", task, actor.ID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    task,
		"message": "Comment added successfully",
	})
}

// DeleteComment handles DELETE /api/tasks/:id/comments/:commentId
func DeleteComment(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	if err := svc.DeleteComment(actor, c.Param("id"), c.Param("commentId")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Comment deleted successfully"})
}

// GetActiveTimers handles GET /api/tasks/active-timers (admin only)
func GetActiveTimers(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	timers, err := svc.ActiveTimers(actor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": timers})
}

// GetAnalytics handles GET /api/tasks/analytics (admin only)
func GetAnalytics(c *gin.Context) {
	actor := middleware.ActorFromContext(c)

	analytics, err := svc.Analytics(actor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": analytics})
}
