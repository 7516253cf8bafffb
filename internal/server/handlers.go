package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/riordanpawley/tasktable/internal/domain"
)

const maxBodySize = 64 << 10 // 64KB

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleUsers(c *gin.Context) {
	users, err := s.repo.Users(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (s *Server) handleListTasks(c *gin.Context) {
	projectID := c.Param("id")
	withSubtasks := c.Query("include") == "subtasks"

	tasks, err := s.repo.List(c.Request.Context(), projectID, withSubtasks)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)

	var task domain.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task.ProjectID = c.Param("id")

	created, err := s.repo.Insert(c.Request.Context(), task)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleSubtasks(c *gin.Context) {
	tasks, err := s.repo.Children(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id := c.Param("id")

	version, err := parseIfMatch(c.GetHeader("If-Match"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid If-Match header"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
	var update domain.TaskUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := s.repo.Update(c.Request.Context(), id, update, version)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.logger.Debug("task updated", "id", id, "fields", update.Fields(), "version", task.Version)
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id := c.Param("id")
	if err := s.repo.Delete(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}

	s.logger.Debug("task deleted", "id", id)
	c.Status(http.StatusNoContent)
}

// parseIfMatch reads a task version from If-Match; empty or * means unconditional
func parseIfMatch(v string) (int64, error) {
	v = strings.Trim(strings.TrimSpace(v), `"`)
	if v == "" || v == "*" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, domain.ErrInvalidValue
	}
	return n, nil
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidValue):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
