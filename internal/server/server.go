// Package server is the local REST backend the task table talks to.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/riordanpawley/tasktable/internal/domain"
)

// Repository is the persistence the handlers need
type Repository interface {
	List(ctx context.Context, projectID string, withSubtasks bool) ([]domain.Task, error)
	Children(ctx context.Context, parentID string) ([]domain.Task, error)
	Get(ctx context.Context, id string) (domain.Task, error)
	Insert(ctx context.Context, task domain.Task) (domain.Task, error)
	Update(ctx context.Context, id string, update domain.TaskUpdate, ifVersion int64) (domain.Task, error)
	Delete(ctx context.Context, id string) error
	Users(ctx context.Context) ([]domain.Assignee, error)
}

// Server is the task REST server
type Server struct {
	repo   Repository
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a new server
func NewServer(repo Repository, logger *slog.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{
		repo:   repo,
		router: router,
		logger: logger,
	}

	// API routes
	api := router.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/users", s.handleUsers)
		api.GET("/projects/:id/tasks", s.handleListTasks)
		api.POST("/projects/:id/tasks", s.handleCreateTask)
		api.GET("/tasks/:id", s.handleGetTask)
		api.GET("/tasks/:id/subtasks", s.handleSubtasks)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
	}

	return s
}

// Handler exposes the router for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs each request through slog instead of gin's stdout writer
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
