// Package devserver is an in-memory implementation of the task backend for
// local development and tests.
package devserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"daylist/internal/logs"
	"daylist/internal/tasks/data"
)

// Server is the development backend.
type Server struct {
	store  *Store
	router *gin.Engine
}

type orderRequest struct {
	IDs []string `json:"ids"`
}

// NewServer creates a server over store.
func NewServer(store *Store) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logs.Logger.Writer()), gin.Recovery())

	s := &Server{
		store:  store,
		router: router,
	}

	api := router.Group("/api")
	{
		api.GET("/tasks", s.handleList)
		api.POST("/tasks", s.handleAdd)
		api.PUT("/tasks/order", s.handleOrder)
		api.PUT("/tasks/:id", s.handleUpdate)
		api.DELETE("/tasks/:id", s.handleDelete)
		api.POST("/tasks/:id/undo", s.handleUndo)
	}

	return s
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the server on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) handleList(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.List())
}

func (s *Server) handleAdd(c *gin.Context) {
	var task data.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task body: " + err.Error()})
		return
	}
	created, err := s.store.Add(task)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdate(c *gin.Context) {
	var task data.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task body: " + err.Error()})
		return
	}
	task.ID = c.Param("id")
	updated, err := s.store.Update(task)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDelete(c *gin.Context) {
	if err := s.store.Delete(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleUndo(c *gin.Context) {
	restored, err := s.store.Restore(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, restored)
}

func (s *Server) handleOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order body: " + err.Error()})
		return
	}
	if err := s.store.Order(req.IDs); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrInvalid):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
