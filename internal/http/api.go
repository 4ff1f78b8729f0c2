package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"notekeeper/internal/domain"
	"notekeeper/internal/service"
	"notekeeper/internal/storage"
	"notekeeper/internal/summarizer"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users      service.UserService
	notes      service.NoteService
	tasks      service.TaskService
	summarizer summarizer.Service
	storage    storage.Service
	bucket     string
	keyPrefix  string
	jwtSecret  []byte
	tokenTTL   time.Duration
	logger     *logrus.Logger
}

// Config carries everything the handler needs; Summarizer and Storage are
// optional and their routes are registered only when present.
type Config struct {
	Users      service.UserService
	Notes      service.NoteService
	Tasks      service.TaskService
	Summarizer summarizer.Service
	Storage    storage.Service
	Bucket     string
	KeyPrefix  string
	JWTSecret  []byte
	TokenTTL   time.Duration
	Logger     *logrus.Logger
}

func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Handler{
		users:      cfg.Users,
		notes:      cfg.Notes,
		tasks:      cfg.Tasks,
		summarizer: cfg.Summarizer,
		storage:    cfg.Storage,
		bucket:     cfg.Bucket,
		keyPrefix:  cfg.KeyPrefix,
		jwtSecret:  cfg.JWTSecret,
		tokenTTL:   cfg.TokenTTL,
		logger:     cfg.Logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(requestLogger(h.logger))

	api := router.Group("/api")
	{
		api.POST("/register", h.register)
		api.POST("/login", h.login)
		api.POST("/logout", h.logout)
		api.GET("/me", h.me)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}

	session := api.Group("")
	session.Use(h.requireSession())
	{
		session.GET("/notes", h.listNotes)
		session.POST("/notes", h.createNote)
		session.PUT("/notes/:id", h.updateNote)
		session.DELETE("/notes/:id", h.deleteNote)

		session.GET("/tasks", h.listTasks)
		session.POST("/tasks", h.createTask)
		session.PUT("/tasks/:id", h.updateTask)
		session.DELETE("/tasks/:id", h.deleteTask)

		session.POST("/summarize", h.summarize)

		if h.storage != nil && h.bucket != "" {
			session.POST("/backups", h.createBackup)
			session.GET("/backups", h.listBackups)
			session.DELETE("/backups", h.deleteBackups)
		}
	}
}

// serverError logs the underlying cause and hides it from the client.
func (h *Handler) serverError(c *gin.Context, op string, err error) {
	h.logger.WithError(err).Errorf("%s failed", op)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return 0, false
	}
	return id, true
}

// Notes ------------------------------------------------------------------

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type NoteResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func noteToResponse(note domain.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt.Format(time.RFC3339),
		UpdatedAt: note.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) listNotes(c *gin.Context) {
	notes, err := h.notes.ListNotes(c.Request.Context(), sessionUserID(c))
	if err != nil {
		h.serverError(c, "list notes", err)
		return
	}

	resp := make([]NoteResponse, len(notes))
	for i := range notes {
		resp[i] = noteToResponse(notes[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	note, err := h.notes.CreateNote(c.Request.Context(), sessionUserID(c), req.Title, req.Content)
	if err != nil {
		h.serverError(c, "create note", err)
		return
	}

	c.JSON(http.StatusCreated, noteToResponse(*note))
}

func (h *Handler) updateNote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	note, err := h.notes.UpdateNote(c.Request.Context(), sessionUserID(c), id, req.Title, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrNotOwned) {
			// same answer whether the note is absent or owned by someone else
			c.JSON(http.StatusNotFound, gin.H{"message": "Note not found"})
			return
		}
		h.serverError(c, "update note", err)
		return
	}

	c.JSON(http.StatusOK, noteToResponse(*note))
}

func (h *Handler) deleteNote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.notes.DeleteNote(c.Request.Context(), sessionUserID(c), id); err != nil {
		h.serverError(c, "delete note", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// Tasks ------------------------------------------------------------------

type createTaskRequest struct {
	Text string `json:"text"`
}

type updateTaskRequest struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type TaskResponse struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func taskToResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		Text:      task.Text,
		Done:      task.Done,
		CreatedAt: task.CreatedAt.Format(time.RFC3339),
		UpdatedAt: task.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) listTasks(c *gin.Context) {
	tasks, err := h.tasks.ListTasks(c.Request.Context(), sessionUserID(c))
	if err != nil {
		h.serverError(c, "list tasks", err)
		return
	}

	resp := make([]TaskResponse, len(tasks))
	for i := range tasks {
		resp[i] = taskToResponse(tasks[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), sessionUserID(c), req.Text)
	if err != nil {
		h.serverError(c, "create task", err)
		return
	}

	c.JSON(http.StatusCreated, taskToResponse(*task))
}

func (h *Handler) updateTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), sessionUserID(c), id, req.Text, req.Done)
	if err != nil {
		if errors.Is(err, service.ErrNotOwned) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
			return
		}
		h.serverError(c, "update task", err)
		return
	}

	c.JSON(http.StatusOK, taskToResponse(*task))
}

func (h *Handler) deleteTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), sessionUserID(c), id); err != nil {
		h.serverError(c, "delete task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// Summarize --------------------------------------------------------------

type summarizeRequest struct {
	Content string `json:"content"`
}

func (h *Handler) summarize(c *gin.Context) {
	if h.summarizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Summarization is not configured"})
		return
	}

	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "content is required"})
		return
	}

	summary, err := h.summarizer.Summarize(c.Request.Context(), req.Content)
	if err != nil {
		h.logger.WithError(err).Error("summarize failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to summarize"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// Backups ----------------------------------------------------------------

type BackupResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

type backupSnapshot struct {
	ExportedAt string         `json:"exported_at"`
	Notes      []NoteResponse `json:"notes"`
	Tasks      []TaskResponse `json:"tasks"`
}

func (h *Handler) userPrefix(userID int64) string {
	return fmt.Sprintf("%s/user-%d", h.keyPrefix, userID)
}

func (h *Handler) createBackup(c *gin.Context) {
	userID := sessionUserID(c)
	ctx := c.Request.Context()

	notes, err := h.notes.ListNotes(ctx, userID)
	if err != nil {
		h.serverError(c, "collect notes for backup", err)
		return
	}
	tasks, err := h.tasks.ListTasks(ctx, userID)
	if err != nil {
		h.serverError(c, "collect tasks for backup", err)
		return
	}

	snapshot := backupSnapshot{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Notes:      make([]NoteResponse, len(notes)),
		Tasks:      make([]TaskResponse, len(tasks)),
	}
	for i := range notes {
		snapshot.Notes[i] = noteToResponse(notes[i])
	}
	for i := range tasks {
		snapshot.Tasks[i] = taskToResponse(tasks[i])
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		h.serverError(c, "encode backup", err)
		return
	}

	key := fmt.Sprintf("%s/%s.json", h.userPrefix(userID), uuid.NewString())
	location, err := h.storage.PutSnapshot(ctx, h.bucket, key, data)
	if err != nil {
		h.serverError(c, "upload backup", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"location": location})
}

func (h *Handler) listBackups(c *gin.Context) {
	snapshots, err := h.storage.ListSnapshots(c.Request.Context(), h.bucket, h.userPrefix(sessionUserID(c))+"/")
	if err != nil {
		h.serverError(c, "list backups", err)
		return
	}

	resp := make([]BackupResponse, len(snapshots))
	for i, snap := range snapshots {
		resp[i] = BackupResponse{
			Key:  snap.Key,
			Size: snap.Size,
		}
		if snap.LastModified != nil && !snap.LastModified.IsZero() {
			v := snap.LastModified.Format(time.RFC3339)
			resp[i].LastModified = &v
		}
	}
	c.JSON(http.StatusOK, resp)
}

// deleteBackups removes every snapshot under the caller's prefix. Other
// users' snapshots are out of reach by construction.
func (h *Handler) deleteBackups(c *gin.Context) {
	prefix := h.userPrefix(sessionUserID(c)) + "/"
	if err := h.storage.DeletePrefix(c.Request.Context(), h.bucket, prefix); err != nil {
		h.serverError(c, "delete backups", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
