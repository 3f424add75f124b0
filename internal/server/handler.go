// Package server implements the backing-store REST contract the client
// expects: GET/POST /tarefas, GET/DELETE /tarefas/{id}.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/Makepad-fr/tarefas/internal/model"
	"github.com/Makepad-fr/tarefas/internal/store"
)

// createTaskRequest is the accepted POST body. Any id sent is ignored.
type createTaskRequest struct {
	Titulo    string `json:"titulo" validate:"required,max=200"`
	Descricao string `json:"descricao" validate:"required"`
	Data      string `json:"data" validate:"required,datetime=2006-01-02"`
}

// Handler is the HTTP layer over a store.Store.
type Handler struct {
	store    store.Store
	validate *validator.Validate
	log      *log.Logger
}

// NewHandler wires a handler to st.
func NewHandler(st store.Store, logger *log.Logger) *Handler {
	return &Handler{
		store:    st,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logger,
	}
}

// Router builds the chi router with logging and panic recovery.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(LoggingMiddleware(h.log))
	r.Use(chiMiddleware.Recoverer)

	r.Route("/tarefas", func(r chi.Router) {
		r.Use(JSONHeaderMiddleware)
		r.Get("/", h.listTasks)
		r.Post("/", h.createTask)
		r.Get("/{id}", h.getTask)
		r.Delete("/{id}", h.deleteTask)
	})
	return r
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "failed to load tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Titulo = strings.TrimSpace(req.Titulo)
	req.Descricao = strings.TrimSpace(req.Descricao)
	req.Data = strings.TrimSpace(req.Data)
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	created, err := h.store.Create(r.Context(), model.Task{
		Titulo:    req.Titulo,
		Descricao: req.Descricao,
		Data:      req.Data,
	})
	if err != nil {
		h.fail(w, r, err, "failed to save task")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.Get(r.Context(), model.ID(chi.URLParam(r, "id")))
	if err != nil {
		h.fail(w, r, err, "failed to get task")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), model.ID(chi.URLParam(r, "id"))); err != nil {
		h.fail(w, r, err, "failed to delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps store errors to status codes.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	h.log.Error(msg, "err", err, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, msg)
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "datetime":
			parts = append(parts, field+" must be YYYY-MM-DD")
		default:
			parts = append(parts, field+" failed "+fe.Tag())
		}
	}
	return strings.Join(parts, "; ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	writeJSON(w, status, map[string]string{"error": msg})
}
