package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Avaneesh2012/futuride/internal/executor"
	"github.com/Avaneesh2012/futuride/internal/languages"
	"github.com/Avaneesh2012/futuride/internal/queue"
	"github.com/google/uuid"
)

type Handler struct {
	queueManager *queue.Manager
	registry     *languages.Registry
	jobTimeout   time.Duration
	maxBodyBytes int64
}

// NewHandler builds the API handler. jobTimeout bounds the whole
// round-trip through the queue; it should exceed the execution timeout so
// a slow-but-legal run is not cut off while queued.
func NewHandler(manager *queue.Manager, registry *languages.Registry, jobTimeout time.Duration, maxBodyBytes int64) *Handler {
	return &Handler{
		queueManager: manager,
		registry:     registry,
		jobTimeout:   jobTimeout,
		maxBodyBytes: maxBodyBytes,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type previewResponse struct {
	HTMLPreview string `json:"html_preview"`
}

// Execute handles POST /api/execute. The response mirrors the result
// shape: {"output": ..., "error": ..., "success": ...} for executions,
// {"html_preview": ...} for preview languages, and a bare {"error": ...}
// with a 4xx status when the request never reaches a runner.
func (h *Handler) Execute(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var req executor.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	if req.Language == "" {
		req.Language = "python"
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.jobTimeout)
	defer cancel()

	job := &queue.Job{
		ID:      uuid.NewString(),
		Request: req,
		Result:  make(chan *executor.Response, 1),
		Ctx:     ctx,
	}

	if !h.queueManager.Submit(job) {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Server is busy. Please try again later."})
		return
	}

	select {
	case resp := <-job.Result:
		switch resp.Status {
		case executor.StatusValidationError, executor.StatusUnsupported:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: *resp.Error})
		case executor.StatusPreview:
			writeJSON(w, http.StatusOK, previewResponse{HTMLPreview: resp.HTMLPreview})
		default:
			writeJSON(w, http.StatusOK, resp)
		}
	case <-ctx.Done():
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "Execution timed out"})
	}
}

// Languages handles GET /api/languages, returning the supported language
// set with editor metadata and starter templates.
func (h *Handler) Languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.List())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
