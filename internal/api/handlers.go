package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dgallion1/onthisday/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

type submitRequest struct {
	Date string `json:"date"` // YYYY-MM-DD, defaults to today
}

func (s *Server) handleSubmitDigest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 4096)

	date := time.Now()
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			jsonError(w, "invalid date, want YYYY-MM-DD: "+req.Date, http.StatusBadRequest)
			return
		}
		date = parsed
	}

	job := pipeline.NewJob(date)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"date":     date.Format("2006-01-02"),
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/digest/%s/status", job.ID),
	})
}

func (s *Server) handleDigestStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
