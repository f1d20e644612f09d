package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/onthisday/internal/config"
	"github.com/dgallion1/onthisday/internal/pipeline"
)

// The orchestrator is never started: submitted jobs stay queued, which is
// all the handlers need.
func testServer(t *testing.T) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(nil, log, 4, time.Hour)
	return NewServer(orch, log, config.Config{DigestAPIKey: "secret"})
}

func TestHealthIsPublic(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestSubmitRequiresAuth(t *testing.T) {
	srv := testServer(t)

	for name, header := range map[string]string{
		"missing": "",
		"wrong":   "Bearer nope",
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/digest", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s token: status = %d", name, rec.Code)
		}
	}
}

func TestSubmitDigest(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/digest", strings.NewReader(`{"date":"2026-03-15"}`))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	jobID, _ := resp["job_id"].(string)
	if jobID == "" {
		t.Fatal("response has no job_id")
	}
	if resp["date"] != "2026-03-15" {
		t.Errorf("date = %v", resp["date"])
	}
	if resp["poll_url"] != "/api/digest/"+jobID+"/status" {
		t.Errorf("poll_url = %v", resp["poll_url"])
	}

	// The submitted job is immediately pollable.
	req = httptest.NewRequest(http.MethodGet, "/api/digest/"+jobID+"/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status poll = %d", rec.Code)
	}
	var snap pipeline.JobSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Status != pipeline.StatusQueued {
		t.Errorf("job status = %q", snap.Status)
	}
}

func TestSubmitDigest_BadDate(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/digest", strings.NewReader(`{"date":"15/03/2026"}`))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestDigestStatus_UnknownJob(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/digest/deadbeef/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}
