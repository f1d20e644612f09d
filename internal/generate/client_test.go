package generate

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func anthropicReply(text string) string {
	b, _ := json.Marshal(map[string]any{
		"content": []map[string]string{{"type": "text", "text": text}},
	})
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key", "test-model", testLogger())
	c.baseURL = srv.URL
	return c
}

var march15 = time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

func TestGenerateEvents_ParsesEvents(t *testing.T) {
	payload := `{"events":[{"region":"Ancient Rome","title":"The Ides of March","year":"44 BC","teaser":"t","body":"b","wikipedia_url":"https://en.wikipedia.org/wiki/X","wikimedia_search_query":"q"}]}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing x-api-key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing anthropic-version header")
		}
		io.WriteString(w, anthropicReply(payload))
	})

	events, err := c.GenerateEvents(context.Background(), march15)
	if err != nil {
		t.Fatalf("GenerateEvents: %v", err)
	}
	if len(events) != 1 || events[0].Title != "The Ides of March" {
		t.Errorf("events = %+v", events)
	}
}

func TestGenerateEvents_StripsCodeFences(t *testing.T) {
	payload := "```json\n{\"events\":[{\"region\":\"Japan\",\"title\":\"Sekigahara\",\"year\":\"1600\"}]}\n```"
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, anthropicReply(payload))
	})

	events, err := c.GenerateEvents(context.Background(), march15)
	if err != nil {
		t.Fatalf("GenerateEvents: %v", err)
	}
	if len(events) != 1 || events[0].Title != "Sekigahara" {
		t.Errorf("events = %+v", events)
	}
}

func TestGenerateEvents_MalformedJSONIsFatal(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, anthropicReply("here are your events: not json"))
	})
	if _, err := c.GenerateEvents(context.Background(), march15); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestGenerateEvents_APIErrorIsFatal(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"type":"overloaded_error","message":"try later"}}`)
	})
	if _, err := c.GenerateEvents(context.Background(), march15); err == nil {
		t.Fatal("expected error on 5xx")
	}
}

func TestGenerateEvents_InvalidEventsDropped(t *testing.T) {
	payload := `{"events":[
		{"region":"Ancient Rome","title":"Kept","year":"44 BC"},
		{"region":"Atlantis","title":"Dropped","year":"1"},
		{"region":"Japan","title":"","year":"1600"}
	]}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, anthropicReply(payload))
	})

	events, err := c.GenerateEvents(context.Background(), march15)
	if err != nil {
		t.Fatalf("GenerateEvents: %v", err)
	}
	if len(events) != 1 || events[0].Title != "Kept" {
		t.Errorf("events = %+v", events)
	}
}

func TestStripCodeBlock(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, tc := range tests {
		if got := stripCodeBlock(tc.in); got != tc.want {
			t.Errorf("stripCodeBlock(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
